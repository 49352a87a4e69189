// Package open hands links to the user's browser.
package open

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/tubular-cli/tubular/constant"
)

// Start opens target with $BROWSER if set, otherwise with the platform's default handler.
// It does not wait for the browser to exit.
func Start(target string) error {
	cmd, err := command(target)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Share opens the public watch page of a video.
func Share(videoID string) error {
	return Start(ShareURL(videoID))
}

// ShareURL returns the public watch page of a video.
func ShareURL(videoID string) string {
	return constant.WatchURL + url.QueryEscape(videoID)
}

func command(target string) (*exec.Cmd, error) {
	if browser := os.Getenv("BROWSER"); browser != "" {
		return exec.Command(browser, target), nil
	}

	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", target), nil
	case constant.Darwin:
		return exec.Command("open", target), nil
	case constant.Linux:
		return exec.Command("xdg-open", target), nil
	case constant.Android:
		return exec.Command("termux-open", target), nil
	default:
		return nil, fmt.Errorf("no browser handler for %s", runtime.GOOS)
	}
}
