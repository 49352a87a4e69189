//go:build !windows

package player

import (
	"os/exec"
	"syscall"
)

// detached puts mpv in its own process group so Ctrl+C in the interface does not reach it.
func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// terminate kills mpv along with any helpers it spawned, such as yt-dlp.
func terminate(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	return cmd.Process.Kill()
}
