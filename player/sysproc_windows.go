//go:build windows

package player

import (
	"os/exec"
	"syscall"
)

// detached keeps the console window hidden for mpv.
func detached() *syscall.SysProcAttr {
	const createNoWindow = 0x08000000
	return &syscall.SysProcAttr{CreationFlags: createNoWindow}
}

// terminate kills the mpv process.
func terminate(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
