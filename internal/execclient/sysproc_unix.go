//go:build unix

package execclient

import (
	"os/exec"
	"syscall"
)

// detach puts the service in its own process group so terminal signals
// aimed at the client do not reach it
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
