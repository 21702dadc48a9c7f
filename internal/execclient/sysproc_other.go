//go:build !unix

package execclient

import "os/exec"

func detach(cmd *exec.Cmd) {}
