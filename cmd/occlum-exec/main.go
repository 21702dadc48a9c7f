package main

import (
	"os"

	"github.com/msto63/occlum-exec/cmd/occlum-exec/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
