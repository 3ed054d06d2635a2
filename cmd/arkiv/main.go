package main

import (
	"os"

	"github.com/arkiv-dev/arkiv/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
