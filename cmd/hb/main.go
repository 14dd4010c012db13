package main

import (
	"os"

	"github.com/scbrown/habits/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
