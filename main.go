package main

import (
	"os"

	"github.com/shopassist/shopassist/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
