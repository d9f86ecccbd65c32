package main

import (
	"os"

	"github.com/rustyeddy/streamta/cmd/streamta/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
