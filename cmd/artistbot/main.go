package main

import (
	"os"

	"github.com/bnema/suno-artist-bot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
