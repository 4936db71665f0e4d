// Package main is the entry point for the estimate CLI.
package main

import (
	"os"

	"detailing-bot/cmd/estimate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
