package main

import (
	"os"

	"github.com/wonny/investor/cmd/investor/commands"
)

// main is the entry point for the investor CLI
// ⭐ single CLI entry point: go run ./cmd/investor [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
