// Package main provides the emovox CLI.
//
// Usage:
//
//	emovox [flags] <command> [args]
//
// Commands:
//
//	serve     - Run the HTTP and websocket API
//	classify  - Score a feature vector with the emotion rules
//	route     - Show the target language for a source language code
//	process   - Run the full-clip workflow on a local file
package main

import (
	"fmt"
	"os"

	"github.com/xpanvictor/emovox/cmd/emovox/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
