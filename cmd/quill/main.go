// Package main is the entrypoint for the quill CLI.
package main

import (
	"os"

	"github.com/quill-sh/quill/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
