// Command docley ingests documents into searchable chunks and serves
// retrieval and rewriting over HTTP, MCP and the command line.
package main

import (
	"os"

	"github.com/custodia-labs/docley/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
