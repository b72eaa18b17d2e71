// Package main is the entry point for the Autoform MCP server.
package main

import (
	"os"

	"github.com/slovensko-digital/autoform-mcp-server/cmd/autoform-mcp/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
