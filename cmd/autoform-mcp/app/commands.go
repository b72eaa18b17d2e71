// Package app provides the entry point for the Autoform MCP application.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/slovensko-digital/autoform-mcp-server/internal/version"
)

var rootCmd = &cobra.Command{
	Use:               "autoform-mcp",
	DisableAutoGenTag: true,
	Short:             "MCP server for the Slovak Autoform corporate-body registry",
	Long: `Autoform MCP server exposes the Slovensko.Digital Autoform corporate-body
search as a tool callable by MCP clients, over stdio or streamable HTTP.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			slog.Error("Error displaying help", "error", err)
		}
	},
}

// NewRootCmd creates a new root command for the Autoform MCP server.
func NewRootCmd() *cobra.Command {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := version.GetInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			slog.Error("Error retrieving format flag", "error", err)
			return
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				slog.Error("Error marshaling version info", "error", err)
				return
			}
			fmt.Println(string(output))
			return
		}

		fmt.Printf("autoform-mcp %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date)
	},
}

func init() {
	versionCmd.Flags().String("format", "text", "Output format (text or json)")
}
