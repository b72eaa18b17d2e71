package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/slovensko-digital/autoform-mcp-server/internal/autoform"
	"github.com/slovensko-digital/autoform-mcp-server/internal/config"
	logpkg "github.com/slovensko-digital/autoform-mcp-server/internal/logger"
	"github.com/slovensko-digital/autoform-mcp-server/internal/server"
	"github.com/slovensko-digital/autoform-mcp-server/internal/version"
)

var queryCmd = &cobra.Command{
	Use:   "query <expression>",
	Short: "Query the registry from the command line",
	Long: `Query the Autoform registry through an in-process MCP client,
exercising the same tool an MCP host would call.

Examples:
  autoform-mcp query "name:Slovenská pošta"
  autoform-mcp query "cin:36631124"
  autoform-mcp query "name:Test" --limit 10
  autoform-mcp query "name:Test" --active-only
  autoform-mcp query "cin:366" --limit 20 --active-only`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Int("limit", autoform.DefaultLimit, "Maximum number of results (1-20)")
	queryCmd.Flags().Bool("active-only", false, "Return only active (non-terminated) entities")
	queryCmd.Flags().Bool("json", false, "Output raw JSON response")
	queryCmd.Flags().String("config", "", "Path to configuration file (YAML format, optional)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	limit, _ := cmd.Flags().GetInt("limit")
	activeOnly, _ := cmd.Flags().GetBool("active-only")
	outputJSON, _ := cmd.Flags().GetBool("json")

	var cfgOpts []config.Option
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfgOpts = append(cfgOpts, config.WithConfigPath(path))
	}
	cfg, err := config.LoadConfig(cfgOpts...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logpkg.NewLogger(false, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	info := version.GetInfo()
	mcpSrv := server.New(server.Options{
		Endpoint: cfg.GetEndpoint(),
		Timeout:  cfg.GetTimeout(),
		Version:  info.Version,
		Logger:   logger,
	})

	c, err := client.NewInProcessClient(mcpSrv)
	if err != nil {
		return fmt.Errorf("failed to create in-process client: %w", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("failed to start client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "autoform-mcp-cli", Version: info.Version}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}

	callReq := mcp.CallToolRequest{}
	callReq.Params.Name = "query_corporate_bodies"
	callReq.Params.Arguments = map[string]any{
		"query":       args[0],
		"limit":       limit,
		"active_only": activeOnly,
	}

	res, err := c.CallTool(ctx, callReq)
	if err != nil {
		return fmt.Errorf("tool call failed: %w", err)
	}
	if res.IsError {
		return fmt.Errorf("query failed: %s", toolErrorText(res))
	}

	result, err := decodeSearchResult(res)
	if err != nil {
		return err
	}

	if outputJSON {
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	printSearchResult(result)
	return nil
}

// toolErrorText extracts the failure message from a tool error result.
func toolErrorText(res *mcp.CallToolResult) string {
	for _, content := range res.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return "unknown error"
}

// decodeSearchResult maps the structured tool result back onto the typed
// envelope.
func decodeSearchResult(res *mcp.CallToolResult) (*autoform.SearchResult, error) {
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		return nil, fmt.Errorf("failed to read structured result: %w", err)
	}
	var result autoform.SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode search result: %w", err)
	}
	return &result, nil
}

// printSearchResult renders the result for human consumption, field by field.
func printSearchResult(result *autoform.SearchResult) {
	fmt.Printf("Found %d result(s):\n\n", result.Count)

	for i, body := range result.Results {
		fmt.Printf("[%d] %s\n", i+1, orNA(body.Name))
		fmt.Printf("    IČO: %s\n", orNA(body.CIN))
		fmt.Printf("    DIČ: %s\n", orNA(body.TIN))
		if body.VATIN != nil {
			fmt.Printf("    IČ DPH: %s\n", *body.VATIN)
		}
		fmt.Printf("    Address: %s\n", orNA(body.FormattedAddress))
		if body.EstablishedOn != nil {
			fmt.Printf("    Established: %s\n", *body.EstablishedOn)
		}
		if body.TerminatedOn != nil {
			fmt.Printf("    Terminated: %s\n", *body.TerminatedOn)
		}
		if body.DatahubURL != nil {
			fmt.Printf("    DataHub: %s\n", *body.DatahubURL)
		}
		fmt.Println()
	}
}

func orNA(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}
