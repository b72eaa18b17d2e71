// Package server assembles the MCP server: the corporate-body search tool,
// the API info resource, and the search prompt.
package server

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/slovensko-digital/autoform-mcp-server/internal/autoform"
)

// Name is the MCP server name advertised during initialization.
const Name = "Autoform MCP Server"

// Searcher is the upstream lookup the tool handler depends on.
type Searcher interface {
	Search(ctx context.Context, filter autoform.SearchFilter, token string) (*autoform.SearchResult, error)
}

// Options configures the server assembly.
type Options struct {
	// Endpoint overrides the upstream search endpoint. Empty selects the
	// production Autoform API.
	Endpoint string

	// Timeout is the upstream request timeout. Zero selects the default.
	Timeout time.Duration

	// Version is the advertised server version.
	Version string

	// Logger receives structured logs. Nil disables logging.
	Logger *zap.Logger
}

// Handler holds the dependencies of the registered MCP surfaces.
type Handler struct {
	searcher Searcher
	resolver *autoform.TokenResolver
	logger   *zap.Logger
}

// NewHandler creates a handler with explicit dependencies. Used by tests.
func NewHandler(searcher Searcher, resolver *autoform.TokenResolver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{searcher: searcher, resolver: resolver, logger: logger}
}

// New builds the MCP server and registers the tool, resource, and prompt.
func New(opts Options) *server.MCPServer {
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	h := NewHandler(
		autoform.NewClient(opts.Endpoint, opts.Timeout, opts.Logger),
		autoform.NewTokenResolver(),
		opts.Logger,
	)

	s := server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(queryCorporateBodiesTool(), h.QueryCorporateBodies)
	s.AddResource(apiInfoResource(), h.ReadAPIInfo)
	s.AddPrompt(searchCompanyPrompt(), h.SearchCompanyPrompt)

	return s
}
