package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/slovensko-digital/autoform-mcp-server/internal/autoform"
)

// queryCorporateBodiesArgs holds the arguments for the search tool. Limit is
// a pointer so an absent argument (default applies) stays distinguishable
// from an explicit out-of-range zero.
type queryCorporateBodiesArgs struct {
	Query      string `json:"query"`
	Limit      *int   `json:"limit,omitempty"`
	ActiveOnly bool   `json:"active_only,omitempty"`
}

func queryCorporateBodiesTool() mcp.Tool {
	return mcp.NewTool("query_corporate_bodies",
		mcp.WithDescription("Search the Slovak Autoform registry for corporate bodies "+
			"by name or company identification number (IČO). "+
			"The query must be of the form 'name:<text>' or 'cin:<identifier>'."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Query expression, e.g. 'name:Slovensko.Digital' or 'cin:36631124'"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-20)"),
			mcp.DefaultNumber(autoform.DefaultLimit),
			mcp.Min(autoform.MinLimit),
			mcp.Max(autoform.MaxLimit),
		),
		mcp.WithBoolean("active_only",
			mcp.Description("Return only active (non-terminated) entities"),
			mcp.DefaultBool(false),
		),
		mcp.WithTitleAnnotation("Search corporate bodies"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

// QueryCorporateBodies handles one invocation of the search tool: parse the
// query, resolve the credential, issue one upstream call, return the result
// envelope. Every error is terminal for the invocation and is reported as a
// tool failure, never as a silent empty result.
func (h *Handler) QueryCorporateBodies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := &queryCorporateBodiesArgs{}
	if err := request.BindArguments(args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse arguments: %v", err)), nil
	}

	limit := autoform.DefaultLimit
	if args.Limit != nil {
		limit = *args.Limit
	}
	if limit < autoform.MinLimit || limit > autoform.MaxLimit {
		return mcp.NewToolResultError(fmt.Sprintf(
			"limit must be between %d and %d, got %d",
			autoform.MinLimit, autoform.MaxLimit, limit)), nil
	}

	filter, err := autoform.ParseQuery(args.Query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filter.Limit = limit
	filter.ActiveOnly = args.ActiveOnly

	token, err := h.resolver.Resolve(autoform.RequestContextFrom(ctx))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := h.searcher.Search(ctx, filter, token)
	if err != nil {
		h.logger.Warn("corporate body search failed",
			zap.String("field", string(filter.Field)),
			zap.Error(err),
		)
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.logger.Debug("corporate body search completed",
		zap.String("field", string(filter.Field)),
		zap.Int("count", result.Count),
	)

	return mcp.NewToolResultStructuredOnly(result), nil
}
