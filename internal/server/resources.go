package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/slovensko-digital/autoform-mcp-server/internal/autoform"
)

// APIInfoURI identifies the API info resource.
const APIInfoURI = "autoform://api-info"

const apiInfoJSON = `{
  "name": "Autoform API",
  "provider": "Slovensko.Digital",
  "endpoint": "` + autoform.DefaultEndpoint + `",
  "description": "Search endpoint for Slovak corporate bodies. Accepts queries by registered name or company identification number (IČO).",
  "query_parameters": {
    "q": "search expression of the form name:<text> or cin:<identifier>",
    "limit": "maximum number of results (1-20)",
    "filter": "optional, 'active' restricts results to non-terminated entities"
  },
  "authentication": "private access token, via Authorization: Bearer header, x-autoform-private-access-token header, or the AUTOFORM_PRIVATE_ACCESS_TOKEN environment variable"
}`

func apiInfoResource() mcp.Resource {
	return mcp.NewResource(APIInfoURI, "Autoform API information",
		mcp.WithResourceDescription("Metadata about the upstream Autoform registry API"),
		mcp.WithMIMEType("application/json"),
	)
}

// ReadAPIInfo serves the static API info resource.
func (*Handler) ReadAPIInfo(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     apiInfoJSON,
		},
	}, nil
}

func searchCompanyPrompt() mcp.Prompt {
	return mcp.NewPrompt("search_company_prompt",
		mcp.WithPromptDescription("Guide for searching a company in the Slovak registry"),
		mcp.WithArgument("company_name",
			mcp.ArgumentDescription("Name of the company to search for"),
			mcp.RequiredArgument(),
		),
	)
}

// SearchCompanyPrompt renders the search guidance prompt for a company name.
func (*Handler) SearchCompanyPrompt(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	companyName := request.Params.Arguments["company_name"]
	if companyName == "" {
		return nil, fmt.Errorf("company_name argument is required")
	}

	text := fmt.Sprintf(
		"Search the Slovak corporate-body registry for %q using the "+
			"query_corporate_bodies tool with the query 'name:%s'. "+
			"If you know the company identification number (IČO) instead, "+
			"use 'cin:<number>'. Summarize the registered name, IČO, address, "+
			"and whether the entity is still active.",
		companyName, companyName)

	return mcp.NewGetPromptResult(
		fmt.Sprintf("Search for company %q", companyName),
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}
