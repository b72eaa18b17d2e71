package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAPIInfo(t *testing.T) {
	t.Parallel()
	h := NewHandler(nil, nil, nil)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = APIInfoURI

	contents, err := h.ReadAPIInfo(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, APIInfoURI, text.URI)
	assert.Equal(t, "application/json", text.MIMEType)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &info))
	assert.Equal(t, "Autoform API", info["name"])
	assert.Contains(t, info, "endpoint")
	assert.Contains(t, info, "authentication")
}

func TestSearchCompanyPrompt(t *testing.T) {
	t.Parallel()
	h := NewHandler(nil, nil, nil)

	req := mcp.GetPromptRequest{}
	req.Params.Name = "search_company_prompt"
	req.Params.Arguments = map[string]string{"company_name": "Slovenská pošta"}

	result, err := h.SearchCompanyPrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	content, ok := result.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, content.Text, "Slovenská pošta")
	assert.Contains(t, content.Text, "query_corporate_bodies")
}

func TestSearchCompanyPromptRequiresName(t *testing.T) {
	t.Parallel()
	h := NewHandler(nil, nil, nil)

	req := mcp.GetPromptRequest{}
	req.Params.Name = "search_company_prompt"

	_, err := h.SearchCompanyPrompt(context.Background(), req)
	require.Error(t, err)
}
