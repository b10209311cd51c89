package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResource wraps v as a single JSON text resource.
func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
