package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// jsonResponse wraps a payload as MCP text content.
func jsonResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %v", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

// errorResponse reports a tool failure as a structured payload rather
// than a protocol error, so clients can read the message and retry with
// fixed parameters.
func errorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	payload := map[string]interface{}{
		"success":   false,
		"operation": operation,
		"error":     err.Error(),
	}

	result, marshalErr := jsonResponse(payload)
	if marshalErr != nil {
		return nil, marshalErr
	}
	result.IsError = true
	return result, nil
}
