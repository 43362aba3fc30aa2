// Package mcpserver exposes the Squarespace API as MCP tools.
//
// Each tool is a thin mapping: validate input, call one method on the
// resilient API client, serialize the result as a text payload. No tool
// builds raw HTTP requests itself.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/sqsp-tools/squarespace-mcp/internal/api"
	"github.com/sqsp-tools/squarespace-mcp/internal/version"
)

// ToolInfo describes one registered tool, for catalog listings.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server wraps an MCP server bound to one API client.
type Server struct {
	client  *api.Client
	mcp     *mcpserver.MCPServer
	log     zerolog.Logger
	catalog []ToolInfo
}

// New creates a Server with the full tool catalog registered.
func New(client *api.Client, log zerolog.Logger) *Server {
	s := &Server{
		client: client,
		log:    log,
	}
	s.mcp = mcpserver.NewMCPServer(
		"squarespace",
		version.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions("Tools for the Squarespace commerce, content, profiles, and webhook APIs. List operations are cursor-paginated: pass the previous response's nextPageCursor to fetch the next page."),
	)

	s.registerProductTools()
	s.registerInventoryTools()
	s.registerOrderTools()
	s.registerProfileTools()
	s.registerWebhookTools()
	s.registerContentTools()

	return s
}

// Tools returns the registered tool catalog in registration order.
func (s *Server) Tools() []ToolInfo {
	return s.catalog
}

// ServeStdio serves MCP over stdin/stdout until EOF.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.log.Info().Int("tools", len(s.catalog)).Msg("serving MCP over stdio")
	return mcpserver.ServeStdio(s.mcp)
}

// ServeSSE serves MCP over HTTP server-sent events on addr.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	s.log.Info().Str("addr", addr).Int("tools", len(s.catalog)).Msg("serving MCP over SSE")
	sse := mcpserver.NewSSEServer(s.mcp)
	context.AfterFunc(ctx, func() {
		_ = sse.Shutdown(context.Background())
	})
	return sse.Start(addr)
}

// addTool registers a tool and records it in the catalog.
func (s *Server) addTool(tool mcp.Tool, handler mcpserver.ToolHandlerFunc) {
	s.mcp.AddTool(tool, s.logged(tool.Name, handler))
	s.catalog = append(s.catalog, ToolInfo{
		Name:        tool.Name,
		Description: tool.Description,
	})
}

func (s *Server) logged(name string, handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.log.Debug().Str("tool", name).Msg("tool call")
		result, err := handler(ctx, request)
		if err != nil {
			s.log.Debug().Str("tool", name).Err(err).Msg("tool call failed")
		}
		return result, err
	}
}

// jsonResult serializes v as the tool's text payload.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// rawResult passes an API response body through unchanged.
func rawResult(raw json.RawMessage) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(string(raw)), nil
}

// errorResult shapes a normalized API error into a tool error result so the
// calling agent sees status, type, message, and field errors.
func errorResult(err error) (*mcp.CallToolResult, error) {
	apiErr := api.AsAPIError(err)
	data, merr := json.MarshalIndent(apiErr, "", "  ")
	if merr != nil {
		return mcp.NewToolResultError(apiErr.Error()), nil
	}
	return mcp.NewToolResultError(string(data)), nil
}

// objectArg extracts a JSON-object argument by key.
func objectArg(request mcp.CallToolRequest, key string) (map[string]any, bool) {
	obj, ok := request.GetArguments()[key].(map[string]any)
	return obj, ok
}
