// Package mcp exposes the sizing pipeline as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"encoding/json"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/sizing"
)

// Server holds the state for the MCP server.
type Server struct {
	sizing              *sizing.Service
	enableMermaidCharts bool
	version             string
}

// NewServer creates a new MCP server backed by svc.
func NewServer(svc *sizing.Service, enableMermaidCharts bool, version string) *Server {
	return &Server{
		sizing:              svc,
		enableMermaidCharts: enableMermaidCharts,
		version:             version,
	}
}

// Build registers every tool on a fresh protocol server.
func (s *Server) Build() *sdk.Server {
	srv := sdk.NewServer(&sdk.Implementation{Name: "mvo-sim", Version: s.version}, nil)
	s.registerTools(srv)
	return srv
}

// Start serves the tools over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Str("version", s.version).Msg("MCP Server starting Stdio loop")
	return s.Build().Run(ctx, &sdk.StdioTransport{})
}

// handle adapts a plain handler to the protocol, rendering its data as indented JSON text.
func handle[In any](name string, h func(context.Context, In) (interface{}, error)) sdk.ToolHandlerFor[In, any] {
	return func(ctx context.Context, _ *sdk.CallToolRequest, in In) (*sdk.CallToolResult, any, error) {
		data, err := h(ctx, in)
		if err != nil {
			log.Error().Err(err).Str("tool", name).Msg("Tool call failed")
			return nil, nil, err
		}
		return &sdk.CallToolResult{
			Content: []sdk.Content{&sdk.TextContent{Text: formatResult(data)}},
		}, nil, nil
	}
}

func formatResult(data interface{}) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}
