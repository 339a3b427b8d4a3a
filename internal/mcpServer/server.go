package mcpServer

import (
	"context"
	"errors"

	"github.com/akolanti/FinalGuardian/internal/rag"
	"github.com/akolanti/FinalGuardian/internal/rag/tools"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "0.1.0"

// Server exposes the tutor tools and the quiz pipeline to MCP clients.
type Server struct {
	svc    rag.Service
	tools  []tools.Tool
	server *mcp.Server
	logger *logger_i.Logger
}

func NewServer(svc rag.Service, toolset ...tools.Tool) (*Server, error) {
	if svc == nil {
		return nil, errors.New("mcp server needs a rag service")
	}

	s := &Server{
		svc:    svc,
		tools:  toolset,
		server: mcp.NewServer(&mcp.Implementation{Name: "finalguardian", Version: Version}, nil),
		logger: logger_i.NewLogger("MCP Server"),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client hangs up.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server listening on stdio", "tools", len(s.tools)+2)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
