// Package service wires the combat session and snapshot store into an MCP
// server and runs it over stdio.
package service

import (
	"context"
	"fmt"

	"github.com/louvel/greatwheel/internal/combat/session"
	"github.com/louvel/greatwheel/internal/mcp/domain"
	"github.com/louvel/greatwheel/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies the MCP server implementation.
	serverName = "greatwheel"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts one combat session behind the MCP tool surface.
//
// The stdio transport delivers requests one at a time, which preserves the
// session's single-actor confinement without any locking.
type Server struct {
	mcpServer *mcp.Server
	session   *session.Session
	store     storage.SnapshotStore
}

// New creates an MCP server over the given session and snapshot store.
func New(sess *session.Session, store storage.SnapshotStore) (*Server, error) {
	if sess == nil {
		return nil, fmt.Errorf("session is required")
	}
	if store == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, domain.CombatJoinTool(), domain.CombatJoinHandler(sess))
	mcp.AddTool(mcpServer, domain.CombatActTool(), domain.CombatActHandler(sess))
	mcp.AddTool(mcpServer, domain.CombatMoveTool(), domain.CombatMoveHandler(sess))
	mcp.AddTool(mcpServer, domain.CombatLeaveTool(), domain.CombatLeaveHandler(sess))
	mcp.AddTool(mcpServer, domain.CombatWipeTool(), domain.CombatWipeHandler(sess))
	mcp.AddTool(mcpServer, domain.CombatOrderTool(), domain.CombatOrderHandler(sess))
	mcp.AddTool(mcpServer, domain.CombatUndoTool(), domain.CombatUndoHandler(sess))
	mcp.AddTool(mcpServer, domain.CombatRedoTool(), domain.CombatRedoHandler(sess))
	mcp.AddTool(mcpServer, domain.CombatSaveTool(), domain.CombatSaveHandler(sess, store))
	mcp.AddTool(mcpServer, domain.CombatLoadTool(), domain.CombatLoadHandler(sess, store))

	return &Server{mcpServer: mcpServer, session: sess, store: store}, nil
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
