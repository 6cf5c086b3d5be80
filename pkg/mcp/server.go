// Package mcp exposes the journal over the Model Context Protocol on stdio,
// so local AI tooling can read and write entries through the same store the
// CLI uses. There is no network listener.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	daybook "github.com/daybook-sh/daybook/pkg"
	"github.com/daybook-sh/daybook/pkg/journal"
	"github.com/daybook-sh/daybook/pkg/kv"
	"github.com/daybook-sh/daybook/pkg/logging"
	"github.com/daybook-sh/daybook/pkg/utils"
)

// DaybookMCPServer wires an MCP stdio server to an entry store backed by the
// SQLite database at a given path.
type DaybookMCPServer struct {
	mcpServer *server.MCPServer
	store     *journal.EntryStore
	kvStore   *kv.Store
	DBPath    string
}

// NewDaybookMCPServer opens (and migrates, if needed) the database at dbPath
// and builds the MCP server around it. An empty dbPath uses the
// system-appropriate default location.
func NewDaybookMCPServer(dbPath string, log logging.Logger) (*DaybookMCPServer, error) {
	resolved, err := utils.ResolveAndEnsurePath(dbPath, utils.DefaultDBPath())
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		"Daybook MCP Server",
		daybook.Version,
		server.WithLogging(),
		server.WithRecovery(),
	)

	kvStore, err := kv.Open(resolved, true, "FULL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	store := journal.NewEntryStore(context.Background(), kvStore, journal.WithLogger(log))

	return &DaybookMCPServer{
		mcpServer: s,
		store:     store,
		kvStore:   kvStore,
		DBPath:    resolved,
	}, nil
}

// Start runs the stdio event loop. Make sure to register tools beforehand.
func (s *DaybookMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// Store returns the underlying entry store.
func (s *DaybookMCPServer) Store() *journal.EntryStore {
	return s.store
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *DaybookMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close releases the database connection.
func (s *DaybookMCPServer) Close() error {
	return s.kvStore.Close()
}
