package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daybook-sh/daybook/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the daybook MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes the journal as
MCP tools via STDIO: adding, listing, editing, and deleting entries, plus the
streak. Local AI tooling goes through the same entry store as the CLI.

Example:

  daybook mcp --dbpath daybook.db

  # Or simply use the default location:
  daybook mcp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := mcp.NewDaybookMCPServer(dbPath, newLogger())
		if err != nil {
			return err
		}
		defer srv.Close()

		store := srv.Store()
		s := srv.MCPRawServer()

		mcp.RegisterPingTool(s)
		mcp.RegisterAddEntryTool(s, store)
		mcp.RegisterListEntriesTool(s, store)
		mcp.RegisterGetEntryTool(s, store)
		mcp.RegisterUpdateEntryTool(s, store)
		mcp.RegisterDeleteEntryTool(s, store)
		mcp.RegisterGetStreakTool(s, store)

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "Daybook MCP server started. DB: %s\n", srv.DBPath)
		fmt.Fprintln(os.Stderr, "Available tools: ping, add_entry, list_entries, get_entry, update_entry, delete_entry, get_streak")
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		return srv.Start()
	},
}
