package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/daybook-sh/daybook/pkg/journal"
)

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Daybook MCP server is alive."),
	)
	s.AddTool(pingTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("pong_daybook"), nil
	})
}

// RegisterAddEntryTool registers the add_entry tool.
func RegisterAddEntryTool(s *server.MCPServer, store *journal.EntryStore) {
	addEntry := mcp.NewTool("add_entry",
		mcp.WithDescription("Creates a new journal entry. The date defaults to now and may be backdated."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Entry text. May be empty.")),
		mcp.WithString("category", mcp.Description("Optional category label.")),
		mcp.WithString("time", mcp.Description("Optional display time annotation, e.g. '10:00'.")),
		mcp.WithString("date", mcp.Description("Optional entry date in YYYY-MM-DD format.")),
	)
	s.AddTool(addEntry, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		content, ok := request.Params.Arguments["content"].(string)
		if !ok {
			return mcp.NewToolResultError("'content' parameter is required and must be a string."), nil
		}

		draft := journal.Draft{Content: content}
		if category, ok := request.Params.Arguments["category"].(string); ok && category != "" {
			draft.Category = &category
		}
		if timeNote, ok := request.Params.Arguments["time"].(string); ok && timeNote != "" {
			draft.TimeNote = &timeNote
		}
		if dateStr, ok := request.Params.Arguments["date"].(string); ok && dateStr != "" {
			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid 'date' value %q: expected YYYY-MM-DD.", dateStr)), nil
			}
			draft.Date = &date
		}

		entry := store.Create(ctx, draft)
		return jsonResult(entry)
	})
}

// RegisterListEntriesTool registers the list_entries tool.
func RegisterListEntriesTool(s *server.MCPServer, store *journal.EntryStore) {
	listEntries := mcp.NewTool("list_entries",
		mcp.WithDescription("Lists journal entries newest first, optionally filtered to a day or an inclusive day range."),
		mcp.WithString("day", mcp.Description("Only entries on this day (YYYY-MM-DD).")),
		mcp.WithString("from", mcp.Description("Range start day (YYYY-MM-DD), used together with 'to'.")),
		mcp.WithString("to", mcp.Description("Range end day (YYYY-MM-DD), used together with 'from'.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries to return.")),
	)
	s.AddTool(listEntries, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var entries []journal.Entry

		dayStr, _ := request.Params.Arguments["day"].(string)
		fromStr, _ := request.Params.Arguments["from"].(string)
		toStr, _ := request.Params.Arguments["to"].(string)

		switch {
		case dayStr != "":
			day, err := journal.ParseDay(dayStr)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			entries = store.EntriesOn(day)
		case fromStr != "" && toStr != "":
			from, err := journal.ParseDay(fromStr)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			to, err := journal.ParseDay(toStr)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			entries = store.EntriesInRange(from, to)
		default:
			entries = store.Entries()
		}

		if limit, ok := request.Params.Arguments["limit"].(float64); ok && limit > 0 && int(limit) < len(entries) {
			entries = entries[:int(limit)]
		}

		if len(entries) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}
		return jsonResult(entries)
	})
}

// RegisterGetEntryTool registers the get_entry tool.
func RegisterGetEntryTool(s *server.MCPServer, store *journal.EntryStore) {
	getEntry := mcp.NewTool("get_entry",
		mcp.WithDescription("Retrieves a single journal entry by its id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("UUID of the entry.")),
	)
	s.AddTool(getEntry, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := parseIDArg(request)
		if errResult != nil {
			return errResult, nil
		}
		entry, ok := store.Get(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Entry %s not found.", id)), nil
		}
		return jsonResult(entry)
	})
}

// RegisterUpdateEntryTool registers the update_entry tool.
func RegisterUpdateEntryTool(s *server.MCPServer, store *journal.EntryStore) {
	updateEntry := mcp.NewTool("update_entry",
		mcp.WithDescription("Updates an entry's content, category, or time annotation. Date, photo, and location are immutable."),
		mcp.WithString("id", mcp.Required(), mcp.Description("UUID of the entry to update.")),
		mcp.WithString("content", mcp.Description("New entry text.")),
		mcp.WithString("category", mcp.Description("New category label.")),
		mcp.WithString("time", mcp.Description("New display time annotation.")),
	)
	s.AddTool(updateEntry, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := parseIDArg(request)
		if errResult != nil {
			return errResult, nil
		}
		if _, ok := store.Get(id); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Entry %s not found.", id)), nil
		}

		var patch journal.Patch
		if content, ok := request.Params.Arguments["content"].(string); ok {
			patch.Content = &content
		}
		if category, ok := request.Params.Arguments["category"].(string); ok {
			patch.Category = &category
		}
		if timeNote, ok := request.Params.Arguments["time"].(string); ok {
			patch.TimeNote = &timeNote
		}

		store.Update(ctx, id, patch)
		entry, _ := store.Get(id)
		return jsonResult(entry)
	})
}

// RegisterDeleteEntryTool registers the delete_entry tool.
func RegisterDeleteEntryTool(s *server.MCPServer, store *journal.EntryStore) {
	deleteEntry := mcp.NewTool("delete_entry",
		mcp.WithDescription("Deletes a journal entry by its id. Deleting an unknown id is a no-op."),
		mcp.WithString("id", mcp.Required(), mcp.Description("UUID of the entry to delete.")),
	)
	s.AddTool(deleteEntry, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, errResult := parseIDArg(request)
		if errResult != nil {
			return errResult, nil
		}
		store.Delete(ctx, id)
		return mcp.NewToolResultText(fmt.Sprintf("Entry %s deleted.", id)), nil
	})
}

// RegisterGetStreakTool registers the get_streak tool.
func RegisterGetStreakTool(s *server.MCPServer, store *journal.EntryStore) {
	getStreak := mcp.NewTool("get_streak",
		mcp.WithDescription("Returns the current and longest consecutive-day journaling streak."),
	)
	s.AddTool(getStreak, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(store.Streak())
	})
}

// parseIDArg extracts and validates the required 'id' argument.
func parseIDArg(request mcp.CallToolRequest) (uuid.UUID, *mcp.CallToolResult) {
	idStr, ok := request.Params.Arguments["id"].(string)
	if !ok || idStr == "" {
		return uuid.Nil, mcp.NewToolResultError("'id' parameter is required and must be a non-empty string.")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError(fmt.Sprintf("Invalid entry id %q: %v", idStr, err))
	}
	return id, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
