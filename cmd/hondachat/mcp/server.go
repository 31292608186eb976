package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"hondachat/internal/core/db"
	"hondachat/internal/core/models"
	"hondachat/internal/core/search"
	"hondachat/internal/core/store"
)

// SearchChatsArgs defines arguments for the search_chats tool
type SearchChatsArgs struct {
	Query string `json:"query" jsonschema:"description=Search term to match against message content,required"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Max number of chats to return (default: 10)"`
}

// GetChatArgs defines arguments for the get_chat tool
type GetChatArgs struct {
	ChatID string `json:"chat_id" jsonschema:"description=Chat id or title to retrieve,required"`
}

// ListChatsArgs defines arguments for the list_chats tool
type ListChatsArgs struct {
	Limit   int  `json:"limit,omitempty" jsonschema:"description=Max chats to return (default: 20)"`
	Starred bool `json:"starred,omitempty" jsonschema:"description=Only return starred chats"`
}

// ChatMatch represents a chat search result
type ChatMatch struct {
	ChatID     string         `json:"chat_id"`
	Title      string         `json:"title"`
	MatchCount int            `json:"match_count"`
	Matches    []MatchSnippet `json:"matches"`
}

// MatchSnippet represents a message match within a chat
type MatchSnippet struct {
	Role    string `json:"role"`
	Snippet string `json:"snippet"`
	Index   int    `json:"index"`
}

// ChatDetail represents a full chat transcript
type ChatDetail struct {
	ChatID      string          `json:"chat_id"`
	Title       string          `json:"title"`
	Starred     bool            `json:"starred"`
	CreatedAt   string          `json:"created_at"`
	LastUpdated string          `json:"last_updated"`
	Messages    []MessageDetail `json:"messages"`
}

// MessageDetail represents a single message in a chat
type MessageDetail struct {
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	Timestamp string   `json:"timestamp"`
	Sources   []string `json:"sources,omitempty"`
}

// ChatSummary represents a chat in the list view
type ChatSummary struct {
	ChatID       string `json:"chat_id"`
	Title        string `json:"title"`
	Starred      bool   `json:"starred"`
	LastUpdated  string `json:"last_updated"`
	MessageCount int    `json:"message_count"`
}

// StartServer starts the MCP server
func StartServer(dbPath string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			log.Printf("Error closing database: %v", closeErr)
		}
	}()

	s := server.NewMCPServer(
		"hondachat",
		"1.0.0",
	)

	searchTool := mcp.NewTool("search_chats",
		mcp.WithDescription("Search chat history for a query string across all message content"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search term to match against message content")),
		mcp.WithNumber("limit",
			mcp.Description("Max number of chats to return (default: 10)")),
	)
	s.AddTool(searchTool, makeSearchChatsHandler(database))

	getTool := mcp.NewTool("get_chat",
		mcp.WithDescription("Retrieve the full transcript of a chat by id or title"),
		mcp.WithString("chat_id",
			mcp.Required(),
			mcp.Description("Chat id (or unique prefix) or exact title")),
	)
	s.AddTool(getTool, makeGetChatHandler(database))

	listTool := mcp.NewTool("list_chats",
		mcp.WithDescription("List chats, starred first then most recently updated"),
		mcp.WithNumber("limit",
			mcp.Description("Max chats to return (default: 20)")),
		mcp.WithBoolean("starred",
			mcp.Description("Only return starred chats")),
	)
	s.AddTool(listTool, makeListChatsHandler(database))

	return server.ServeStdio(s)
}

// loadStore hydrates a read-only store from the saved state. Each tool
// call reloads so concurrent CLI or TUI writes are picked up.
func loadStore(database *db.DB) (*store.Store, error) {
	state, err := database.LoadState()
	if err != nil {
		return nil, fmt.Errorf("failed to load chat state: %w", err)
	}
	return store.New(state), nil
}

func makeSearchChatsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SearchChatsArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit == 0 {
			limit = 10
		}

		st, err := loadStore(database)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		coreResults, err := search.Search(st.Display(), args.Query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		var results []ChatMatch
		for _, r := range coreResults {
			result := ChatMatch{
				ChatID:  r.ChatID,
				Title:   r.ChatTitle,
				Matches: []MatchSnippet{},
			}
			for _, match := range r.Matches {
				result.Matches = append(result.Matches, MatchSnippet{
					Role:    string(match.Role),
					Snippet: match.Snippet,
					Index:   match.Index,
				})
			}
			result.MatchCount = len(result.Matches)
			results = append(results, result)

			if len(results) >= limit {
				break
			}
		}

		resultJSON, err := json.Marshal(map[string]interface{}{
			"chats": results,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func makeGetChatHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args GetChatArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		st, err := loadStore(database)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		chat, err := st.Find(args.ChatID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		detail := ChatDetail{
			ChatID:      chat.ID,
			Title:       chat.Title,
			Starred:     chat.Starred,
			CreatedAt:   chat.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			LastUpdated: chat.LastUpdated.Format("2006-01-02T15:04:05Z07:00"),
			Messages:    []MessageDetail{},
		}
		for _, msg := range chat.Messages {
			md := MessageDetail{
				Role:      string(msg.Role),
				Content:   msg.Content,
				Timestamp: msg.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			}
			for _, src := range msg.Sources {
				md.Sources = append(md.Sources, src.Title)
			}
			detail.Messages = append(detail.Messages, md)
		}

		resultJSON, err := json.Marshal(detail)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal chat: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func makeListChatsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListChatsArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit == 0 {
			limit = 20
		}

		st, err := loadStore(database)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var chats []ChatSummary
		for _, c := range st.Display() {
			if args.Starred && !c.Starred {
				continue
			}
			chats = append(chats, summarize(c))
			if len(chats) >= limit {
				break
			}
		}

		resultJSON, err := json.Marshal(map[string]interface{}{
			"chats": chats,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func summarize(c models.Chat) ChatSummary {
	return ChatSummary{
		ChatID:       c.ID,
		Title:        c.Title,
		Starred:      c.Starred,
		LastUpdated:  c.LastUpdated.Format("2006-01-02T15:04:05Z07:00"),
		MessageCount: len(c.Messages),
	}
}
