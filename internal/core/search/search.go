// Package search finds messages across the stored chat collection.
// The collection lives in memory as one JSON-backed slot, so this is a
// plain substring scan, case-insensitive, most recent chats first.
package search

import (
	"fmt"
	"strings"

	"hondachat/internal/core/models"
)

// maxSnippetsPerChat caps how many matching messages are reported for
// a single chat.
const maxSnippetsPerChat = 3

// snippetLen is the maximum length of a reported match snippet.
const snippetLen = 200

// Result represents the matches found within one chat.
type Result struct {
	ChatID    string
	ChatTitle string
	Matches   []Match
}

// Match is a single matching message.
type Match struct {
	Role    models.Role
	Snippet string
	Index   int // position of the message within the chat
}

// Search scans the chats (expected in display order) for the query.
func Search(chats []models.Chat, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	lower := strings.ToLower(query)

	var results []Result
	for _, chat := range chats {
		var matches []Match
		for i, msg := range chat.Messages {
			if !strings.Contains(strings.ToLower(msg.Content), lower) {
				continue
			}
			matches = append(matches, Match{
				Role:    msg.Role,
				Snippet: snippet(msg.Content, lower),
				Index:   i,
			})
			if len(matches) == maxSnippetsPerChat {
				break
			}
		}
		if len(matches) > 0 {
			results = append(results, Result{
				ChatID:    chat.ID,
				ChatTitle: chat.Title,
				Matches:   matches,
			})
		}
	}
	return results, nil
}

// snippet returns a window of content around the first occurrence of
// the (lowercased) query.
func snippet(content, lowerQuery string) string {
	idx := strings.Index(strings.ToLower(content), lowerQuery)
	if idx < 0 {
		idx = 0
	}

	start := idx - snippetLen/4
	if start < 0 {
		start = 0
	}
	end := start + snippetLen
	if end > len(content) {
		end = len(content)
	}

	// Avoid splitting multibyte runes at the window edges.
	for start > 0 && !isRuneStart(content[start]) {
		start--
	}
	for end < len(content) && !isRuneStart(content[end]) {
		end++
	}

	out := content[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(content) {
		out += "..."
	}
	return out
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
