package models

import (
	"errors"
	"time"
)

// DefaultTitle is the placeholder title a chat carries until its first
// message arrives.
const DefaultTitle = "New Chat"

// titlePrefixLen is how many runes of the first message become the title.
const titlePrefixLen = 30

// ErrChatNotFound is returned by store operations that target a chat id
// not present in the collection.
var ErrChatNotFound = errors.New("chat not found")

// Chat represents one conversation with the backend assistant.
type Chat struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Messages    []Message `json:"messages"`
	Starred     bool      `json:"starred,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Validate checks if the chat has required fields
func (c *Chat) Validate() error {
	if c.ID == "" {
		return errors.New("id is required")
	}
	if c.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

// DeriveTitle produces a chat title from the first message's content:
// a fixed-length prefix with an ellipsis marker, or the content itself
// when it is short enough to stand on its own.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) > titlePrefixLen {
		return string(runes[:titlePrefixLen]) + "..."
	}
	return content
}
