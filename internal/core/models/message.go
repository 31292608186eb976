package models

import (
	"errors"
	"time"
)

// Role identifies the author of a message. There are exactly two: the
// person typing and the backend assistant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sources   []Source  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Source is a citation attached to an assistant message. It references
// an excerpt of a retrieved document and is never mutated after creation.
type Source struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	DocumentPath  string  `json:"document_path"`
	DocumentTitle string  `json:"document_title"`
	Relevance     float64 `json:"relevance"`
}

// Validate checks if the message has required fields
func (m *Message) Validate() error {
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return errors.New("role must be user or assistant")
	}
	if m.Content == "" {
		return errors.New("content is required")
	}
	return nil
}
