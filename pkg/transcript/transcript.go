// Package transcript renders chats into portable formats. It is the
// public face of the repository for anyone scripting against exported
// conversations.
package transcript

import (
	"fmt"
	"io"

	"hondachat/internal/core/models"
)

// Exporter writes one chat to a stream in a fixed format.
type Exporter interface {
	Export(chat *models.Chat, w io.Writer) error
	Extension() string
}

// NewExporter creates an exporter for the named format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: markdown, json, jsonl)", format)
	}
}
