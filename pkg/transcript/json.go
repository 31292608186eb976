package transcript

import (
	"encoding/json"
	"io"

	"hondachat/internal/core/models"
)

// JSONExporter writes the whole chat as one indented JSON document.
type JSONExporter struct{}

func (e *JSONExporter) Extension() string { return "json" }

func (e *JSONExporter) Export(chat *models.Chat, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(chat)
}

// JSONLExporter writes one JSON object per line: a header line with the
// chat metadata, then one line per message.
type JSONLExporter struct{}

func (e *JSONLExporter) Extension() string { return "jsonl" }

type jsonlHeader struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Starred     bool   `json:"starred,omitempty"`
	CreatedAt   string `json:"createdAt"`
	LastUpdated string `json:"lastUpdated"`
}

type jsonlMessage struct {
	Type string `json:"type"`
	models.Message
}

func (e *JSONLExporter) Export(chat *models.Chat, w io.Writer) error {
	enc := json.NewEncoder(w)

	header := jsonlHeader{
		Type:    "chat",
		ID:      chat.ID,
		Title:   chat.Title,
		Starred: chat.Starred,
	}
	if !chat.CreatedAt.IsZero() {
		header.CreatedAt = chat.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if !chat.LastUpdated.IsZero() {
		header.LastUpdated = chat.LastUpdated.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if err := enc.Encode(header); err != nil {
		return err
	}

	for _, msg := range chat.Messages {
		if err := enc.Encode(jsonlMessage{Type: "message", Message: msg}); err != nil {
			return err
		}
	}
	return nil
}
