package transcript

import (
	"fmt"
	"io"
	"time"

	"hondachat/internal/core/models"
)

// MarkdownExporter renders a chat as a readable Markdown transcript.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Extension() string { return "md" }

func (e *MarkdownExporter) Export(chat *models.Chat, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", chat.Title)
	if !chat.CreatedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", chat.CreatedAt.Format(time.RFC3339))
	}
	if !chat.LastUpdated.IsZero() {
		_, _ = fmt.Fprintf(w, "**Updated:** %s  \n", chat.LastUpdated.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(chat.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range chat.Messages {
		label := "You"
		if msg.Role == models.RoleAssistant {
			label = "Assistant"
		}
		timestamp := ""
		if !msg.Timestamp.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp.Format("2006-01-02 15:04"))
		}
		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", label, timestamp, msg.Content)

		if len(msg.Sources) > 0 {
			_, _ = fmt.Fprintf(w, "Sources:\n\n")
			for _, src := range msg.Sources {
				_, _ = fmt.Fprintf(w, "- %s (`%s`, relevance %.2f)\n", src.DocumentTitle, src.DocumentPath, src.Relevance)
			}
			_, _ = fmt.Fprintf(w, "\n")
		}

		if i < len(chat.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}
