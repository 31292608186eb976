package remote

import (
	"time"

	"hondachat/internal/core/backend"
	"hondachat/internal/core/models"
)

// transformChats maps the backend's chat representation onto the local
// model. Unparseable timestamps become zero times rather than dropping
// the chat.
func transformChats(remoteChats []backend.RemoteChat) []models.Chat {
	chats := make([]models.Chat, 0, len(remoteChats))
	for _, rc := range remoteChats {
		title := rc.Title
		if title == "" {
			title = models.DefaultTitle
		}

		messages := make([]models.Message, 0, len(rc.Messages))
		for _, rm := range rc.Messages {
			messages = append(messages, models.Message{
				Role:      models.Role(rm.Role),
				Content:   rm.Content,
				Sources:   rm.Sources,
				Timestamp: parseTime(rm.CreatedAt),
			})
		}

		chats = append(chats, models.Chat{
			ID:          rc.ID,
			Title:       title,
			Messages:    messages,
			CreatedAt:   parseTime(rc.CreatedAt),
			LastUpdated: parseTime(rc.UpdatedAt),
		})
	}
	return chats
}

// parseTime tries the timestamp formats the backend has been seen to
// emit.
func parseTime(s string) time.Time {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
