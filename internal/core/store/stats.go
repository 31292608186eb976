package store

import (
	"time"

	"hondachat/internal/core/models"
)

// Stats summarizes the stored chat collection.
type Stats struct {
	TotalChats    int
	TotalMessages int
	StarredChats  int
	UserMessages  int
	AssistantMsgs int
	OldestChat    time.Time
	NewestUpdate  time.Time
}

// Stats computes collection statistics from the current state.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{TotalChats: len(s.chats)}
	for _, c := range s.chats {
		stats.TotalMessages += len(c.Messages)
		if c.Starred {
			stats.StarredChats++
		}
		for _, m := range c.Messages {
			switch m.Role {
			case models.RoleUser:
				stats.UserMessages++
			case models.RoleAssistant:
				stats.AssistantMsgs++
			}
		}
		if stats.OldestChat.IsZero() || c.CreatedAt.Before(stats.OldestChat) {
			stats.OldestChat = c.CreatedAt
		}
		if c.LastUpdated.After(stats.NewestUpdate) {
			stats.NewestUpdate = c.LastUpdated
		}
	}
	return stats
}
