// Package session drives a conversation turn: append the user's
// message locally, post it to the backend, and fold the reply back
// into the store.
package session

import (
	"context"

	"hondachat/internal/core/backend"
	"hondachat/internal/core/models"
	"hondachat/internal/core/store"
)

// SendFailureNotice is the synthetic assistant message shown when a
// send fails. It is appended to the chat like any reply; there is no
// automatic retry.
const SendFailureNotice = "An error occurred. Please try again."

// Exchange sends content on the active chat and returns the assistant
// message that was appended, which on failure is the synthetic failure
// notice. The returned error reports the underlying send failure, if
// any; the store is consistent either way.
func Exchange(ctx context.Context, st *store.Store, client *backend.Client, content string) (models.Message, error) {
	st.EnsureActiveChat()
	chat, ok := st.CurrentChat()
	if !ok {
		// EnsureActiveChat guarantees otherwise, but the pointer can
		// be repointed concurrently.
		return models.Message{}, models.ErrChatNotFound
	}

	// History is the conversation as it stood before this turn.
	history := make([]backend.HistoryEntry, 0, len(chat.Messages))
	for _, m := range chat.Messages {
		history = append(history, backend.HistoryEntry{Role: string(m.Role), Content: m.Content})
	}

	if _, err := st.AddMessage(chat.ID, models.Message{
		Role:    models.RoleUser,
		Content: content,
	}); err != nil {
		return models.Message{}, err
	}

	resp, err := client.SendMessage(ctx, chat.ID, content, history)
	if err != nil {
		notice, appendErr := st.AddMessage(chat.ID, models.Message{
			Role:    models.RoleAssistant,
			Content: SendFailureNotice,
		})
		if appendErr != nil {
			return models.Message{}, appendErr
		}
		return notice, err
	}

	// The backend assigns its own id on a chat's first exchange.
	replyChatID := chat.ID
	if resp.ChatID != "" && resp.ChatID != chat.ID {
		if err := st.AdoptServerID(chat.ID, resp.ChatID); err != nil {
			return models.Message{}, err
		}
		replyChatID = resp.ChatID
	}

	return st.AddMessage(replyChatID, models.Message{
		Role:    models.RoleAssistant,
		Content: resp.Response,
		Sources: resp.Sources,
	})
}
