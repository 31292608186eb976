package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"hondachat/internal/core/auth"
	"hondachat/internal/core/backend"
	"hondachat/internal/core/config"
	"hondachat/internal/core/db"
	"hondachat/internal/core/remote"
	"hondachat/internal/core/session"
	"hondachat/internal/core/store"
)

type errMsg struct {
	err error
}

type replyMsg struct {
	err error
}

type syncDoneMsg struct {
	fetched bool
	err     error
}

type statusExpiredMsg struct{}

// sendMessage runs one exchange against the backend. The store is
// updated in place; the message only reports the outcome.
func sendMessage(st *store.Store, client *backend.Client, content string) tea.Cmd {
	return func() tea.Msg {
		_, err := session.Exchange(context.Background(), st, client, content)
		return replyMsg{err: err}
	}
}

// syncChats pulls the server-side history when a credential exists.
// Failures are soft: local state stays as it was.
func syncChats(cfg *config.Config, client *backend.Client, database *db.DB, st *store.Store) tea.Cmd {
	return func() tea.Msg {
		tokens := auth.NewSource(database)
		token, err := tokens.Token()
		if err != nil || token == "" {
			return syncDoneMsg{fetched: false, err: err}
		}
		gateway := remote.NewGateway(client, tokens, cfg.RequestTimeout)
		if err := gateway.FetchAndMerge(context.Background(), st); err != nil {
			return syncDoneMsg{fetched: false, err: err}
		}
		return syncDoneMsg{fetched: true}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusExpiredMsg{}
	})
}
