// Package remote reconciles the local chat store with the authoritative
// chat list held by the backend. The refresh is best effort: any failure
// leaves local state untouched.
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"hondachat/internal/core/auth"
	"hondachat/internal/core/backend"
	"hondachat/internal/core/store"
)

// DefaultTimeout bounds a fetch; a request that has not completed by
// then is cancelled rather than left to hang.
const DefaultTimeout = 5 * time.Second

// Gateway fetches the server-side chat list and merges it into a store.
type Gateway struct {
	client  *backend.Client
	tokens  auth.TokenSource
	timeout time.Duration
}

// NewGateway creates a gateway. A zero timeout means DefaultTimeout.
func NewGateway(client *backend.Client, tokens auth.TokenSource, timeout time.Duration) *Gateway {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{client: client, tokens: tokens, timeout: timeout}
}

// FetchAndMerge pulls the chat list from the backend and replaces the
// store's collection wholesale. Without a credential the request is
// suppressed entirely. Failures are logged and returned; the caller
// decides whether they matter, the store is unchanged either way.
//
// Replacement discards local chats the server does not know about, so
// callers run this at startup or on explicit request, not while a chat
// is being composed.
func (g *Gateway) FetchAndMerge(ctx context.Context, st *store.Store) error {
	token, err := g.tokens.Token()
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	if token == "" {
		log.Debug("no credential stored, skipping chat fetch")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	remoteChats, err := g.client.ListChats(ctx)
	if err != nil {
		log.Warn("chat fetch failed, keeping local state", "error", err)
		return err
	}

	chats := transformChats(remoteChats)
	st.ReplaceAll(chats)
	log.Debug("merged chats from server", "count", len(chats))
	return nil
}
