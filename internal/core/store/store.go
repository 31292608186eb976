// Package store owns the client-side chat state: the chat collection,
// the active-chat pointer, and message append logic. All mutation goes
// through the Store; consumers read snapshots and subscribe for changes.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"hondachat/internal/core/models"
)

// State is the persisted projection of the store: the chat collection
// and the active-chat pointer. Transient UI state is not part of it.
type State struct {
	Chats         []models.Chat `json:"chats"`
	CurrentChatID string        `json:"currentChatId"`
}

// Persister mirrors store state to durable storage after mutations.
type Persister interface {
	SaveState(State) error
}

// Store is the in-memory chat state container. It is safe for use from
// the TUI event loop and background commands concurrently.
type Store struct {
	mu        sync.Mutex
	chats     []models.Chat
	currentID string

	persister   Persister
	subscribers []func()
}

// Option configures a Store.
type Option func(*Store)

// WithPersister mirrors every mutation to the given persister.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// New creates a store seeded with the given state. A zero-value State
// yields an empty store with no active chat.
func New(initial State, opts ...Option) *Store {
	s := &Store{
		chats:     append([]models.Chat(nil), initial.Chats...),
		currentID: initial.CurrentChatID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a callback invoked after every mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// NewChat creates a chat with the default title and an empty message
// list, inserts it at the front of the collection, and makes it active.
// Returns the new chat's id.
func (s *Store) NewChat() string {
	s.mu.Lock()
	id := s.newChatLocked()
	s.mu.Unlock()

	s.afterMutation()
	return id
}

// newChatLocked is the lock-held body of NewChat, shared with the
// repair paths in DeleteChat and EnsureActiveChat.
func (s *Store) newChatLocked() string {
	now := time.Now()
	chat := models.Chat{
		ID:          uuid.NewString(),
		Title:       models.DefaultTitle,
		Messages:    []models.Message{},
		CreatedAt:   now,
		LastUpdated: now,
	}
	s.chats = append([]models.Chat{chat}, s.chats...)
	s.currentID = chat.ID
	return chat.ID
}

// DeleteChat removes the chat with the given id. Unknown ids are
// ignored so the operation is idempotent. If the active chat was
// removed, the chat adjacent to it in storage order becomes active;
// if the collection is now empty a fresh chat is created so the store
// is never left without an active chat.
func (s *Store) DeleteChat(id string) {
	s.mu.Lock()

	idx := -1
	for i, c := range s.chats {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return
	}

	wasCurrent := id == s.currentID
	s.chats = append(s.chats[:idx], s.chats[idx+1:]...)

	if wasCurrent {
		switch {
		case len(s.chats) == 0:
			s.newChatLocked()
		case idx < len(s.chats):
			s.currentID = s.chats[idx].ID
		default:
			s.currentID = s.chats[idx-1].ID
		}
	}

	s.mu.Unlock()
	s.afterMutation()
}

// SetCurrentChat sets the active-chat pointer unconditionally, even to
// an id not (yet) in the collection. Callers use this transiently right
// before the matching chat arrives, e.g. during server-id adoption;
// EnsureActiveChat repairs the pointer if the chat never shows up.
func (s *Store) SetCurrentChat(id string) {
	s.mu.Lock()
	s.currentID = id
	s.mu.Unlock()
	s.afterMutation()
}

// RenameChat overwrites the chat's title. The title is trimmed and a
// blank result leaves the chat untouched.
func (s *Store) RenameChat(id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("chat title cannot be empty")
	}

	s.mu.Lock()
	c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return models.ErrChatNotFound
	}
	c.Title = title
	s.mu.Unlock()

	s.afterMutation()
	return nil
}

// ToggleStar flips the chat's starred flag.
func (s *Store) ToggleStar(id string) error {
	s.mu.Lock()
	c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return models.ErrChatNotFound
	}
	c.Starred = !c.Starred
	s.mu.Unlock()

	s.afterMutation()
	return nil
}

// AddMessage assigns the message an id and timestamp, appends it to the
// chat, and refreshes LastUpdated. On the transition from zero messages
// to one, while the title still holds the default placeholder, the
// title is derived from the message content. Returns the stored message.
func (s *Store) AddMessage(chatID string, msg models.Message) (models.Message, error) {
	s.mu.Lock()
	c := s.findLocked(chatID)
	if c == nil {
		s.mu.Unlock()
		return models.Message{}, models.ErrChatNotFound
	}

	now := time.Now()
	msg.ID = uuid.NewString()
	msg.Timestamp = now

	if len(c.Messages) == 0 && c.Title == models.DefaultTitle {
		c.Title = models.DeriveTitle(msg.Content)
	}
	c.Messages = append(c.Messages, msg)
	c.LastUpdated = now
	s.mu.Unlock()

	s.afterMutation()
	return msg, nil
}

// CurrentChat returns a copy of the active chat, or false when the
// pointer does not resolve to a stored chat.
func (s *Store) CurrentChat() (models.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(s.currentID)
	if c == nil {
		return models.Chat{}, false
	}
	return copyChat(*c), true
}

// CurrentChatID returns the active-chat pointer as-is.
func (s *Store) CurrentChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Get returns a copy of the chat with the given id.
func (s *Store) Get(id string) (models.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findLocked(id)
	if c == nil {
		return models.Chat{}, false
	}
	return copyChat(*c), true
}

// EnsureActiveChat repairs the active-chat invariant: if the pointer is
// empty or refers to a missing chat, the first stored chat is selected,
// or a fresh chat is created when none exist. Calling it on an already
// consistent store changes nothing.
func (s *Store) EnsureActiveChat() {
	s.mu.Lock()
	if s.findLocked(s.currentID) != nil {
		s.mu.Unlock()
		return
	}
	if len(s.chats) > 0 {
		s.currentID = s.chats[0].ID
	} else {
		s.newChatLocked()
	}
	s.mu.Unlock()
	s.afterMutation()
}

// ReplaceAll swaps in a new chat collection wholesale, selecting the
// first chat as active or clearing the pointer when the collection is
// empty. Local chats not present in the new collection are discarded;
// the sync gateway relies on exactly these semantics.
func (s *Store) ReplaceAll(chats []models.Chat) {
	s.mu.Lock()
	s.chats = make([]models.Chat, len(chats))
	for i, c := range chats {
		s.chats[i] = copyChat(c)
	}
	if len(s.chats) > 0 {
		s.currentID = s.chats[0].ID
	} else {
		s.currentID = ""
	}
	s.mu.Unlock()
	s.afterMutation()
}

// AdoptServerID replaces a locally generated chat id with the id the
// backend assigned after the first exchange, preserving the message
// history and the active pointer. If a chat already holds the server
// id, the local chat's messages are merged into it and the local chat
// is dropped.
func (s *Store) AdoptServerID(localID, serverID string) error {
	if localID == serverID || serverID == "" {
		return nil
	}

	s.mu.Lock()
	local := s.findLocked(localID)
	if local == nil {
		s.mu.Unlock()
		return models.ErrChatNotFound
	}

	if existing := s.findLocked(serverID); existing != nil {
		existing.Messages = append(existing.Messages, local.Messages...)
		if local.LastUpdated.After(existing.LastUpdated) {
			existing.LastUpdated = local.LastUpdated
		}
		for i, c := range s.chats {
			if c.ID == localID {
				s.chats = append(s.chats[:i], s.chats[i+1:]...)
				break
			}
		}
	} else {
		local.ID = serverID
	}

	if s.currentID == localID {
		s.currentID = serverID
	}
	s.mu.Unlock()

	s.afterMutation()
	return nil
}

// Chats returns a copy of the collection in storage order.
func (s *Store) Chats() []models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Chat, len(s.chats))
	for i, c := range s.chats {
		out[i] = copyChat(c)
	}
	return out
}

// Display returns the chats in presentation order: starred chats first,
// then most recently updated. The order is derived on every call and
// never stored.
func (s *Store) Display() []models.Chat {
	chats := s.Chats()
	sort.SliceStable(chats, func(i, j int) bool {
		if chats[i].Starred != chats[j].Starred {
			return chats[i].Starred
		}
		return chats[i].LastUpdated.After(chats[j].LastUpdated)
	})
	return chats
}

// Snapshot returns the persisted projection of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	chats := make([]models.Chat, len(s.chats))
	for i, c := range s.chats {
		chats[i] = copyChat(c)
	}
	return State{Chats: chats, CurrentChatID: s.currentID}
}

// Find resolves a chat by exact id, exact title, or a unique prefix of
// either (case-insensitive for titles).
func (s *Store) Find(idOrTitle string) (models.Chat, error) {
	if idOrTitle == "" {
		return models.Chat{}, fmt.Errorf("chat identifier cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.chats {
		if c.ID == idOrTitle {
			return copyChat(c), nil
		}
	}
	for _, c := range s.chats {
		if strings.EqualFold(c.Title, idOrTitle) {
			return copyChat(c), nil
		}
	}

	var matches []models.Chat
	lower := strings.ToLower(idOrTitle)
	for _, c := range s.chats {
		if strings.HasPrefix(c.ID, idOrTitle) || strings.HasPrefix(strings.ToLower(c.Title), lower) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return models.Chat{}, fmt.Errorf("no chat matches %q: %w", idOrTitle, models.ErrChatNotFound)
	case 1:
		return copyChat(matches[0]), nil
	default:
		titles := make([]string, len(matches))
		for i, c := range matches {
			titles[i] = c.Title
		}
		return models.Chat{}, fmt.Errorf("multiple chats match %q: %s", idOrTitle, strings.Join(titles, ", "))
	}
}

func (s *Store) findLocked(id string) *models.Chat {
	if id == "" {
		return nil
	}
	for i := range s.chats {
		if s.chats[i].ID == id {
			return &s.chats[i]
		}
	}
	return nil
}

// afterMutation mirrors the new state to the persister and notifies
// subscribers. Persist failures are logged, never propagated; losing a
// mirror write must not break an interactive session.
func (s *Store) afterMutation() {
	s.mu.Lock()
	state := s.snapshotLocked()
	subs := append([]func(){}, s.subscribers...)
	p := s.persister
	s.mu.Unlock()

	if p != nil {
		if err := p.SaveState(state); err != nil {
			log.Warn("failed to persist chat state", "error", err)
		}
	}
	for _, fn := range subs {
		fn()
	}
}

func copyChat(c models.Chat) models.Chat {
	c.Messages = append([]models.Message(nil), c.Messages...)
	return c
}
