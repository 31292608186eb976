package store

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"hondachat/internal/core/models"
)

func userMsg(content string) models.Message {
	return models.Message{Role: models.RoleUser, Content: content}
}

func assistantMsg(content string, sources ...models.Source) models.Message {
	return models.Message{Role: models.RoleAssistant, Content: content, Sources: sources}
}

func TestNewChat(t *testing.T) {
	s := New(State{})

	id := s.NewChat()
	if id == "" {
		t.Fatal("NewChat() returned empty id")
	}

	chat, ok := s.Get(id)
	if !ok {
		t.Fatal("new chat not found in store")
	}
	if chat.Title != models.DefaultTitle {
		t.Errorf("Title = %q, want %q", chat.Title, models.DefaultTitle)
	}
	if len(chat.Messages) != 0 {
		t.Errorf("new chat has %d messages, want 0", len(chat.Messages))
	}
	if got := s.CurrentChatID(); got != id {
		t.Errorf("CurrentChatID = %q, want %q", got, id)
	}
	if chat.CreatedAt.IsZero() || chat.LastUpdated.IsZero() {
		t.Error("timestamps not set on creation")
	}
}

func TestNewChatInsertsAtFront(t *testing.T) {
	s := New(State{})
	first := s.NewChat()
	second := s.NewChat()

	chats := s.Chats()
	if len(chats) != 2 {
		t.Fatalf("got %d chats, want 2", len(chats))
	}
	if chats[0].ID != second || chats[1].ID != first {
		t.Errorf("storage order = [%s %s], want newest first", chats[0].ID, chats[1].ID)
	}
}

func TestAddMessageOrdering(t *testing.T) {
	s := New(State{})
	id := s.NewChat()

	for i := 0; i < 10; i++ {
		if _, err := s.AddMessage(id, userMsg(fmt.Sprintf("message %d", i))); err != nil {
			t.Fatalf("AddMessage() error = %v", err)
		}
	}

	chat, _ := s.Get(id)
	if len(chat.Messages) != 10 {
		t.Fatalf("got %d messages, want 10", len(chat.Messages))
	}
	for i, m := range chat.Messages {
		want := fmt.Sprintf("message %d", i)
		if m.Content != want {
			t.Errorf("messages[%d].Content = %q, want %q", i, m.Content, want)
		}
		if m.ID == "" {
			t.Errorf("messages[%d] has no id", i)
		}
		if m.Timestamp.IsZero() {
			t.Errorf("messages[%d] has no timestamp", i)
		}
	}
}

func TestAddMessageMissingChat(t *testing.T) {
	s := New(State{})
	if _, err := s.AddMessage("nope", userMsg("hello")); err != models.ErrChatNotFound {
		t.Errorf("AddMessage() error = %v, want ErrChatNotFound", err)
	}
}

func TestTitleDerivedOnce(t *testing.T) {
	s := New(State{})
	id := s.NewChat()

	long := "Tell me everything about the projects you have shipped so far"
	if _, err := s.AddMessage(id, userMsg(long)); err != nil {
		t.Fatal(err)
	}

	chat, _ := s.Get(id)
	want := models.DeriveTitle(long)
	if chat.Title != want {
		t.Errorf("Title = %q, want %q", chat.Title, want)
	}
	if !strings.HasSuffix(chat.Title, "...") {
		t.Errorf("long title %q missing ellipsis", chat.Title)
	}

	// A second message must not touch the title again.
	if _, err := s.AddMessage(id, assistantMsg("Sure, here goes")); err != nil {
		t.Fatal(err)
	}
	chat, _ = s.Get(id)
	if chat.Title != want {
		t.Errorf("Title changed on second message: %q", chat.Title)
	}
}

func TestTitleNotDerivedAfterRename(t *testing.T) {
	s := New(State{})
	id := s.NewChat()

	if err := s.RenameChat(id, "Interview prep"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddMessage(id, userMsg("Hello")); err != nil {
		t.Fatal(err)
	}

	chat, _ := s.Get(id)
	if chat.Title != "Interview prep" {
		t.Errorf("Title = %q, want renamed title preserved", chat.Title)
	}
}

func TestShortFirstMessageScenario(t *testing.T) {
	s := New(State{})
	id := s.NewChat()

	if _, err := s.AddMessage(id, userMsg("Hello")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddMessage(id, assistantMsg("Hi there", models.Source{
		Title:         "About",
		Content:       "excerpt",
		DocumentPath:  "docs/about.md",
		DocumentTitle: "About Me",
		Relevance:     0.8,
	})); err != nil {
		t.Fatal(err)
	}

	chat, _ := s.Get(id)
	if chat.Title != "Hello" {
		t.Errorf("Title = %q, want %q (short content, no truncation)", chat.Title, "Hello")
	}
	if len(chat.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(chat.Messages))
	}
	if len(chat.Messages[1].Sources) != 1 {
		t.Errorf("assistant message has %d sources, want 1", len(chat.Messages[1].Sources))
	}
}

func TestRenameChat(t *testing.T) {
	s := New(State{})
	id := s.NewChat()

	if err := s.RenameChat(id, "  Trimmed  "); err != nil {
		t.Fatal(err)
	}
	chat, _ := s.Get(id)
	if chat.Title != "Trimmed" {
		t.Errorf("Title = %q, want %q", chat.Title, "Trimmed")
	}

	if err := s.RenameChat(id, "   "); err == nil {
		t.Error("RenameChat() with blank title should fail")
	}
	chat, _ = s.Get(id)
	if chat.Title != "Trimmed" {
		t.Errorf("blank rename changed title to %q", chat.Title)
	}

	if err := s.RenameChat("missing", "x"); err != models.ErrChatNotFound {
		t.Errorf("RenameChat() on missing chat error = %v, want ErrChatNotFound", err)
	}
}

func TestToggleStar(t *testing.T) {
	s := New(State{})
	id := s.NewChat()

	if err := s.ToggleStar(id); err != nil {
		t.Fatal(err)
	}
	if chat, _ := s.Get(id); !chat.Starred {
		t.Error("chat not starred after first toggle")
	}
	if err := s.ToggleStar(id); err != nil {
		t.Fatal(err)
	}
	if chat, _ := s.Get(id); chat.Starred {
		t.Error("chat still starred after second toggle")
	}
}

func TestDeleteChatReselection(t *testing.T) {
	// Chats [A, B, C] in storage order with B active: deleting B must
	// hand the pointer to an adjacent chat, never leave it stale.
	s := New(State{})
	c := s.NewChat() // storage order ends up [C, B, A]
	_ = c
	b := s.NewChat()
	a := s.NewChat()
	_ = a
	s.SetCurrentChat(b)

	s.DeleteChat(b)

	current := s.CurrentChatID()
	if current == b || current == "" {
		t.Fatalf("CurrentChatID = %q after deleting active chat", current)
	}
	if _, ok := s.Get(current); !ok {
		t.Fatalf("active pointer %q does not resolve", current)
	}
}

func TestDeleteLastChatCreatesFresh(t *testing.T) {
	s := New(State{})
	id := s.NewChat()

	s.DeleteChat(id)

	chats := s.Chats()
	if len(chats) != 1 {
		t.Fatalf("got %d chats after deleting the only one, want 1 fresh chat", len(chats))
	}
	if chats[0].ID == id {
		t.Error("deleted chat still present")
	}
	if s.CurrentChatID() != chats[0].ID {
		t.Error("fresh chat is not active")
	}
}

func TestDeleteChatIdempotent(t *testing.T) {
	s := New(State{})
	id := s.NewChat()
	other := s.NewChat()

	s.DeleteChat("never-existed")
	s.DeleteChat(id)
	s.DeleteChat(id)

	if len(s.Chats()) != 1 {
		t.Errorf("got %d chats, want 1", len(s.Chats()))
	}
	if s.CurrentChatID() != other {
		t.Errorf("CurrentChatID = %q, want %q", s.CurrentChatID(), other)
	}
}

func TestDeleteInactiveChatKeepsPointer(t *testing.T) {
	s := New(State{})
	a := s.NewChat()
	b := s.NewChat()
	s.SetCurrentChat(b)

	s.DeleteChat(a)

	if s.CurrentChatID() != b {
		t.Errorf("CurrentChatID = %q, want %q", s.CurrentChatID(), b)
	}
}

func TestEnsureActiveChatIdempotent(t *testing.T) {
	s := New(State{})

	s.EnsureActiveChat()
	after1 := s.Snapshot()
	s.EnsureActiveChat()
	after2 := s.Snapshot()

	if len(after1.Chats) != 1 || len(after2.Chats) != 1 {
		t.Fatalf("chat counts = %d then %d, want 1 and 1", len(after1.Chats), len(after2.Chats))
	}
	if after1.CurrentChatID != after2.CurrentChatID {
		t.Errorf("active pointer changed: %q -> %q", after1.CurrentChatID, after2.CurrentChatID)
	}
}

func TestEnsureActiveChatRepairsDanglingPointer(t *testing.T) {
	s := New(State{})
	id := s.NewChat()
	s.SetCurrentChat("dangling")

	s.EnsureActiveChat()

	if s.CurrentChatID() != id {
		t.Errorf("CurrentChatID = %q, want first existing chat %q", s.CurrentChatID(), id)
	}
}

func TestReplaceAll(t *testing.T) {
	s := New(State{})
	s.NewChat()
	s.NewChat()

	remote := []models.Chat{
		{ID: "r1", Title: "Remote one", CreatedAt: time.Now(), LastUpdated: time.Now()},
		{ID: "r2", Title: "Remote two", CreatedAt: time.Now(), LastUpdated: time.Now()},
	}
	s.ReplaceAll(remote)

	chats := s.Chats()
	if len(chats) != 2 || chats[0].ID != "r1" {
		t.Fatalf("ReplaceAll produced unexpected collection: %+v", chats)
	}
	if s.CurrentChatID() != "r1" {
		t.Errorf("CurrentChatID = %q, want first remote chat", s.CurrentChatID())
	}

	s.ReplaceAll(nil)
	if s.CurrentChatID() != "" {
		t.Errorf("CurrentChatID = %q after empty replace, want cleared", s.CurrentChatID())
	}
}

func TestAdoptServerID(t *testing.T) {
	s := New(State{})
	local := s.NewChat()
	if _, err := s.AddMessage(local, userMsg("Hello")); err != nil {
		t.Fatal(err)
	}

	if err := s.AdoptServerID(local, "server-42"); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.Get(local); ok {
		t.Error("local id still resolves after adoption")
	}
	chat, ok := s.Get("server-42")
	if !ok {
		t.Fatal("server id does not resolve")
	}
	if len(chat.Messages) != 1 {
		t.Errorf("message history lost: %d messages", len(chat.Messages))
	}
	if s.CurrentChatID() != "server-42" {
		t.Errorf("active pointer = %q, want server id", s.CurrentChatID())
	}
}

func TestAdoptServerIDMergesExisting(t *testing.T) {
	s := New(State{})
	s.ReplaceAll([]models.Chat{{
		ID: "server-42", Title: "Existing",
		Messages: []models.Message{{ID: "m1", Role: models.RoleUser, Content: "old"}},
	}})
	local := s.NewChat()
	if _, err := s.AddMessage(local, userMsg("new")); err != nil {
		t.Fatal(err)
	}

	if err := s.AdoptServerID(local, "server-42"); err != nil {
		t.Fatal(err)
	}

	chat, _ := s.Get("server-42")
	if len(chat.Messages) != 2 {
		t.Errorf("merged chat has %d messages, want 2", len(chat.Messages))
	}
	if len(s.Chats()) != 1 {
		t.Errorf("got %d chats after merge, want 1", len(s.Chats()))
	}
}

func TestAdoptServerIDNoops(t *testing.T) {
	s := New(State{})
	id := s.NewChat()

	if err := s.AdoptServerID(id, id); err != nil {
		t.Errorf("same-id adoption error = %v", err)
	}
	if err := s.AdoptServerID(id, ""); err != nil {
		t.Errorf("empty server id adoption error = %v", err)
	}
	if err := s.AdoptServerID("missing", "x"); err != models.ErrChatNotFound {
		t.Errorf("missing local id error = %v, want ErrChatNotFound", err)
	}
}

func TestDisplayOrder(t *testing.T) {
	now := time.Now()
	s := New(State{Chats: []models.Chat{
		{ID: "new-unstarred", Title: "b", LastUpdated: now},
		{ID: "old-starred", Title: "a", Starred: true, LastUpdated: now.Add(-24 * time.Hour)},
		{ID: "mid-unstarred", Title: "c", LastUpdated: now.Add(-1 * time.Hour)},
	}})

	display := s.Display()
	got := []string{display[0].ID, display[1].ID, display[2].ID}
	want := []string{"old-starred", "new-unstarred", "mid-unstarred"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("display order = %v, want %v", got, want)
		}
	}
}

func TestFind(t *testing.T) {
	s := New(State{Chats: []models.Chat{
		{ID: "abc-111", Title: "Machine learning"},
		{ID: "abd-222", Title: "Resume questions"},
	}})

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr bool
	}{
		{name: "exact id", query: "abc-111", wantID: "abc-111"},
		{name: "exact title case-insensitive", query: "machine LEARNING", wantID: "abc-111"},
		{name: "unique id prefix", query: "abd", wantID: "abd-222"},
		{name: "unique title prefix", query: "resume", wantID: "abd-222"},
		{name: "ambiguous prefix", query: "ab", wantErr: true},
		{name: "no match", query: "zzz", wantErr: true},
		{name: "empty", query: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat, err := s.Find(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Find(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
			if err == nil && chat.ID != tt.wantID {
				t.Errorf("Find(%q) = %s, want %s", tt.query, chat.ID, tt.wantID)
			}
		})
	}
}

func TestActivePointerInvariant(t *testing.T) {
	// Random operation sequences must never leave a non-empty
	// collection with a pointer that does not resolve.
	rng := rand.New(rand.NewSource(42))
	s := New(State{})

	var ids []string
	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			ids = append(ids, s.NewChat())
		case 1:
			if len(ids) > 0 {
				s.DeleteChat(ids[rng.Intn(len(ids))])
			}
		case 2:
			if len(ids) > 0 {
				s.SetCurrentChat(ids[rng.Intn(len(ids))])
				s.EnsureActiveChat()
			}
		case 3:
			s.EnsureActiveChat()
		}

		if len(s.Chats()) > 0 {
			current := s.CurrentChatID()
			if _, ok := s.Get(current); !ok {
				t.Fatalf("step %d: pointer %q does not resolve", i, current)
			}
		}
	}
}

func TestStats(t *testing.T) {
	s := New(State{})
	a := s.NewChat()
	if _, err := s.AddMessage(a, userMsg("hi")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddMessage(a, assistantMsg("hello")); err != nil {
		t.Fatal(err)
	}
	b := s.NewChat()
	if err := s.ToggleStar(b); err != nil {
		t.Fatal(err)
	}

	stats := s.Stats()
	if stats.TotalChats != 2 {
		t.Errorf("TotalChats = %d, want 2", stats.TotalChats)
	}
	if stats.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d, want 2", stats.TotalMessages)
	}
	if stats.StarredChats != 1 {
		t.Errorf("StarredChats = %d, want 1", stats.StarredChats)
	}
	if stats.UserMessages != 1 || stats.AssistantMsgs != 1 {
		t.Errorf("role counts = %d/%d, want 1/1", stats.UserMessages, stats.AssistantMsgs)
	}
}

type recordingPersister struct {
	saves []State
}

func (p *recordingPersister) SaveState(st State) error {
	p.saves = append(p.saves, st)
	return nil
}

func TestPersisterMirrorsMutations(t *testing.T) {
	p := &recordingPersister{}
	s := New(State{}, WithPersister(p))

	id := s.NewChat()
	if _, err := s.AddMessage(id, userMsg("hi")); err != nil {
		t.Fatal(err)
	}

	if len(p.saves) != 2 {
		t.Fatalf("persister saw %d saves, want 2", len(p.saves))
	}
	last := p.saves[len(p.saves)-1]
	if last.CurrentChatID != id || len(last.Chats) != 1 || len(last.Chats[0].Messages) != 1 {
		t.Errorf("last persisted state does not reflect mutations: %+v", last)
	}
}

func TestSubscribeNotified(t *testing.T) {
	s := New(State{})
	var notified int
	s.Subscribe(func() { notified++ })

	s.NewChat()

	if notified != 1 {
		t.Errorf("subscriber notified %d times, want 1", notified)
	}
}
