package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hondachat/internal/core/auth"
)

func TestSendMessage(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/message" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(SendResponse{
			ChatID:   "server-1",
			Response: "Hi there",
		})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	resp, err := c.SendMessage(context.Background(), "local-1", "Hello", []HistoryEntry{
		{Role: "user", Content: "Hello"},
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if resp.ChatID != "server-1" || resp.Response != "Hi there" {
		t.Errorf("response = %+v", resp)
	}
	if got.Content != "Hello" || got.ChatID != "local-1" {
		t.Errorf("request = %+v", got)
	}
	if len(got.ConversationHistory) != 1 {
		t.Errorf("history length = %d", len(got.ConversationHistory))
	}
}

func TestSendMessage_TrimsHistoryWindow(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(SendResponse{ChatID: "c", Response: "ok"})
	}))
	defer srv.Close()

	var history []HistoryEntry
	for i := 0; i < 9; i++ {
		history = append(history, HistoryEntry{Role: "user", Content: "m"})
	}

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	if _, err := c.SendMessage(context.Background(), "c", "x", history); err != nil {
		t.Fatal(err)
	}
	if len(got.ConversationHistory) != HistoryWindow {
		t.Errorf("history sent = %d entries, want %d", len(got.ConversationHistory), HistoryWindow)
	}
}

func TestSendMessage_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	if _, err := c.SendMessage(context.Background(), "c", "x", nil); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestListChats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/user/chats" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-123" {
			t.Errorf("Authorization = %q", auth)
		}
		_, _ = w.Write([]byte(`{"chats":[{"id":"c1","title":"First","messages":[{"role":"user","content":"hi","created_at":"2025-03-14T09:00:00Z"}],"created_at":"2025-03-14T09:00:00Z","updated_at":"2025-03-14T09:05:00Z"}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Tokens: auth.Static("tok-123")})
	chats, err := c.ListChats(context.Background())
	if err != nil {
		t.Fatalf("ListChats() error = %v", err)
	}
	if len(chats) != 1 || chats[0].ID != "c1" {
		t.Fatalf("chats = %+v", chats)
	}
	if len(chats[0].Messages) != 1 || chats[0].Messages[0].Role != "user" {
		t.Errorf("messages = %+v", chats[0].Messages)
	}
}

func TestListChats_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	if _, err := c.ListChats(context.Background()); err == nil {
		t.Fatal("expected error on malformed body")
	}
}

func TestListChats_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	if _, err := c.ListChats(ctx); err == nil {
		t.Fatal("expected error on cancelled context")
	}
}
