// Package backend is the HTTP client for the portfolio chat backend.
// The backend owns all retrieval and model inference; this client just
// moves messages and chat lists over the wire.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hondachat/internal/core/auth"
	"hondachat/internal/core/models"
)

// HistoryWindow is how many trailing messages accompany a send as
// conversation history.
const HistoryWindow = 5

// Default configuration values.
const (
	DefaultTimeout = 5 * time.Second
)

// ClientConfig holds configuration for the backend client.
type ClientConfig struct {
	// BaseURL is the backend API base URL.
	BaseURL string

	// Timeout bounds every request (default: 5s).
	Timeout time.Duration

	// Tokens supplies the bearer credential for authenticated
	// endpoints. May be nil for anonymous use.
	Tokens auth.TokenSource
}

// Client talks to the chat backend.
type Client struct {
	client  *http.Client
	baseURL string
	tokens  auth.TokenSource
}

// HistoryEntry is one prior turn sent along with a message.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// sendRequest is the POST /api/chat/message request format.
type sendRequest struct {
	Content             string         `json:"content"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
	ChatID              string         `json:"chat_id"`
}

// SendResponse is the backend's reply to a sent message. ChatID may
// differ from the id the client sent; the backend assigns its own id
// on the first exchange of a chat.
type SendResponse struct {
	ChatID   string          `json:"chat_id"`
	Response string          `json:"response"`
	Sources  []models.Source `json:"sources,omitempty"`
}

// RemoteChat is a chat as the session-listing endpoint represents it.
type RemoteChat struct {
	ID        string          `json:"id"`
	Title     string          `json:"title,omitempty"`
	Messages  []RemoteMessage `json:"messages"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// RemoteMessage is a message as the backend represents it.
type RemoteMessage struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Sources   []models.Source `json:"sources,omitempty"`
	CreatedAt string          `json:"created_at"`
}

// listResponse is the GET /api/chat/user/chats response format.
type listResponse struct {
	Chats []RemoteChat `json:"chats"`
}

// NewClient creates a backend client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  cfg.Tokens,
	}
}

// SendMessage posts a message with its trailing history and returns the
// assistant's reply. Callers pass the full message list; the client
// keeps only the last HistoryWindow entries.
func (c *Client) SendMessage(ctx context.Context, chatID, content string, history []HistoryEntry) (*SendResponse, error) {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}

	reqBody := sendRequest{
		Content:             content,
		ConversationHistory: history,
		ChatID:              chatID,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/chat/message",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.addBearer(req); err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var sendResp SendResponse
	if err := json.Unmarshal(body, &sendResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &sendResp, nil
}

// ListChats fetches the authoritative chat list for the signed-in user.
func (c *Client) ListChats(ctx context.Context) ([]RemoteChat, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/api/chat/user/chats",
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if err := c.addBearer(req); err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var listResp listResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return listResp.Chats, nil
}

// addBearer attaches the bearer credential when one is available.
func (c *Client) addBearer(req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}
