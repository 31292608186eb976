// Package relay implements the contact-form endpoint the portfolio
// site posts to. It validates the submission and forwards it by mail;
// it keeps no state of its own.
package relay

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/charmbracelet/log"

	"hondachat/internal/core/config"
)

// DefaultRecipient receives submissions when the form does not name one.
const DefaultRecipient = "contact@justfish.dev"

const textTemplate = `Name: {{name}}
Email: {{email}}

Message:
{{message}}
`

const htmlTemplate = `<h3>New Contact Form Submission</h3>
<p><strong>Name:</strong> {{name}}</p>
<p><strong>Email:</strong> {{email}}</p>
<p><strong>Message:</strong></p>
<p>{{{messageHTML}}}</p>
`

// Mail is one rendered submission ready to send.
type Mail struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a rendered submission. The SMTP implementation is in
// smtp.go; tests substitute their own.
type Sender interface {
	Send(mail Mail) error
}

// Server handles contact-form submissions.
type Server struct {
	cfg    config.MailConfig
	sender Sender
}

// NewServer creates a relay server. A nil sender gets the SMTP sender
// built from the mail config.
func NewServer(cfg config.MailConfig, sender Sender) *Server {
	if sender == nil {
		sender = &smtpSender{cfg: cfg}
	}
	return &Server{cfg: cfg, sender: sender}
}

// Handler returns the HTTP handler serving POST /api/contact.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/contact", s.handleContact)
	return mux
}

// ListenAndServe runs the relay on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	log.Info("contact relay listening", "addr", addr)
	return srv.ListenAndServe()
}

type contactRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Recipient string `json:"recipient,omitempty"`
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Refuse to accept submissions we cannot deliver.
	if s.cfg.User == "" || s.cfg.Password == "" {
		log.Error("mail user or password not configured")
		writeError(w, http.StatusInternalServerError, "Email service not configured")
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: name, email, or message")
		return
	}

	mail, err := s.render(req)
	if err != nil {
		log.Error("failed to render mail", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	if err := s.sender.Send(mail); err != nil {
		log.Error("failed to send mail", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Email sent successfully"})
}

// render fills the mail templates from a submission.
func (s *Server) render(req contactRequest) (Mail, error) {
	recipient := req.Recipient
	if recipient == "" {
		recipient = s.cfg.Recipient
	}
	if recipient == "" {
		recipient = DefaultRecipient
	}

	data := map[string]string{
		"name":    req.Name,
		"email":   req.Email,
		"message": req.Message,
		// The HTML body keeps the submission's line breaks. Mustache
		// escapes name/email/message; only the <br> markup is trusted.
		"messageHTML": strings.ReplaceAll(escapeHTML(req.Message), "\n", "<br>"),
	}

	text, err := mustache.Render(textTemplate, data)
	if err != nil {
		return Mail{}, err
	}
	html, err := mustache.Render(htmlTemplate, data)
	if err != nil {
		return Mail{}, err
	}

	return Mail{
		To:      recipient,
		Subject: "New Contact Form Submission from " + req.Name,
		Text:    text,
		HTML:    html,
	}, nil
}

func escapeHTML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
