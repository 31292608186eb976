package relay

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"hondachat/internal/core/config"
)

// smtpSender delivers mail over authenticated SMTP with STARTTLS,
// which is what net/smtp.SendMail negotiates on port 587.
type smtpSender struct {
	cfg config.MailConfig
}

func (s *smtpSender) Send(mail Mail) error {
	host := s.cfg.Host
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, host)
	addr := fmt.Sprintf("%s:%d", host, port)

	msg := buildMessage(s.cfg.User, mail)
	if err := smtp.SendMail(addr, auth, s.cfg.User, []string{mail.To}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// buildMessage assembles a multipart/alternative MIME message with a
// plain-text part and an HTML part.
func buildMessage(from string, mail Mail) []byte {
	const boundary = "hondachat-mail-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", mail.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", mail.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(mail.Text)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(mail.HTML)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
