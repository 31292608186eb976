package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hondachat/internal/core/models"
	"hondachat/internal/core/store"
)

// exampleQuestions mirrors the suggestions shown on the web chat.
var exampleQuestions = []string{
	"What makes Justin a good fit for my business?",
	"Provide examples of successful client deliveries?",
	"What are Justin's unique selling points that will drive value for my organisation?",
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.questions {
		switch msg.String() {
		case "esc", "ctrl+e":
			m.questions = false
			return m, nil
		case "1", "2", "3":
			idx := int(msg.String()[0] - '1')
			m.questions = false
			return m.send(exampleQuestions[idx])
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		content := strings.TrimSpace(m.input.Value())
		if content == "" || m.waiting {
			return m, nil
		}
		m.input.Reset()
		return m.send(content)

	case "ctrl+l":
		m.mode = listView
		m.list = createChatList(m.store, m.width, m.height)
		return m, nil

	case "ctrl+n":
		m.store.NewChat()
		m.refreshConversation(true)
		m.status = "Started a new chat"
		return m, clearStatusAfter(statusTTL)

	case "ctrl+e":
		m.questions = true
		return m, nil

	case "ctrl+y":
		if reply, ok := lastAssistantMessage(m.store); ok {
			if err := clipboard.WriteAll(reply.Content); err != nil {
				m.status = "Copy failed: " + err.Error()
			} else {
				m.status = "Reply copied to clipboard"
			}
			return m, clearStatusAfter(statusTTL)
		}
		return m, nil

	case "pgup", "ctrl+u":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown", "ctrl+d":
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) send(content string) (tea.Model, tea.Cmd) {
	m.waiting = true
	m.status = ""
	return m, tea.Batch(
		sendMessage(m.store, m.client, content),
		m.spinner.Tick,
	)
}

func (m *Model) refreshConversation(gotoBottom bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderConversation())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderConversation() string {
	chat, ok := m.store.CurrentChat()
	if !ok || len(chat.Messages) == 0 {
		return emptyChatHint
	}

	var b strings.Builder
	for i, msg := range chat.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		label := userStyle.Render("You")
		if msg.Role == models.RoleAssistant {
			label = assistantStyle.Render("Assistant")
		}
		b.WriteString(label)
		b.WriteString(timestampStyle.Render("  " + msg.Timestamp.Format("15:04")))
		b.WriteString("\n")
		b.WriteString(wrapText(msg.Content, m.width-2))
		b.WriteString("\n")
		for _, src := range msg.Sources {
			b.WriteString(sourceStyle.Render("  • " + src.Title))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) viewChat() string {
	chat, _ := m.store.CurrentChat()

	header := titleStyle.Render(chat.Title)
	if chat.Starred {
		header += " ★"
	}

	body := m.viewport.View()
	if m.questions {
		body = m.renderQuestions()
	}

	var footer string
	switch {
	case m.waiting:
		footer = m.spinner.View() + " Thinking..."
	case m.status != "":
		footer = statusStyle.Render(m.status)
	default:
		footer = helpStyle.Render("enter send • ctrl+e examples • ctrl+n new • ctrl+l chats • ctrl+y copy reply • ctrl+c quit")
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s",
		header,
		body,
		inputStyle.Width(m.width-2).Render(m.input.View()),
		footer,
	)
}

func (m Model) renderQuestions() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Test the chat with common queries"))
	b.WriteString("\n\n")
	for i, q := range exampleQuestions {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, q))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("press 1-3 to send, esc to close"))

	filler := m.viewport.Height - lipgloss.Height(b.String())
	if filler > 0 {
		b.WriteString(strings.Repeat("\n", filler))
	}
	return b.String()
}

func lastAssistantMessage(st *store.Store) (models.Message, bool) {
	chat, ok := st.CurrentChat()
	if !ok {
		return models.Message{}, false
	}
	for i := len(chat.Messages) - 1; i >= 0; i-- {
		if chat.Messages[i].Role == models.RoleAssistant {
			return chat.Messages[i], true
		}
	}
	return models.Message{}, false
}

// wrapText does simple greedy word wrapping so long replies stay inside
// the viewport.
func wrapText(s string, width int) string {
	if width < 10 {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		for len(line) > width {
			cut := strings.LastIndex(line[:width], " ")
			if cut <= 0 {
				cut = width
			}
			out = append(out, line[:cut])
			line = strings.TrimLeft(line[cut:], " ")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
