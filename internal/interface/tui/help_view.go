package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.mode = listView
		return m, nil
	}

	return m, nil
}

func (m Model) viewHelp() string {
	help := `
hondachat - Help
════════════════

CHAT VIEW
─────────
  Enter        Send message
  Ctrl+E       Example questions (1-3 to send)
  Ctrl+N       New chat
  Ctrl+L       Chat list
  Ctrl+Y       Copy last reply to clipboard
  PgUp/PgDn    Scroll the conversation
  Ctrl+C       Quit

CHAT LIST
─────────
  ↑/↓, j/k     Navigate chats
  Enter        Open chat
  n            New chat
  d            Delete chat
  *            Star/unstar chat
  s            Sync with backend
  /            Filter by title
  esc          Back to chat
  ?            Show this help

Press esc to return
`

	return helpStyle.Render(help)
}
