package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"hondachat/internal/core/models"
	"hondachat/internal/core/store"
)

type chatListItem struct {
	chat    models.Chat
	current bool
}

func (i chatListItem) FilterValue() string {
	return i.chat.Title
}

func (i chatListItem) Title() string {
	title := i.chat.Title
	if i.chat.Starred {
		title = "★ " + title
	}
	return title
}

func (i chatListItem) Description() string {
	return fmt.Sprintf("%d message(s) | Updated: %s",
		len(i.chat.Messages), humanize.Time(i.chat.LastUpdated))
}

// Custom delegate to highlight the active chat
type chatDelegate struct {
	list.DefaultDelegate
}

func (d chatDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	c, ok := item.(chatListItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := c.Title()
	desc := c.Description()

	switch {
	case index == m.Index():
		title = selectedItemStyle.Render(title)
		desc = selectedItemStyle.Faint(true).Render(desc)
	case c.current:
		title = activeChatStyle.Render(title)
		desc = itemStyle.Render(desc)
	default:
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func chatItems(st *store.Store) []list.Item {
	currentID := st.CurrentChatID()
	chats := st.Display()
	items := make([]list.Item, len(chats))
	for i, c := range chats {
		items[i] = chatListItem{chat: c, current: c.ID == currentID}
	}
	return items
}

func createChatList(st *store.Store, width, height int) list.Model {
	delegate := chatDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(chatItems(st), delegate, width, height-1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(true)

	return l
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Let the list handle keys while its filter input is active.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		if selected, ok := m.list.SelectedItem().(chatListItem); ok {
			m.store.SetCurrentChat(selected.chat.ID)
			m.mode = chatView
			m.refreshConversation(true)
		}
		return m, nil

	case "esc", "q":
		m.mode = chatView
		return m, nil

	case "n":
		m.store.NewChat()
		m.mode = chatView
		m.refreshConversation(true)
		return m, nil

	case "d":
		if selected, ok := m.list.SelectedItem().(chatListItem); ok {
			m.store.DeleteChat(selected.chat.ID)
			m.list.SetItems(chatItems(m.store))
			m.refreshConversation(true)
		}
		return m, nil

	case "*", "f":
		if selected, ok := m.list.SelectedItem().(chatListItem); ok {
			if err := m.store.ToggleStar(selected.chat.ID); err == nil {
				m.list.SetItems(chatItems(m.store))
			}
		}
		return m, nil

	case "s":
		if !m.syncing {
			m.syncing = true
			return m, syncChats(m.cfg, m.client, m.db, m.store)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) viewList() string {
	helpText := "enter open • n new • d delete • * star • s sync • / filter • esc back • ? help"
	if m.syncing {
		helpText = "⏳ Syncing..."
	}

	if len(m.store.Chats()) == 0 {
		return "No chats yet. Press 'n' to start one.\n\n" + helpStyle.Render(helpText)
	}

	return m.list.View() + "\n" + helpStyle.Render(helpText)
}
