package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"hondachat/internal/core/backend"
	"hondachat/internal/core/config"
	"hondachat/internal/core/db"
	"hondachat/internal/core/store"
)

type viewMode int

const (
	chatView viewMode = iota
	listView
	helpView
)

type Model struct {
	store   *store.Store
	client  *backend.Client
	db      *db.DB
	cfg     *config.Config
	mode    viewMode
	width   int
	height  int
	ready   bool
	err     error

	viewport viewport.Model
	input    textarea.Model
	list     list.Model
	spinner  spinner.Model

	waiting   bool   // a send is in flight
	syncing   bool
	status    string // transient message shown in the footer
	questions bool   // example questions panel open
}

func New(st *store.Store, client *backend.Client, database *db.DB, cfg *config.Config) Model {
	input := textarea.New()
	input.Placeholder = "Ask about Justin's work... (enter to send, ctrl+l for chats)"
	input.Prompt = "> "
	input.SetHeight(1)
	input.ShowLineNumbers = false
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	st.EnsureActiveChat()

	return Model{
		store:   st,
		client:  client,
		db:      database,
		cfg:     cfg,
		mode:    chatView,
		input:   input,
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, syncChats(m.cfg, m.client, m.db, m.store))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.resize()
		m.ready = true
		m.refreshConversation(true)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "?":
			if m.mode != chatView {
				m.mode = helpView
				return m, nil
			}
		}

		switch m.mode {
		case chatView:
			return m.updateChat(msg)
		case listView:
			return m.updateList(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case tea.MouseMsg:
		if m.mode == chatView {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Send failed: " + msg.err.Error()
		} else {
			m.status = ""
		}
		m.refreshConversation(true)
		return m, nil

	case syncDoneMsg:
		m.syncing = false
		m.store.EnsureActiveChat()
		m.refreshConversation(true)
		if m.mode == listView {
			m.list.SetItems(chatItems(m.store))
		}
		if msg.err == nil && msg.fetched {
			m.status = "Chats synced"
			return m, clearStatusAfter(statusTTL)
		}
		return m, nil

	case statusExpiredMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress ctrl+c to quit"
	}
	if !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case chatView:
		return m.viewChat()
	case listView:
		return m.viewList()
	case helpView:
		return m.viewHelp()
	}

	return ""
}

func (m Model) resize() Model {
	inputHeight := 3 // input box with border
	footer := 1
	m.viewport = viewport.New(m.width, m.height-inputHeight-footer-1)
	m.input.SetWidth(m.width - 4)
	if m.mode == listView {
		m.list = createChatList(m.store, m.width, m.height)
	}
	return m
}
