package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/internal/layout"
)

type focus int

const (
	focusList focus = iota
	focusThread
	focusInput
	focusSearch
)

type refreshedMsg struct {
	rows     []*entity.ConversationInfo
	messages []*entity.MessageInfo
}

type paletteMsg struct {
	palette []string
}

type changedMsg struct{}

type errMsg struct {
	err error
}

// Model is the bubbletea model of the chat screen
type Model struct {
	ctx      context.Context
	backend  Backend
	resolver *layout.Resolver

	width  int
	height int

	rows      []*entity.ConversationInfo
	cursor    int
	activeId  string
	messages  []*entity.MessageInfo
	msgCursor int
	palette   []string

	input  textinput.Model
	search textinput.Model
	focus  focus
	status string
}

// NewModel creates the chat screen; resolver works in terminal columns
func NewModel(ctx context.Context, backend Backend, resolver *layout.Resolver) *Model {
	input := textinput.New()
	input.Placeholder = "Write a message"
	input.Prompt = "› "

	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = "/ "

	return &Model{
		ctx:      ctx,
		backend:  backend,
		resolver: resolver,
		input:    input,
		search:   search,
		focus:    focusList,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.paletteCmd(), m.waitForChange())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case changedMsg:
		return m, tea.Batch(m.refreshCmd(), m.waitForChange())

	case refreshedMsg:
		m.applyRefresh(msg)
		return m, nil

	case paletteMsg:
		m.palette = msg.palette
		return m, nil

	case errMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.status = ""
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusInput:
			return m.updateInput(msg)
		case focusThread:
			return m.updateThread(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "/":
		m.focus = focusSearch
		return m, m.search.Focus()
	case "tab":
		if m.activeId != "" {
			m.focus = focusThread
		}
	case "enter":
		if m.cursor >= len(m.rows) {
			return m, nil
		}
		id := m.rows[m.cursor].Id
		m.focus = focusInput
		return m, tea.Batch(m.input.Focus(), m.action(func(ctx context.Context) error {
			return m.backend.Open(ctx, id)
		}))
	}
	return m, nil
}

func (m *Model) updateThread(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "up", "k":
		if m.msgCursor > 0 {
			m.msgCursor--
		}
	case "down", "j":
		if m.msgCursor < len(m.messages)-1 {
			m.msgCursor++
		}
	case "i", "enter":
		m.focus = focusInput
		return m, m.input.Focus()
	case "tab":
		m.focus = focusList
	case "esc":
		m.focus = focusList
		return m, m.action(m.backend.Close)
	default:
		n, err := strconv.Atoi(key)
		if err != nil || n < 1 || n > len(m.palette) || m.msgCursor >= len(m.messages) {
			return m, nil
		}
		token := m.palette[n-1]
		index := m.messages[m.msgCursor].Index
		return m, m.action(func(ctx context.Context) error {
			return m.backend.React(ctx, index, token)
		})
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.focus = focusThread
		return m, nil
	case "enter":
		text := m.input.Value()
		m.input.Reset()
		return m, m.action(func(ctx context.Context) error {
			return m.backend.Send(ctx, text)
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.search.Blur()
		m.focus = focusList
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if query := m.search.Value(); query != before {
		m.cursor = 0
		return m, tea.Batch(cmd, m.action(func(ctx context.Context) error {
			return m.backend.Search(ctx, query)
		}))
	}
	return m, cmd
}

func (m *Model) applyRefresh(msg refreshedMsg) {
	m.rows = msg.rows

	prev := m.activeId
	m.activeId = ""
	for _, r := range m.rows {
		if r.Active {
			m.activeId = r.Id
			break
		}
	}

	grew := len(msg.messages) > len(m.messages)
	m.messages = msg.messages
	if m.activeId != prev || grew || m.msgCursor >= len(m.messages) {
		m.msgCursor = len(m.messages) - 1
	}
	if m.msgCursor < 0 {
		m.msgCursor = 0
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	if m.activeId == "" && (m.focus == focusThread || m.focus == focusInput) {
		m.input.Blur()
		m.focus = focusList
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.backend.List(m.ctx)
		if err != nil {
			return errMsg{err: err}
		}

		var messages []*entity.MessageInfo
		for _, r := range rows {
			if !r.Active {
				continue
			}
			messages, err = m.backend.Messages(m.ctx, r.Id)
			if err != nil {
				return errMsg{err: err}
			}
			break
		}
		return refreshedMsg{rows: rows, messages: messages}
	}
}

func (m *Model) paletteCmd() tea.Cmd {
	return func() tea.Msg {
		palette, err := m.backend.Palette(m.ctx)
		if err != nil {
			return errMsg{err: err}
		}
		return paletteMsg{palette: palette}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	changes := m.backend.Changes()
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// action runs fn and refreshes; a failure is shown in the status line
func (m *Model) action(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(m.ctx); err != nil {
			return errMsg{err: err}
		}
		return m.refreshCmd()()
	}
}

func (m *Model) layout() layout.Model {
	return m.resolver.Resolve(m.width, m.activeId != "")
}
