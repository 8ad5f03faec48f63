package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbeoliero/threadly/internal/app"
	"github.com/mbeoliero/threadly/internal/config"
	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/internal/layout"
	"github.com/mbeoliero/threadly/internal/scheduler"
	"github.com/mbeoliero/threadly/pkg/constant"
	"github.com/mbeoliero/threadly/sdk"
)

const heartToken = "https://cdn.threadly.local/emoji/heart.png"

type harness struct {
	app     *app.App
	sched   *scheduler.Virtual
	backend *LocalBackend
	model   *Model
}

func newHarness(t *testing.T, width int) *harness {
	t.Helper()

	sched := scheduler.NewVirtual(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	a, err := app.New(context.Background(), config.Default(), sched)
	require.NoError(t, err)

	repo := a.Repos.Conversation
	require.NoError(t, repo.Create(entity.Conversation{Id: "1", Name: "Alice Moreau", LastOpenedAt: 1, Online: true}, []entity.Message{
		{Id: "s1", Direction: entity.DirectionInbound, Body: "lunch?", TimeLabel: "08:40"},
	}))
	require.NoError(t, repo.Create(entity.Conversation{Id: "2", Name: "David Okafor", LastOpenedAt: 3}, nil))
	require.NoError(t, repo.Create(entity.Conversation{Id: "3", Name: "Alina Petrova", LastOpenedAt: 2, Unread: true}, nil))

	backend := NewLocalBackend(a.Chat, a.Hub, []string{heartToken})
	t.Cleanup(backend.Shutdown)

	// 96 columns stand in for the 768px breakpoint
	resolver := layout.NewResolver(config.LayoutConfig{Breakpoint: 96, ListWidth: 40})
	m := NewModel(context.Background(), backend, resolver)

	h := &harness{app: a, sched: sched, backend: backend, model: m}
	h.send(t, tea.WindowSizeMsg{Width: width, Height: 30})
	h.run(t, m.refreshCmd())
	h.run(t, m.paletteCmd())
	return h
}

// run executes cmd and feeds its result back into the model. Commands that do
// not finish quickly (cursor blink timers) are dropped.
func (h *harness) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			h.run(t, c)
		}
		return
	}
	if msg != nil {
		h.send(t, msg)
	}
}

func (h *harness) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	_, cmd := h.model.Update(msg)
	h.run(t, cmd)
}

func (h *harness) key(t *testing.T, k tea.KeyType) {
	t.Helper()
	h.send(t, tea.KeyMsg{Type: k})
}

func (h *harness) typeText(t *testing.T, text string) {
	t.Helper()
	for _, r := range text {
		h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestView_Loading(t *testing.T) {
	m := NewModel(context.Background(), nil, layout.NewResolver(config.LayoutConfig{}))
	assert.Equal(t, "loading...", m.View())
}

func TestView_DesktopPlaceholder(t *testing.T) {
	h := newHarness(t, 120)

	view := h.model.View()
	assert.Contains(t, view, "Chats")
	assert.Contains(t, view, "David Okafor")
	assert.Contains(t, view, "Alina Petrova")
	assert.Contains(t, view, "Select a conversation to start chatting")
	assert.Equal(t, "2", h.model.rows[0].Id)
}

func TestModel_OpenSendAndProgress(t *testing.T) {
	h := newHarness(t, 120)
	m := h.model

	h.key(t, tea.KeyEnter)
	assert.Equal(t, "2", m.activeId)
	assert.Equal(t, focusInput, m.focus)

	h.typeText(t, "hi")
	h.key(t, tea.KeyEnter)
	require.Len(t, m.messages, 1)
	assert.Equal(t, "hi", m.messages[0].Body)
	assert.Equal(t, entity.StatusSent, m.messages[0].Status)
	assert.Empty(t, m.input.Value())

	view := m.View()
	assert.Contains(t, view, "hi")
	assert.Contains(t, view, "✓")
	assert.NotContains(t, view, "Select a conversation")

	h.sched.Advance(constant.SeenDelay)
	h.run(t, m.refreshCmd())
	assert.Equal(t, entity.StatusSeen, m.messages[0].Status)
	assert.Equal(t, entity.StatusSeen, m.rows[0].DeliveryState)
}

func TestModel_BlankSendShowsError(t *testing.T) {
	h := newHarness(t, 120)

	h.key(t, tea.KeyEnter)
	h.key(t, tea.KeyEnter)
	assert.Contains(t, h.model.status, "message text is empty")
	assert.Contains(t, h.model.View(), "message text is empty")

	// next key clears the status line
	h.typeText(t, "x")
	assert.Empty(t, h.model.status)
}

func TestModel_ReactAndClose(t *testing.T) {
	h := newHarness(t, 120)
	m := h.model

	// move to Alice, who has one inbound message
	h.key(t, tea.KeyDown)
	h.key(t, tea.KeyDown)
	h.key(t, tea.KeyEnter)
	require.Equal(t, "1", m.activeId)

	h.key(t, tea.KeyEsc)
	assert.Equal(t, focusThread, m.focus)
	assert.Contains(t, m.View(), "1-1 react")

	h.typeText(t, "1")
	msg, err := h.app.Repos.Conversation.Message("1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{heartToken}, msg.Reactions)
	assert.Contains(t, m.View(), "heart")

	h.key(t, tea.KeyEsc)
	assert.Equal(t, focusList, m.focus)
	assert.Empty(t, m.activeId)
	assert.Contains(t, m.View(), "Select a conversation to start chatting")
}

func TestModel_MobileStack(t *testing.T) {
	h := newHarness(t, 60)
	m := h.model

	assert.Contains(t, m.View(), "Chats")
	assert.NotContains(t, m.View(), "Select a conversation")

	h.key(t, tea.KeyEnter)
	view := m.View()
	assert.Contains(t, view, "← esc")
	assert.NotContains(t, view, "Chats")

	h.key(t, tea.KeyEsc) // leave input
	h.key(t, tea.KeyEsc) // close
	assert.Contains(t, m.View(), "Chats")
}

func TestModel_Search(t *testing.T) {
	h := newHarness(t, 120)
	m := h.model

	h.typeText(t, "/")
	assert.Equal(t, focusSearch, m.focus)

	h.typeText(t, "ali")
	assert.Equal(t, "ali", h.app.Chat.State().Query)
	require.Len(t, m.rows, 2)
	assert.Equal(t, "3", m.rows[0].Id)
	assert.Equal(t, "1", m.rows[1].Id)

	h.key(t, tea.KeyEnter)
	assert.Equal(t, focusList, m.focus)
}

func TestModel_Quit(t *testing.T) {
	h := newHarness(t, 120)
	_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestLocalBackend_Changes(t *testing.T) {
	h := newHarness(t, 120)

	h.app.Chat.Search(context.Background(), "dav")
	require.Eventually(t, func() bool {
		select {
		case <-h.backend.Changes():
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "…", truncate("hello", 1))
	assert.Empty(t, truncate("hello", 0))

	assert.Equal(t, "heart", reactionLabel(heartToken))
	assert.Equal(t, "✓", statusGlyph(entity.StatusSent))
	assert.Empty(t, statusGlyph(entity.StatusNone))
}

func TestFromSDK(t *testing.T) {
	conv := fromSDKConversation(&sdk.ConversationInfo{
		ConversationId: "9",
		Name:           "Zoe",
		DeliveryState:  "delivered",
		Active:         true,
		Group:          sdk.GroupInfo{GroupId: "g", MemberNames: []string{"a"}},
	})
	assert.Equal(t, "9", conv.Id)
	assert.Equal(t, entity.StatusDelivered, conv.DeliveryState)
	assert.True(t, conv.Active)
	assert.Equal(t, []string{"a"}, conv.Group.MemberNames)

	msg := fromSDKMessage(&sdk.MessageInfo{
		Index:     2,
		Direction: "outbound",
		Status:    "seen",
		Segments:  []sdk.Segment{{Kind: "text", Text: "yo"}},
	})
	assert.Equal(t, 2, msg.Index)
	assert.Equal(t, entity.DirectionOutbound, msg.Direction)
	assert.Equal(t, entity.StatusSeen, msg.Status)
	require.Len(t, msg.Segments, 1)
	assert.Equal(t, "yo", msg.Segments[0].Text)
}
