package tui

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/internal/layout"
)

var (
	accentColor = lipgloss.Color("39")
	metaColor   = lipgloss.Color("242")
	seenColor   = lipgloss.Color("45")
	unreadColor = lipgloss.Color("203")
	onlineColor = lipgloss.Color("42")
	errorColor  = lipgloss.Color("196")

	paneStyle     = lipgloss.NewStyle().Padding(0, 1)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	metaStyle     = lipgloss.NewStyle().Foreground(metaColor)
	selectedStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	bubbleStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(metaColor).Padding(0, 1)
	ownStyle      = bubbleStyle.BorderForeground(accentColor)
	statusStyle   = lipgloss.NewStyle().Foreground(errorColor)
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	lm := m.layout()
	body := m.renderPanes(lm)

	footer := metaStyle.Render(m.help(lm))
	if m.status != "" {
		footer = statusStyle.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m *Model) renderPanes(lm layout.Model) string {
	height := m.height - 1
	if height < 1 {
		height = 1
	}

	switch {
	case lm.ShowList && lm.ShowThread:
		list := m.renderList(lm.ListWidth, height)
		thread := m.renderThread(lm.ThreadWidth, height, lm)
		return lipgloss.JoinHorizontal(lipgloss.Top, list, thread)
	case lm.ShowThread:
		return m.renderThread(lm.ThreadWidth, height, lm)
	default:
		return m.renderList(lm.ListWidth, height)
	}
}

func (m *Model) renderList(width, height int) string {
	inner := width - 2
	if inner < 1 {
		inner = 1
	}

	lines := []string{titleStyle.Render("Chats")}
	if m.focus == focusSearch || m.search.Value() != "" {
		lines = append(lines, m.search.View())
	}
	if len(m.rows) == 0 {
		lines = append(lines, metaStyle.Render("No conversations"))
	}

	for i, r := range m.rows {
		prefix, prefixWidth := "", 0
		if r.Online {
			prefix, prefixWidth = lipgloss.NewStyle().Foreground(onlineColor).Render("●")+" ", 2
		}
		suffix, suffixWidth := "", 0
		if r.Unread {
			suffix, suffixWidth = " "+lipgloss.NewStyle().Foreground(unreadColor).Render("•"), 2
		}

		style := lipgloss.NewStyle()
		if i == m.cursor && (m.focus == focusList || m.focus == focusSearch) {
			style = selectedStyle
		} else if r.Active {
			style = titleStyle
		}

		nameWidth := inner - len(r.LastMessageTime) - 1 - prefixWidth - suffixWidth
		name := prefix + style.Render(truncate(r.Name, nameWidth)) + suffix

		preview := previewText(r.LastMessage)
		if glyph := statusGlyph(r.DeliveryState); glyph != "" {
			preview = glyph + " " + metaStyle.Render(truncate(preview, inner-3))
		} else {
			preview = metaStyle.Render(truncate(preview, inner))
		}

		lines = append(lines, name+" "+metaStyle.Render(r.LastMessageTime), preview)
	}

	return paneStyle.Width(width).Height(height).MaxHeight(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderThread(width, height int, lm layout.Model) string {
	inner := width - 2
	if inner < 1 {
		inner = 1
	}

	if lm.Placeholder || m.activeId == "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			metaStyle.Render("Select a conversation to start chatting"))
	}

	header := m.activeName()
	if lm.ShowBack {
		header = metaStyle.Render("← esc") + "  " + header
	}

	var blocks []string
	for i, msg := range m.messages {
		blocks = append(blocks, m.renderMessage(msg, inner, i == m.msgCursor && m.focus == focusThread))
	}

	content := strings.Split(strings.Join(blocks, "\n"), "\n")
	room := height - 2
	if room < 0 {
		room = 0
	}
	if len(content) > room {
		content = content[len(content)-room:]
	}

	lines := append([]string{titleStyle.Render(header)}, content...)
	for len(lines) < height-1 {
		lines = append(lines, "")
	}
	m.input.Width = inner - 3
	lines = append(lines, m.input.View())

	return paneStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderMessage(msg *entity.MessageInfo, width int, selected bool) string {
	var parts []string
	for _, seg := range msg.Segments {
		switch seg.Kind {
		case entity.SegmentImage:
			parts = append(parts, fmt.Sprintf("[image %s]", path.Base(seg.URL)))
		default:
			parts = append(parts, seg.Text)
		}
	}
	text := strings.Join(parts, "")

	meta := msg.TimeLabel
	if glyph := statusGlyph(msg.Status); glyph != "" {
		meta += " " + glyph
	}
	if len(msg.Reactions) > 0 {
		names := make([]string, 0, len(msg.Reactions))
		for _, r := range msg.Reactions {
			names = append(names, reactionLabel(r))
		}
		meta += "  " + strings.Join(names, " ")
	}

	maxBubble := width * 3 / 4
	if maxBubble < 10 {
		maxBubble = width
	}

	style := bubbleStyle
	align := lipgloss.Left
	if msg.Direction == entity.DirectionOutbound {
		style = ownStyle
		align = lipgloss.Right
	}
	if selected {
		style = style.BorderForeground(lipgloss.Color("226"))
	}

	bubble := style.MaxWidth(maxBubble).Render(text + "\n" + metaStyle.Render(meta))
	return lipgloss.PlaceHorizontal(width, align, bubble)
}

func (m *Model) activeName() string {
	for _, r := range m.rows {
		if r.Id == m.activeId {
			return r.Name
		}
	}
	return m.activeId
}

func (m *Model) help(lm layout.Model) string {
	switch m.focus {
	case focusSearch:
		return "type to filter · enter/esc done"
	case focusInput:
		return "enter send · esc leave input"
	case focusThread:
		keys := "↑/↓ select · i write · esc close"
		if len(m.palette) > 0 {
			keys += fmt.Sprintf(" · 1-%d react", len(m.palette))
		}
		if lm.Mode == layout.ModeDesktop {
			keys += " · tab list"
		}
		return keys
	default:
		return "↑/↓ move · enter open · / search · q quit"
	}
}

func statusGlyph(status entity.MessageStatus) string {
	switch status {
	case entity.StatusSent:
		return "✓"
	case entity.StatusDelivered:
		return "✓✓"
	case entity.StatusSeen:
		return lipgloss.NewStyle().Foreground(seenColor).Render("✓✓")
	default:
		return ""
	}
}

// reactionLabel shortens a token url to its file name
func reactionLabel(token string) string {
	base := path.Base(token)
	return strings.TrimSuffix(base, path.Ext(base))
}

// previewText replaces inline picture tokens with a short marker
func previewText(body string) string {
	var b strings.Builder
	for _, seg := range entity.ParseBody(body) {
		if seg.Kind == entity.SegmentImage {
			b.WriteString("[image]")
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
