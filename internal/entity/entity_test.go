package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessageStatus_CanAdvanceTo(t *testing.T) {
	tests := []struct {
		from MessageStatus
		to   MessageStatus
		want bool
	}{
		{StatusNone, StatusSent, true},
		{StatusSent, StatusDelivered, true},
		{StatusSent, StatusSeen, true},
		{StatusDelivered, StatusSeen, true},
		{StatusSeen, StatusDelivered, false},
		{StatusDelivered, StatusSent, false},
		{StatusSeen, StatusSeen, false},
		{StatusSent, StatusNone, false},
		{StatusSent, MessageStatus("read"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to), "%q -> %q", tt.from, tt.to)
	}
}

func TestMessage_CloneIsDeep(t *testing.T) {
	m := Message{Id: "1", Reactions: []string{"a"}}
	c := m.Clone()
	c.Reactions[0] = "b"
	assert.Equal(t, "a", m.Reactions[0])
	assert.True(t, m.HasReaction("a"))
	assert.False(t, m.HasReaction("b"))
}

func TestConversation_CloneIsDeep(t *testing.T) {
	c := Conversation{Id: "1", Group: GroupMetadata{MemberNames: []string{"Alice"}}}
	out := c.Clone()
	out.Group.MemberNames[0] = "Bob"
	assert.Equal(t, "Alice", c.Group.MemberNames[0])
}

func TestClone_KeepsSlicesNonNil(t *testing.T) {
	c := Conversation{Id: "1", Group: GroupMetadata{MemberNames: []string{}}}
	assert.NotNil(t, c.Clone().Group.MemberNames)

	var zero Conversation
	assert.NotNil(t, zero.Clone().Group.MemberNames)

	m := Message{Id: "1"}
	out := m.Clone()
	assert.NotNil(t, out.Reactions)
	assert.Empty(t, out.Reactions)
}

func TestParseBody(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		assert.Equal(t, []Segment{{Kind: SegmentText, Text: "hello"}}, ParseBody("hello"))
	})

	t.Run("empty body", func(t *testing.T) {
		assert.Empty(t, ParseBody(""))
	})

	t.Run("text around image", func(t *testing.T) {
		got := ParseBody("look [img=https://x/a.png] nice")
		assert.Equal(t, []Segment{
			{Kind: SegmentText, Text: "look "},
			{Kind: SegmentImage, URL: "https://x/a.png"},
			{Kind: SegmentText, Text: " nice"},
		}, got)
	})

	t.Run("adjacent images", func(t *testing.T) {
		got := ParseBody(ImageToken("a") + ImageToken("b"))
		assert.Equal(t, []Segment{
			{Kind: SegmentImage, URL: "a"},
			{Kind: SegmentImage, URL: "b"},
		}, got)
	})

	t.Run("unterminated token stays literal", func(t *testing.T) {
		assert.Equal(t, []Segment{{Kind: SegmentText, Text: "oops [img=abc"}}, ParseBody("oops [img=abc"))
	})

	t.Run("empty url stays literal", func(t *testing.T) {
		assert.Equal(t, []Segment{{Kind: SegmentText, Text: "[img=] x"}}, ParseBody("[img=] x"))
	})
}

func TestToMessageInfo(t *testing.T) {
	m := Message{Id: "9", Direction: DirectionOutbound, Body: "hi", TimeLabel: "10:00", Status: StatusSent}
	info := m.ToMessageInfo(3)
	assert.Equal(t, 3, info.Index)
	assert.Equal(t, StatusSent, info.Status)
	assert.NotNil(t, info.Reactions)
	assert.Len(t, info.Segments, 1)
}

func TestTimeLabelAndIsBlank(t *testing.T) {
	assert.Equal(t, "09:05", TimeLabel(time.Date(2026, 1, 2, 9, 5, 0, 0, time.UTC)))
	assert.True(t, IsBlank(" \t\n"))
	assert.False(t, IsBlank(" x "))
}
