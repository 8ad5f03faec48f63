package event

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/mbeoliero/threadly/internal/metrics"
	"github.com/mbeoliero/threadly/pkg/constant"
)

func TestHub_PublishFanOut(t *testing.T) {
	m := metrics.New()
	hub := NewHub(4, m)
	_, a := hub.Subscribe()
	_, b := hub.Subscribe()
	assert.Equal(t, 2, hub.Count())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Subscribers))

	e := Event{Type: constant.EventMessageStatus, ConversationId: "1", Index: 0, Status: entity.StatusDelivered}
	hub.Publish(context.Background(), e)

	assert.Equal(t, e, <-a)
	assert.Equal(t, e, <-b)
}

func TestHub_DropsWhenFull(t *testing.T) {
	hub := NewHub(1, nil)
	_, ch := hub.Subscribe()
	ctx := context.Background()

	hub.Publish(ctx, Event{Type: "first", Index: -1})
	assert.NotPanics(t, func() { hub.Publish(ctx, Event{Type: "second", Index: -1}) })

	assert.Equal(t, "first", (<-ch).Type)
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %q", e.Type)
	default:
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	m := metrics.New()
	hub := NewHub(0, m)
	id, ch := hub.Subscribe()

	hub.Unsubscribe(id)
	_, ok := <-ch
	require.False(t, ok)
	assert.Zero(t, hub.Count())
	assert.Zero(t, testutil.ToFloat64(m.Subscribers))

	// unknown ids are ignored
	hub.Unsubscribe(id)
	hub.Publish(context.Background(), Event{Type: "noop", Index: -1})
}
