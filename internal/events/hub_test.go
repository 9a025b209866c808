package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	t.Parallel()

	h := NewHub()
	a := h.Subscribe()
	b := h.Subscribe()
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)

	h.PublishJSON(map[string]string{"type": "start"})

	require.Contains(t, <-a, `"type":"start"`)
	require.Contains(t, <-b, `"type":"start"`)
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	t.Parallel()

	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// overflow the subscriber buffer; Publish must never block
	for i := 0; i < 100; i++ {
		h.Publish("x")
	}
	require.Equal(t, "x", <-ch)
}
