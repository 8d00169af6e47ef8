package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID uint) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Send:   make(chan []byte, 8),
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, 1)
	hub.Register(client)

	require.Eventually(t, func() bool {
		return hub.IsUserOnline(1)
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Broadcast(map[string]string{"type": "low_stock"}))

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), "low_stock")
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered")
	}
}

func TestHub_UnregisterTwice(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient(hub, 1)
	second := newTestClient(hub, 1)
	hub.Register(first)
	hub.Register(second)

	require.Eventually(t, func() bool {
		return hub.IsUserOnline(1)
	}, time.Second, 10*time.Millisecond)

	// The read loop teardown and a full-buffer drop can both unregister the
	// same session; the second must be a no-op, not a double close of Send.
	hub.Unregister(first)
	hub.Unregister(first)

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-first.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// The surviving session still receives broadcasts
	require.NoError(t, hub.Broadcast(map[string]string{"type": "low_stock"}))

	select {
	case msg := <-second.Send:
		assert.Contains(t, string(msg), "low_stock")
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered to surviving session")
	}
	assert.True(t, hub.IsUserOnline(1))
}

func TestHub_UnregisterLastSessionRemovesUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, 7)
	hub.Register(client)

	require.Eventually(t, func() bool {
		return hub.IsUserOnline(7)
	}, time.Second, 10*time.Millisecond)

	hub.Unregister(client)

	require.Eventually(t, func() bool {
		return !hub.IsUserOnline(7)
	}, time.Second, 10*time.Millisecond)
}
