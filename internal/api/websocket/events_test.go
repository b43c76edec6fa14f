package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datesafe/verification-backend/internal/domain/verification"
)

func startHub(t *testing.T) (*EventHub, string) {
	t.Helper()

	hub := NewEventHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleEvents))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestEventHub_DeliversCompletedVerification(t *testing.T) {
	hub, url := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	result := verification.NewResult()
	result.OverallTrustScore = 42.5
	result.RiskLevel = verification.RiskMedium

	// The register channel is unbuffered, but delivery of the dial is
	// asynchronous; retry publishing until the subscriber is attached.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Publish(result)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev VerificationEvent
	require.NoError(t, conn.ReadJSON(&ev))

	assert.Equal(t, result.ID, ev.ID)
	assert.Equal(t, 42.5, ev.TrustScore)
	assert.Equal(t, verification.RiskMedium, ev.RiskLevel)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestEventHub_PublishNilIsNoop(t *testing.T) {
	hub := NewEventHub(nil)
	hub.Publish(nil)
	assert.Empty(t, hub.broadcast)
}

func TestEventHub_SubscriberCountCallback(t *testing.T) {
	hub := NewEventHub(nil)
	counts := make(chan int, 4)
	hub.OnSubscriberCount = func(n int) { counts <- n }

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleEvents))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	select {
	case n := <-counts:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber callback never fired")
	}

	conn.Close()

	select {
	case n := <-counts:
		assert.Equal(t, 0, n)
	case <-time.After(2 * time.Second):
		t.Fatal("unsubscribe callback never fired")
	}
}
