package realtime_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitlifehq/gym-api/internal/realtime"
)

func dialHub(t *testing.T, hub *realtime.Hub, userID uint) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(&realtime.Client{UserID: userID, Conn: conn})
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestPushReachesOnlyTargetUser(t *testing.T) {
	hub := realtime.NewHub()

	target := dialHub(t, hub, 1)
	other := dialHub(t, hub, 2)

	assert.Equal(t, 1, hub.Connections(1))
	assert.Equal(t, 1, hub.Connections(2))

	hub.Push(1, "notification", map[string]any{"title": "hello"})

	require.NoError(t, target.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := target.ReadMessage()
	require.NoError(t, err)

	var ev realtime.Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "notification", ev.Event)

	// the other user must not receive anything
	require.NoError(t, other.SetReadDeadline(time.Now().Add(200 * time.Millisecond)))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestConcurrentPushesToOneConnection(t *testing.T) {
	hub := realtime.NewHub()
	conn := dialHub(t, hub, 1)

	const pushes = 50
	var wg sync.WaitGroup
	for i := 0; i < pushes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Push(1, "notification", map[string]any{"title": "burst"})
		}()
	}
	wg.Wait()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for i := 0; i < pushes; i++ {
		_, _, err := conn.ReadMessage()
		require.NoError(t, err)
	}
}

func TestPushToOfflineUserIsNoop(t *testing.T) {
	hub := realtime.NewHub()
	assert.NotPanics(t, func() {
		hub.Push(42, "notification", map[string]any{"title": "nobody home"})
	})
	assert.Equal(t, 0, hub.Connections(42))
}

func TestUnregisterDropsConnection(t *testing.T) {
	hub := realtime.NewHub()
	client := &realtime.Client{UserID: 7}

	hub.Register(client)
	assert.Equal(t, 1, hub.Connections(7))

	hub.Unregister(client)
	assert.Equal(t, 0, hub.Connections(7))

	// unregistering twice is harmless
	assert.NotPanics(t, func() { hub.Unregister(client) })
}
