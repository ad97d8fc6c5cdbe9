package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.HandleUpgrade(w, r, []byte(`{"type":"snapshot"}`))
	}))
	t.Cleanup(srv.Close)
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, json.Unmarshal(msg, &v))
	return v
}

func TestHubSendsSnapshotOnConnect(t *testing.T) {
	_, srv := newTestHub(t)
	conn := dial(t, srv)

	msg := readJSON(t, conn)
	assert.Equal(t, "snapshot", msg["type"])
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	h, srv := newTestHub(t)

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	readJSON(t, c1) // drain snapshots
	readJSON(t, c2)

	require.Eventually(t, func() bool { return h.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	h.Broadcast(map[string]any{"type": "new_donation", "donation": map[string]any{"id": "d1"}})

	for _, conn := range []*websocket.Conn{c1, c2} {
		msg := readJSON(t, conn)
		assert.Equal(t, "new_donation", msg["type"])
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	h, srv := newTestHub(t)

	conn := dial(t, srv)
	readJSON(t, conn)
	require.Eventually(t, func() bool { return h.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.Count() == 0 }, 2*time.Second, 10*time.Millisecond)

	// Broadcasting into an empty hub is a no-op, not a panic.
	h.Broadcast(map[string]any{"type": "new_donation"})
}
