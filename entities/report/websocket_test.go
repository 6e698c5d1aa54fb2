package report

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(hub)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(ReportWSMessage{Action: "deduplicate", Details: "done"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var msg ReportWSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "deduplicate", msg.Action)
	assert.Equal(t, "done", msg.Details)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_NilBroadcastIsNoop(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() { hub.Broadcast(ReportWSMessage{Action: "approve_all"}) })
}

func TestHub_BroadcastDropsStalledClient(t *testing.T) {
	hub := NewHub()
	hub.writeTimeout = 100 * time.Millisecond
	server := httptest.NewServer(hub)
	defer server.Close()

	// The client never reads, so the socket buffers fill up.
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	started := time.Now()
	hub.Broadcast(ReportWSMessage{Action: "approve_all", Details: strings.Repeat("x", 32<<20)})

	assert.Less(t, time.Since(started), 5*time.Second)
	assert.Zero(t, hub.ClientCount())
}
