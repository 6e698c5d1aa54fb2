package report

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type ReportWSMessage struct {
	Action  string `json:"action"`
	Run     any    `json:"run"`
	Details string `json:"details"`
}

const WS_WRITE_TIMEOUT = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans batch-run events out to every connected dashboard.
type Hub struct {
	mu           sync.Mutex
	clients      map[*websocket.Conn]bool
	writeTimeout time.Duration
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool), writeTimeout: WS_WRITE_TIMEOUT}
}

// Broadcast writes msg to every client. A client that cannot take the message
// within the write timeout is dropped.
func (h *Hub) Broadcast(msg ReportWSMessage) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		_ = client.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := client.WriteJSON(msg); err != nil {
			zap.L().Warn("websocket: dropping client", zap.Error(err))
			client.Close()
			delete(h.clients, client)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP registers the connection and keeps it until the client goes away.
// Incoming messages are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("websocket: upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}
