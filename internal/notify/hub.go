package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"ordersync/internal/logger"
)

// Hub fans notification events out to connected websocket clients.
type Hub struct {
	logger *logger.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		logger: logger,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// Handler upgrades requests to websocket connections and keeps them
// registered until the client goes away.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			h.logger.Error("Websocket accept failed: %v", err)
			return
		}

		h.mu.Lock()
		h.conns[conn] = struct{}{}
		count := len(h.conns)
		h.mu.Unlock()
		h.logger.Info("Client connected (%d active)", count)

		// Clients only listen; the read loop just detects the close.
		ctx := r.Context()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				break
			}
		}

		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close(websocket.StatusNormalClosure, "")
		h.logger.Info("Client disconnected")
	})
}

// Broadcast sends one message to every connected client. Slow or dead
// clients are dropped.
func (h *Hub) Broadcast(ctx context.Context, message []byte) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := conn.Write(writeCtx, websocket.MessageText, message)
		cancel()
		if err != nil {
			h.mu.Lock()
			delete(h.conns, conn)
			h.mu.Unlock()
			conn.Close(websocket.StatusAbnormalClosure, "write failed")
		}
	}
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		delete(h.conns, conn)
	}
}
