package net

import (
	"net/http"
	"sync"

	"fxbook/internal/book"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Hub pushes book snapshots to any number of connected /ladder readers.
// Broadcast is best-effort: a reader that cannot keep up misses snapshots
// (it stays connected) rather than being allowed to block the engine's
// Apply path, which calls Broadcast
// after releasing the book lock (spec.md §5's ordering requirement).
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]chan book.Snapshot
	upgrader  websocket.Upgrader
	log       zerolog.Logger
	queueSize int
}

// NewHub creates an empty Hub.
func NewHub(logger *zerolog.Logger) *Hub {
	l := log.Logger
	if logger != nil {
		l = *logger
	}
	return &Hub{
		clients:   make(map[*websocket.Conn]chan book.Snapshot),
		upgrader:  websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		log:       l,
		queueSize: 4,
	}
}

// ServeHTTP upgrades the request to a websocket connection and registers
// it as a snapshot reader until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ladder websocket upgrade failed")
		return
	}

	ch := make(chan book.Snapshot, h.queueSize)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	h.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("ladder reader connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Drain incoming control frames (pings, close) until the client hangs
	// up; readers never send us data.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	for snap := range ch {
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}
}

// Broadcast pushes snap to every connected reader. A reader whose queue is
// full has the snapshot dropped for it rather than stalling the others.
func (h *Hub) Broadcast(snap book.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- snap:
		default:
			h.log.Warn().Str("remote", conn.RemoteAddr().String()).Msg("ladder reader too slow, dropping snapshot")
		}
	}
}
