package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/lanetap/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

const writeTimeout = time.Second

// FrameFeed delivers the outcome of every detection cycle.
type FrameFeed interface {
	OnFrame(fn func(app.FrameEvent))
}

// TouchesHandler broadcasts per-frame touch records via WebSocket.
type TouchesHandler struct {
	events  chan app.FrameEvent
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewTouchesHandler creates a new TouchesHandler subscribed to feed.
func NewTouchesHandler(feed FrameFeed) *TouchesHandler {
	h := &TouchesHandler{
		events:  make(chan app.FrameEvent, 64),
		clients: make(map[*websocket.Conn]bool),
	}
	feed.OnFrame(h.publish)
	go h.broadcast()
	return h
}

// publish queues an event for broadcast. Events are dropped when the queue
// is full so the frame loop never waits on slow clients.
func (h *TouchesHandler) publish(e app.FrameEvent) {
	select {
	case h.events <- e:
	default:
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *TouchesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *TouchesHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast sends queued frame events to all connected clients.
func (h *TouchesHandler) broadcast() {
	for e := range h.events {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}

		msg, err := json.Marshal(e)
		if err != nil {
			h.mu.RUnlock()
			log.Printf("Failed to encode frame event: %v", err)
			continue
		}

		for conn := range h.clients {
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
