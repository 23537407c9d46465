package live

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the envelope sent to watching clients.
type Message struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// Hub fans registration notifications out to websocket clients watching an
// event's live roster. Clients are read-only; the socket exists to push.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*websocket.Conn]bool // eventID -> connections
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*websocket.Conn]bool)}
}

// Subscribe upgrades the request and registers the connection under eventID.
// The connection is dropped when the client disconnects or a push fails.
func (h *Hub) Subscribe(eventID string, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if h.clients[eventID] == nil {
		h.clients[eventID] = make(map[*websocket.Conn]bool)
	}
	h.clients[eventID][conn] = true
	h.mu.Unlock()

	// Drain (and discard) client frames so pings/closes are processed.
	go func() {
		defer h.drop(eventID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// Broadcast pushes a message to every client watching eventID.
func (h *Hub) Broadcast(eventID string, msg Message) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients[eventID]))
	for conn := range h.clients[eventID] {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("live: push failed, dropping client: %v", err)
			h.drop(eventID, conn)
		}
	}
}

func (h *Hub) drop(eventID string, conn *websocket.Conn) {
	h.mu.Lock()
	if set, ok := h.clients[eventID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.clients, eventID)
		}
	}
	h.mu.Unlock()
	conn.Close()
}
