// Package hub is a thread-safe websocket broadcast hub using the
// channel-based fan-out pattern: one goroutine owns the client set, and
// registration, unregistration, and broadcast all arrive as messages.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/ninjabotics/ninja/internal/log"
)

// Hub maintains the set of active clients and fans broadcasts out to
// them. Slow clients are dropped rather than allowed to stall the rest.
type Hub struct {
	name string

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex // guards clients for ClientCount
}

// New creates a hub. The name appears in logs only.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's main loop. Call it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("hub: client connected", "hub", h.name, "client", client.ID, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("hub: client disconnected", "hub", h.name, "client", client.ID, "total", count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// The client's buffer is full; drop it.
					close(client.send)
					delete(h.clients, client)
					log.Warn("hub: dropped slow client", "hub", h.name, "client", client.ID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues pre-encoded data for every client. When the queue is
// full the message is dropped; live streams prefer freshness over
// completeness.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		log.Warn("hub: broadcast queue full, dropping message", "hub", h.name)
	}
}

// BroadcastJSON encodes and broadcasts a value.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
