package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/counterpos/api/internal/metrics"
	"go.uber.org/zap"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
// Every connected terminal receives every event.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	// closed when Run returns
	done chan struct{}

	mu      sync.RWMutex
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewHub creates a new Hub instance
func NewHub(logger *zap.Logger, m *metrics.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		logger:     logger,
		metrics:    m,
	}
}

// Run starts the hub's main loop and returns once ctx is cancelled, after
// closing every client's send channel.
// This should be called as a goroutine: go hub.Run(ctx)
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.ClientConnected()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					h.logger.Warn("dropping slow websocket client", zap.String("terminal", client.terminal))
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop must be called with h.mu held.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.metrics.ClientDisconnected()
}

// Broadcast queues an event for every connected client. It is a no-op once
// the hub has stopped.
func (h *Hub) Broadcast(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal websocket event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// Notify implements notify.Notifier.
func (h *Hub) Notify(_ context.Context, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal event payload", zap.String("type", eventType), zap.Error(err))
		return
	}
	h.Broadcast(Event{Type: eventType, Payload: raw})
	h.metrics.EventPublished(eventType)
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
