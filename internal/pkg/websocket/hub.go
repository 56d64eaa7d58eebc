package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Envelope is the frame pushed to clients
type Envelope struct {
	// Type of event: "message.created", "message.read", "notification.created"
	Type string `json:"type"`

	// Room the event was published to
	Room string `json:"room"`

	// Event payload
	Data interface{} `json:"data"`

	// Time the event was published
	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients grouped by room and broadcasts events to them
type Hub struct {
	// Registered clients organized by room
	clients map[string]map[*Client]bool

	// Outbound events
	broadcast chan *Envelope

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Handles frames sent by clients
	inbound InboundHandler

	// Logger for Hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// SetInboundHandler sets the handler for frames received from clients
func (h *Hub) SetInboundHandler(handler InboundHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inbound = handler
}

func (h *Hub) inboundHandler() InboundHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.inbound
}

// Run handles registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case envelope := <-h.broadcast:
			h.broadcastEnvelope(envelope)
		}
	}
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.Room]; !ok {
		h.clients[client.Room] = make(map[*Client]bool)
	}
	h.clients[client.Room][client] = true

	h.logger.Info().
		Str("room", client.Room).
		Int64("userID", client.UserID).
		Msg("Client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.Room]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.Room)
	}

	h.logger.Info().
		Str("room", client.Room).
		Int64("userID", client.UserID).
		Msg("Client unregistered")
}

// broadcastEnvelope sends an event to every client in its room.
// Clients whose send buffer is full are dropped.
func (h *Hub) broadcastEnvelope(envelope *Envelope) {
	data, err := json.Marshal(envelope)
	if err != nil {
		h.logger.Error().Err(err).Str("room", envelope.Room).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[envelope.Room]
	if !ok {
		h.logger.Debug().Str("room", envelope.Room).Msg("No clients in room for broadcast")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// Publish queues an event for a room. It never blocks; events are dropped when the queue is full.
func (h *Hub) Publish(room, eventType string, data interface{}) {
	envelope := &Envelope{
		Type:      eventType,
		Room:      room,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	select {
	case h.broadcast <- envelope:
	default:
		h.logger.Warn().Str("room", room).Str("type", eventType).Msg("Broadcast queue full, event dropped")
	}
}

// add registers a client unless the hub has stopped
func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// remove unregisters a client unless the hub has stopped
func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientsCount returns the number of connected clients in a room
func (h *Hub) ClientsCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[room])
}
