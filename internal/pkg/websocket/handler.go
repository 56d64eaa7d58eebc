package websocket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Authorizer resolves the subscription for a request. It returns false after
// writing an error response.
type Authorizer func(c *gin.Context) (Subscription, bool)

// Handler upgrades HTTP requests to WebSocket connections
type Handler struct {
	hub       *Hub
	authorize Authorizer
	upgrader  websocket.Upgrader
	logger    zerolog.Logger
}

// NewHandler creates a new WebSocket handler. An empty allowedOrigins accepts any origin.
func NewHandler(hub *Hub, authorize Authorizer, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:       hub,
		authorize: authorize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[strings.TrimRight(origin, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[strings.TrimRight(origin, "/")]
	}
}

// HandleConnection authorizes the request, upgrades it and registers the client
func (h *Handler) HandleConnection(c *gin.Context) {
	sub, ok := h.authorize(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("room", sub.Room).Int64("userID", sub.UserID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:          h.hub,
		conn:         conn,
		send:         make(chan []byte, 256),
		Subscription: sub,
		logger:       h.logger,
	}
	if !h.hub.add(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("room", sub.Room).
		Int64("userID", sub.UserID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
