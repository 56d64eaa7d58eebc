package websocket

import "context"

// Frame types accepted from clients
const (
	FrameMessage = "message.send"
	FrameRead    = "message.read"
)

// Subscription identifies a connected user and the room they listen to
type Subscription struct {
	Room           string
	UserID         int64
	Role           string
	ConversationID int64
}

// InboundFrame is a frame sent by a client
type InboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// InboundHandler processes frames received from clients, e.g. persisting chat messages
type InboundHandler interface {
	HandleInbound(ctx context.Context, sub Subscription, frame InboundFrame) error
}

// InboundHandlerFunc adapts a function to InboundHandler
type InboundHandlerFunc func(ctx context.Context, sub Subscription, frame InboundFrame) error

func (f InboundHandlerFunc) HandleInbound(ctx context.Context, sub Subscription, frame InboundFrame) error {
	return f(ctx, sub, frame)
}
