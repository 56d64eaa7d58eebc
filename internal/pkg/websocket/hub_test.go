package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, hub *Hub, sub Subscription) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewHandler(hub, func(c *gin.Context) (Subscription, bool) {
		if c.Query("deny") != "" {
			c.AbortWithStatus(http.StatusForbidden)
			return Subscription{}, false
		}
		return sub, true
	}, nil, zerolog.Nop())

	router := gin.New()
	router.GET("/ws", handler.HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func waitForClients(t *testing.T, hub *Hub, room string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientsCount(room) == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishReachesRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	url := startServer(t, hub, Subscription{Room: "conversation:7", UserID: 7, Role: "STUDENT", ConversationID: 7})
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, "conversation:7", 1)

	hub.Publish("conversation:99", "message.created", map[string]string{"text": "other room"})
	hub.Publish("conversation:7", "message.created", map[string]string{"text": "hello"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Type string            `json:"type"`
		Room string            `json:"room"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &envelope))
	assert.Equal(t, "message.created", envelope.Type)
	assert.Equal(t, "conversation:7", envelope.Room)
	assert.Equal(t, "hello", envelope.Data["text"])
}

func TestHub_InboundFramesReachHandler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan InboundFrame, 1)
	hub := NewHub(zerolog.Nop())
	hub.SetInboundHandler(InboundHandlerFunc(func(ctx context.Context, sub Subscription, frame InboundFrame) error {
		assert.Equal(t, int64(7), sub.ConversationID)
		received <- frame
		return nil
	}))
	go hub.Run(ctx)

	url := startServer(t, hub, Subscription{Room: "conversation:7", UserID: 7, ConversationID: 7})
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"message.send","text":"hi"}`)))

	select {
	case frame := <-received:
		assert.Equal(t, FrameMessage, frame.Type)
		assert.Equal(t, "hi", frame.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("inbound frame not delivered")
	}
}

func TestHub_UnregisterOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	url := startServer(t, hub, Subscription{Room: "conversation:3", UserID: 3})
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	waitForClients(t, hub, "conversation:3", 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, "conversation:3", 0)
}

func TestHandler_Denied(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	url := startServer(t, hub, Subscription{Room: "x"})

	_, resp, err := websocket.DefaultDialer.Dial(url+"?deny=1", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://app.test/"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "http://app.test")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.test")
	assert.False(t, check(req))
}
