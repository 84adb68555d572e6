package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type echoHandler struct {
	got chan *Message
}

func (e *echoHandler) HandleMessage(_ *Client, msg *Message) error {
	e.got <- msg
	if msg.Type == "bad" {
		return ErrUnknownIntent
	}
	return nil
}

func dial(t *testing.T, hub *Hub, sessionID string, handler ClientMessageHandler) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, sessionID)
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump(handler)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Connections(sessionID) == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func TestHub_PublishReachesOnlyItsSession(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)

	a := dial(t, hub, "a", nil)
	b := dial(t, hub, "b", nil)

	hub.Publish("a", TypeTyping, map[string]bool{"typing": true})

	var msg Message
	require.NoError(t, a.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, a.ReadJSON(&msg))
	require.Equal(t, TypeTyping, msg.Type)
	require.JSONEq(t, `{"typing":true}`, string(msg.Data))

	require.NoError(t, b.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	require.Error(t, b.ReadJSON(&msg), "session b must not see a's events")
}

func TestHub_IntentsAndErrors(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)

	handler := &echoHandler{got: make(chan *Message, 4)}
	conn := dial(t, hub, "s", handler)

	require.NoError(t, conn.WriteJSON(Message{Type: TypePong}))
	require.NoError(t, conn.WriteJSON(Message{Type: TypeSelect, Data: []byte(`{"serverId":"s3"}`)}))
	got := <-handler.got
	require.Equal(t, TypeSelect, got.Type, "pong never reaches the handler")

	require.NoError(t, conn.WriteJSON(Message{Type: "bad"}))
	<-handler.got

	var reply Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&reply))
	require.Equal(t, TypeError, reply.Type)
	require.Contains(t, string(reply.Data), ErrUnknownIntent.Error())
}

func TestHub_DisconnectClosesSession(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)

	conn := dial(t, hub, "gone", nil)
	hub.Disconnect("gone")
	require.Zero(t, hub.Connections("gone"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func readType(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	var msg Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestClient_InvalidFrameAndPing(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)

	conn := dial(t, hub, "p", nil)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	reply := readType(t, conn)
	require.Equal(t, TypeError, reply.Type)
	require.Contains(t, string(reply.Data), ErrInvalidMessage.Error())

	require.NoError(t, conn.WriteJSON(Message{Type: TypePing}))
	require.Equal(t, TypePong, readType(t, conn).Type)
}

func TestClient_FloodIsThrottled(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)

	handler := &echoHandler{got: make(chan *Message, 64)}
	conn := dial(t, hub, "f", handler)

	for i := 0; i < intentBurst+5; i++ {
		require.NoError(t, conn.WriteJSON(Message{Type: TypeSelect}))
	}

	reply := readType(t, conn)
	require.Equal(t, TypeError, reply.Type)
	require.Contains(t, string(reply.Data), ErrFlood.Error())
	require.LessOrEqual(t, len(handler.got), intentBurst+1)
}

type logoutHandler struct {
	hub    *Hub
	errors chan error
}

func (l *logoutHandler) HandleMessage(c *Client, _ *Message) error {
	l.hub.Disconnect(c.SessionID)
	l.errors <- c.SendMessage(TypeTyping, nil)
	return ErrUnauthorized
}

func TestClient_DisconnectDuringIntent(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)

	handler := &logoutHandler{hub: hub, errors: make(chan error, 1)}
	conn := dial(t, hub, "bye", handler)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeSelect}))
	require.ErrorIs(t, <-handler.errors, ErrClientClosed)
	require.Zero(t, hub.Connections("bye"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		require.NotEqual(t, TypeError, msg.Type, "no frames after disconnect")
	}

	// The hub keeps serving other sessions.
	other := dial(t, hub, "still-here", nil)
	hub.Publish("still-here", TypeTyping, map[string]bool{"typing": false})
	require.Equal(t, TypeTyping, readType(t, other).Type)
}
