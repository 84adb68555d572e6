package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/thereayou/rawrchat/internal/middleware"
	"github.com/thereayou/rawrchat/internal/session"
	ws "github.com/thereayou/rawrchat/internal/websocket"
)

// WebSocketHandler управляет WebSocket соединениями
type WebSocketHandler struct {
	hub            *ws.Hub
	registry       *session.Registry
	messageHandler *MessageHandler
	upgrader       websocket.Upgrader
	log            *zap.Logger
}

// NewWebSocketHandler создает новый WebSocket handler
func NewWebSocketHandler(hub *ws.Hub, registry *session.Registry, messageHandler *MessageHandler, checkOrigin func(*http.Request) bool, logger *zap.Logger) *WebSocketHandler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &WebSocketHandler{
		hub:            hub,
		registry:       registry,
		messageHandler: messageHandler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: logger,
	}
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionIDKey)
	if _, ok := h.registry.Get(sessionID); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, sessionID)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.messageHandler)
}
