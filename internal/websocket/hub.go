package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/thereayou/rawrchat/internal/telemetry"
)

// MessageType определяет типы сообщений
type MessageType string

const (
	// Системные типы
	TypePing  MessageType = "ping"
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"

	// События состояния, сервер → клиент
	TypeMessage       MessageType = "message"
	TypeReaction      MessageType = "reaction"
	TypeTyping        MessageType = "typing"
	TypeSelection     MessageType = "selection"
	TypeProfile       MessageType = "profile"
	TypeServerJoined  MessageType = "server_joined"
	TypeDirectChannel MessageType = "direct_channel"
	TypeRoster        MessageType = "roster"

	// Намерения клиента, клиент → сервер; message и reaction общие
	TypeSelect MessageType = "select"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type Client struct {
	ID        uuid.UUID
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte
	Hub       *Hub

	flood *rate.Limiter

	// closed выставляется под Hub.mu вместе с close(Send)
	closed bool
}

type Hub struct {
	clients map[uuid.UUID]*Client

	// Клиенты по сессии (одна сессия может держать несколько вкладок)
	sessionClients map[string]map[uuid.UUID]*Client

	// Каналы для регистрации/отмены регистрации
	register   chan *Client
	unregister chan *Client

	pingPeriod time.Duration
	log        *zap.Logger
	mu         sync.RWMutex

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:        make(map[uuid.UUID]*Client),
		sessionClients: make(map[string]map[uuid.UUID]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		pingPeriod:     30 * time.Second,
		log:            logger.Named("ws"),
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		client.closed = true
		close(client.Send)
		client.Conn.Close()
		delete(h.clients, id)
	}
	h.sessionClients = make(map[string]map[uuid.UUID]*Client)
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
		client.Conn.Close()
	}
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	if _, ok := h.sessionClients[client.SessionID]; !ok {
		h.sessionClients[client.SessionID] = make(map[uuid.UUID]*Client)
	}
	h.sessionClients[client.SessionID][client.ID] = client

	h.log.Debug("client registered", zap.Stringer("client", client.ID), zap.String("session", client.SessionID))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeUnsafe(client)
}

func (h *Hub) removeUnsafe(client *Client) {
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	if clients, ok := h.sessionClients[client.SessionID]; ok {
		delete(clients, client.ID)
		if len(clients) == 0 {
			delete(h.sessionClients, client.SessionID)
		}
	}
	delete(h.clients, client.ID)
	client.closed = true
	close(client.Send)

	h.log.Debug("client unregistered", zap.Stringer("client", client.ID), zap.String("session", client.SessionID))
}

// Disconnect закрывает все соединения сессии (logout)
func (h *Hub) Disconnect(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sessionClients[sessionID] {
		h.removeUnsafe(client)
		// ReadPump выходит по ошибке чтения
		client.Conn.Close()
	}
}

// sendTo кладёт кадр в очередь клиента; после отключения кадр отбрасывается
func (h *Hub) sendTo(client *Client, frame []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if client.closed {
		return ErrClientClosed
	}
	select {
	case client.Send <- frame:
		return nil
	default:
		telemetry.WSDropped.Inc()
		return ErrClientQueueFull
	}
}

// Publish кодирует событие и рассылает его всем соединениям сессии
func (h *Hub) Publish(sessionID string, msgType MessageType, data interface{}) {
	payload, err := encode(msgType, data)
	if err != nil {
		h.log.Warn("failed to encode event", zap.String("type", string(msgType)), zap.Error(err))
		return
	}
	h.SendToSession(sessionID, payload)
}

// SendToSession отправляет готовый кадр всем клиентам сессии
func (h *Hub) SendToSession(sessionID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.sessionClients[sessionID] {
		select {
		case client.Send <- message:
		default:
			telemetry.WSDropped.Inc()
			h.log.Warn("client send channel full", zap.Stringer("client", client.ID))
		}
	}
}

func (h *Hub) ping() {
	data, err := encode(TypePing, nil)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// Connections возвращает число открытых соединений сессии
func (h *Hub) Connections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessionClients[sessionID])
}

func encode(msgType MessageType, data interface{}) ([]byte, error) {
	msg := Message{
		Type:      msgType,
		Timestamp: time.Now(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return json.Marshal(msg)
}
