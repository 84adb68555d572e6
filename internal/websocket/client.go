package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/thereayou/rawrchat/internal/telemetry"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Картинки приходят data URL, поэтому лимит большой
	maxMessageSize = 4 * 1024 * 1024

	sendQueueSize = 256

	// Антифлуд: не больше intentRate намерений в секунду, всплеск intentBurst
	intentRate  = 5
	intentBurst = 10
)

type ClientMessageHandler interface {
	HandleMessage(client *Client, msg *Message) error
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		ID:        uuid.New(),
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, sendQueueSize),
		Hub:       hub,
		flood:     rate.NewLimiter(intentRate, intentBurst),
	}
}

// ReadPump читает намерения клиента до закрытия соединения
func (c *Client) ReadPump(handler ClientMessageHandler) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn("websocket read failed", zap.String("session", c.SessionID), zap.Error(err))
			}
			return
		}

		msg, err := decode(raw)
		if err != nil {
			telemetry.WSFrames.WithLabelValues("in", "invalid").Inc()
			c.SendError(err.Error())
			continue
		}
		telemetry.WSFrames.WithLabelValues("in", string(msg.Type)).Inc()

		switch msg.Type {
		case TypePong:
			c.Conn.SetReadDeadline(time.Now().Add(pongWait))
			continue
		case TypePing:
			c.SendMessage(TypePong, nil)
			continue
		}

		if !c.flood.Allow() {
			c.SendError(ErrFlood.Error())
			continue
		}
		if handler == nil {
			continue
		}
		if err := handler.HandleMessage(c, msg); err != nil {
			c.SendError(err.Error())
		}
	}
}

// WritePump пишет очередь клиента в соединение и шлёт ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(frame); err != nil {
				return
			}

			// Досылаем накопившееся одним заходом
			for n := len(c.Send); n > 0; n-- {
				if err := c.write(<-c.Send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(frame []byte) error {
	if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.Hub.log.Debug("websocket write failed", zap.Stringer("client", c.ID), zap.Error(err))
		return err
	}
	telemetry.WSFrames.WithLabelValues("out", "frame").Inc()
	return nil
}

// SendMessage ставит кадр в очередь конкретного соединения, не блокируясь.
// Для отключённого клиента возвращает ErrClientClosed
func (c *Client) SendMessage(msgType MessageType, data interface{}) error {
	frame, err := encode(msgType, data)
	if err != nil {
		return err
	}

	return c.Hub.sendTo(c, frame)
}

func (c *Client) SendError(errorMsg string) {
	c.SendMessage(TypeError, map[string]string{
		"error": errorMsg,
	})
}

func decode(raw []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Type == "" {
		return nil, ErrInvalidMessage
	}
	return &msg, nil
}
