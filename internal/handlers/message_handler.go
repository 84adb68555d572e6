package handlers

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/thereayou/rawrchat/internal/handlers/dto"
	"github.com/thereayou/rawrchat/internal/session"
	"github.com/thereayou/rawrchat/internal/websocket"
)

// MessageHandler исполняет намерения, пришедшие по WebSocket
type MessageHandler struct {
	registry *session.Registry
	log      *zap.Logger
}

func NewMessageHandler(registry *session.Registry, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{registry: registry, log: logger}
}

func (h *MessageHandler) HandleMessage(client *websocket.Client, msg *websocket.Message) error {
	sess, ok := h.registry.Get(client.SessionID)
	if !ok {
		return websocket.ErrUnauthorized
	}

	switch msg.Type {
	case websocket.TypeMessage:
		var payload dto.MessagePayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return websocket.ErrInvalidMessage
		}
		// Своё сообщение клиент получит событием message от store
		_, err := sess.Sender.Send(payload.Content, payload.Image)
		return err

	case websocket.TypeReaction:
		var payload dto.ReactionPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return websocket.ErrInvalidMessage
		}
		channelID := payload.ChannelID
		if channelID == "" || channelID == activeChannelAlias {
			channelID = sess.Store.Active().Channel.ID
		}
		_, _, err := sess.Store.IncrementReaction(channelID, payload.MessageID, payload.Emoji)
		return err

	case websocket.TypeSelect:
		var payload dto.SelectionPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.ServerID == "" {
			return websocket.ErrInvalidMessage
		}
		sess.Store.SelectChannel(payload.ServerID, payload.ChannelID)
		return nil

	default:
		h.log.Debug("unknown websocket intent", zap.String("type", string(msg.Type)))
		return websocket.ErrUnknownIntent
	}
}
