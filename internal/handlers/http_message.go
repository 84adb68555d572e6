package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/rawrchat/internal/handlers/dto"
	"github.com/thereayou/rawrchat/internal/session"
)

const activeChannelAlias = "active"

type HTTPMessageHandler struct {
	registry *session.Registry
}

func NewHTTPMessageHandler(registry *session.Registry) *HTTPMessageHandler {
	return &HTTPMessageHandler{registry: registry}
}

// GetChannelMessages получает историю канала, "active" означает текущий канал
func (h *HTTPMessageHandler) GetChannelMessages(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}

	channelID := c.Param("id")
	if channelID == activeChannelAlias {
		channelID = sess.Store.Active().Channel.ID
	}
	if !sess.Store.ChannelExists(channelID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
		return
	}

	messages := sess.Store.Messages(channelID)

	// Параметр limit отдаёт только хвост истории
	if l := c.Query("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil && limit > 0 && limit < len(messages) {
			messages = messages[len(messages)-limit:]
		}
	}

	result := make([]dto.MessageResponse, len(messages))
	for i, msg := range messages {
		result[i] = withAuthor(sess.Store, msg)
	}

	c.JSON(http.StatusOK, gin.H{
		"channelId": channelID,
		"messages":  result,
		"typing":    sess.Store.Typing(),
	})
}

// SendMessage отправляет сообщение в активный канал; ответ бота придёт
// позже через WebSocket
func (h *HTTPMessageHandler) SendMessage(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}

	var req dto.MessagePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := sess.Sender.Send(req.Content, req.Image)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, withAuthor(sess.Store, msg))
}

// AddReaction увеличивает счётчик реакции
func (h *HTTPMessageHandler) AddReaction(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}

	var req dto.ReactionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channelID, messageID := c.Param("id"), c.Param("messageId")
	if channelID == activeChannelAlias {
		channelID = sess.Store.Active().Channel.ID
	}

	count, found, err := sess.Store.IncrementReaction(channelID, messageID, req.Emoji)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}

	c.JSON(http.StatusOK, dto.ReactionResponse{MessageID: messageID, Emoji: req.Emoji, Count: count})
}
