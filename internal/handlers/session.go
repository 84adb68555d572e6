package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/rawrchat/internal/chat"
	"github.com/thereayou/rawrchat/internal/handlers/dto"
	"github.com/thereayou/rawrchat/internal/middleware"
	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/session"
	"github.com/thereayou/rawrchat/internal/store"
)

// currentSession достаёт сессию по id из токена
func currentSession(c *gin.Context, registry *session.Registry) (*session.Session, bool) {
	sess, ok := registry.Get(c.GetString(middleware.SessionIDKey))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		return nil, false
	}
	return sess, true
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrServerNotFound),
		errors.Is(err, store.ErrChannelNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrSelfDirect),
		errors.Is(err, store.ErrEmptyEmoji),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrNoChannel),
		errors.Is(err, session.ErrUnknownPersonality):
		return http.StatusBadRequest
	case errors.Is(err, chat.ErrImagesDisabled):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func withAuthor(st *store.Store, msg models.Message) dto.MessageResponse {
	return dto.MessageResponse{Message: msg, Author: st.ResolveUser(msg.UserID)}
}
