package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/thereayou/rawrchat/internal/handlers/dto"
	"github.com/thereayou/rawrchat/internal/middleware"
	"github.com/thereayou/rawrchat/internal/session"
	"github.com/thereayou/rawrchat/internal/store"
	ws "github.com/thereayou/rawrchat/internal/websocket"
	"github.com/thereayou/rawrchat/pkg/auth"
)

type AuthHandler struct {
	registry   *session.Registry
	jwtManager *auth.JWTManager
	blacklist  auth.Blacklist
	hub        *ws.Hub
	log        *zap.Logger
}

func NewAuthHandler(registry *session.Registry, jwtMgr *auth.JWTManager, blacklist auth.Blacklist, hub *ws.Hub, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{registry: registry, jwtManager: jwtMgr, blacklist: blacklist, hub: hub, log: logger}
}

// Login открывает сессию по анкете и выдаёт JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.registry.Login(c.Request.Context(), session.Profile{
		Name:    req.Name,
		Age:     req.Age,
		Gender:  req.Gender,
		Country: req.Country,
		Avatar:  req.Avatar,
	}, h.publish)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, exp, err := h.jwtManager.Generate(sess.ID)
	if err != nil {
		h.registry.Logout(sess.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		SessionID:      sess.ID,
		Token:          token,
		TokenExpiresAt: exp.UTC().Format(time.RFC3339),
		User:           sess.Store.Self(),
	})
}

// publish отправляет события сессии в её WebSocket-соединения
func (h *AuthHandler) publish(sessionID string, e store.Event) {
	h.hub.Publish(sessionID, ws.MessageType(e.Type), e)
}

// Logout закрывает сессию и ставит токен в черный список до истечения
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionIDKey)
	token := c.GetString(middleware.TokenKey)
	claims, _ := c.Get(middleware.ClaimsKey)

	h.registry.Logout(sessionID)
	h.hub.Disconnect(sessionID)

	ttl := 24 * time.Hour
	if rc, ok := claims.(*jwt.RegisteredClaims); ok {
		ttl = h.jwtManager.TTL(rc)
	}
	if err := h.blacklist.Revoke(c.Request.Context(), token, ttl); err != nil {
		h.log.Warn("failed to blacklist token", zap.String("session", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not revoke token"})
		return
	}

	c.Status(http.StatusOK)
}
