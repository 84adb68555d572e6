package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/session"
	"github.com/thereayou/rawrchat/internal/store"
)

type UserHandler struct {
	registry *session.Registry
}

func NewUserHandler(registry *session.Registry) *UserHandler {
	return &UserHandler{registry: registry}
}

// GetMe возвращает профиль текущего пользователя
func (h *UserHandler) GetMe(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Store.Self())
}

// UpdateMe обновляет только переданные поля профиля
func (h *UserHandler) UpdateMe(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}

	var patch store.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Name != nil && *patch.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
		return
	}
	if patch.Status != nil && !validStatus(*patch.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	c.JSON(http.StatusOK, sess.Store.UpdateProfile(patch))
}

// GetUser возвращает пользователя по ID; неизвестный id даёт заглушку Unknown
func (h *UserHandler) GetUser(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Store.ResolveUser(c.Param("id")))
}

// UpdateUser перезаписывает профиль участника ростера (редактор ботов)
func (h *UserHandler) UpdateUser(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}

	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user.ID = c.Param("id")
	if user.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	updated, err := sess.UpdateUser(c.Request.Context(), user)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func validStatus(s models.Status) bool {
	switch s {
	case models.StatusOnline, models.StatusIdle, models.StatusDND, models.StatusOffline:
		return true
	}
	return false
}
