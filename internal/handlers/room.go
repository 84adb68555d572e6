package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/rawrchat/internal/handlers/dto"
	"github.com/thereayou/rawrchat/internal/models"
	"github.com/thereayou/rawrchat/internal/session"
)

type RoomHandler struct {
	registry *session.Registry
}

func NewRoomHandler(registry *session.Registry) *RoomHandler {
	return &RoomHandler{registry: registry}
}

// ListServers возвращает каталог серверов с флагом joined
func (h *RoomHandler) ListServers(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}

	servers := sess.Store.Servers()
	result := make([]dto.ServerResponse, len(servers))
	for i, srv := range servers {
		result[i] = dto.ServerResponse{Server: srv, Joined: sess.Store.Joined(srv.ID)}
	}
	c.JSON(http.StatusOK, gin.H{"servers": result})
}

// JoinServer добавляет сервер в список; повторный join ничего не меняет
func (h *RoomHandler) JoinServer(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}

	if err := sess.Store.JoinServer(c.Param("id")); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess.Store.Snapshot())
}

// GetState возвращает активный вид, индикатор набора и DM-каналы
func (h *RoomHandler) GetState(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Store.Snapshot())
}

// Select переключает активный сервер и канал
func (h *RoomHandler) Select(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}

	var req dto.SelectionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess.Store.SelectChannel(req.ServerID, req.ChannelID)
	c.JSON(http.StatusOK, sess.Store.Active())
}

// OpenDirect создает или открывает DM с пользователем
func (h *RoomHandler) OpenDirect(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}

	var req dto.DirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel, err := sess.Store.OpenOrCreateDirectChannel(req.UserID)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, channel)
}

// CreateNPC добавляет бота в активную комнату
func (h *RoomHandler) CreateNPC(c *gin.Context) {
	sess, ok := currentSession(c, h.registry)
	if !ok {
		return
	}

	var req dto.NPCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	npc, err := sess.CreateNPC(c.Request.Context(), models.User{
		Name:        req.Name,
		Bio:         req.Bio,
		Gender:      req.Gender,
		Personality: req.Personality,
		Avatar:      req.Avatar,
		Color:       req.Color,
		Font:        req.Font,
		Frame:       req.Frame,
		Status:      models.StatusOnline,
	})
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, npc)
}
