package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/thereayou/rawrchat/internal/handlers"
	"github.com/thereayou/rawrchat/internal/middleware"
	"github.com/thereayou/rawrchat/pkg/auth"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Room      *handlers.RoomHandler
	Message   *handlers.HTTPMessageHandler
	WebSocket *handlers.WebSocketHandler
	Health    *handlers.HealthHandler

	JWT       *auth.JWTManager
	Blacklist auth.Blacklist
	Logger    *zap.Logger
}

func APIEndpoints(r *gin.Engine, h Handlers) {
	r.Use(middleware.LoggerMiddleware(h.Logger))

	r.GET("/health", h.Health.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMW := middleware.AuthMiddleware(h.JWT, h.Blacklist, h.Logger)

	// Auth endpoints
	authG := r.Group("/auth")
	{
		authG.POST("/login", h.Auth.Login)
		authG.POST("/logout", authMW, h.Auth.Logout)
	}

	r.GET("/ws", middleware.WSAuthMiddleware(h.JWT, h.Blacklist, h.Logger), h.WebSocket.HandleWebSocket)

	// API endpoints
	api := r.Group("/api/v1", authMW)
	{
		api.GET("/me", h.User.GetMe)
		api.PATCH("/me", h.User.UpdateMe)
		api.GET("/users/:id", h.User.GetUser)
		api.PUT("/users/:id", h.User.UpdateUser)

		api.GET("/servers", h.Room.ListServers)
		api.POST("/servers/:id/join", h.Room.JoinServer)
		api.POST("/npcs", h.Room.CreateNPC)
		api.GET("/state", h.Room.GetState)
		api.PUT("/selection", h.Room.Select)
		api.POST("/dms", h.Room.OpenDirect)

		api.GET("/channels/:id/messages", h.Message.GetChannelMessages)
		api.POST("/channels/active/messages", h.Message.SendMessage)
		api.POST("/channels/:id/messages/:messageId/reactions", h.Message.AddReaction)
	}
}
