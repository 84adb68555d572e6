package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/rawrchat/internal/database"
	"github.com/thereayou/rawrchat/internal/session"
)

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Sessions  int       `json:"sessions"`
	Services  []Service `json:"services"`
}

type Service struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler пингует подключённые зависимости; отсутствующие не проверяются
type HealthHandler struct {
	DB       *database.Database
	Redis    *redis.Client
	Registry *session.Registry
}

func (h *HealthHandler) Check(c *gin.Context) {
	status := h.check(c.Request.Context())
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

func (h *HealthHandler) check(ctx context.Context) HealthStatus {
	services := []Service{}
	overall := "healthy"

	probe := func(name string, ping func(context.Context) error) {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		svc := Service{Name: name, Status: "up"}
		if err := ping(ctx); err != nil {
			svc.Status = "down"
			svc.Message = err.Error()
			overall = "degraded"
		}
		services = append(services, svc)
	}

	if h.DB != nil {
		probe("PostgreSQL", h.DB.Ping)
	}
	if h.Redis != nil {
		probe("Redis", func(ctx context.Context) error { return h.Redis.Ping(ctx).Err() })
	}

	sessions := 0
	if h.Registry != nil {
		sessions = h.Registry.Len()
	}

	return HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Sessions:  sessions,
		Services:  services,
	}
}
