package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/thereayou/rawrchat/internal/config"
	"github.com/thereayou/rawrchat/internal/database"
	"github.com/thereayou/rawrchat/internal/gemini"
	"github.com/thereayou/rawrchat/internal/handlers"
	"github.com/thereayou/rawrchat/internal/services"
	"github.com/thereayou/rawrchat/internal/session"
	"github.com/thereayou/rawrchat/internal/util"
	ws "github.com/thereayou/rawrchat/internal/websocket"
	"github.com/thereayou/rawrchat/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	HTTP       *http.Server
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *ws.Hub
	Registry   *session.Registry

	log *zap.Logger
}

func NewServer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{log: logger}

	var personas services.PersonaStore
	if cfg.DatabaseURL != "" {
		db := &database.Database{}
		if err := db.Connect(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("postgres connect failed: %w", err)
		}
		s.DB = db
		personas = db
		logger.Info("Postgres connected, npc personas will be saved")
	} else {
		logger.Warn("DATABASE_URL not set, npc personas live only in memory")
	}

	var blacklist auth.Blacklist
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(redisOpts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connect failed: %w", err)
		}
		s.Redis = rdb
		blacklist = auth.NewRedisBlacklist(rdb)
	} else {
		logger.Warn("REDIS_URL not set, token blacklist kept in memory")
		blacklist = auth.NewMemoryBlacklist()
	}

	generator, speaker, err := newCollaborators(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	s.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	s.Hub = ws.NewHub(logger)
	s.Registry = session.NewRegistry(session.Deps{
		Generator: generator,
		Speaker:   speaker,
		Personas:  personas,
		Logger:    logger,
	}, session.Config{
		Scheduler: cfg.SchedulerConfig(),
		Chat:      cfg.ChatConfig(),
		Seed:      cfg.Seed,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	msgH := handlers.NewMessageHandler(s.Registry, logger)
	APIEndpoints(router, Handlers{
		Auth:      handlers.NewAuthHandler(s.Registry, s.JWTManager, blacklist, s.Hub, logger),
		User:      handlers.NewUserHandler(s.Registry),
		Room:      handlers.NewRoomHandler(s.Registry),
		Message:   handlers.NewHTTPMessageHandler(s.Registry),
		WebSocket: handlers.NewWebSocketHandler(s.Hub, s.Registry, msgH, nil, logger),
		Health:    &handlers.HealthHandler{DB: s.DB, Redis: s.Redis, Registry: s.Registry},
		JWT:       s.JWTManager,
		Blacklist: blacklist,
		Logger:    logger,
	})

	s.Router = router
	s.HTTP = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// newCollaborators подключает Gemini, без ключа работает офлайн-генератор
func newCollaborators(ctx context.Context, cfg config.Config, logger *zap.Logger) (services.Generator, services.Speaker, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := util.NewRand(seed)

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, bots answer with canned lines")
		offline := gemini.NewOffline(rnd)
		return offline, offline, nil
	}

	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.GeminiModel,
		TTSModel: cfg.GeminiTTSModel,
	}, rnd, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}

func (s *Server) Run() error {
	go s.Hub.Run()

	s.log.Info("Server started", zap.String("addr", s.HTTP.Addr))
	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает HTTP, сессии и соединения
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.HTTP.Shutdown(ctx)
	s.Hub.Stop()
	s.Registry.Close()

	if s.Redis != nil {
		if cerr := s.Redis.Close(); cerr != nil {
			s.log.Warn("redis close failed", zap.Error(cerr))
		}
	}
	if s.DB != nil {
		if cerr := s.DB.Close(); cerr != nil {
			s.log.Warn("postgres close failed", zap.Error(cerr))
		}
	}
	return err
}
