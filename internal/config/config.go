package config

import (
	"os"
	"strconv"
	"time"

	"github.com/thereayou/rawrchat/internal/chat"
	"github.com/thereayou/rawrchat/internal/scheduler"
)

type Config struct {
	ServerPort  string
	Env         string
	JWTSecret   string
	TokenTTL    time.Duration
	RedisURL    string
	DatabaseURL string

	GeminiAPIKey   string
	GeminiModel    string
	GeminiTTSModel string

	BotTick           time.Duration
	TieBreakP         float64
	BotSpeechP        float64
	ReactionP         float64
	ReplyDelayBot     time.Duration
	ReplyDelayHuman   time.Duration
	GenerationsPerSec float64
	Seed              int64
}

func LoadConfig() Config {
	return Config{
		ServerPort:  getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "dev"),
		JWTSecret:   getEnv("JWT_SECRET", "rawr-dev-secret"),
		TokenTTL:    getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		RedisURL:    getEnv("REDIS_URL", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTTSModel: getEnv("GEMINI_TTS_MODEL", "gemini-2.5-flash-preview-tts"),

		BotTick:           getEnvAsDuration("BOT_TICK", 2*time.Second),
		TieBreakP:         getEnvAsFloat("BOT_TIE_BREAK_P", 0.5),
		BotSpeechP:        getEnvAsFloat("BOT_SPEECH_P", 0.2),
		ReactionP:         getEnvAsFloat("BOT_REACTION_P", 0.3),
		ReplyDelayBot:     getEnvAsDuration("REPLY_DELAY_BOT", 1500*time.Millisecond),
		ReplyDelayHuman:   getEnvAsDuration("REPLY_DELAY_HUMAN", 3*time.Second),
		GenerationsPerSec: getEnvAsFloat("GENERATION_RPS", 0),
		Seed:              getEnvAsInt64("SEED", 0),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// SchedulerConfig maps the BOT_* settings onto the bot loop.
func (c *Config) SchedulerConfig() scheduler.Config {
	cfg := scheduler.DefaultConfig()
	cfg.Interval = c.BotTick
	cfg.TieBreakProbability = c.TieBreakP
	cfg.SpeechProbability = c.BotSpeechP
	cfg.ReactionProbability = c.ReactionP
	cfg.GenerationsPerSecond = c.GenerationsPerSec
	return cfg
}

func (c *Config) ChatConfig() chat.Config {
	cfg := chat.DefaultConfig()
	cfg.BotDelay = c.ReplyDelayBot
	cfg.DirectDelay = c.ReplyDelayBot
	cfg.HumanDelay = c.ReplyDelayHuman
	cfg.SpeechProbability = c.BotSpeechP
	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseFloat(value, 64); err == nil && v >= 0 && v <= 1e6 {
			return v
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
