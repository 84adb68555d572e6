package services

import (
	"context"

	"github.com/thereayou/rawrchat/internal/models"
)

// GenerateRequest is everything a reply generator needs to speak as one of
// the candidates.
type GenerateRequest struct {
	History     []models.Message
	Candidates  []models.User
	Trigger     string
	ServerName  string
	ChannelName string
	Country     string
}

type Reply struct {
	SpeakerID string
	Text      string
}

// Generator produces a bot reply. A nil reply with a nil error means nobody
// in the candidate pool could answer.
type Generator interface {
	GenerateReply(ctx context.Context, req GenerateRequest) (*Reply, error)
}

// Speaker turns text into a playable audio URI. An empty URI means no audio.
type Speaker interface {
	Synthesize(ctx context.Context, text, gender string, personality models.Personality) (string, error)
}
