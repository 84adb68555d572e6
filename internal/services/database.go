package services

import (
	"context"

	"github.com/thereayou/rawrchat/internal/models"
)

// PersonaStore keeps user-created bot personas across restarts.
type PersonaStore interface {
	SaveNPC(ctx context.Context, npc *models.NPC) error
	ListNPCs(ctx context.Context) ([]models.NPC, error)
	GetNPC(ctx context.Context, id string) (*models.NPC, error)
}
