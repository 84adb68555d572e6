package database

import (
	"context"
	"time"

	"github.com/thereayou/rawrchat/internal/models"
)

func (d *Database) SaveNPC(ctx context.Context, npc *models.NPC) error {
	if npc.CreatedAt.IsZero() {
		npc.CreatedAt = time.Now()
	}
	return d.db.WithContext(ctx).Save(npc).Error
}

// ListNPCs returns personas oldest first so rosters rebuild in creation order.
func (d *Database) ListNPCs(ctx context.Context) ([]models.NPC, error) {
	var npcs []models.NPC
	if err := d.db.WithContext(ctx).Order("created_at ASC").Find(&npcs).Error; err != nil {
		return nil, err
	}
	return npcs, nil
}

func (d *Database) GetNPC(ctx context.Context, id string) (*models.NPC, error) {
	var npc models.NPC
	if err := d.db.WithContext(ctx).First(&npc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &npc, nil
}
