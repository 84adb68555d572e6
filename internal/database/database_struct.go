package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotConnected = errors.New("database is not connected")

// Database keeps saved NPC personas. Chat history never touches it.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) Ping(ctx context.Context) error {
	if d == nil || d.db == nil {
		return ErrNotConnected
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
