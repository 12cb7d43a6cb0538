package store

import (
	"gorm.io/gorm"

	"github.com/KEIAN12/gamagori-shigikai/internal/model"
)

type implStore struct {
	db *gorm.DB
}

// New creates a Store backed by the given gorm database handle.
func New(db *gorm.DB) Store {
	return &implStore{db: db}
}

// Migrate creates or updates the schema for all record types.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Video{},
		&model.Article{},
		&model.CouncilMember{},
	)
}
