package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, h *Housing) error
	List(ctx context.Context, db *gorm.DB) ([]Housing, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Housing, error)
	// Update reports false when no row has the given id.
	Update(ctx context.Context, db *gorm.DB, h *Housing) (bool, error)
	// Delete reports false when no row has the given id.
	Delete(ctx context.Context, db *gorm.DB, id int64) (bool, error)
}
