package repository

import (
	"context"
	"time"

	"metromaps/internal/domain"
)

// Repository defines the interface for map data access
type Repository interface {
	// LoadModel returns the stored map, or nil when nothing is stored
	LoadModel(ctx context.Context) (*domain.ModelData, error)

	// SaveModel replaces the stored map with model
	SaveModel(ctx context.Context, model *domain.ModelData) error

	// Edit journal
	AppendEdit(ctx context.Context, edit *domain.Edit) error
	ListEdits(ctx context.Context, limit int) ([]domain.Edit, error)

	// SavedAt returns when the map was last saved, or nil if never
	SavedAt(ctx context.Context) (*time.Time, error)

	// Close releases resources
	Close() error
}
