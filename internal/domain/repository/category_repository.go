package repository

import (
	"context"

	"ecofinds/internal/domain/entity"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	GetByID(ctx context.Context, id uint) (*entity.Category, error)
	// GetByName matches case-insensitively.
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	// EnsureExists creates any missing names and leaves existing rows alone.
	EnsureExists(ctx context.Context, names []string) error
}
