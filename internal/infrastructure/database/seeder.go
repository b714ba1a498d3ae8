package database

import (
	"context"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	"ecofinds/pkg/logger"
)

// SeedCategories makes sure the default categories exist.
func SeedCategories(ctx context.Context, categories repository.CategoryRepository) error {
	logger.Info("Seeding categories...")
	if err := categories.EnsureExists(ctx, entity.DefaultCategories); err != nil {
		return err
	}
	logger.Info("Categories seeded: %d", len(entity.DefaultCategories))
	return nil
}
