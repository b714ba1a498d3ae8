package usecase

import (
	"context"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	"ecofinds/pkg/errors"
)

type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryUseCase(categoryRepo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to fetch categories", err)
	}
	if categories == nil {
		categories = []*entity.Category{}
	}
	return categories, nil
}
