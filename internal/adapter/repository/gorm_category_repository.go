package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
)

type gormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &gormCategoryRepository{db: db}
}

func (r *gormCategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	err := conn(ctx, r.db).Order("name asc").Find(&categories).Error
	return categories, err
}

func (r *gormCategoryRepository) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	var category entity.Category
	if err := conn(ctx, r.db).First(&category, id).Error; err != nil {
		return nil, notFound("Category", err)
	}
	return &category, nil
}

func (r *gormCategoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var category entity.Category
	if err := conn(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&category).Error; err != nil {
		return nil, notFound("Category", err)
	}
	return &category, nil
}

func (r *gormCategoryRepository) EnsureExists(ctx context.Context, names []string) error {
	categories := make([]*entity.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, &entity.Category{Name: name})
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&categories).Error
}
