package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	apperrors "ecofinds/pkg/errors"
)

type gormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) repository.ProductRepository {
	return &gormProductRepository{db: db}
}

func (r *gormProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(product).Error
}

func (r *gormProductRepository) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).
		Preload("Seller", userSummaryColumns).
		Preload("Category").
		First(&product, id).Error
	if err != nil {
		return nil, notFound("Product", err)
	}
	return &product, nil
}

func (r *gormProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		if filter.SellerID != 0 {
			db = db.Where("seller_id = ?", filter.SellerID)
		}
		if filter.Query != "" {
			like := "%" + escapeLike(filter.Query) + "%"
			db = db.Where("(title ILIKE ? OR description ILIKE ?)", like, like)
		}
		if filter.CategoryID != 0 {
			db = db.Where("category_id = ?", filter.CategoryID)
		}
		if filter.MinPrice != nil {
			db = db.Where("price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			db = db.Where("price <= ?", *filter.MaxPrice)
		}
		if filter.Condition != "" {
			db = db.Where("condition = ?", filter.Condition)
		}
		return db
	}

	var total int64
	if err := conn(ctx, r.db).Model(&entity.Product{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column := "created_at"
	if filter.SortBy == repository.SortByPrice {
		column = "price"
	}
	desc := filter.SortOrder != repository.SortAsc

	var products []*entity.Product
	err := conn(ctx, r.db).
		Scopes(where).
		Preload("Seller", userSummaryColumns).
		Preload("Category").
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *gormProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Model(product).
		Select("title", "description", "price", "category_id", "condition", "image_urls", "updated_at").
		Updates(product).Error
}

func (r *gormProductRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&entity.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Product", nil)
	}
	return nil
}

func (r *gormProductRepository) LockForUpdate(ctx context.Context, ids []uint) ([]*entity.Product, error) {
	var products []*entity.Product
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id asc").
		Find(&products).Error
	return products, err
}

func (r *gormProductRepository) MarkSold(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Model(&entity.Product{}).
		Where("id = ? AND status = ?", id, entity.ProductAvailable).
		Updates(map[string]interface{}{
			"status":     entity.ProductSold,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.Conflict("Some items are no longer available")
	}
	return nil
}
