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

type gormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) repository.CartRepository {
	return &gormCartRepository{db: db}
}

func (r *gormCartRepository) AddOrIncrement(ctx context.Context, userID, productID uint, quantity int) (*entity.CartItem, error) {
	item := &entity.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	err := conn(ctx, r.db).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
	if err != nil {
		return nil, err
	}

	var stored entity.CartItem
	if err := conn(ctx, r.db).Where("user_id = ? AND product_id = ?", userID, productID).First(&stored).Error; err != nil {
		return nil, notFound("Cart item", err)
	}
	return &stored, nil
}

func (r *gormCartRepository) GetByID(ctx context.Context, id uint) (*entity.CartItem, error) {
	var item entity.CartItem
	if err := conn(ctx, r.db).First(&item, id).Error; err != nil {
		return nil, notFound("Cart item", err)
	}
	return &item, nil
}

func (r *gormCartRepository) ListByUser(ctx context.Context, userID uint) ([]*entity.CartItem, error) {
	var items []*entity.CartItem
	err := conn(ctx, r.db).
		Preload("Product").
		Preload("Product.Seller", userSummaryColumns).
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&items).Error
	return items, err
}

func (r *gormCartRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	return conn(ctx, r.db).Model(&entity.CartItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()}).Error
}

func (r *gormCartRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&entity.CartItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Cart item", nil)
	}
	return nil
}

func (r *gormCartRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := conn(ctx, r.db).Where("user_id = ?", userID).Delete(&entity.CartItem{})
	return result.RowsAffected, result.Error
}
