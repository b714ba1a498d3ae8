package repository

import (
	"context"

	"gorm.io/gorm"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
)

type gormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return conn(ctx, r.db).Omit("Buyer").Create(order).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id uint) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).
		Scopes(withOrderItems).
		First(&order, id).Error
	if err != nil {
		return nil, notFound("Order", err)
	}
	return &order, nil
}

func (r *gormOrderRepository) ListByBuyer(ctx context.Context, buyerID uint, limit, offset int) ([]*entity.Order, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&entity.Order{}).Where("buyer_id = ?", buyerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*entity.Order
	err := conn(ctx, r.db).
		Scopes(withOrderItems).
		Where("buyer_id = ?", buyerID).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *gormOrderRepository) ListSalesBySeller(ctx context.Context, sellerID uint, limit, offset int) ([]*entity.OrderItem, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&entity.OrderItem{}).Where("seller_id = ?", sellerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*entity.OrderItem
	err := conn(ctx, r.db).
		Preload("Order").
		Preload("Order.Buyer", userSummaryColumns).
		Preload("Product", productSummaryColumns).
		Where("seller_id = ?", sellerID).
		Order("created_at desc, id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func withOrderItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Items.Product", productSummaryColumns).
		Preload("Items.Seller", userSummaryColumns)
}
