package repository

import (
	"context"

	"ecofinds/internal/domain/entity"
)

type OrderRepository interface {
	// Create inserts the order and its Items.
	Create(ctx context.Context, order *entity.Order) error
	// GetByID loads the order with items, their products and sellers.
	GetByID(ctx context.Context, id uint) (*entity.Order, error)
	ListByBuyer(ctx context.Context, buyerID uint, limit, offset int) ([]*entity.Order, int64, error)
	// ListSalesBySeller returns order lines sold by sellerID with their order
	// and buyer loaded, newest first.
	ListSalesBySeller(ctx context.Context, sellerID uint, limit, offset int) ([]*entity.OrderItem, int64, error)
}
