package repository

import (
	"context"

	"ecofinds/internal/domain/entity"
)

type CartRepository interface {
	// AddOrIncrement inserts the (user, product) row or adds quantity to the
	// existing one in a single statement.
	AddOrIncrement(ctx context.Context, userID, productID uint, quantity int) (*entity.CartItem, error)
	GetByID(ctx context.Context, id uint) (*entity.CartItem, error)
	// ListByUser returns the user's rows newest first with product, seller
	// and category loaded.
	ListByUser(ctx context.Context, userID uint) ([]*entity.CartItem, error)
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}
