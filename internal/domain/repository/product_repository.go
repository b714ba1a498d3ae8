package repository

import (
	"context"

	"ecofinds/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	SortByPrice = "price"
	SortByDate  = "date"
	SortAsc     = "asc"
	SortDesc    = "desc"
)

// ProductFilter narrows a product listing. Zero values mean "no constraint".
type ProductFilter struct {
	Query      string
	CategoryID uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Condition  entity.ProductCondition
	Status     entity.ProductStatus
	SellerID   uint
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID loads the product with its seller and category.
	GetByID(ctx context.Context, id uint) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, int64, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uint) error

	// LockForUpdate row-locks the given products in ascending id order for
	// the rest of the surrounding transaction.
	LockForUpdate(ctx context.Context, ids []uint) ([]*entity.Product, error)
	// MarkSold flips an available product to sold. It fails with a CONFLICT
	// error when the product is no longer available.
	MarkSold(ctx context.Context, id uint) error
}
