package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	"ecofinds/pkg/errors"
)

type CartUseCase struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartUseCase(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartUseCase {
	return &CartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// AddToCart merges repeated adds of the same product into one row. A zero
// quantity means 1.
func (uc *CartUseCase) AddToCart(ctx context.Context, userID, productID uint, quantity int) (*entity.CartItem, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, errors.Validation("quantity", "Quantity must be greater than 0")
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, passThrough("Failed to load product", err)
	}
	if !product.IsAvailable() {
		return nil, errors.Conflict("Product is not available")
	}
	if product.SellerID == userID {
		return nil, errors.Forbidden("Cannot add your own product to cart", nil)
	}

	item, err := uc.cartRepo.AddOrIncrement(ctx, userID, productID, quantity)
	if err != nil {
		return nil, errors.Internal("Failed to add item to cart", err)
	}
	item.Product = product
	return item, nil
}

func (uc *CartUseCase) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	items, err := uc.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Internal("Failed to load cart", err)
	}

	cart := &CartView{
		Items:       make([]*CartItemView, 0, len(items)),
		TotalAmount: decimal.Zero,
		ItemCount:   len(items),
	}
	for _, item := range items {
		view := &CartItemView{CartItem: item, Subtotal: decimal.Zero}
		if item.Product != nil {
			view.Product = NewProductView(item.Product)
			view.Subtotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			cart.TotalAmount = cart.TotalAmount.Add(view.Subtotal)
		}
		cart.Items = append(cart.Items, view)
	}
	cart.TotalAmount = cart.TotalAmount.Round(2)
	return cart, nil
}

func (uc *CartUseCase) UpdateCartItem(ctx context.Context, userID, itemID uint, quantity int) (*entity.CartItem, error) {
	if quantity <= 0 {
		return nil, errors.Validation("quantity", "Quantity must be greater than 0")
	}

	item, err := uc.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := uc.cartRepo.UpdateQuantity(ctx, itemID, quantity); err != nil {
		return nil, passThrough("Failed to update cart item", err)
	}
	item.Quantity = quantity
	return item, nil
}

func (uc *CartUseCase) RemoveFromCart(ctx context.Context, userID, itemID uint) error {
	if _, err := uc.ownedItem(ctx, userID, itemID); err != nil {
		return err
	}
	if err := uc.cartRepo.Delete(ctx, itemID); err != nil {
		return passThrough("Failed to remove cart item", err)
	}
	return nil
}

func (uc *CartUseCase) ClearCart(ctx context.Context, userID uint) error {
	if _, err := uc.cartRepo.DeleteByUser(ctx, userID); err != nil {
		return errors.Internal("Failed to clear cart", err)
	}
	return nil
}

func (uc *CartUseCase) ownedItem(ctx context.Context, userID, itemID uint) (*entity.CartItem, error) {
	item, err := uc.cartRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, passThrough("Failed to load cart item", err)
	}
	if item.UserID != userID {
		return nil, errors.Forbidden("Not authorized", nil)
	}
	return item, nil
}
