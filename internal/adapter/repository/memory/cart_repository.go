package memory

import (
	"context"
	"sort"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	apperrors "ecofinds/pkg/errors"
)

type cartRepository struct {
	s *Store
}

func NewCartRepository(s *Store) repository.CartRepository {
	return &cartRepository{s: s}
}

func (r *cartRepository) AddOrIncrement(ctx context.Context, userID, productID uint, quantity int) (*entity.CartItem, error) {
	defer r.s.lock(ctx)()

	for id, item := range r.s.cartItems {
		if item.UserID == userID && item.ProductID == productID {
			item.Quantity += quantity
			item.UpdatedAt = r.s.now()
			r.s.cartItems[id] = item
			return &item, nil
		}
	}

	item := entity.CartItem{
		ID:        r.s.nextID(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	item.CreatedAt = r.s.now()
	item.UpdatedAt = item.CreatedAt
	r.s.cartItems[item.ID] = item
	return &item, nil
}

func (r *cartRepository) GetByID(ctx context.Context, id uint) (*entity.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.cartItems[id]
	if !ok {
		return nil, apperrors.NotFound("Cart item", nil)
	}
	return &item, nil
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]*entity.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := &productRepository{s: r.s}
	var items []*entity.CartItem
	for _, item := range r.s.cartItems {
		if item.UserID != userID {
			continue
		}
		it := item
		if p, ok := r.s.products[item.ProductID]; ok {
			it.Product = products.hydrate(p)
		}
		items = append(items, &it)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	defer r.s.lock(ctx)()

	item, ok := r.s.cartItems[id]
	if !ok {
		return apperrors.NotFound("Cart item", nil)
	}
	item.Quantity = quantity
	item.UpdatedAt = r.s.now()
	r.s.cartItems[id] = item
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, id uint) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.cartItems[id]; !ok {
		return apperrors.NotFound("Cart item", nil)
	}
	delete(r.s.cartItems, id)
	return nil
}

func (r *cartRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	defer r.s.lock(ctx)()

	var deleted int64
	for id, item := range r.s.cartItems {
		if item.UserID == userID {
			delete(r.s.cartItems, id)
			deleted++
		}
	}
	return deleted, nil
}
