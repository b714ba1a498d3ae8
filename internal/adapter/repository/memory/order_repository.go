package memory

import (
	"context"
	"sort"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	apperrors "ecofinds/pkg/errors"
)

type orderRepository struct {
	s *Store
}

func NewOrderRepository(s *Store) repository.OrderRepository {
	return &orderRepository{s: s}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	defer r.s.lock(ctx)()

	order.ID = r.s.nextID()
	order.CreatedAt = r.s.now()
	order.UpdatedAt = order.CreatedAt
	if order.Status == "" {
		order.Status = entity.OrderStatusPending
	}

	stored := *order
	stored.Items, stored.Buyer = nil, nil
	r.s.orders[order.ID] = stored

	for _, item := range order.Items {
		item.ID = r.s.nextID()
		item.OrderID = order.ID
		item.CreatedAt = order.CreatedAt
		line := *item
		line.Order, line.Product, line.Seller = nil, nil, nil
		r.s.orderItems[item.ID] = line
	}
	return nil
}

// hydrateOrder must be called with mu held.
func (r *orderRepository) hydrateOrder(order entity.Order) *entity.Order {
	var items []*entity.OrderItem
	for _, line := range r.s.orderItems {
		if line.OrderID != order.ID {
			continue
		}
		item := line
		if item.ProductID != nil {
			if p, ok := r.s.products[*item.ProductID]; ok {
				item.Product = &entity.Product{ID: p.ID, Title: p.Title, ImageURLs: cloneStrings(p.ImageURLs), SellerID: p.SellerID, Status: p.Status}
			}
		}
		item.Seller = r.s.sellerOf(item.SellerID)
		items = append(items, &item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	order.Items = items
	return &order
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, apperrors.NotFound("Order", nil)
	}
	return r.hydrateOrder(order), nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID uint, limit, offset int) ([]*entity.Order, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var orders []*entity.Order
	for _, order := range r.s.orders {
		if order.BuyerID == buyerID {
			orders = append(orders, r.hydrateOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return page(orders, limit, offset), int64(len(orders)), nil
}

func (r *orderRepository) ListSalesBySeller(ctx context.Context, sellerID uint, limit, offset int) ([]*entity.OrderItem, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var items []*entity.OrderItem
	for _, line := range r.s.orderItems {
		if line.SellerID != sellerID {
			continue
		}
		item := line
		if order, ok := r.s.orders[item.OrderID]; ok {
			order.Buyer = r.s.sellerOf(order.BuyerID)
			item.Order = &order
		}
		if item.ProductID != nil {
			if p, ok := r.s.products[*item.ProductID]; ok {
				item.Product = &entity.Product{ID: p.ID, Title: p.Title, ImageURLs: cloneStrings(p.ImageURLs), SellerID: p.SellerID, Status: p.Status}
			}
		}
		items = append(items, &item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return page(items, limit, offset), int64(len(items)), nil
}
