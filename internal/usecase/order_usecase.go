package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ecofinds/internal/domain/entity"
	"ecofinds/internal/domain/repository"
	"ecofinds/pkg/errors"
	"ecofinds/pkg/logger"
	"ecofinds/pkg/utils"
)

type OrderUseCase struct {
	tx               repository.Transactor
	cartRepo         repository.CartRepository
	productRepo      repository.ProductRepository
	orderRepo        repository.OrderRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	publisher        RealtimePublisher
}

func NewOrderUseCase(
	tx repository.Transactor,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	publisher RealtimePublisher,
) *OrderUseCase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &OrderUseCase{
		tx:               tx,
		cartRepo:         cartRepo,
		productRepo:      productRepo,
		orderRepo:        orderRepo,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        publisher,
	}
}

type CheckoutInput struct {
	ShippingAddress string
}

type UnavailableItem struct {
	ProductID uint   `json:"product_id"`
	Title     string `json:"title"`
}

func unavailableError(items []UnavailableItem) error {
	return errors.Conflict("Some items are no longer available").
		WithDetails(map[string]interface{}{"unavailable_items": items})
}

// Checkout turns the buyer's cart into an order in one transaction: the
// products are row-locked, re-checked and flipped to sold, sellers and the
// buyer are notified and the cart is emptied. Nothing is written when any
// product is unavailable.
func (uc *OrderUseCase) Checkout(ctx context.Context, buyerID uint, input CheckoutInput) (*OrderView, error) {
	buyer, err := uc.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		return nil, passThrough("Failed to load buyer", err)
	}

	var (
		order         *entity.Order
		notifications []*entity.Notification
	)

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		notifications = nil

		cartItems, err := uc.cartRepo.ListByUser(ctx, buyerID)
		if err != nil {
			return errors.Internal("Failed to load cart", err)
		}
		if len(cartItems) == 0 {
			return errors.Conflict("Cart is empty")
		}

		ids := make([]uint, 0, len(cartItems))
		for _, item := range cartItems {
			ids = append(ids, item.ProductID)
		}
		locked, err := uc.productRepo.LockForUpdate(ctx, ids)
		if err != nil {
			return errors.Internal("Failed to lock products", err)
		}
		products := make(map[uint]*entity.Product, len(locked))
		for _, p := range locked {
			products[p.ID] = p
		}

		var unavailable []UnavailableItem
		for _, item := range cartItems {
			p, ok := products[item.ProductID]
			if ok && p.IsAvailable() {
				continue
			}
			title := ""
			if item.Product != nil {
				title = item.Product.Title
			}
			unavailable = append(unavailable, UnavailableItem{ProductID: item.ProductID, Title: title})
		}
		if len(unavailable) > 0 {
			return unavailableError(unavailable)
		}

		total := decimal.Zero
		lines := make([]*entity.OrderItem, 0, len(cartItems))
		for _, item := range cartItems {
			p := products[item.ProductID]
			productID := p.ID
			total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			lines = append(lines, &entity.OrderItem{
				ProductID: &productID,
				SellerID:  p.SellerID,
				Title:     p.Title,
				Price:     p.Price,
				Quantity:  item.Quantity,
			})
		}

		address := strings.TrimSpace(input.ShippingAddress)
		if address == "" {
			address = buyer.Address
		}

		created := &entity.Order{
			BuyerID:         buyerID,
			TotalAmount:     total.Round(2),
			ShippingAddress: address,
			Status:          entity.OrderStatusPending,
			Items:           lines,
		}
		if err := uc.orderRepo.Create(ctx, created); err != nil {
			return errors.Internal("Failed to create order", err)
		}

		for _, line := range lines {
			p := products[*line.ProductID]
			if err := uc.productRepo.MarkSold(ctx, p.ID); err != nil {
				if errors.Is(err, "CONFLICT") {
					return unavailableError([]UnavailableItem{{ProductID: p.ID, Title: p.Title}})
				}
				return errors.Internal("Failed to update product status", err)
			}

			orderID := created.ID
			notification := &entity.Notification{
				UserID:  p.SellerID,
				Title:   "New Order Received",
				Message: fmt.Sprintf("Your product %q has been ordered by %s", p.Title, buyer.Username),
				Type:    entity.NotificationOrder,
				OrderID: &orderID,
			}
			if err := uc.notificationRepo.Create(ctx, notification); err != nil {
				return errors.Internal("Failed to notify seller", err)
			}
			notifications = append(notifications, notification)
		}

		if _, err := uc.cartRepo.DeleteByUser(ctx, buyerID); err != nil {
			return errors.Internal("Failed to clear cart", err)
		}

		orderID := created.ID
		buyerNotification := &entity.Notification{
			UserID:  buyerID,
			Title:   "Order Placed Successfully",
			Message: fmt.Sprintf("Your order #%d has been placed successfully", created.ID),
			Type:    entity.NotificationOrder,
			OrderID: &orderID,
		}
		if err := uc.notificationRepo.Create(ctx, buyerNotification); err != nil {
			return errors.Internal("Failed to notify buyer", err)
		}
		notifications = append(notifications, buyerNotification)

		order, err = uc.orderRepo.GetByID(ctx, created.ID)
		if err != nil {
			return errors.Internal("Failed to load order", err)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough("Checkout failed", err)
	}

	for _, n := range notifications {
		uc.publisher.PublishToUser(n.UserID, EventNewNotification, newNotificationEvent(n))
	}

	logger.Info("Order placed: id=%d buyer=%d items=%d total=%s", order.ID, buyerID, len(order.Items), order.TotalAmount.StringFixed(2))
	return NewOrderView(order), nil
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, buyerID uint, page, limit int) (*Page[*OrderView], error) {
	pagination := utils.NewPaginationParams(page, limit)
	orders, total, err := uc.orderRepo.ListByBuyer(ctx, buyerID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, errors.Internal("Failed to list orders", err)
	}

	views := make([]*OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return &Page[*OrderView]{Items: views, Total: total, Page: pagination.Page, Limit: pagination.PageSize}, nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, buyerID, orderID uint) (*OrderView, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, passThrough("Failed to load order", err)
	}
	if order.BuyerID != buyerID {
		return nil, errors.Forbidden("Not authorized", nil)
	}
	return NewOrderView(order), nil
}

// ListSales returns the order lines in which sellerID sold something.
func (uc *OrderUseCase) ListSales(ctx context.Context, sellerID uint, page, limit int) (*Page[*SaleView], error) {
	pagination := utils.NewPaginationParams(page, limit)
	items, total, err := uc.orderRepo.ListSalesBySeller(ctx, sellerID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, errors.Internal("Failed to list sales", err)
	}

	views := make([]*SaleView, 0, len(items))
	for _, item := range items {
		views = append(views, NewSaleView(item))
	}
	return &Page[*SaleView]{Items: views, Total: total, Page: pagination.Page, Limit: pagination.PageSize}, nil
}
