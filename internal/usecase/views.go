package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"ecofinds/internal/domain/entity"
)

// Page is one page of a listing plus the total match count.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

type ProductView struct {
	*entity.Product
	Seller *entity.UserSummary `json:"seller,omitempty"`
}

func NewProductView(p *entity.Product) *ProductView {
	if p == nil {
		return nil
	}
	return &ProductView{Product: p, Seller: p.Seller.Summary()}
}

func newProductViews(products []*entity.Product) []*ProductView {
	views := make([]*ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}
	return views
}

type CartItemView struct {
	*entity.CartItem
	Product  *ProductView    `json:"product"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Items       []*CartItemView `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

type OrderItemView struct {
	*entity.OrderItem
	Product *entity.ProductSummary `json:"product"`
	Seller  *entity.UserSummary    `json:"seller"`
}

type OrderView struct {
	*entity.Order
	Items []*OrderItemView `json:"items"`
}

func NewOrderView(o *entity.Order) *OrderView {
	items := make([]*OrderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, &OrderItemView{
			OrderItem: item,
			Product:   item.Product.Summary(),
			Seller:    item.Seller.Summary(),
		})
	}
	return &OrderView{Order: o, Items: items}
}

type SaleOrderView struct {
	ID              uint                `json:"id"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shipping_address"`
	CreatedAt       time.Time           `json:"created_at"`
	Buyer           *entity.UserSummary `json:"buyer"`
}

type SaleView struct {
	*entity.OrderItem
	Product *entity.ProductSummary `json:"product"`
	Order   *SaleOrderView         `json:"order"`
}

func NewSaleView(item *entity.OrderItem) *SaleView {
	view := &SaleView{OrderItem: item, Product: item.Product.Summary()}
	if item.Order != nil {
		view.Order = &SaleOrderView{
			ID:              item.Order.ID,
			Status:          item.Order.Status,
			ShippingAddress: item.Order.ShippingAddress,
			CreatedAt:       item.Order.CreatedAt,
			Buyer:           item.Order.Buyer.Summary(),
		}
	}
	return view
}

type MessageView struct {
	*entity.Message
	Sender *entity.UserSummary `json:"sender"`
}

func NewMessageView(m *entity.Message) *MessageView {
	if m == nil {
		return nil
	}
	return &MessageView{Message: m, Sender: m.Sender.Summary()}
}

type ConversationView struct {
	*entity.Conversation
	Buyer       *entity.UserSummary    `json:"buyer"`
	Seller      *entity.UserSummary    `json:"seller"`
	Product     *entity.ProductSummary `json:"product"`
	LastMessage *MessageView           `json:"last_message,omitempty"`
	Messages    []*MessageView         `json:"messages,omitempty"`
}

func NewConversationView(c *entity.Conversation) *ConversationView {
	return &ConversationView{
		Conversation: c,
		Buyer:        c.Buyer.Summary(),
		Seller:       c.Seller.Summary(),
		Product:      c.Product.Summary(),
	}
}

// NotificationEvent is the payload of a new_notification push.
type NotificationEvent struct {
	ID             uint                    `json:"id"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	Type           entity.NotificationType `json:"type"`
	ConversationID *uint                   `json:"conversation_id,omitempty"`
	OrderID        *uint                   `json:"order_id,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

func newNotificationEvent(n *entity.Notification) NotificationEvent {
	return NotificationEvent{
		ID:             n.ID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           n.Type,
		ConversationID: n.ConversationID,
		OrderID:        n.OrderID,
		CreatedAt:      n.CreatedAt,
	}
}

// ReadReceipt is the payload of a messages_read broadcast.
type ReadReceipt struct {
	ConversationID uint  `json:"conversation_id"`
	ReadByID       uint  `json:"read_by_id"`
	Count          int64 `json:"count"`
}
