package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusPending = "pending"

type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	BuyerID         uint            `json:"buyer_id" gorm:"index;not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	ShippingAddress string          `json:"shipping_address" gorm:"type:text"`
	Status          string          `json:"status" gorm:"size:20;not null;default:pending"`
	CreatedAt       time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Buyer *User        `json:"-" gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE"`
	Items []*OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots a product at purchase time. ProductID is cleared when
// the product is later deleted; title and price stay.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"index;not null"`
	ProductID *uint           `json:"product_id"`
	SellerID  uint            `json:"seller_id" gorm:"index;not null"`
	Title     string          `json:"title" gorm:"size:200;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	CreatedAt time.Time       `json:"created_at"`

	Order   *Order   `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Product *Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	Seller  *User    `json:"-" gorm:"foreignKey:SellerID"`
}
