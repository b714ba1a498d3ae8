package entity

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type ProductCondition string

const (
	ConditionNew     ProductCondition = "new"
	ConditionLikeNew ProductCondition = "like_new"
	ConditionGood    ProductCondition = "good"
	ConditionFair    ProductCondition = "fair"
	ConditionPoor    ProductCondition = "poor"
)

func (c ProductCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

type ProductStatus string

const (
	ProductAvailable ProductStatus = "available"
	ProductSold      ProductStatus = "sold"
)

type Product struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Title       string           `json:"title" gorm:"size:200;not null"`
	Description string           `json:"description" gorm:"type:text"`
	Price       decimal.Decimal  `json:"price" gorm:"type:numeric(12,2);not null"`
	CategoryID  uint             `json:"category_id" gorm:"index;not null"`
	Condition   ProductCondition `json:"condition" gorm:"size:20;not null"`
	Status      ProductStatus    `json:"status" gorm:"size:20;not null;default:available;index"`
	ImageURLs   pq.StringArray   `json:"image_urls" gorm:"type:text[]"`
	SellerID    uint             `json:"seller_id" gorm:"index;not null"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Seller   *User     `json:"-" gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (p *Product) IsAvailable() bool {
	return p.Status == ProductAvailable
}

// ProductSummary is the projection embedded in order items and conversations.
type ProductSummary struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	ImageURLs pq.StringArray `json:"image_urls"`
}

func (p *Product) Summary() *ProductSummary {
	if p == nil || p.ID == 0 {
		return nil
	}
	return &ProductSummary{ID: p.ID, Title: p.Title, ImageURLs: p.ImageURLs}
}
