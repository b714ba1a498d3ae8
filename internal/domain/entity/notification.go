package entity

import "time"

type NotificationType string

const (
	NotificationOrder   NotificationType = "order"
	NotificationMessage NotificationType = "message"
)

type Notification struct {
	ID             uint             `json:"id" gorm:"primaryKey"`
	UserID         uint             `json:"user_id" gorm:"index;not null"`
	Title          string           `json:"title" gorm:"size:200;not null"`
	Message        string           `json:"message" gorm:"type:text;not null"`
	Type           NotificationType `json:"type" gorm:"size:20;not null"`
	Read           bool             `json:"read" gorm:"not null;default:false;index"`
	ConversationID *uint            `json:"conversation_id,omitempty"`
	OrderID        *uint            `json:"order_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at" gorm:"index"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
