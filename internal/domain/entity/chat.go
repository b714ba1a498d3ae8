package entity

import "time"

const MessageTypeText = "text"

// Conversation is unique per (buyer, seller, product) triple. UpdatedAt moves
// forward on every message and drives inbox order.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BuyerID   uint      `json:"buyer_id" gorm:"not null;uniqueIndex:idx_conversation_triple"`
	SellerID  uint      `json:"seller_id" gorm:"not null;index;uniqueIndex:idx_conversation_triple"`
	ProductID *uint     `json:"product_id" gorm:"uniqueIndex:idx_conversation_triple"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`

	Buyer    *User      `json:"-" gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE"`
	Seller   *User      `json:"-" gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
	Product  *Product   `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	Messages []*Message `json:"-" gorm:"foreignKey:ConversationID"`
}

func (c *Conversation) IsParticipant(userID uint) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID uint) uint {
	if c.BuyerID == userID {
		return c.SellerID
	}
	return c.BuyerID
}

type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index;not null"`
	SenderID       uint      `json:"sender_id" gorm:"index;not null"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	MessageType    string    `json:"message_type" gorm:"size:20;not null;default:text"`
	IsRead         bool      `json:"is_read" gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`

	Conversation *Conversation `json:"-" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	Sender       *User         `json:"-" gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
}
