package models

import (
	"time"

	"gorm.io/gorm"
)

// Message represents a message sent between two users about a listing
type Message struct {
	gorm.Model
	ListingID   uint       `json:"listing_id" gorm:"index"`
	Listing     Listing    `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	SenderID    uint       `json:"sender_id" gorm:"not null;index"`
	Sender      User       `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	RecipientID uint       `json:"recipient_id" gorm:"not null;index"`
	Recipient   User       `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
	Content     string     `json:"content" gorm:"not null"`
	Read        bool       `json:"read" gorm:"default:false"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
}
