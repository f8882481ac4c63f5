package models

import (
	"time"
)

// TransactionStatus constants
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusRefunded  = "refunded"
)

// Paid promotion packages a seller can buy for a listing
const (
	PackageFeatured7    = "featured_7"
	PackageFeatured30   = "featured_30"
	PackageHighlighted7 = "highlighted_7"
)

// Transaction represents a payment for a paid listing-promotion package
type Transaction struct {
	ID                uint    `json:"id" gorm:"primaryKey"`
	UserID            uint    `json:"user_id" gorm:"not null;index"`
	User              User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ListingID         uint    `json:"listing_id" gorm:"not null"`
	Listing           Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	Package           string  `json:"package"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency" gorm:"default:'INR'"`
	RazorpayOrderID   string  `json:"razorpay_order_id"`
	RazorpayPaymentID string  `json:"razorpay_payment_id"`
	Status            string  `json:"status" gorm:"default:'pending'"`
	// InvoiceNumber is assigned at creation time, inside the same transaction
	// that inserts the row. Rows predating this scheme may still hold NULL.
	InvoiceNumber *string    `json:"invoice_number" gorm:"uniqueIndex"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
