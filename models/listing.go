package models

import (
	"time"

	"gorm.io/gorm"
)

// Listing status constants
const (
	ListingStatusPending = "pending"
	ListingStatusActive  = "active"
	ListingStatusSold    = "sold"
	ListingStatusBlocked = "blocked"
)

// Discount kind constants for the listing discount descriptor
const (
	DiscountKindPercentage = "percentage"
	DiscountKindFixed      = "fixed"
)

// Listing represents a vehicle listing in the marketplace
type Listing struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"not null;index"`
	User         User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Brand        string `json:"brand"`
	VehicleModel string `json:"model" gorm:"column:model"`
	Year         int    `json:"year"`
	Mileage      int    `json:"mileage"`
	FuelType     string `json:"fuel_type"`

	// Price is the base price set by the seller. The promotion engine never
	// mutates it; only the discount fields below change.
	Price           float64  `json:"price" gorm:"not null"`
	DiscountKind    *string  `json:"discount_kind"`
	DiscountValue   *float64 `json:"discount_value"`
	DiscountedPrice *float64 `json:"discounted_price"`

	Category string `json:"category" gorm:"index"`
	Location string `json:"location" gorm:"index"`

	Status        string         `json:"status" gorm:"default:'pending'"`
	IsFeatured    bool           `json:"is_featured" gorm:"default:false"`
	IsHighlighted bool           `json:"is_highlighted" gorm:"default:false"`
	FeaturedUntil *time.Time     `json:"featured_until,omitempty"`
	Views         int            `json:"views" gorm:"default:0"`
	Images        []ListingImage `json:"images" gorm:"foreignKey:ListingID"`
}

// HasDiscount reports whether a discount is currently applied.
func (l *Listing) HasDiscount() bool {
	return l.DiscountKind != nil
}

// EffectivePrice returns the discounted price when a discount is applied,
// otherwise the base price.
func (l *Listing) EffectivePrice() float64 {
	if l.DiscountedPrice != nil {
		return *l.DiscountedPrice
	}
	return l.Price
}

// ListingImage represents a photo attached to a listing
type ListingImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ListingID uint      `json:"listing_id" gorm:"not null;index"`
	URL       string    `json:"url"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
