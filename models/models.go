package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles used for access control and promotion targeting
const (
	RoleUser    = "user"
	RoleDealer  = "dealer"
	RoleCompany = "company"
)

// User represents a regular user in the system
type User struct {
	gorm.Model
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Password     string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role" gorm:"default:'user';index"`
	Region       string    `json:"region"`
	ProfileImage string    `json:"profile_image"`
	IsBlocked    bool      `json:"is_blocked"`
	IsVerified   bool      `json:"is_verified" gorm:"default:false"`
	OTP          string    `json:"-"`
	OTPExpiresAt time.Time `json:"-"`
	LastLoginAt  time.Time `json:"last_login_at"`
	GoogleID     string    `gorm:"unique;default:null" json:"google_id"`

	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:UserID"`
}

// Admin represents an administrator in the system
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// UserOTP represents a one-time password for user verification
type UserOTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	Code      string    `json:"code" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category represents a vehicle category (SUV, Sedan, Motorcycle, ...).
// Listings reference categories by name so that promotion criteria and
// browse filters match on the same value.
type Category struct {
	gorm.Model
	Name        string `json:"name" gorm:"uniqueIndex"`
	Description string `json:"description"`
	Blocked     bool   `json:"blocked" gorm:"default:false"`
}
