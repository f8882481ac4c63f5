package utils

// Application constants
const (
	// Application name
	AppName = "Motoria"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// JWT token expiration (24 hours)
	JWTExpiration = "24h"

	// OTP expiration (15 minutes)
	OTPExpiration = "15m"

	// Maximum file size for listing photo uploads (5MB)
	MaxFileSize = 5 * 1024 * 1024

	// Maximum number of photos per listing
	MaxListingImages = 10

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Minimum password length
	MinPasswordLength = 8

	// Maximum password length
	MaxPasswordLength = 32

	// Minimum listing title length
	MinTitleLength = 5

	// Maximum listing title length
	MaxTitleLength = 120

	// Maximum message content length
	MaxMessageLength = 2000
)
