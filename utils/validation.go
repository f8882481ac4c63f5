package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	hasLower      = regexp.MustCompile(`[a-z]`)
	hasUpper      = regexp.MustCompile(`[A-Z]`)
	hasNumber     = regexp.MustCompile(`[0-9]`)
)

// SanitizeString escapes HTML and strips tags from user-provided text
func SanitizeString(input string) string {
	sanitized := html.EscapeString(input)
	htmlTagRegex := regexp.MustCompile(`<[^>]*>`)
	return htmlTagRegex.ReplaceAllString(sanitized, "")
}

// ValidateUsername checks username format
func ValidateUsername(username string) (bool, string) {
	if !usernameRegex.MatchString(username) {
		return false, "Username must be 3-20 characters and contain only letters, numbers and underscores"
	}
	return true, ""
}

// ValidateEmail checks email format
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(email) {
		return false, "Invalid email address"
	}
	return true, ""
}

// ValidatePhone checks and normalizes a phone number
func ValidatePhone(phone string) (bool, string) {
	normalized := strings.ReplaceAll(strings.ReplaceAll(phone, " ", ""), "-", "")
	if !phoneRegex.MatchString(normalized) {
		return false, ""
	}
	return true, normalized
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return false, fmt.Sprintf("Password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)
	}
	if !hasLower.MatchString(password) || !hasUpper.MatchString(password) || !hasNumber.MatchString(password) {
		return false, "Password must contain a lowercase letter, an uppercase letter and a number"
	}
	return true, ""
}

// ValidateListingTitle checks a listing title
func ValidateListingTitle(title string) (bool, string) {
	length := len(strings.TrimSpace(title))
	if length < MinTitleLength || length > MaxTitleLength {
		return false, fmt.Sprintf("Title must be between %d and %d characters", MinTitleLength, MaxTitleLength)
	}
	return true, ""
}

// ValidateListingPrice checks a listing price
func ValidateListingPrice(price float64) (bool, string) {
	if price <= 0 {
		return false, "Price must be greater than zero"
	}
	return true, ""
}

// ValidateProductionYear checks a vehicle production year
func ValidateProductionYear(year int) (bool, string) {
	current := time.Now().Year()
	if year < 1900 || year > current+1 {
		return false, fmt.Sprintf("Production year must be between 1900 and %d", current+1)
	}
	return true, ""
}
