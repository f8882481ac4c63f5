package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	ok, _ := ValidateUsername("jan_kowalski")
	assert.True(t, ok)

	ok, _ = ValidateUsername("ab")
	assert.False(t, ok)

	ok, _ = ValidateUsername("has spaces")
	assert.False(t, ok)
}

func TestValidateEmail(t *testing.T) {
	ok, _ := ValidateEmail("user@example.com")
	assert.True(t, ok)

	ok, _ = ValidateEmail("not-an-email")
	assert.False(t, ok)
}

func TestValidatePhoneNormalizes(t *testing.T) {
	ok, normalized := ValidatePhone("+48 600 700 800")
	assert.True(t, ok)
	assert.Equal(t, "+48600700800", normalized)

	ok, _ = ValidatePhone("abc")
	assert.False(t, ok)
}

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("Secret123")
	assert.True(t, ok)

	ok, msg := ValidatePassword("short1A")
	assert.False(t, ok)
	assert.Contains(t, msg, "between")

	ok, _ = ValidatePassword("alllowercase1")
	assert.False(t, ok)
}

func TestValidateListingTitle(t *testing.T) {
	ok, _ := ValidateListingTitle("BMW X5 3.0d xDrive")
	assert.True(t, ok)

	ok, _ = ValidateListingTitle("BMW")
	assert.False(t, ok)
}

func TestValidateListingPrice(t *testing.T) {
	ok, _ := ValidateListingPrice(25000)
	assert.True(t, ok)

	ok, _ = ValidateListingPrice(0)
	assert.False(t, ok)

	ok, _ = ValidateListingPrice(-100)
	assert.False(t, ok)
}

func TestValidateProductionYear(t *testing.T) {
	ok, _ := ValidateProductionYear(2020)
	assert.True(t, ok)

	ok, _ = ValidateProductionYear(1850)
	assert.False(t, ok)

	ok, _ = ValidateProductionYear(time.Now().Year() + 5)
	assert.False(t, ok)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("hello"))
	assert.NotContains(t, SanitizeString("<script>alert(1)</script>"), "<script>")
}

func TestGenerateOTP(t *testing.T) {
	otp := GenerateOTP()
	assert.Len(t, otp, 6)
	for _, r := range otp {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Secret123")
	assert.NoError(t, err)
	assert.True(t, CheckPassword("Secret123", hash))
	assert.False(t, CheckPassword("WrongPass1", hash))
}

func TestFieldValidationErrorsMessage(t *testing.T) {
	errs := FieldValidationErrors{
		{Field: "title", Message: "Title is too short"},
		{Field: "price", Message: "Price must be greater than zero"},
	}
	assert.Equal(t, "title: Title is too short; price: Price must be greater than zero", errs.Error())
}
