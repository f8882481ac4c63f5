package utils

import (
	"errors"

	"gorm.io/gorm"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
)

// GetUserByID retrieves a user by ID
func GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := config.DB.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("user not found", err)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := config.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("user not found", err)
		}
		return nil, err
	}
	return &user, nil
}

// GetAdminByEmail retrieves an admin by email
func GetAdminByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	err := config.DB.Where("email = ?", email).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("admin not found", err)
		}
		return nil, err
	}
	return &admin, nil
}

// GetListingByID retrieves a listing by ID
func GetListingByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	err := config.DB.First(&listing, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("listing not found", err)
		}
		return nil, err
	}
	return &listing, nil
}
