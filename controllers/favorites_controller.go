package controllers

import (
	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
)

// AddToFavorites saves a listing to the user's favorites
func AddToFavorites(c *gin.Context) {
	utils.LogInfo("AddToFavorites called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	var req struct {
		ListingID uint `json:"listing_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	listing, err := utils.GetListingByID(req.ListingID)
	if err != nil {
		utils.LogError("Listing not found: %d", req.ListingID)
		utils.NotFound(c, "Listing not found")
		return
	}
	if listing.Status != models.ListingStatusActive {
		utils.BadRequest(c, "Only active listings can be added to favorites", nil)
		return
	}

	var existing models.Favorite
	if err := config.DB.Where("user_id = ? AND listing_id = ?", user.ID, req.ListingID).First(&existing).Error; err == nil {
		utils.Conflict(c, "Listing already in favorites", nil)
		return
	}

	favorite := models.Favorite{
		UserID:    user.ID,
		ListingID: req.ListingID,
	}
	if err := config.DB.Create(&favorite).Error; err != nil {
		utils.LogError("Failed to add favorite: %v", err)
		utils.InternalServerError(c, "Failed to add to favorites", err.Error())
		return
	}

	utils.LogInfo("User %d added listing %d to favorites", user.ID, req.ListingID)
	utils.Created(c, "Added to favorites", gin.H{"favorite_id": favorite.ID})
}

// RemoveFromFavorites removes a listing from the user's favorites
func RemoveFromFavorites(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	listingID := c.Param("id")
	result := config.DB.Where("user_id = ? AND listing_id = ?", user.ID, listingID).Delete(&models.Favorite{})
	if result.Error != nil {
		utils.LogError("Failed to remove favorite: %v", result.Error)
		utils.InternalServerError(c, "Failed to remove from favorites", result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Listing not in favorites")
		return
	}

	utils.LogInfo("User %d removed listing %s from favorites", user.ID, listingID)
	utils.Success(c, "Removed from favorites", nil)
}

// GetFavorites lists the user's favorite listings with current prices
func GetFavorites(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	var favorites []models.Favorite
	if err := config.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&favorites).Error; err != nil {
		utils.LogError("Failed to fetch favorites for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch favorites", err.Error())
		return
	}

	listingIDs := make([]uint, len(favorites))
	for i, f := range favorites {
		listingIDs[i] = f.ListingID
	}

	var listings []models.Listing
	if len(listingIDs) > 0 {
		if err := config.DB.Preload("Images").Where("id IN ?", listingIDs).Find(&listings).Error; err != nil {
			utils.LogError("Failed to fetch favorite listings: %v", err)
			utils.InternalServerError(c, "Failed to fetch favorites", err.Error())
			return
		}
	}

	byID := make(map[uint]*models.Listing, len(listings))
	for i := range listings {
		byID[listings[i].ID] = &listings[i]
	}

	// Keep the user's save order and skip listings that were deleted since.
	formatted := make([]gin.H, 0, len(favorites))
	for _, f := range favorites {
		if l, ok := byID[f.ListingID]; ok {
			item := formatListing(l)
			item["favorited_at"] = f.CreatedAt
			formatted = append(formatted, item)
		}
	}

	utils.Success(c, "Favorites retrieved successfully", gin.H{"favorites": formatted})
}
