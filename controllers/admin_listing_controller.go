package controllers

import (
	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
)

// GetListingsForModeration lists listings filtered by status for the admin panel
func GetListingsForModeration(c *gin.Context) {
	utils.LogInfo("GetListingsForModeration called")

	pagination := utils.NewPagination(c)
	status := c.DefaultQuery("status", models.ListingStatusPending)

	query := config.DB.Model(&models.Listing{}).Where("status = ?", status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count listings: %v", err)
		utils.InternalServerError(c, "Failed to fetch listings", err.Error())
		return
	}

	var listings []models.Listing
	if err := query.Preload("Images").Preload("User").
		Order("created_at ASC").
		Limit(pagination.Limit).
		Offset(pagination.Offset).
		Find(&listings).Error; err != nil {
		utils.LogError("Failed to fetch listings: %v", err)
		utils.InternalServerError(c, "Failed to fetch listings", err.Error())
		return
	}

	formatted := make([]gin.H, len(listings))
	for i := range listings {
		item := formatListing(&listings[i])
		item["seller"] = gin.H{
			"id":    listings[i].User.ID,
			"name":  listings[i].User.FirstName + " " + listings[i].User.LastName,
			"email": listings[i].User.Email,
		}
		formatted[i] = item
	}

	utils.LogInfo("Retrieved %d listings with status %s", len(formatted), status)
	utils.SuccessWithPagination(c, "Listings retrieved successfully", gin.H{"listings": formatted}, total, pagination.Page, pagination.Limit)
}

func setListingStatus(c *gin.Context, status, successMsg string) {
	id := c.Param("id")

	var listing models.Listing
	if err := config.DB.First(&listing, id).Error; err != nil {
		utils.LogError("Listing not found: %s", id)
		utils.NotFound(c, "Listing not found")
		return
	}

	if err := config.DB.Model(&listing).Update("status", status).Error; err != nil {
		utils.LogError("Failed to set listing %d status to %s: %v", listing.ID, status, err)
		utils.InternalServerError(c, "Failed to update listing", err.Error())
		return
	}

	utils.LogInfo("Listing %d status changed to %s", listing.ID, status)
	utils.Success(c, successMsg, gin.H{"listing_id": listing.ID, "status": status})
}

// ApproveListing publishes a pending listing
func ApproveListing(c *gin.Context) {
	utils.LogInfo("ApproveListing called")
	setListingStatus(c, models.ListingStatusActive, "Listing approved")
}

// BlockListing hides a listing from the marketplace
func BlockListing(c *gin.Context) {
	utils.LogInfo("BlockListing called")
	setListingStatus(c, models.ListingStatusBlocked, "Listing blocked")
}

// UnblockListing restores a blocked listing to active
func UnblockListing(c *gin.Context) {
	utils.LogInfo("UnblockListing called")
	setListingStatus(c, models.ListingStatusActive, "Listing unblocked")
}
