package controllers

import (
	"strconv"
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListingRequest represents the create/update request for a listing
type ListingRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Brand       string  `json:"brand" binding:"required"`
	Model       string  `json:"model" binding:"required"`
	Year        int     `json:"year" binding:"required"`
	Mileage     int     `json:"mileage"`
	FuelType    string  `json:"fuel_type"`
	Price       float64 `json:"price" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Location    string  `json:"location" binding:"required"`
}

func formatListing(l *models.Listing) gin.H {
	images := make([]gin.H, len(l.Images))
	for i, img := range l.Images {
		images[i] = gin.H{"id": img.ID, "url": img.URL, "sort_order": img.SortOrder}
	}
	out := gin.H{
		"id":              l.ID,
		"user_id":         l.UserID,
		"title":           l.Title,
		"description":     l.Description,
		"brand":           l.Brand,
		"model":           l.VehicleModel,
		"year":            l.Year,
		"mileage":         l.Mileage,
		"fuel_type":       l.FuelType,
		"price":           l.Price,
		"effective_price": l.EffectivePrice(),
		"has_discount":    l.HasDiscount(),
		"category":        l.Category,
		"location":        l.Location,
		"status":          l.Status,
		"is_featured":     l.IsFeatured,
		"is_highlighted":  l.IsHighlighted,
		"views":           l.Views,
		"images":          images,
		"created_at":      l.CreatedAt.Format(time.RFC3339),
	}
	if l.HasDiscount() {
		out["discount"] = gin.H{
			"kind":             *l.DiscountKind,
			"value":            *l.DiscountValue,
			"discounted_price": *l.DiscountedPrice,
		}
	}
	return out
}

func validateListingRequest(req *ListingRequest) utils.FieldValidationErrors {
	var errs utils.FieldValidationErrors
	if ok, msg := utils.ValidateListingTitle(req.Title); !ok {
		errs = append(errs, utils.FieldValidationError{Field: "title", Message: msg})
	}
	if ok, msg := utils.ValidateListingPrice(req.Price); !ok {
		errs = append(errs, utils.FieldValidationError{Field: "price", Message: msg})
	}
	if ok, msg := utils.ValidateProductionYear(req.Year); !ok {
		errs = append(errs, utils.FieldValidationError{Field: "year", Message: msg})
	}
	if req.Mileage < 0 {
		errs = append(errs, utils.FieldValidationError{Field: "mileage", Message: "Mileage cannot be negative"})
	}
	return errs
}

// CreateListing creates a new listing for the logged-in user, pending moderation
func CreateListing(c *gin.Context) {
	utils.LogInfo("CreateListing called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request data: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if errors := validateListingRequest(&req); len(errors) > 0 {
		utils.LogError("Listing validation failed for user %d", user.ID)
		utils.ValidationError(c, "Validation failed", errors)
		return
	}

	var category models.Category
	if err := config.DB.Where("name = ?", req.Category).First(&category).Error; err != nil {
		utils.LogError("Unknown category %q: %v", req.Category, err)
		utils.BadRequest(c, "Unknown category", nil)
		return
	}

	listing := models.Listing{
		UserID:       user.ID,
		Title:        utils.SanitizeString(req.Title),
		Description:  utils.SanitizeString(req.Description),
		Brand:        req.Brand,
		VehicleModel: req.Model,
		Year:         req.Year,
		Mileage:      req.Mileage,
		FuelType:     req.FuelType,
		Price:        req.Price,
		Category:     req.Category,
		Location:     req.Location,
		Status:       models.ListingStatusPending,
	}

	if err := config.DB.Create(&listing).Error; err != nil {
		utils.LogError("Failed to create listing: %v", err)
		utils.InternalServerError(c, "Failed to create listing", err.Error())
		return
	}

	utils.LogInfo("User %d created listing %d (%s)", user.ID, listing.ID, listing.Title)
	utils.Created(c, "Listing created and awaiting moderation", gin.H{"listing": formatListing(&listing)})
}

// GetListing returns a single listing and bumps its view counter
func GetListing(c *gin.Context) {
	id := c.Param("id")

	var listing models.Listing
	if err := config.DB.Preload("Images").First(&listing, id).Error; err != nil {
		utils.LogError("Listing not found: %s", id)
		utils.NotFound(c, "Listing not found")
		return
	}

	if listing.Status != models.ListingStatusActive && listing.Status != models.ListingStatusSold {
		utils.NotFound(c, "Listing not found")
		return
	}

	config.DB.Model(&listing).UpdateColumn("views", gorm.Expr("views + 1"))
	listing.Views++

	utils.Success(c, "Listing retrieved successfully", gin.H{"listing": formatListing(&listing)})
}

// BrowseListings lists active listings with filters, search, sort and pagination
func BrowseListings(c *gin.Context) {
	utils.LogInfo("BrowseListings called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Listing{}).Where("status = ?", models.ListingStatusActive)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location = ?", location)
	}
	if brand := c.Query("brand"); brand != "" {
		query = query.Where("brand = ?", brand)
	}
	if fuel := c.Query("fuel_type"); fuel != "" {
		query = query.Where("fuel_type = ?", fuel)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("COALESCE(discounted_price, price) >= ?", v)
		}
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("COALESCE(discounted_price, price) <= ?", v)
		}
	}
	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where("title ILIKE ? OR brand ILIKE ? OR model ILIKE ?", term, term, term)
	}
	if yearFrom := c.Query("year_from"); yearFrom != "" {
		if v, err := strconv.Atoi(yearFrom); err == nil {
			query = query.Where("year >= ?", v)
		}
	}
	if yearTo := c.Query("year_to"); yearTo != "" {
		if v, err := strconv.Atoi(yearTo); err == nil {
			query = query.Where("year <= ?", v)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count listings: %v", err)
		utils.InternalServerError(c, "Failed to fetch listings", err.Error())
		return
	}
	pagination.SetTotal(total)

	// Featured listings always float to the top of results
	order := "is_featured DESC, created_at DESC"
	switch c.Query("sort") {
	case "price_asc":
		order = "is_featured DESC, COALESCE(discounted_price, price) ASC"
	case "price_desc":
		order = "is_featured DESC, COALESCE(discounted_price, price) DESC"
	case "year_desc":
		order = "is_featured DESC, year DESC"
	case "mileage_asc":
		order = "is_featured DESC, mileage ASC"
	}

	var listings []models.Listing
	if err := query.Preload("Images").
		Order(order).
		Limit(pagination.Limit).
		Offset(pagination.Offset).
		Find(&listings).Error; err != nil {
		utils.LogError("Failed to fetch listings: %v", err)
		utils.InternalServerError(c, "Failed to fetch listings", err.Error())
		return
	}

	formatted := make([]gin.H, len(listings))
	for i := range listings {
		formatted[i] = formatListing(&listings[i])
	}

	utils.LogInfo("Successfully retrieved %d listings (total %d)", len(formatted), total)
	utils.SuccessWithPagination(c, "Listings retrieved successfully", gin.H{"listings": formatted}, total, pagination.Page, pagination.Limit)
}

// GetMyListings returns the logged-in user's listings regardless of status
func GetMyListings(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	var listings []models.Listing
	if err := config.DB.Preload("Images").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		utils.LogError("Failed to fetch listings for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch listings", err.Error())
		return
	}

	formatted := make([]gin.H, len(listings))
	for i := range listings {
		formatted[i] = formatListing(&listings[i])
	}

	utils.Success(c, "Listings retrieved successfully", gin.H{"listings": formatted})
}

// UpdateListing updates the owner's listing; price changes reset any discount
func UpdateListing(c *gin.Context) {
	utils.LogInfo("UpdateListing called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	id := c.Param("id")
	var listing models.Listing
	if err := config.DB.First(&listing, id).Error; err != nil {
		utils.NotFound(c, "Listing not found")
		return
	}
	if listing.UserID != user.ID {
		utils.LogError("User %d attempted to update listing %d owned by %d", user.ID, listing.ID, listing.UserID)
		utils.Forbidden(c, "You can only edit your own listings")
		return
	}

	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request data: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if errors := validateListingRequest(&req); len(errors) > 0 {
		utils.ValidationError(c, "Validation failed", errors)
		return
	}

	updates := map[string]interface{}{
		"title":       utils.SanitizeString(req.Title),
		"description": utils.SanitizeString(req.Description),
		"brand":       req.Brand,
		"model":       req.Model,
		"year":        req.Year,
		"mileage":     req.Mileage,
		"fuel_type":   req.FuelType,
		"category":    req.Category,
		"location":    req.Location,
	}

	// A changed base price invalidates the stored discount rather than
	// keeping a discounted price computed from the old one.
	if req.Price != listing.Price {
		updates["price"] = req.Price
		updates["discount_kind"] = nil
		updates["discount_value"] = nil
		updates["discounted_price"] = nil
	}

	if err := config.DB.Model(&listing).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update listing %d: %v", listing.ID, err)
		utils.InternalServerError(c, "Failed to update listing", err.Error())
		return
	}

	if err := config.DB.Preload("Images").First(&listing, listing.ID).Error; err != nil {
		utils.LogError("Failed to reload listing %d: %v", listing.ID, err)
	}

	utils.LogInfo("User %d updated listing %d", user.ID, listing.ID)
	utils.Success(c, "Listing updated successfully", gin.H{"listing": formatListing(&listing)})
}

// MarkListingSold marks the owner's listing as sold
func MarkListingSold(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	id := c.Param("id")
	var listing models.Listing
	if err := config.DB.First(&listing, id).Error; err != nil {
		utils.NotFound(c, "Listing not found")
		return
	}
	if listing.UserID != user.ID {
		utils.Forbidden(c, "You can only update your own listings")
		return
	}
	if listing.Status != models.ListingStatusActive {
		utils.BadRequest(c, "Only active listings can be marked as sold", nil)
		return
	}

	if err := config.DB.Model(&listing).Update("status", models.ListingStatusSold).Error; err != nil {
		utils.LogError("Failed to mark listing %d sold: %v", listing.ID, err)
		utils.InternalServerError(c, "Failed to update listing", err.Error())
		return
	}

	utils.LogInfo("User %d marked listing %d as sold", user.ID, listing.ID)
	utils.Success(c, "Listing marked as sold", nil)
}

// DeleteListing removes the owner's listing
func DeleteListing(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	id := c.Param("id")
	var listing models.Listing
	if err := config.DB.First(&listing, id).Error; err != nil {
		utils.NotFound(c, "Listing not found")
		return
	}
	if listing.UserID != user.ID {
		utils.Forbidden(c, "You can only delete your own listings")
		return
	}

	if err := config.DB.Delete(&listing).Error; err != nil {
		utils.LogError("Failed to delete listing %d: %v", listing.ID, err)
		utils.InternalServerError(c, "Failed to delete listing", err.Error())
		return
	}

	utils.LogInfo("User %d deleted listing %d", user.ID, listing.ID)
	utils.Success(c, "Listing deleted successfully", nil)
}

// UploadListingImage attaches an image to the owner's listing
func UploadListingImage(c *gin.Context) {
	utils.LogInfo("UploadListingImage called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	id := c.Param("id")
	var listing models.Listing
	if err := config.DB.First(&listing, id).Error; err != nil {
		utils.NotFound(c, "Listing not found")
		return
	}
	if listing.UserID != user.ID {
		utils.Forbidden(c, "You can only add images to your own listings")
		return
	}

	var count int64
	config.DB.Model(&models.ListingImage{}).Where("listing_id = ?", listing.ID).Count(&count)
	if count >= utils.MaxListingImages {
		utils.BadRequest(c, "Image limit reached for this listing", nil)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "No image file provided", nil)
		return
	}
	if err := utils.ValidateImageFile(file); err != nil {
		utils.LogError("Image validation failed: %v", err)
		utils.BadRequest(c, "Invalid image", err.Error())
		return
	}

	url, err := utils.SaveUploadedFile(file, "listings")
	if err != nil {
		utils.LogError("Failed to save image: %v", err)
		utils.InternalServerError(c, "Failed to save image", err.Error())
		return
	}

	image := models.ListingImage{
		ListingID: listing.ID,
		URL:       url,
		SortOrder: int(count),
	}
	if err := config.DB.Create(&image).Error; err != nil {
		utils.LogError("Failed to save image record: %v", err)
		utils.InternalServerError(c, "Failed to save image", err.Error())
		return
	}

	utils.LogInfo("User %d uploaded image %d for listing %d", user.ID, image.ID, listing.ID)
	utils.Created(c, "Image uploaded successfully", gin.H{
		"image": gin.H{"id": image.ID, "url": image.URL, "sort_order": image.SortOrder},
	})
}
