package controllers

import (
	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
)

// ListCategories returns all non-blocked categories
func ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Where("blocked = ?", false).Order("name ASC").Find(&categories).Error; err != nil {
		utils.LogError("Failed to fetch categories: %v", err)
		utils.InternalServerError(c, "Failed to fetch categories", err.Error())
		return
	}

	utils.Success(c, "Categories retrieved successfully", gin.H{"categories": categories})
}

// CreateCategory adds a new vehicle category
func CreateCategory(c *gin.Context) {
	utils.LogInfo("CreateCategory called")

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request data: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var existing models.Category
	if err := config.DB.Where("LOWER(name) = LOWER(?)", req.Name).First(&existing).Error; err == nil {
		utils.LogError("Category already exists: %s", req.Name)
		utils.Conflict(c, "Category already exists", nil)
		return
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := config.DB.Create(&category).Error; err != nil {
		utils.LogError("Failed to create category: %v", err)
		utils.InternalServerError(c, "Failed to create category", err.Error())
		return
	}

	utils.LogInfo("Created category %d (%s)", category.ID, category.Name)
	utils.Created(c, "Category created successfully", gin.H{"category": category})
}

// UpdateCategory edits a category's name or description
func UpdateCategory(c *gin.Context) {
	utils.LogInfo("UpdateCategory called")

	id := c.Param("id")
	var category models.Category
	if err := config.DB.First(&category, id).Error; err != nil {
		utils.NotFound(c, "Category not found")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Blocked     *bool  `json:"blocked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if req.Name != "" && req.Name != category.Name {
		var existing models.Category
		if err := config.DB.Where("LOWER(name) = LOWER(?) AND id != ?", req.Name, category.ID).First(&existing).Error; err == nil {
			utils.Conflict(c, "Category name already in use", nil)
			return
		}
		// Keep listings pointing at the renamed category.
		if err := config.DB.Model(&models.Listing{}).
			Where("category = ?", category.Name).
			Update("category", req.Name).Error; err != nil {
			utils.LogError("Failed to rename category on listings: %v", err)
			utils.InternalServerError(c, "Failed to update category", err.Error())
			return
		}
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}
	if req.Blocked != nil {
		category.Blocked = *req.Blocked
	}

	if err := config.DB.Save(&category).Error; err != nil {
		utils.LogError("Failed to update category: %v", err)
		utils.InternalServerError(c, "Failed to update category", err.Error())
		return
	}

	utils.LogInfo("Updated category %d", category.ID)
	utils.Success(c, "Category updated successfully", gin.H{"category": category})
}

// DeleteCategory removes a category that has no listings
func DeleteCategory(c *gin.Context) {
	utils.LogInfo("DeleteCategory called")

	id := c.Param("id")
	var category models.Category
	if err := config.DB.First(&category, id).Error; err != nil {
		utils.NotFound(c, "Category not found")
		return
	}

	var count int64
	if err := config.DB.Model(&models.Listing{}).Where("category = ?", category.Name).Count(&count).Error; err != nil {
		utils.LogError("Failed to count category listings: %v", err)
		utils.InternalServerError(c, "Failed to delete category", err.Error())
		return
	}
	if count > 0 {
		utils.BadRequest(c, "Cannot delete a category that still has listings", nil)
		return
	}

	if err := config.DB.Delete(&category).Error; err != nil {
		utils.LogError("Failed to delete category: %v", err)
		utils.InternalServerError(c, "Failed to delete category", err.Error())
		return
	}

	utils.LogInfo("Deleted category %d (%s)", category.ID, category.Name)
	utils.Success(c, "Category deleted successfully", nil)
}

// CreateDefaultCategories seeds the vehicle categories on first boot
func CreateDefaultCategories() {
	defaults := []models.Category{
		{Name: "SUV", Description: "Sport utility vehicles"},
		{Name: "Sedan", Description: "Classic passenger cars"},
		{Name: "Hatchback", Description: "Compact city cars"},
		{Name: "Kombi", Description: "Estate cars"},
		{Name: "Coupe", Description: "Two-door sports cars"},
		{Name: "Van", Description: "Vans and minibuses"},
		{Name: "Motorcycle", Description: "Motorcycles and scooters"},
		{Name: "Truck", Description: "Trucks and commercial vehicles"},
	}

	for _, category := range defaults {
		var existing models.Category
		if err := config.DB.Where("name = ?", category.Name).First(&existing).Error; err != nil {
			if err := config.DB.Create(&category).Error; err != nil {
				utils.LogError("Failed to seed category %s: %v", category.Name, err)
				continue
			}
			utils.LogInfo("Seeded category %s", category.Name)
		}
	}
}
