package controllers

import (
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
)

// PromotionRequest represents the create/update request for a promotion
type PromotionRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Description    string                 `json:"description"`
	TargetType     string                 `json:"target_type" binding:"required"`
	TargetCriteria *models.TargetCriteria `json:"target_criteria"`
	Type           string                 `json:"type" binding:"required"`
	Value          float64                `json:"value"`
	StartDate      string                 `json:"start_date" binding:"required"` // ISO8601
	EndDate        string                 `json:"end_date" binding:"required"`
}

func formatPromotion(p *models.Promotion) gin.H {
	return gin.H{
		"id":              p.ID,
		"name":            p.Name,
		"description":     p.Description,
		"target_type":     p.TargetType,
		"target_criteria": p.TargetCriteria,
		"type":            p.Type,
		"value":           p.Value,
		"start_date":      p.StartDate.Format("2006-01-02"),
		"end_date":        p.EndDate.Format("2006-01-02"),
		"active":          p.Active,
		"is_expired":      time.Now().After(p.EndDate),
	}
}

// CreatePromotion creates a new promotion campaign
func CreatePromotion(c *gin.Context) {
	utils.LogInfo("CreatePromotion called")

	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request data: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	utils.LogDebug("Received promotion %q targeting %s with type %s", req.Name, req.TargetType, req.Type)

	start, err1 := time.Parse(time.RFC3339, req.StartDate)
	end, err2 := time.Parse(time.RFC3339, req.EndDate)
	if err1 != nil || err2 != nil {
		utils.LogError("Invalid date format: start=%v, end=%v", err1, err2)
		utils.BadRequest(c, "Invalid date format. Use RFC3339.", nil)
		return
	}

	if end.Before(time.Now()) {
		utils.LogError("End date is in the past: %s", end.Format(time.RFC3339))
		utils.BadRequest(c, "End date cannot be in the past", nil)
		return
	}

	promo := models.Promotion{
		Name:        req.Name,
		Description: req.Description,
		TargetType:  req.TargetType,
		Type:        req.Type,
		Value:       req.Value,
		StartDate:   start,
		EndDate:     end,
		Active:      true,
	}
	if req.TargetCriteria != nil {
		promo.TargetCriteria = *req.TargetCriteria
	}
	if adminVal, exists := c.Get("admin"); exists {
		if admin, ok := adminVal.(models.Admin); ok {
			promo.CreatedBy = admin.ID
		}
	}

	if err := utils.ValidatePromotion(&promo); err != nil {
		utils.LogError("Promotion validation failed: %v", err)
		utils.BadRequest(c, "Invalid promotion", err.Error())
		return
	}

	if err := config.DB.Create(&promo).Error; err != nil {
		utils.LogError("Failed to create promotion: %v", err)
		utils.InternalServerError(c, "Failed to create promotion", err.Error())
		return
	}

	utils.LogInfo("Successfully created promotion %d (%s)", promo.ID, promo.Name)
	utils.Created(c, "Promotion created successfully", gin.H{"promotion": formatPromotion(&promo)})
}

// ListPromotions lists all promotion campaigns
func ListPromotions(c *gin.Context) {
	utils.LogInfo("ListPromotions called")

	var promotions []models.Promotion
	if err := config.DB.Order("created_at DESC").Find(&promotions).Error; err != nil {
		utils.LogError("Failed to fetch promotions: %v", err)
		utils.InternalServerError(c, "Failed to fetch promotions", err.Error())
		return
	}

	formatted := make([]gin.H, len(promotions))
	for i := range promotions {
		formatted[i] = formatPromotion(&promotions[i])
	}

	utils.LogInfo("Successfully retrieved %d promotions", len(formatted))
	utils.Success(c, "Promotions retrieved successfully", gin.H{"promotions": formatted})
}

// UpdatePromotion updates an existing promotion
func UpdatePromotion(c *gin.Context) {
	utils.LogInfo("UpdatePromotion called")

	var req struct {
		Name           string                 `json:"name"`
		Description    string                 `json:"description"`
		TargetCriteria *models.TargetCriteria `json:"target_criteria"`
		Value          *float64               `json:"value"`
		StartDate      string                 `json:"start_date"`
		EndDate        string                 `json:"end_date"`
		Active         *bool                  `json:"active"`
	}
	id := c.Param("id")

	var promo models.Promotion
	if err := config.DB.First(&promo, id).Error; err != nil {
		utils.LogError("Promotion not found: %v", err)
		utils.NotFound(c, "Promotion not found")
		return
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request data: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if req.Name != "" {
		promo.Name = req.Name
	}
	if req.Description != "" {
		promo.Description = req.Description
	}
	if req.TargetCriteria != nil {
		promo.TargetCriteria = *req.TargetCriteria
	}
	if req.Value != nil {
		promo.Value = *req.Value
	}
	if req.StartDate != "" {
		if t, err := time.Parse(time.RFC3339, req.StartDate); err == nil {
			promo.StartDate = t
		} else {
			utils.LogError("Invalid start date format: %v", err)
			utils.BadRequest(c, "Invalid start date format. Use RFC3339.", nil)
			return
		}
	}
	if req.EndDate != "" {
		if t, err := time.Parse(time.RFC3339, req.EndDate); err == nil {
			if t.Before(time.Now()) {
				utils.LogError("End date is in the past: %s", t.Format(time.RFC3339))
				utils.BadRequest(c, "End date cannot be in the past", nil)
				return
			}
			promo.EndDate = t
		} else {
			utils.LogError("Invalid end date format: %v", err)
			utils.BadRequest(c, "Invalid end date format. Use RFC3339.", nil)
			return
		}
	}
	if req.Active != nil {
		promo.Active = *req.Active
	}

	if err := utils.ValidatePromotion(&promo); err != nil {
		utils.LogError("Promotion validation failed: %v", err)
		utils.BadRequest(c, "Invalid promotion", err.Error())
		return
	}

	if err := config.DB.Save(&promo).Error; err != nil {
		utils.LogError("Failed to update promotion: %v", err)
		utils.InternalServerError(c, "Failed to update promotion", err.Error())
		return
	}

	utils.LogInfo("Successfully updated promotion %d", promo.ID)
	utils.Success(c, "Promotion updated successfully", gin.H{"promotion": formatPromotion(&promo)})
}

// DeletePromotion removes a promotion, reverting its discounts first
func DeletePromotion(c *gin.Context) {
	utils.LogInfo("DeletePromotion called")

	id := c.Param("id")
	var promo models.Promotion
	if err := config.DB.First(&promo, id).Error; err != nil {
		utils.LogError("Promotion not found: %s", id)
		utils.NotFound(c, "Promotion not found")
		return
	}

	if utils.IsPriceAffectingType(promo.Type) {
		result, err := utils.RevokePromotion(&promo)
		if err != nil {
			utils.LogError("Failed to revoke promotion %d before delete: %v", promo.ID, err)
			utils.InternalServerError(c, "Failed to revert promotion discounts", err.Error())
			return
		}
		utils.LogInfo("Reverted discounts for promotion %d: %d updated, %d failed", promo.ID, result.Updated, result.Failed)
	}

	if err := config.DB.Delete(&promo).Error; err != nil {
		utils.LogError("Failed to delete promotion: %v", err)
		utils.InternalServerError(c, "Failed to delete promotion", err.Error())
		return
	}

	utils.LogInfo("Successfully deleted promotion %s", id)
	utils.Success(c, "Promotion deleted successfully", nil)
}

// PreviewPromotionTargets resolves a promotion's targets without applying it
func PreviewPromotionTargets(c *gin.Context) {
	utils.LogInfo("PreviewPromotionTargets called")

	id := c.Param("id")
	var promo models.Promotion
	if err := config.DB.First(&promo, id).Error; err != nil {
		utils.LogError("Promotion not found: %s", id)
		utils.NotFound(c, "Promotion not found")
		return
	}

	listings, err := utils.FindTargetListings(&promo)
	if err != nil {
		utils.LogError("Failed to resolve targets for promotion %d: %v", promo.ID, err)
		utils.InternalServerError(c, "Failed to resolve promotion targets", err.Error())
		return
	}

	ids := make([]uint, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}

	utils.LogInfo("Promotion %d targets %d listings", promo.ID, len(listings))
	utils.Success(c, "Promotion targets resolved", gin.H{
		"count":       len(listings),
		"listing_ids": ids,
	})
}

// ApplyPromotionHandler applies a promotion's discount to its target listings
func ApplyPromotionHandler(c *gin.Context) {
	utils.LogInfo("ApplyPromotionHandler called")

	id := c.Param("id")
	var promo models.Promotion
	if err := config.DB.First(&promo, id).Error; err != nil {
		utils.LogError("Promotion not found: %s", id)
		utils.NotFound(c, "Promotion not found")
		return
	}

	if !utils.IsPromotionActive(&promo, time.Now()) {
		utils.LogError("Attempt to apply inactive promotion %d", promo.ID)
		utils.BadRequest(c, "Promotion is not active", nil)
		return
	}

	result, err := utils.ApplyPromotion(&promo)
	if err != nil {
		utils.LogError("Failed to apply promotion %d: %v", promo.ID, err)
		utils.InternalServerError(c, "Failed to apply promotion", err.Error())
		return
	}

	utils.LogInfo("Applied promotion %d: %d updated, %d skipped, %d failed",
		promo.ID, result.Updated, result.Skipped, result.Failed)
	utils.Success(c, "Promotion applied", gin.H{"result": result})
}

// RevokePromotionHandler clears a promotion's discounts from its target listings
func RevokePromotionHandler(c *gin.Context) {
	utils.LogInfo("RevokePromotionHandler called")

	id := c.Param("id")
	var promo models.Promotion
	if err := config.DB.First(&promo, id).Error; err != nil {
		utils.LogError("Promotion not found: %s", id)
		utils.NotFound(c, "Promotion not found")
		return
	}

	result, err := utils.RevokePromotion(&promo)
	if err != nil {
		utils.LogError("Failed to revoke promotion %d: %v", promo.ID, err)
		utils.InternalServerError(c, "Failed to revoke promotion", err.Error())
		return
	}

	if err := config.DB.Model(&promo).Update("active", false).Error; err != nil {
		utils.LogError("Failed to deactivate promotion %d: %v", promo.ID, err)
	}

	utils.LogInfo("Revoked promotion %d: %d reverted, %d failed", promo.ID, result.Updated, result.Failed)
	utils.Success(c, "Promotion revoked", gin.H{"result": result})
}
