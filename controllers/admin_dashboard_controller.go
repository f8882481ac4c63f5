package controllers

import (
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns headline counts for the admin panel
func GetDashboardStats(c *gin.Context) {
	utils.LogInfo("GetDashboardStats called")

	var (
		totalUsers       int64
		blockedUsers     int64
		totalListings    int64
		activeListings   int64
		pendingListings  int64
		discounted       int64
		activePromotions int64
		totalMessages    int64
	)

	config.DB.Model(&models.User{}).Count(&totalUsers)
	config.DB.Model(&models.User{}).Where("is_blocked = ?", true).Count(&blockedUsers)
	config.DB.Model(&models.Listing{}).Count(&totalListings)
	config.DB.Model(&models.Listing{}).Where("status = ?", models.ListingStatusActive).Count(&activeListings)
	config.DB.Model(&models.Listing{}).Where("status = ?", models.ListingStatusPending).Count(&pendingListings)
	config.DB.Model(&models.Listing{}).Where("discount_kind IS NOT NULL").Count(&discounted)
	now := time.Now()
	config.DB.Model(&models.Promotion{}).
		Where("active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Count(&activePromotions)
	config.DB.Model(&models.Message{}).Count(&totalMessages)

	var revenue struct {
		Total float64
		Count int64
	}
	config.DB.Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusCompleted).
		Select("COALESCE(SUM(amount), 0) as total, COUNT(*) as count").
		Scan(&revenue)

	utils.Success(c, "Dashboard stats retrieved", gin.H{
		"users": gin.H{
			"total":   totalUsers,
			"blocked": blockedUsers,
		},
		"listings": gin.H{
			"total":      totalListings,
			"active":     activeListings,
			"pending":    pendingListings,
			"discounted": discounted,
		},
		"promotions": gin.H{
			"active": activePromotions,
		},
		"messages": gin.H{
			"total": totalMessages,
		},
		"revenue": gin.H{
			"total":        revenue.Total,
			"transactions": revenue.Count,
		},
	})
}
