package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPromotionRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Promotion{},
	))
	config.DB = db

	router := gin.New()
	admin := router.Group("/admin")
	admin.POST("/promotions", CreatePromotion)
	admin.GET("/promotions", ListPromotions)
	admin.PUT("/promotions/:id", UpdatePromotion)
	admin.GET("/promotions/:id/targets", PreviewPromotionTargets)
	admin.POST("/promotions/:id/apply", ApplyPromotionHandler)
	admin.POST("/promotions/:id/revoke", RevokePromotionHandler)
	return router
}

func seedPromotionListing(t *testing.T, category string, price float64) models.Listing {
	t.Helper()
	user := models.User{Username: "seller" + category, Email: "seller" + category + "@example.com", Password: "x"}
	require.NoError(t, config.DB.Create(&user).Error)
	listing := models.Listing{
		UserID:   user.ID,
		Title:    "Test vehicle",
		Price:    price,
		Category: category,
		Location: "Warszawa",
		Status:   models.ListingStatusActive,
	}
	require.NoError(t, config.DB.Create(&listing).Error)
	return listing
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePromotionEndpoint(t *testing.T) {
	router := setupPromotionRouter(t)

	now := time.Now()
	w := postJSON(router, "/admin/promotions", gin.H{
		"name":        "SUV autumn sale",
		"target_type": models.PromotionTargetCategory,
		"type":        models.PromotionTypePercentage,
		"value":       10,
		"target_criteria": gin.H{
			"categories": []string{"SUV"},
		},
		"start_date": now.Format(time.RFC3339),
		"end_date":   now.Add(72 * time.Hour).Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var promo models.Promotion
	require.NoError(t, config.DB.First(&promo).Error)
	assert.Equal(t, "SUV autumn sale", promo.Name)
	assert.Equal(t, []string{"SUV"}, promo.TargetCriteria.Categories)
	assert.True(t, promo.Active)
}

func TestCreatePromotionRejectsBadValue(t *testing.T) {
	router := setupPromotionRouter(t)

	now := time.Now()
	w := postJSON(router, "/admin/promotions", gin.H{
		"name":        "Broken",
		"target_type": models.PromotionTargetAllUsers,
		"type":        models.PromotionTypePercentage,
		"value":       150,
		"start_date":  now.Format(time.RFC3339),
		"end_date":    now.Add(time.Hour).Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePromotionRejectsPastEndDate(t *testing.T) {
	router := setupPromotionRouter(t)

	now := time.Now()
	w := postJSON(router, "/admin/promotions", gin.H{
		"name":        "Too late",
		"target_type": models.PromotionTargetAllUsers,
		"type":        models.PromotionTypePercentage,
		"value":       10,
		"start_date":  now.Add(-48 * time.Hour).Format(time.RFC3339),
		"end_date":    now.Add(-24 * time.Hour).Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyAndRevokePromotionEndpoints(t *testing.T) {
	router := setupPromotionRouter(t)
	listing := seedPromotionListing(t, "SUV", 25000)

	now := time.Now()
	promo := models.Promotion{
		Name:       "SUV sale",
		TargetType: models.PromotionTargetCategory,
		Type:       models.PromotionTypePercentage,
		Value:      10,
		TargetCriteria: models.TargetCriteria{
			Categories: []string{"SUV"},
		},
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		Active:    true,
	}
	require.NoError(t, config.DB.Create(&promo).Error)

	w := postJSON(router, "/admin/promotions/1/apply", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var applied models.Listing
	require.NoError(t, config.DB.First(&applied, listing.ID).Error)
	require.True(t, applied.HasDiscount())
	assert.Equal(t, 22500.0, *applied.DiscountedPrice)
	assert.Equal(t, 25000.0, applied.Price)

	w = postJSON(router, "/admin/promotions/1/revoke", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var reverted models.Listing
	require.NoError(t, config.DB.First(&reverted, listing.ID).Error)
	assert.False(t, reverted.HasDiscount())

	var reloaded models.Promotion
	require.NoError(t, config.DB.First(&reloaded, promo.ID).Error)
	assert.False(t, reloaded.Active)
}

func TestApplyPromotionEndpointRejectsExpired(t *testing.T) {
	router := setupPromotionRouter(t)
	seedPromotionListing(t, "SUV", 25000)

	now := time.Now()
	promo := models.Promotion{
		Name:       "Old sale",
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypePercentage,
		Value:      10,
		StartDate:  now.Add(-48 * time.Hour),
		EndDate:    now.Add(-24 * time.Hour),
		Active:     true,
	}
	require.NoError(t, config.DB.Create(&promo).Error)

	w := postJSON(router, "/admin/promotions/1/apply", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewPromotionTargetsEndpoint(t *testing.T) {
	router := setupPromotionRouter(t)
	suv := seedPromotionListing(t, "SUV", 25000)
	seedPromotionListing(t, "Sedan", 40000)

	now := time.Now()
	promo := models.Promotion{
		Name:       "SUV preview",
		TargetType: models.PromotionTargetCategory,
		Type:       models.PromotionTypePercentage,
		Value:      10,
		TargetCriteria: models.TargetCriteria{
			Categories: []string{"SUV"},
		},
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		Active:    true,
	}
	require.NoError(t, config.DB.Create(&promo).Error)

	req := httptest.NewRequest(http.MethodGet, "/admin/promotions/1/targets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Count      int    `json:"count"`
			ListingIDs []uint `json:"listing_ids"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Count)
	assert.Equal(t, []uint{suv.ID}, resp.Data.ListingIDs)

	// Resolution is read-only until apply is called.
	var untouched models.Listing
	require.NoError(t, config.DB.First(&untouched, suv.ID).Error)
	assert.False(t, untouched.HasDiscount())
}

func putJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUpdatePromotionValueToZero(t *testing.T) {
	router := setupPromotionRouter(t)

	now := time.Now()
	promo := models.Promotion{
		Name:       "First listing free",
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypeFreeListing,
		Value:      50,
		StartDate:  now.Add(-time.Hour),
		EndDate:    now.Add(24 * time.Hour),
		Active:     true,
	}
	require.NoError(t, config.DB.Create(&promo).Error)

	w := putJSON(router, "/admin/promotions/1", gin.H{"value": 0})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Promotion
	require.NoError(t, config.DB.First(&updated, promo.ID).Error)
	assert.Equal(t, float64(0), updated.Value)

	// Omitting the field leaves the stored value untouched.
	w = putJSON(router, "/admin/promotions/1", gin.H{"name": "Launch promo"})
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, config.DB.First(&updated, promo.ID).Error)
	assert.Equal(t, "Launch promo", updated.Name)
	assert.Equal(t, float64(0), updated.Value)
}
