package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"
)

type packageDetails struct {
	Amount      float64
	Days        int
	Featured    bool
	Highlighted bool
}

var promotionPackages = map[string]packageDetails{
	models.PackageFeatured7:    {Amount: 499, Days: 7, Featured: true},
	models.PackageFeatured30:   {Amount: 1499, Days: 30, Featured: true},
	models.PackageHighlighted7: {Amount: 199, Days: 7, Highlighted: true},
}

// ListPromotionPackages returns the purchasable listing-promotion packages
func ListPromotionPackages(c *gin.Context) {
	packages := make([]gin.H, 0, len(promotionPackages))
	for name, details := range promotionPackages {
		packages = append(packages, gin.H{
			"package":     name,
			"amount":      details.Amount,
			"days":        details.Days,
			"featured":    details.Featured,
			"highlighted": details.Highlighted,
		})
	}
	utils.Success(c, "Packages retrieved successfully", gin.H{"packages": packages})
}

// InitiatePackagePurchase creates a Razorpay order for a promotion package
func InitiatePackagePurchase(c *gin.Context) {
	utils.LogInfo("InitiatePackagePurchase called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	var req struct {
		ListingID uint   `json:"listing_id" binding:"required"`
		Package   string `json:"package" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	details, ok := promotionPackages[req.Package]
	if !ok {
		utils.LogError("Unknown package: %s", req.Package)
		utils.BadRequest(c, "Unknown promotion package", nil)
		return
	}

	var listing models.Listing
	if err := config.DB.First(&listing, req.ListingID).Error; err != nil {
		utils.NotFound(c, "Listing not found")
		return
	}
	if listing.UserID != user.ID {
		utils.Forbidden(c, "You can only promote your own listings")
		return
	}
	if listing.Status != models.ListingStatusActive {
		utils.BadRequest(c, "Only active listings can be promoted", nil)
		return
	}

	client := razorpay.NewClient(config.AppConfig.RazorpayKeyID, config.AppConfig.RazorpayKeySecret)
	orderData := map[string]interface{}{
		"amount":   int(details.Amount * 100),
		"currency": "INR",
		"notes": map[string]interface{}{
			"listing_id": listing.ID,
			"package":    req.Package,
		},
	}
	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create Razorpay order: %v", err)
		utils.InternalServerError(c, "Failed to initiate payment", err.Error())
		return
	}
	orderID, _ := order["id"].(string)

	var txn models.Transaction
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		number, err := utils.GenerateInvoiceNumber(tx, time.Now())
		if err != nil {
			return err
		}
		txn = models.Transaction{
			UserID:          user.ID,
			ListingID:       listing.ID,
			Package:         req.Package,
			Amount:          details.Amount,
			Currency:        "INR",
			RazorpayOrderID: orderID,
			Status:          models.TransactionStatusPending,
			InvoiceNumber:   &number,
		}
		return tx.Create(&txn).Error
	})
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		// Concurrent purchase took the same invoice number; retry once.
		err = config.DB.Transaction(func(tx *gorm.DB) error {
			number, err := utils.GenerateInvoiceNumber(tx, time.Now())
			if err != nil {
				return err
			}
			txn.ID = 0
			txn.InvoiceNumber = &number
			return tx.Create(&txn).Error
		})
	}
	if err != nil {
		utils.LogError("Failed to record transaction: %v", err)
		utils.InternalServerError(c, "Failed to record transaction", err.Error())
		return
	}

	utils.LogInfo("User %d initiated purchase of %s for listing %d, order %s", user.ID, req.Package, listing.ID, orderID)
	utils.Created(c, "Payment initiated", gin.H{
		"transaction_id":    txn.ID,
		"invoice_number":    txn.InvoiceNumber,
		"razorpay_order_id": orderID,
		"razorpay_key_id":   config.AppConfig.RazorpayKeyID,
		"amount":            details.Amount,
		"currency":          "INR",
	})
}

func verifyRazorpaySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyPackagePayment verifies the Razorpay payment and activates the package
func VerifyPackagePayment(c *gin.Context) {
	utils.LogInfo("VerifyPackagePayment called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var txn models.Transaction
	if err := config.DB.Where("razorpay_order_id = ? AND user_id = ?", req.RazorpayOrderID, user.ID).First(&txn).Error; err != nil {
		utils.LogError("Transaction not found for order %s: %v", req.RazorpayOrderID, err)
		utils.NotFound(c, "Transaction not found")
		return
	}
	if txn.Status == models.TransactionStatusCompleted {
		utils.Success(c, "Payment already verified", gin.H{"transaction_id": txn.ID})
		return
	}

	if !verifyRazorpaySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, config.AppConfig.RazorpayKeySecret) {
		utils.LogError("Invalid payment signature for order %s", req.RazorpayOrderID)
		config.DB.Model(&txn).Update("status", models.TransactionStatusFailed)
		utils.BadRequest(c, "Payment signature verification failed", nil)
		return
	}

	details := promotionPackages[txn.Package]
	now := time.Now()
	until := now.AddDate(0, 0, details.Days)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&txn).Updates(map[string]interface{}{
			"razorpay_payment_id": req.RazorpayPaymentID,
			"status":              models.TransactionStatusCompleted,
			"paid_at":             now,
		}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"featured_until": until}
		if details.Featured {
			updates["is_featured"] = true
		}
		if details.Highlighted {
			updates["is_highlighted"] = true
		}
		return tx.Model(&models.Listing{}).Where("id = ?", txn.ListingID).Updates(updates).Error
	})
	if err != nil {
		utils.LogError("Failed to finalize transaction %d: %v", txn.ID, err)
		utils.InternalServerError(c, "Failed to finalize payment", err.Error())
		return
	}

	utils.LogInfo("Transaction %d completed, listing %d promoted until %s", txn.ID, txn.ListingID, until.Format("2006-01-02"))
	utils.Success(c, "Payment verified", gin.H{
		"transaction_id": txn.ID,
		"invoice_number": txn.InvoiceNumber,
		"active_until":   until,
	})
}

// GetMyTransactions lists the user's package purchases
func GetMyTransactions(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	var transactions []models.Transaction
	if err := config.DB.Preload("Listing").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to fetch transactions for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch transactions", err.Error())
		return
	}

	utils.Success(c, "Transactions retrieved successfully", gin.H{"transactions": transactions})
}
