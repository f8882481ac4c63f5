package controllers

import (
	"fmt"
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// GetTransactions lists all package purchases for the admin panel
func GetTransactions(c *gin.Context) {
	utils.LogInfo("GetTransactions called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Transaction{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count transactions: %v", err)
		utils.InternalServerError(c, "Failed to fetch transactions", err.Error())
		return
	}

	var transactions []models.Transaction
	if err := query.Preload("User").Preload("Listing").
		Order("created_at DESC").
		Limit(pagination.Limit).
		Offset(pagination.Offset).
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to fetch transactions: %v", err)
		utils.InternalServerError(c, "Failed to fetch transactions", err.Error())
		return
	}

	formatted := make([]gin.H, len(transactions))
	for i, t := range transactions {
		formatted[i] = gin.H{
			"id":             t.ID,
			"invoice_number": t.InvoiceNumber,
			"user_email":     t.User.Email,
			"listing_id":     t.ListingID,
			"listing_title":  t.Listing.Title,
			"package":        t.Package,
			"amount":         t.Amount,
			"currency":       t.Currency,
			"status":         t.Status,
			"paid_at":        t.PaidAt,
			"created_at":     t.CreatedAt,
		}
	}

	utils.LogInfo("Retrieved %d transactions (total %d)", len(formatted), total)
	utils.SuccessWithPagination(c, "Transactions retrieved successfully", gin.H{"transactions": formatted}, total, pagination.Page, pagination.Limit)
}

// ExportTransactionsExcel exports completed transactions as an Excel report
func ExportTransactionsExcel(c *gin.Context) {
	utils.LogInfo("ExportTransactionsExcel called")

	query := config.DB.Model(&models.Transaction{}).
		Where("status = ?", models.TransactionStatusCompleted)

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("paid_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("paid_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var transactions []models.Transaction
	if err := query.Preload("User").Order("paid_at ASC").Find(&transactions).Error; err != nil {
		utils.LogError("Failed to fetch transactions for export: %v", err)
		utils.InternalServerError(c, "Failed to export transactions", err.Error())
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transactions")
	if err != nil {
		utils.LogError("Failed to create sheet: %v", err)
		utils.InternalServerError(c, "Failed to export transactions", err.Error())
		return
	}

	header := sheet.AddRow()
	for _, title := range []string{"Invoice", "Date", "Buyer", "Listing ID", "Package", "Amount", "Currency"} {
		cell := header.AddCell()
		cell.Value = title
	}

	var totalAmount float64
	for _, t := range transactions {
		row := sheet.AddRow()
		invoice := ""
		if t.InvoiceNumber != nil {
			invoice = *t.InvoiceNumber
		}
		paidAt := ""
		if t.PaidAt != nil {
			paidAt = t.PaidAt.Format("2006-01-02")
		}
		row.AddCell().Value = invoice
		row.AddCell().Value = paidAt
		row.AddCell().Value = t.User.Email
		row.AddCell().SetInt(int(t.ListingID))
		row.AddCell().Value = t.Package
		row.AddCell().SetFloat(t.Amount)
		row.AddCell().Value = t.Currency
		totalAmount += t.Amount
	}

	totalRow := sheet.AddRow()
	totalRow.AddCell().Value = "Total"
	for i := 0; i < 4; i++ {
		totalRow.AddCell()
	}
	totalRow.AddCell().SetFloat(totalAmount)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=transactions_%s.xlsx", time.Now().Format("20060102")))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel export: %v", err)
		utils.InternalServerError(c, "Failed to export transactions", err.Error())
		return
	}

	utils.LogInfo("Exported %d transactions to Excel", len(transactions))
}
