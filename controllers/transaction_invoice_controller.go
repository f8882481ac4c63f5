package controllers

import (
	"fmt"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/Goniek94/Motoria/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadInvoice generates and streams the PDF invoice for a completed transaction
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found in context")
		return
	}
	user := userVal.(models.User)

	id := c.Param("id")
	var txn models.Transaction
	if err := config.DB.Preload("Listing").Where("id = ? AND user_id = ?", id, user.ID).First(&txn).Error; err != nil {
		utils.LogError("Transaction not found: %s", id)
		utils.NotFound(c, "Transaction not found")
		return
	}
	if txn.Status != models.TransactionStatusCompleted {
		utils.BadRequest(c, "Invoice is only available for completed payments", nil)
		return
	}
	if txn.InvoiceNumber == nil {
		utils.LogError("Completed transaction %d has no invoice number", txn.ID)
		utils.InternalServerError(c, "Invoice number missing", nil)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, utils.AppName)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Vehicle Marketplace")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice %s", *txn.InvoiceNumber))
	pdf.Ln(10)

	issued := txn.CreatedAt
	if txn.PaidAt != nil {
		issued = *txn.PaidAt
	}

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Issue date: %s", issued.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Buyer: %s %s (%s)", user.FirstName, user.LastName, user.Email))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Listing", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 8, "Currency", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(90, 8, packageLabel(txn.Package), "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("#%d", txn.ListingID), "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", txn.Amount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 8, txn.Currency, "1", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(160, 8, "Total", "0", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f %s", txn.Amount, txn.Currency), "0", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Payment reference: %s", txn.RazorpayPaymentID))

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%d.pdf", txn.ID))
	if err := pdf.Output(c.Writer); err != nil {
		utils.LogError("Failed to generate invoice PDF for transaction %d: %v", txn.ID, err)
		utils.InternalServerError(c, "Failed to generate invoice", err.Error())
		return
	}

	utils.LogInfo("Generated invoice %s for transaction %d", *txn.InvoiceNumber, txn.ID)
}

func packageLabel(pkg string) string {
	switch pkg {
	case models.PackageFeatured7:
		return "Featured listing (7 days)"
	case models.PackageFeatured30:
		return "Featured listing (30 days)"
	case models.PackageHighlighted7:
		return "Highlighted listing (7 days)"
	default:
		return pkg
	}
}
