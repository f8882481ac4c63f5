package utils

import (
	"fmt"
	"time"

	"github.com/Goniek94/Motoria/models"
	"gorm.io/gorm"
)

// GenerateInvoiceNumber issues the next sequential invoice number for the
// year of the given time, e.g. FV/2026/000042. It is meant to run inside the
// same transaction that inserts the row using the number; the unique index on
// invoice_number backstops concurrent issuers, callers retry on conflict.
func GenerateInvoiceNumber(tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("FV/%d/", now.Year())

	var count int64
	err := tx.Model(&models.Transaction{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("count invoices for %d: %w", now.Year(), err)
	}

	return fmt.Sprintf("%s%06d", prefix, count+1), nil
}
