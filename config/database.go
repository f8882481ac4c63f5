package config

import (
	"log"

	"github.com/Goniek94/Motoria/models"
)

// backfillInvoiceNumbers assigns invoice numbers to completed transactions
// that were recorded before numbers were generated at creation time.
// The backfilled format matches the generator: FV/<year>/<sequence>.
func backfillInvoiceNumbers() {
	var nullCount int64
	err := DB.Model(&models.Transaction{}).
		Where("invoice_number IS NULL AND status = ?", models.TransactionStatusCompleted).
		Count(&nullCount).Error
	if err != nil {
		log.Printf("Failed to check transactions with missing invoice numbers: %v", err)
		return
	}
	if nullCount == 0 {
		return
	}

	log.Printf("Backfilling invoice numbers for %d completed transactions", nullCount)
	err = DB.Exec(`
		UPDATE transactions
		SET invoice_number = 'FV/' || to_char(created_at, 'YYYY') || '/' || lpad(id::text, 6, '0')
		WHERE invoice_number IS NULL AND status = 'completed'
	`).Error
	if err != nil {
		log.Printf("Failed to backfill invoice numbers: %v", err)
	}
}

// ensureUniqueFavorites backstops the AutoMigrate schema with a composite
// unique index so a listing cannot be favorited twice by the same user.
func ensureUniqueFavorites() {
	err := DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_favorites_user_listing
		ON favorites (user_id, listing_id)
	`).Error
	if err != nil {
		log.Printf("Failed to ensure unique favorites index: %v", err)
	}
}
