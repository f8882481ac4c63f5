package utils

import (
	"fmt"
	"sync"
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
)

// applyWorkers bounds how many listing saves run concurrently in one batch.
const applyWorkers = 8

var validTargetTypes = map[string]bool{
	models.PromotionTargetAllUsers:      true,
	models.PromotionTargetCategory:      true,
	models.PromotionTargetLocation:      true,
	models.PromotionTargetSpecificUsers: true,
	models.PromotionTargetUserRole:      true,
}

var validPromotionTypes = map[string]bool{
	models.PromotionTypePercentage:  true,
	models.PromotionTypeFixedAmount: true,
	models.PromotionTypeFreeListing: true,
	models.PromotionTypeFeatured:    true,
	models.PromotionTypeHighlighted: true,
}

// PromotionBatchResult aggregates the outcome of applying or revoking a
// promotion across its target listings. Per-listing failures are isolated;
// one failing save never aborts the rest of the batch.
type PromotionBatchResult struct {
	Updated   int    `json:"updated"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	FailedIDs []uint `json:"failed_ids,omitempty"`
}

// ValidatePromotion rejects malformed promotions before any resolution starts.
func ValidatePromotion(p *models.Promotion) error {
	if !validTargetTypes[p.TargetType] {
		return fmt.Errorf("unknown promotion target type: %q", p.TargetType)
	}
	if !validPromotionTypes[p.Type] {
		return fmt.Errorf("unknown promotion type: %q", p.Type)
	}
	switch p.Type {
	case models.PromotionTypePercentage:
		if p.Value <= 0 || p.Value > 100 {
			return fmt.Errorf("percentage value must be between 0 and 100, got %v", p.Value)
		}
	case models.PromotionTypeFixedAmount:
		if p.Value <= 0 {
			return fmt.Errorf("fixed amount value must be greater than zero, got %v", p.Value)
		}
	}
	crit := p.TargetCriteria
	if crit.MinPrice != nil && crit.MaxPrice != nil && *crit.MinPrice > *crit.MaxPrice {
		return fmt.Errorf("min price %v exceeds max price %v", *crit.MinPrice, *crit.MaxPrice)
	}
	if !p.EndDate.IsZero() && !p.StartDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("promotion end date precedes start date")
	}
	return nil
}

// IsPromotionActive reports whether the promotion window covers the given time.
func IsPromotionActive(p *models.Promotion, now time.Time) bool {
	if !p.Active {
		return false
	}
	if !p.StartDate.IsZero() && now.Before(p.StartDate) {
		return false
	}
	if !p.EndDate.IsZero() && now.After(p.EndDate) {
		return false
	}
	return true
}

// IsPriceAffectingType reports whether a promotion type modifies listing prices.
// Featured and highlighted promotions only toggle visibility flags elsewhere.
func IsPriceAffectingType(promoType string) bool {
	switch promoType {
	case models.PromotionTypePercentage, models.PromotionTypeFixedAmount, models.PromotionTypeFreeListing:
		return true
	}
	return false
}

// FindTargetListings resolves the set of listings a promotion applies to.
// Criteria combine conjunctively; absent criteria impose no constraint.
// The resolution is read-only and re-evaluated on every call.
func FindTargetListings(promo *models.Promotion) ([]models.Listing, error) {
	if err := ValidatePromotion(promo); err != nil {
		return nil, err
	}

	query := config.DB.Model(&models.Listing{}).
		Select("id", "price", "discount_kind", "discount_value", "discounted_price", "user_id", "category", "location")

	crit := promo.TargetCriteria
	if crit.MinPrice != nil {
		query = query.Where("price >= ?", *crit.MinPrice)
	}
	if crit.MaxPrice != nil {
		query = query.Where("price <= ?", *crit.MaxPrice)
	}

	switch promo.TargetType {
	case models.PromotionTargetCategory:
		if len(crit.Categories) > 0 {
			query = query.Where("category IN ?", crit.Categories)
		}
	case models.PromotionTargetLocation:
		if len(crit.Locations) > 0 {
			query = query.Where("location IN ?", crit.Locations)
		}
	case models.PromotionTargetSpecificUsers:
		if len(crit.UserIDs) > 0 {
			query = query.Where("user_id IN ?", crit.UserIDs)
		}
	case models.PromotionTargetUserRole:
		if len(crit.Roles) > 0 {
			var userIDs []uint
			if err := config.DB.Model(&models.User{}).
				Where("role IN ?", crit.Roles).
				Pluck("id", &userIDs).Error; err != nil {
				return nil, fmt.Errorf("resolve users by role: %w", err)
			}
			// No user holds any of the roles: the promotion targets nothing.
			// An empty ID set must not degrade to "no filter on user".
			if len(userIDs) == 0 {
				return []models.Listing{}, nil
			}
			query = query.Where("user_id IN ?", userIDs)
		}
	case models.PromotionTargetAllUsers:
		// no additional predicate
	}

	var listings []models.Listing
	if err := query.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("query target listings: %w", err)
	}
	return listings, nil
}

// computeDiscount derives the discount descriptor and resulting price for one
// listing. ok is false for promotion types that leave the price alone.
func computeDiscount(price float64, promoType string, value float64) (kind string, discountValue, discountedPrice float64, ok bool) {
	switch promoType {
	case models.PromotionTypePercentage:
		discountedPrice = price * (1 - value/100)
		if discountedPrice < 0 {
			discountedPrice = 0
		}
		return models.DiscountKindPercentage, value, discountedPrice, true
	case models.PromotionTypeFixedAmount:
		discountedPrice = price - value
		if discountedPrice < 0 {
			discountedPrice = 0
		}
		return models.DiscountKindFixed, value, discountedPrice, true
	case models.PromotionTypeFreeListing:
		// Recorded as a fixed discount of the full price, so the listing
		// reads as currently costing nothing.
		return models.DiscountKindFixed, price, 0, true
	}
	return "", 0, 0, false
}

// ApplyPromotionToListings recomputes and persists the discount fields of each
// listing for the given promotion. The discount is always derived from the base
// price, so re-applying the same promotion is idempotent and discounts never
// stack. Saves fan out concurrently and are independent per listing.
func ApplyPromotionToListings(promo *models.Promotion, listings []models.Listing) *PromotionBatchResult {
	result := &PromotionBatchResult{}
	if len(listings) == 0 {
		return result
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan models.Listing)

	workers := applyWorkers
	if len(listings) < workers {
		workers = len(listings)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for listing := range jobs {
				kind, value, discounted, ok := computeDiscount(listing.Price, promo.Type, promo.Value)
				if !ok {
					mu.Lock()
					result.Skipped++
					mu.Unlock()
					continue
				}
				err := config.DB.Model(&models.Listing{}).
					Where("id = ?", listing.ID).
					Updates(map[string]interface{}{
						"discount_kind":    kind,
						"discount_value":   value,
						"discounted_price": discounted,
					}).Error
				mu.Lock()
				if err != nil {
					result.Failed++
					result.FailedIDs = append(result.FailedIDs, listing.ID)
				} else {
					result.Updated++
				}
				mu.Unlock()
			}
		}()
	}

	for _, listing := range listings {
		jobs <- listing
	}
	close(jobs)
	wg.Wait()

	return result
}

// ApplyPromotion resolves a promotion's target listings and applies its
// discount to each of them.
func ApplyPromotion(promo *models.Promotion) (*PromotionBatchResult, error) {
	listings, err := FindTargetListings(promo)
	if err != nil {
		return nil, err
	}
	return ApplyPromotionToListings(promo, listings), nil
}

// RevokeDiscounts clears the discount fields on each listing, restoring the
// base price. Base prices are never touched. Same fan-out and per-listing
// failure isolation as the applicator.
func RevokeDiscounts(listings []models.Listing) *PromotionBatchResult {
	result := &PromotionBatchResult{}
	if len(listings) == 0 {
		return result
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan models.Listing)

	workers := applyWorkers
	if len(listings) < workers {
		workers = len(listings)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for listing := range jobs {
				err := config.DB.Model(&models.Listing{}).
					Where("id = ?", listing.ID).
					Updates(map[string]interface{}{
						"discount_kind":    nil,
						"discount_value":   nil,
						"discounted_price": nil,
					}).Error
				mu.Lock()
				if err != nil {
					result.Failed++
					result.FailedIDs = append(result.FailedIDs, listing.ID)
				} else {
					result.Updated++
				}
				mu.Unlock()
			}
		}()
	}

	for _, listing := range listings {
		jobs <- listing
	}
	close(jobs)
	wg.Wait()

	return result
}

// RevokePromotion re-resolves a promotion's targets and clears their discounts.
func RevokePromotion(promo *models.Promotion) (*PromotionBatchResult, error) {
	listings, err := FindTargetListings(promo)
	if err != nil {
		return nil, err
	}
	return RevokeDiscounts(listings), nil
}

// DeactivateExpiredPromotions finds active promotions whose window has ended,
// reverts their discounts and marks them inactive. Returns how many
// promotions were deactivated.
func DeactivateExpiredPromotions() (int, error) {
	var expired []models.Promotion
	if err := config.DB.Where("active = ? AND end_date < ?", true, time.Now()).Find(&expired).Error; err != nil {
		return 0, fmt.Errorf("query expired promotions: %w", err)
	}

	deactivated := 0
	for i := range expired {
		promo := &expired[i]
		if IsPriceAffectingType(promo.Type) {
			result, err := RevokePromotion(promo)
			if err != nil {
				LogError("Failed to revoke expired promotion %d: %v", promo.ID, err)
				continue
			}
			LogInfo("Revoked expired promotion %d: %d reverted, %d failed", promo.ID, result.Updated, result.Failed)
		}
		if err := config.DB.Model(promo).Update("active", false).Error; err != nil {
			LogError("Failed to deactivate promotion %d: %v", promo.ID, err)
			continue
		}
		deactivated++
	}
	return deactivated, nil
}

// ExpireListingBoosts downgrades listings whose paid featured or highlighted
// window has ended. Returns how many listings were downgraded.
func ExpireListingBoosts() (int, error) {
	res := config.DB.Model(&models.Listing{}).
		Where("featured_until IS NOT NULL AND featured_until < ?", time.Now()).
		Updates(map[string]interface{}{
			"is_featured":    false,
			"is_highlighted": false,
			"featured_until": nil,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("expire listing boosts: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// StartPromotionSweeper periodically deactivates expired promotions and
// downgrades listings with lapsed paid boosts.
// Closing the returned channel stops the sweeper.
func StartPromotionSweeper(interval time.Duration) chan struct{} {
	stop := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := DeactivateExpiredPromotions()
				if err != nil {
					LogError("Promotion sweep failed: %v", err)
				} else if n > 0 {
					LogInfo("Promotion sweep deactivated %d promotions", n)
				}
				b, err := ExpireListingBoosts()
				if err != nil {
					LogError("Listing boost sweep failed: %v", err)
				} else if b > 0 {
					LogInfo("Listing boost sweep downgraded %d listings", b)
				}
			case <-stop:
				return
			}
		}
	}()
	return stop
}
