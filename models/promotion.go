package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Promotion target types
const (
	PromotionTargetAllUsers      = "all_users"
	PromotionTargetCategory      = "category"
	PromotionTargetLocation      = "location"
	PromotionTargetSpecificUsers = "specific_users"
	PromotionTargetUserRole      = "user_role"
)

// Promotion types. Percentage, fixed amount and free listing affect the
// listing price; featured and highlighted only toggle visibility flags.
const (
	PromotionTypePercentage  = "percentage"
	PromotionTypeFixedAmount = "fixed_amount"
	PromotionTypeFreeListing = "free_listing"
	PromotionTypeFeatured    = "featured"
	PromotionTypeHighlighted = "highlighted"
)

// TargetCriteria narrows the set of listings a promotion applies to.
// Absent fields impose no constraint.
type TargetCriteria struct {
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Locations  []string `json:"locations,omitempty"`
	UserIDs    []uint   `json:"user_ids,omitempty"`
	Roles      []string `json:"roles,omitempty"`
}

// Value implements driver.Valuer so the criteria are stored as a JSON column.
func (tc TargetCriteria) Value() (driver.Value, error) {
	return json.Marshal(tc)
}

// Scan implements sql.Scanner.
func (tc *TargetCriteria) Scan(value interface{}) error {
	if value == nil {
		*tc = TargetCriteria{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, tc)
	case string:
		return json.Unmarshal([]byte(v), tc)
	default:
		return fmt.Errorf("unsupported type for target criteria: %T", value)
	}
}

// Promotion represents an admin-defined campaign that discounts or promotes
// the listings matching its target criteria for the duration of its window.
type Promotion struct {
	gorm.Model
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	TargetType     string         `json:"target_type" gorm:"not null;index"`
	TargetCriteria TargetCriteria `json:"target_criteria" gorm:"type:text"`
	Type           string         `json:"type" gorm:"not null"`
	Value          float64        `json:"value"`
	StartDate      time.Time      `json:"start_date"`
	EndDate        time.Time      `json:"end_date"`
	Active         bool           `json:"active" gorm:"default:true"`
	CreatedBy      uint           `json:"created_by"`
}
