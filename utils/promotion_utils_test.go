package utils

import (
	"testing"
	"time"

	"github.com/Goniek94/Motoria/config"
	"github.com/Goniek94/Motoria/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()
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
}

func seedUser(t *testing.T, username, role string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant",
		Role:     role,
	}
	require.NoError(t, config.DB.Create(&user).Error)
	return user
}

func seedListing(t *testing.T, userID uint, title, category, location string, price float64) models.Listing {
	t.Helper()
	listing := models.Listing{
		UserID:   userID,
		Title:    title,
		Price:    price,
		Category: category,
		Location: location,
		Status:   models.ListingStatusActive,
	}
	require.NoError(t, config.DB.Create(&listing).Error)
	return listing
}

func reload(t *testing.T, id uint) models.Listing {
	t.Helper()
	var listing models.Listing
	require.NoError(t, config.DB.First(&listing, id).Error)
	return listing
}

func activeWindow() (time.Time, time.Time) {
	now := time.Now()
	return now.Add(-time.Hour), now.Add(24 * time.Hour)
}

func TestValidatePromotion(t *testing.T) {
	start, end := activeWindow()

	tests := []struct {
		name    string
		promo   models.Promotion
		wantErr bool
	}{
		{
			name: "valid percentage",
			promo: models.Promotion{
				TargetType: models.PromotionTargetAllUsers,
				Type:       models.PromotionTypePercentage,
				Value:      10,
				StartDate:  start, EndDate: end,
			},
		},
		{
			name: "unknown target type",
			promo: models.Promotion{
				TargetType: "everyone",
				Type:       models.PromotionTypePercentage,
				Value:      10,
				StartDate:  start, EndDate: end,
			},
			wantErr: true,
		},
		{
			name: "unknown promotion type",
			promo: models.Promotion{
				TargetType: models.PromotionTargetAllUsers,
				Type:       "mystery",
				Value:      10,
				StartDate:  start, EndDate: end,
			},
			wantErr: true,
		},
		{
			name: "percentage above 100",
			promo: models.Promotion{
				TargetType: models.PromotionTargetAllUsers,
				Type:       models.PromotionTypePercentage,
				Value:      150,
				StartDate:  start, EndDate: end,
			},
			wantErr: true,
		},
		{
			name: "zero percentage",
			promo: models.Promotion{
				TargetType: models.PromotionTargetAllUsers,
				Type:       models.PromotionTypePercentage,
				Value:      0,
				StartDate:  start, EndDate: end,
			},
			wantErr: true,
		},
		{
			name: "negative fixed amount",
			promo: models.Promotion{
				TargetType: models.PromotionTargetAllUsers,
				Type:       models.PromotionTypeFixedAmount,
				Value:      -5,
				StartDate:  start, EndDate: end,
			},
			wantErr: true,
		},
		{
			name: "min price above max price",
			promo: models.Promotion{
				TargetType: models.PromotionTargetAllUsers,
				Type:       models.PromotionTypePercentage,
				Value:      10,
				TargetCriteria: models.TargetCriteria{
					MinPrice: f64(50000), MaxPrice: f64(10000),
				},
				StartDate: start, EndDate: end,
			},
			wantErr: true,
		},
		{
			name: "end before start",
			promo: models.Promotion{
				TargetType: models.PromotionTargetAllUsers,
				Type:       models.PromotionTypePercentage,
				Value:      10,
				StartDate:  end, EndDate: start,
			},
			wantErr: true,
		},
		{
			name: "free listing needs no value",
			promo: models.Promotion{
				TargetType: models.PromotionTargetAllUsers,
				Type:       models.PromotionTypeFreeListing,
				StartDate:  start, EndDate: end,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePromotion(&tt.promo)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func f64(v float64) *float64 { return &v }

func TestIsPromotionActive(t *testing.T) {
	now := time.Now()

	active := models.Promotion{Active: true, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)}
	assert.True(t, IsPromotionActive(&active, now))

	notStarted := models.Promotion{Active: true, StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour)}
	assert.False(t, IsPromotionActive(&notStarted, now))

	expired := models.Promotion{Active: true, StartDate: now.Add(-2 * time.Hour), EndDate: now.Add(-time.Hour)}
	assert.False(t, IsPromotionActive(&expired, now))

	disabled := models.Promotion{Active: false, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)}
	assert.False(t, IsPromotionActive(&disabled, now))
}

func TestFindTargetListingsAllUsers(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 120000)
	seedListing(t, user.ID, "Audi A4", "Sedan", "Krakow", 65000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypePercentage,
		Value:      10,
		StartDate:  start, EndDate: end, Active: true,
	}

	listings, err := FindTargetListings(&promo)
	require.NoError(t, err)
	assert.Len(t, listings, 2)
}

func TestFindTargetListingsByCategoryAndPriceRange(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	suv := seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 25000)
	seedListing(t, user.ID, "Porsche Cayenne", "SUV", "Warszawa", 300000)
	seedListing(t, user.ID, "Audi A4", "Sedan", "Krakow", 25000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetCategory,
		Type:       models.PromotionTypePercentage,
		Value:      10,
		TargetCriteria: models.TargetCriteria{
			Categories: []string{"SUV"},
			MaxPrice:   f64(100000),
		},
		StartDate: start, EndDate: end, Active: true,
	}

	listings, err := FindTargetListings(&promo)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, suv.ID, listings[0].ID)
}

func TestFindTargetListingsByLocation(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 120000)
	krk := seedListing(t, user.ID, "Audi A4", "Sedan", "Krakow", 65000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetLocation,
		Type:       models.PromotionTypeFixedAmount,
		Value:      1000,
		TargetCriteria: models.TargetCriteria{
			Locations: []string{"Krakow"},
		},
		StartDate: start, EndDate: end, Active: true,
	}

	listings, err := FindTargetListings(&promo)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, krk.ID, listings[0].ID)
}

func TestFindTargetListingsBySpecificUsers(t *testing.T) {
	setupTestDB(t)
	u1 := seedUser(t, "first", models.RoleUser)
	u2 := seedUser(t, "second", models.RoleUser)
	mine := seedListing(t, u1.ID, "BMW X5", "SUV", "Warszawa", 40000)
	seedListing(t, u2.ID, "Audi A4", "Sedan", "Krakow", 40000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetSpecificUsers,
		Type:       models.PromotionTypeFixedAmount,
		Value:      5000,
		TargetCriteria: models.TargetCriteria{
			UserIDs: []uint{u1.ID},
		},
		StartDate: start, EndDate: end, Active: true,
	}

	listings, err := FindTargetListings(&promo)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, mine.ID, listings[0].ID)
}

func TestFindTargetListingsByUserRole(t *testing.T) {
	setupTestDB(t)
	dealer := seedUser(t, "dealer", models.RoleDealer)
	private := seedUser(t, "private", models.RoleUser)
	dealerListing := seedListing(t, dealer.ID, "BMW X5", "SUV", "Warszawa", 120000)
	seedListing(t, private.ID, "Audi A4", "Sedan", "Krakow", 65000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetUserRole,
		Type:       models.PromotionTypePercentage,
		Value:      15,
		TargetCriteria: models.TargetCriteria{
			Roles: []string{models.RoleDealer},
		},
		StartDate: start, EndDate: end, Active: true,
	}

	listings, err := FindTargetListings(&promo)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, dealerListing.ID, listings[0].ID)
}

func TestFindTargetListingsByUserRoleNoMatch(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "private", models.RoleUser)
	seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 120000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetUserRole,
		Type:       models.PromotionTypePercentage,
		Value:      15,
		TargetCriteria: models.TargetCriteria{
			Roles: []string{models.RoleCompany},
		},
		StartDate: start, EndDate: end, Active: true,
	}

	// Nobody holds the role, so the promotion must target nothing at all
	// rather than falling through to every listing.
	listings, err := FindTargetListings(&promo)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestApplyPromotionPercentage(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	listing := seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 25000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetCategory,
		Type:       models.PromotionTypePercentage,
		Value:      10,
		TargetCriteria: models.TargetCriteria{
			Categories: []string{"SUV"},
		},
		StartDate: start, EndDate: end, Active: true,
	}

	result, err := ApplyPromotion(&promo)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Failed)

	got := reload(t, listing.ID)
	require.True(t, got.HasDiscount())
	assert.Equal(t, models.DiscountKindPercentage, *got.DiscountKind)
	assert.Equal(t, 10.0, *got.DiscountValue)
	assert.Equal(t, 22500.0, *got.DiscountedPrice)
	assert.Equal(t, 25000.0, got.Price)
	assert.Equal(t, 22500.0, got.EffectivePrice())
}

func TestApplyPromotionFixedAmount(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	listing := seedListing(t, user.ID, "Audi A4", "Sedan", "Krakow", 40000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetSpecificUsers,
		Type:       models.PromotionTypeFixedAmount,
		Value:      5000,
		TargetCriteria: models.TargetCriteria{
			UserIDs: []uint{user.ID},
		},
		StartDate: start, EndDate: end, Active: true,
	}

	result, err := ApplyPromotion(&promo)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	got := reload(t, listing.ID)
	require.True(t, got.HasDiscount())
	assert.Equal(t, models.DiscountKindFixed, *got.DiscountKind)
	assert.Equal(t, 35000.0, *got.DiscountedPrice)
}

func TestApplyPromotionFixedAmountFloorsAtZero(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	listing := seedListing(t, user.ID, "Fiat 126p", "Hatchback", "Lodz", 3000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypeFixedAmount,
		Value:      5000,
		StartDate:  start, EndDate: end, Active: true,
	}

	_, err := ApplyPromotion(&promo)
	require.NoError(t, err)

	got := reload(t, listing.ID)
	require.True(t, got.HasDiscount())
	assert.Equal(t, 0.0, *got.DiscountedPrice)
}

func TestApplyPromotionFreeListing(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	listing := seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 120000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypeFreeListing,
		StartDate:  start, EndDate: end, Active: true,
	}

	result, err := ApplyPromotion(&promo)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	got := reload(t, listing.ID)
	require.True(t, got.HasDiscount())
	assert.Equal(t, models.DiscountKindFixed, *got.DiscountKind)
	assert.Equal(t, 120000.0, *got.DiscountValue)
	assert.Equal(t, 0.0, *got.DiscountedPrice)
	assert.Equal(t, 120000.0, got.Price)
}

func TestApplyPromotionIsIdempotent(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	listing := seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 25000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypePercentage,
		Value:      10,
		StartDate:  start, EndDate: end, Active: true,
	}

	for i := 0; i < 3; i++ {
		_, err := ApplyPromotion(&promo)
		require.NoError(t, err)
	}

	// The discount derives from the base price every time, so repeated
	// application never compounds.
	got := reload(t, listing.ID)
	assert.Equal(t, 22500.0, *got.DiscountedPrice)
	assert.Equal(t, 25000.0, got.Price)
}

func TestApplyPromotionOverwritesPreviousDiscount(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	listing := seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 25000)

	start, end := activeWindow()
	first := models.Promotion{
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypePercentage,
		Value:      10,
		StartDate:  start, EndDate: end, Active: true,
	}
	second := models.Promotion{
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypeFixedAmount,
		Value:      1000,
		StartDate:  start, EndDate: end, Active: true,
	}

	_, err := ApplyPromotion(&first)
	require.NoError(t, err)
	_, err = ApplyPromotion(&second)
	require.NoError(t, err)

	got := reload(t, listing.ID)
	assert.Equal(t, models.DiscountKindFixed, *got.DiscountKind)
	assert.Equal(t, 24000.0, *got.DiscountedPrice)
}

func TestApplyPromotionSkipsNonPriceTypes(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	listing := seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 25000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypeFeatured,
		StartDate:  start, EndDate: end, Active: true,
	}

	result, err := ApplyPromotion(&promo)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Skipped)

	got := reload(t, listing.ID)
	assert.False(t, got.HasDiscount())
}

func TestApplyPromotionLargeBatch(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	for i := 0; i < 50; i++ {
		seedListing(t, user.ID, "Listing", "SUV", "Warszawa", 10000)
	}

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypePercentage,
		Value:      20,
		StartDate:  start, EndDate: end, Active: true,
	}

	result, err := ApplyPromotion(&promo)
	require.NoError(t, err)
	assert.Equal(t, 50, result.Updated)
	assert.Equal(t, 0, result.Failed)

	var discounted int64
	require.NoError(t, config.DB.Model(&models.Listing{}).
		Where("discounted_price = ?", 8000.0).
		Count(&discounted).Error)
	assert.EqualValues(t, 50, discounted)
}

func TestRevokePromotionRestoresBasePrice(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	listing := seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 25000)

	start, end := activeWindow()
	promo := models.Promotion{
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypePercentage,
		Value:      10,
		StartDate:  start, EndDate: end, Active: true,
	}

	_, err := ApplyPromotion(&promo)
	require.NoError(t, err)

	result, err := RevokePromotion(&promo)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	got := reload(t, listing.ID)
	assert.False(t, got.HasDiscount())
	assert.Nil(t, got.DiscountKind)
	assert.Nil(t, got.DiscountValue)
	assert.Nil(t, got.DiscountedPrice)
	assert.Equal(t, 25000.0, got.Price)
	assert.Equal(t, 25000.0, got.EffectivePrice())
}

func TestDeactivateExpiredPromotions(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	listing := seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 25000)

	now := time.Now()
	expired := models.Promotion{
		Name:       "Summer sale",
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypePercentage,
		Value:      10,
		StartDate:  now.Add(-48 * time.Hour),
		EndDate:    now.Add(-time.Hour),
		Active:     true,
	}
	require.NoError(t, config.DB.Create(&expired).Error)

	current := models.Promotion{
		Name:       "Autumn sale",
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypePercentage,
		Value:      5,
		StartDate:  now.Add(-time.Hour),
		EndDate:    now.Add(24 * time.Hour),
		Active:     true,
	}
	require.NoError(t, config.DB.Create(&current).Error)

	// Simulate the expired promotion having been applied while it ran.
	ApplyPromotionToListings(&expired, []models.Listing{listing})

	n, err := DeactivateExpiredPromotions()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got := reload(t, listing.ID)
	assert.False(t, got.HasDiscount())

	var reloadedExpired models.Promotion
	require.NoError(t, config.DB.First(&reloadedExpired, expired.ID).Error)
	assert.False(t, reloadedExpired.Active)

	var reloadedCurrent models.Promotion
	require.NoError(t, config.DB.First(&reloadedCurrent, current.ID).Error)
	assert.True(t, reloadedCurrent.Active)
}

func TestExpireListingBoosts(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	lapsed := seedListing(t, user.ID, "Audi A4", "Sedan", "Poznan", 30000)
	running := seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 25000)

	now := time.Now()
	past := now.Add(-72 * time.Hour)
	future := now.Add(72 * time.Hour)
	require.NoError(t, config.DB.Model(&lapsed).Updates(map[string]interface{}{
		"is_featured": true, "is_highlighted": true, "featured_until": past,
	}).Error)
	require.NoError(t, config.DB.Model(&running).Updates(map[string]interface{}{
		"is_featured": true, "featured_until": future,
	}).Error)

	n, err := ExpireListingBoosts()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got := reload(t, lapsed.ID)
	assert.False(t, got.IsFeatured)
	assert.False(t, got.IsHighlighted)
	assert.Nil(t, got.FeaturedUntil)

	still := reload(t, running.ID)
	assert.True(t, still.IsFeatured)
	assert.NotNil(t, still.FeaturedUntil)
}

func TestApplyPromotionAggregatesPerListingFailures(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "seller", models.RoleUser)
	first := seedListing(t, user.ID, "BMW X5", "SUV", "Warszawa", 25000)
	second := seedListing(t, user.ID, "Audi A4", "Sedan", "Poznan", 30000)

	start, end := activeWindow()
	promo := models.Promotion{
		Name:       "Doomed sale",
		TargetType: models.PromotionTargetAllUsers,
		Type:       models.PromotionTypePercentage,
		Value:      10,
		StartDate:  start, EndDate: end,
		Active: true,
	}
	require.NoError(t, config.DB.Create(&promo).Error)

	// Every save now fails, so each listing must be counted individually.
	require.NoError(t, config.DB.Migrator().DropTable(&models.Listing{}))

	result := ApplyPromotionToListings(&promo, []models.Listing{first, second})
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 2, result.Failed)
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, result.FailedIDs)
}
