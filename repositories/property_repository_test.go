package repositories

import (
	"encoding/json"
	"testing"

	"rentals-api/domain"
	"rentals-api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.SetupJoinTable(&domain.User{}, "LikedProperties", &domain.PropertyUser{}))
	require.NoError(t, db.SetupJoinTable(&domain.Property{}, "LikedByUsers", &domain.PropertyUser{}))
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Property{}, &domain.PropertyUser{}))

	return db
}

func seedProperty(t *testing.T, repo PropertyRepository, name, city string, pricePerMonth float64, mutate func(*domain.Property)) *domain.Property {
	t.Helper()

	property := &domain.Property{
		Name:          name,
		Address:       "1 " + name + " Road",
		City:          city,
		State:         "CA",
		Beds:          2,
		Baths:         1,
		PricePerMonth: pricePerMonth,
		Description:   "A place called " + name,
		Neighborhood:  "Center",
		IsActive:      true,
	}
	if mutate != nil {
		mutate(property)
	}
	require.NoError(t, repo.Create(property))
	return property
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestFindPriceRange(t *testing.T) {
	repo := NewPropertyRepository(setupTestDB(t))

	seedProperty(t, repo, "Cheap Flat", "Austin", 800, nil)
	inRange := seedProperty(t, repo, "Mid Flat", "Austin", 1500, nil)
	edge := seedProperty(t, repo, "Edge Flat", "Austin", 2000, nil)
	seedProperty(t, repo, "Pricey Flat", "Austin", 2500, nil)

	results, total, err := repo.Find(dto.PropertyFilter{
		MinPrice: floatPtr(1000),
		MaxPrice: floatPtr(2000),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	ids := []uint{results[0].ID, results[1].ID}
	assert.ElementsMatch(t, []uint{inRange.ID, edge.ID}, ids, "bounds are inclusive")
}

func TestFindSearchCaseInsensitive(t *testing.T) {
	repo := NewPropertyRepository(setupTestDB(t))

	seedProperty(t, repo, "Harbour View", "Oslo", 1200, nil)
	seedProperty(t, repo, "Forest Cabin", "Oslo", 1300, func(p *domain.Property) {
		p.Description = "Quiet spot near the HARBOUR"
	})
	seedProperty(t, repo, "City Studio", "Oslo", 1400, nil)

	_, total, err := repo.Find(dto.PropertyFilter{Search: "harbour"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "matches name and description regardless of case")
}

func TestFindExactFilters(t *testing.T) {
	repo := NewPropertyRepository(setupTestDB(t))

	seedProperty(t, repo, "A", "Austin", 1000, func(p *domain.Property) { p.Beds = 3 })
	seedProperty(t, repo, "B", "Austin", 1000, nil)
	seedProperty(t, repo, "C", "Dallas", 1000, func(p *domain.Property) { p.Beds = 3 })

	results, total, err := repo.Find(dto.PropertyFilter{City: "Austin", Beds: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "A", results[0].Name)
}

func TestFindTriStateBooleans(t *testing.T) {
	repo := NewPropertyRepository(setupTestDB(t))

	seedProperty(t, repo, "Active", "Austin", 1000, nil)
	seedProperty(t, repo, "Inactive", "Austin", 1000, func(p *domain.Property) { p.IsActive = false })

	_, total, err := repo.Find(dto.PropertyFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "absent filter matches everything")

	results, total, err := repo.Find(dto.PropertyFilter{IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Inactive", results[0].Name)
}

func TestFindAmenitiesOverlap(t *testing.T) {
	repo := NewPropertyRepository(setupTestDB(t))

	seedProperty(t, repo, "Wifi Flat", "Austin", 1000, func(p *domain.Property) {
		p.Amenities = domain.StringList{"wifi", "parking"}
	})
	seedProperty(t, repo, "Pool Flat", "Austin", 1000, func(p *domain.Property) {
		p.Amenities = domain.StringList{"pool"}
	})
	seedProperty(t, repo, "Bare Flat", "Austin", 1000, nil)

	_, total, err := repo.Find(dto.PropertyFilter{Amenities: "wifi,pool"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "any shared amenity matches")

	_, total, err = repo.Find(dto.PropertyFilter{Amenities: "sauna"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestFindSortAllowList(t *testing.T) {
	repo := NewPropertyRepository(setupTestDB(t))

	seedProperty(t, repo, "Bravo", "Austin", 2000, nil)
	seedProperty(t, repo, "Alpha", "Austin", 1000, nil)

	results, _, err := repo.Find(dto.PropertyFilter{SortBy: "price_per_month", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", results[0].Name)

	// An unknown sort field falls back to name ascending instead of
	// reaching the database.
	results, _, err = repo.Find(dto.PropertyFilter{SortBy: "password; DROP TABLE users"})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", results[0].Name)
}

func TestFindPagination(t *testing.T) {
	repo := NewPropertyRepository(setupTestDB(t))

	names := []string{"A", "B", "C", "D", "E"}
	for _, name := range names {
		seedProperty(t, repo, name, "Austin", 1000, nil)
	}

	results, total, err := repo.Find(dto.PropertyFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total, "total is the full match count")
	require.Len(t, results, 2)
	assert.Equal(t, "C", results[0].Name)
	assert.Equal(t, "D", results[1].Name)
}

func TestSlugUniqueness(t *testing.T) {
	repo := NewPropertyRepository(setupTestDB(t))

	slug := "sunny-loft"
	seedProperty(t, repo, "First", "Austin", 1000, func(p *domain.Property) { p.Slug = &slug })

	dup := &domain.Property{
		Name:          "Second",
		Address:       "2 Road",
		City:          "Austin",
		State:         "CA",
		Beds:          1,
		Baths:         1,
		PricePerMonth: 900,
		Description:   "d",
		Neighborhood:  "n",
		Slug:          &slug,
	}
	err := repo.Create(dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestLikeDuplicateRejectedByConstraint(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPropertyRepository(db)

	user := &domain.User{Name: "Jamie", Email: "jamie@example.com", Password: "x", Role: domain.RoleCustomer}
	require.NoError(t, db.Create(user).Error)
	property := seedProperty(t, repo, "Loft", "Austin", 1000, nil)

	require.NoError(t, repo.Like(user.ID, property.ID))

	err := repo.Like(user.ID, property.ID)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey, "the join table primary key rejects duplicates")
}

func TestUnlikeIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPropertyRepository(db)

	user := &domain.User{Name: "Jamie", Email: "jamie@example.com", Password: "x", Role: domain.RoleCustomer}
	require.NoError(t, db.Create(user).Error)
	property := seedProperty(t, repo, "Loft", "Austin", 1000, nil)

	assert.NoError(t, repo.Unlike(user.ID, property.ID))

	require.NoError(t, repo.Like(user.ID, property.ID))
	assert.NoError(t, repo.Unlike(user.ID, property.ID))
	assert.NoError(t, repo.Unlike(user.ID, property.ID))
}

func TestLikersSerializeAsSummaries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPropertyRepository(db)

	user := &domain.User{Name: "Jamie", Email: "jamie@example.com", Password: "x", Role: domain.RoleCustomer}
	require.NoError(t, db.Create(user).Error)
	property := seedProperty(t, repo, "Loft", "Austin", 1000, nil)
	require.NoError(t, repo.Like(user.ID, property.ID))

	got, err := repo.GetByID(property.ID)
	require.NoError(t, err)
	require.Len(t, got.LikedByUsers, 1)
	assert.Equal(t, user.ID, got.LikedByUsers[0].ID)
	assert.Equal(t, "Jamie", got.LikedByUsers[0].Name)

	// Only id and name of a liker may appear in serialized responses.
	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "jamie@example.com")
	assert.NotContains(t, string(data), `"role"`)
}

func TestGetLikedPaginated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPropertyRepository(db)

	user := &domain.User{Name: "Jamie", Email: "jamie@example.com", Password: "x", Role: domain.RoleCustomer}
	require.NoError(t, db.Create(user).Error)

	for _, name := range []string{"A", "B", "C"} {
		property := seedProperty(t, repo, name, "Austin", 1000, nil)
		require.NoError(t, repo.Like(user.ID, property.ID))
	}
	// A property the user did not like.
	seedProperty(t, repo, "D", "Austin", 1000, nil)

	results, total, err := repo.GetLiked(user.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, results, 2)
	assert.Equal(t, "A", results[0].Name)
}

func TestDeleteCascadesLikes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPropertyRepository(db)

	user := &domain.User{Name: "Jamie", Email: "jamie@example.com", Password: "x", Role: domain.RoleCustomer}
	require.NoError(t, db.Create(user).Error)
	property := seedProperty(t, repo, "Loft", "Austin", 1000, nil)
	require.NoError(t, repo.Like(user.ID, property.ID))

	require.NoError(t, repo.Delete(property))

	var count int64
	require.NoError(t, db.Model(&domain.PropertyUser{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUserDeleteCascadesLikes(t *testing.T) {
	db := setupTestDB(t)
	propertyRepo := NewPropertyRepository(db)
	userRepo := NewUserRepository(db)

	user := &domain.User{Name: "Jamie", Email: "jamie@example.com", Password: "x", Role: domain.RoleCustomer}
	require.NoError(t, userRepo.Create(user))
	property := seedProperty(t, propertyRepo, "Loft", "Austin", 1000, nil)
	require.NoError(t, propertyRepo.Like(user.ID, property.ID))

	require.NoError(t, userRepo.Delete(user.ID))

	var count int64
	require.NoError(t, db.Model(&domain.PropertyUser{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
