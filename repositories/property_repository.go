package repositories

import (
	"strings"

	"rentals-api/domain"
	"rentals-api/dto"

	"gorm.io/gorm"
)

// sortableFields is the allow-list for the sort_by query parameter. An
// unknown value falls back to the default sort instead of reaching SQL.
var sortableFields = map[string]string{
	"name":            "name",
	"slug":            "slug",
	"city":            "city",
	"state":           "state",
	"beds":            "beds",
	"baths":           "baths",
	"price_per_night": "price_per_night",
	"price_per_month": "price_per_month",
	"square_meters":   "square_meters",
	"created_at":      "created_at",
	"updated_at":      "updated_at",
}

// PropertyRepository defines the data-access operations for properties
// and the like relation.
type PropertyRepository interface {
	Create(property *domain.Property) error
	GetByID(id uint) (*domain.Property, error)
	Find(filter dto.PropertyFilter) ([]domain.Property, int64, error)
	Update(property *domain.Property) error
	Delete(property *domain.Property) error
	Like(userID, propertyID uint) error
	Unlike(userID, propertyID uint) error
	GetLiked(userID uint, page, limit int) ([]domain.Property, int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a PropertyRepository backed by the given
// database.
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(property *domain.Property) error {
	return r.db.Create(property).Error
}

func (r *propertyRepository) GetByID(id uint) (*domain.Property, error) {
	var property domain.Property
	err := r.db.Preload("LikedByUsers", selectUserSummary).First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// Find translates the filter into database predicates and returns one page
// of matches together with the total match count.
func (r *propertyRepository) Find(filter dto.PropertyFilter) ([]domain.Property, int64, error) {
	query := r.db.Model(&domain.Property{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.Beds != nil {
		query = query.Where("beds = ?", *filter.Beds)
	}
	if filter.Baths != nil {
		query = query.Where("baths = ?", *filter.Baths)
	}

	if filter.MinPrice != nil {
		query = query.Where("price_per_month >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price_per_month <= ?", *filter.MaxPrice)
	}

	if filter.IsFeatured != nil {
		query = query.Where("is_featured = ?", *filter.IsFeatured)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if filter.Amenities != "" {
		query = query.Where(r.amenitiesOverlap(filter.Amenities))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)

	var properties []domain.Property
	err := query.
		Preload("LikedByUsers", selectUserSummary).
		Order(orderClause(filter.SortBy, filter.Order)).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&properties).Error
	if err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

func (r *propertyRepository) Update(property *domain.Property) error {
	return r.db.Save(property).Error
}

func (r *propertyRepository) Delete(property *domain.Property) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", property.ID).Delete(&domain.PropertyUser{}).Error; err != nil {
			return err
		}
		return tx.Delete(property).Error
	})
}

// Like inserts a join row. The composite primary key on property_user
// turns a duplicate like into gorm.ErrDuplicatedKey, even under
// concurrent requests.
func (r *propertyRepository) Like(userID, propertyID uint) error {
	return r.db.Create(&domain.PropertyUser{UserID: userID, PropertyID: propertyID}).Error
}

// Unlike removes the join row if present. Removing a row that does not
// exist is not an error.
func (r *propertyRepository) Unlike(userID, propertyID uint) error {
	return r.db.
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&domain.PropertyUser{}).Error
}

func (r *propertyRepository) GetLiked(userID uint, page, limit int) ([]domain.Property, int64, error) {
	query := r.db.Model(&domain.Property{}).
		Joins("JOIN property_user ON property_user.property_id = properties.id").
		Where("property_user.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = normalizePage(page, limit)

	var properties []domain.Property
	err := query.
		Preload("LikedByUsers", selectUserSummary).
		Order("properties.name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&properties).Error
	if err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

// amenitiesOverlap matches listings whose stored amenities list shares at
// least one value with the requested comma-separated list. The amenities
// column holds JSON, so each value is matched as a quoted substring.
func (r *propertyRepository) amenitiesOverlap(amenities string) *gorm.DB {
	var cond *gorm.DB
	for _, amenity := range strings.Split(amenities, ",") {
		amenity = strings.TrimSpace(amenity)
		if amenity == "" {
			continue
		}
		pattern := `%"` + amenity + `"%`
		if cond == nil {
			cond = r.db.Where("amenities LIKE ?", pattern)
		} else {
			cond = cond.Or("amenities LIKE ?", pattern)
		}
	}
	if cond == nil {
		return r.db
	}
	return cond
}

// selectUserSummary limits the preloaded likers to id and name.
func selectUserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("users.id", "users.name")
}

func orderClause(sortBy, order string) string {
	column, ok := sortableFields[sortBy]
	if !ok {
		return "name ASC"
	}
	direction := "DESC"
	if strings.EqualFold(order, "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
