package services

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/repositories"
	"rentals-api/utils"

	"gorm.io/gorm"
)

// PropertyService orchestrates property CRUD, media bookkeeping and the
// like relation.
type PropertyService interface {
	List(filter dto.PropertyFilter) ([]domain.Property, int64, error)
	Get(id uint) (*domain.Property, error)
	Create(form dto.CreatePropertyForm, media dto.UploadedMedia) (*domain.Property, error)
	Update(id uint, form dto.UpdatePropertyForm, media dto.UploadedMedia) (*domain.Property, error)
	Delete(id uint) error
	Like(userID, propertyID uint) error
	Unlike(userID, propertyID uint) error
	ListLiked(userID uint, page, limit int) ([]domain.Property, int64, error)
}

type propertyService struct {
	repo      repositories.PropertyRepository
	cache     repositories.ListingCache
	uploadDir string
	logger    *slog.Logger
}

// NewPropertyService creates a PropertyService. uploadDir is where the
// upload middleware stores media on disk.
func NewPropertyService(repo repositories.PropertyRepository, cache repositories.ListingCache, uploadDir string, logger *slog.Logger) PropertyService {
	return &propertyService{repo: repo, cache: cache, uploadDir: uploadDir, logger: logger}
}

// List returns one page of listings plus the total match count, served
// from the cache when a previous identical query is still fresh.
func (s *propertyService) List(filter dto.PropertyFilter) ([]domain.Property, int64, error) {
	key := listingCacheKey(filter)
	if properties, total, ok := s.cache.Get(key); ok {
		return properties, total, nil
	}

	properties, total, err := s.repo.Find(filter)
	if err != nil {
		return nil, 0, err
	}

	s.cache.Set(key, properties, total)
	return properties, total, nil
}

func (s *propertyService) Get(id uint) (*domain.Property, error) {
	property, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("No property found with that ID")
		}
		return nil, err
	}
	return property, nil
}

// Create builds a property from the form and the uploaded media. If the
// insert fails, files already written to disk are removed again.
func (s *propertyService) Create(form dto.CreatePropertyForm, media dto.UploadedMedia) (*domain.Property, error) {
	amenities, err := parseAmenities(form.Amenities)
	if err != nil {
		s.removeFiles(media.Paths())
		return nil, err
	}

	property := &domain.Property{
		Name:          form.Name,
		Address:       form.Address,
		UnitNumber:    form.UnitNumber,
		City:          form.City,
		State:         form.State,
		Floor:         form.Floor,
		Beds:          form.Beds,
		Baths:         form.Baths,
		GuestWC:       form.GuestWC,
		SquareMeters:  form.SquareMeters,
		PricePerNight: form.PricePerNight,
		PricePerMonth: form.PricePerMonth,
		Description:   form.Description,
		Amenities:     amenities,
		Neighborhood:  form.Neighborhood,
		IsFeatured:    coerceBool(form.IsFeatured),
		IsActive:      coerceBool(form.IsActive),
	}
	if form.Slug != "" {
		slug := form.Slug
		property.Slug = &slug
	}

	if media.FeaturedImage != nil {
		property.FeaturedImage = media.FeaturedImage.URL
	}
	for _, f := range media.GalleryImages {
		property.GalleryImages = append(property.GalleryImages, f.URL)
	}
	for _, f := range media.Videos {
		property.Videos = append(property.Videos, f.URL)
	}

	if err := s.repo.Create(property); err != nil {
		s.removeFiles(media.Paths())
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError("Slug already in use")
		}
		return nil, err
	}

	s.cache.Flush()
	return property, nil
}

// Update applies the present form fields, replaces the featured image and
// appends newly uploaded gallery and video files to the existing lists.
func (s *propertyService) Update(id uint, form dto.UpdatePropertyForm, media dto.UploadedMedia) (*domain.Property, error) {
	property, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("No property found with that ID")
		}
		return nil, err
	}

	if form.Amenities != nil {
		amenities, err := parseAmenities(*form.Amenities)
		if err != nil {
			return nil, err
		}
		property.Amenities = amenities
	}

	applyIfSet(form.Name, &property.Name)
	applyIfSet(form.Address, &property.Address)
	applyIfSet(form.UnitNumber, &property.UnitNumber)
	applyIfSet(form.City, &property.City)
	applyIfSet(form.State, &property.State)
	applyIfSet(form.Floor, &property.Floor)
	applyIfSet(form.Beds, &property.Beds)
	applyIfSet(form.Baths, &property.Baths)
	applyIfSet(form.GuestWC, &property.GuestWC)
	applyIfSet(form.SquareMeters, &property.SquareMeters)
	applyIfSet(form.PricePerMonth, &property.PricePerMonth)
	applyIfSet(form.Description, &property.Description)
	applyIfSet(form.Neighborhood, &property.Neighborhood)

	if form.Slug != nil && *form.Slug != "" {
		property.Slug = form.Slug
	}
	if form.PricePerNight != nil {
		property.PricePerNight = form.PricePerNight
	}
	if form.IsFeatured != nil {
		property.IsFeatured = coerceBool(*form.IsFeatured)
	}
	if form.IsActive != nil {
		property.IsActive = coerceBool(*form.IsActive)
	}

	if media.FeaturedImage != nil {
		property.FeaturedImage = media.FeaturedImage.URL
	}
	for _, f := range media.GalleryImages {
		property.GalleryImages = append(property.GalleryImages, f.URL)
	}
	for _, f := range media.Videos {
		property.Videos = append(property.Videos, f.URL)
	}

	if err := s.repo.Update(property); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError("Slug already in use")
		}
		return nil, &utils.AppError{
			StatusCode:  http.StatusInternalServerError,
			Message:     "Error updating the property in the database",
			Operational: true,
			Err:         err,
		}
	}

	s.cache.Flush()
	return property, nil
}

// Delete removes the stored media files and then the record. A file that
// fails to delete is logged and skipped; the record is removed anyway.
func (s *propertyService) Delete(id uint) error {
	property, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("No property found with that ID")
		}
		return err
	}

	s.removeStoredMedia(property.MediaFiles())

	if err := s.repo.Delete(property); err != nil {
		return err
	}

	s.cache.Flush()
	return nil
}

// Like records a like. A duplicate is rejected by the storage layer.
func (s *propertyService) Like(userID, propertyID uint) error {
	if _, err := s.Get(propertyID); err != nil {
		return err
	}

	if err := s.repo.Like(userID, propertyID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.NewConflictError("You have already liked this property")
		}
		return err
	}

	s.cache.Flush()
	return nil
}

// Unlike removes a like. Unliking a property that was never liked is not
// an error.
func (s *propertyService) Unlike(userID, propertyID uint) error {
	if _, err := s.Get(propertyID); err != nil {
		return err
	}

	if err := s.repo.Unlike(userID, propertyID); err != nil {
		return err
	}

	s.cache.Flush()
	return nil
}

func (s *propertyService) ListLiked(userID uint, page, limit int) ([]domain.Property, int64, error) {
	return s.repo.GetLiked(userID, page, limit)
}

// removeStoredMedia deletes media by its stored value, which may be a
// fully-qualified URL or a bare path.
func (s *propertyService) removeStoredMedia(stored []string) {
	paths := make([]string, 0, len(stored))
	for _, entry := range stored {
		paths = append(paths, s.mediaPath(entry))
	}
	s.removeFiles(paths)
}

func (s *propertyService) removeFiles(paths []string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove media file", "path", path, "error", err)
		}
	}
}

// mediaPath resolves a stored media value to a path on disk. URLs point
// at the /uploads static route, so the remainder is joined onto the
// configured upload directory; bare paths are used as-is.
func (s *propertyService) mediaPath(stored string) string {
	if strings.HasPrefix(stored, "http://") || strings.HasPrefix(stored, "https://") {
		parsed, err := url.Parse(stored)
		if err != nil {
			return ""
		}
		rel, found := strings.CutPrefix(parsed.Path, "/uploads/")
		if !found {
			return ""
		}
		return filepath.Join(s.uploadDir, filepath.FromSlash(rel))
	}
	return stored
}

// parseAmenities accepts either a JSON array string or a comma-separated
// list.
func parseAmenities(raw string) (domain.StringList, error) {
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "[") {
		var amenities domain.StringList
		if err := json.Unmarshal([]byte(raw), &amenities); err != nil {
			return nil, utils.NewValidationError("Invalid amenities format")
		}
		return amenities, nil
	}

	parts := strings.Split(raw, ",")
	amenities := make(domain.StringList, 0, len(parts))
	for _, part := range parts {
		amenities = append(amenities, strings.TrimSpace(part))
	}
	return amenities, nil
}

// coerceBool accepts the string "true" as true, everything else as false.
func coerceBool(value string) bool {
	return value == "true"
}

func applyIfSet[T any](src *T, dst *T) {
	if src != nil {
		*dst = *src
	}
}

// listingCacheKey builds a stable cache key from the normalized filter.
func listingCacheKey(filter dto.PropertyFilter) string {
	keyParts := []string{
		fmt.Sprintf("search:%s", filter.Search),
		fmt.Sprintf("city:%s", filter.City),
		fmt.Sprintf("state:%s", filter.State),
		fmt.Sprintf("beds:%s", formatIntPtr(filter.Beds)),
		fmt.Sprintf("baths:%s", formatIntPtr(filter.Baths)),
		fmt.Sprintf("min_price:%s", formatFloatPtr(filter.MinPrice)),
		fmt.Sprintf("max_price:%s", formatFloatPtr(filter.MaxPrice)),
		fmt.Sprintf("is_featured:%s", formatBoolPtr(filter.IsFeatured)),
		fmt.Sprintf("is_active:%s", formatBoolPtr(filter.IsActive)),
		fmt.Sprintf("amenities:%s", filter.Amenities),
		fmt.Sprintf("sort_by:%s", filter.SortBy),
		fmt.Sprintf("order:%s", filter.Order),
		fmt.Sprintf("page:%d", filter.Page),
		fmt.Sprintf("limit:%d", filter.Limit),
	}

	hash := md5.Sum([]byte(strings.Join(keyParts, "|")))
	return fmt.Sprintf("listings:%x", hash)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatBoolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%t", *v)
}
