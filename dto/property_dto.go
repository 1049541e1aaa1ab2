package dto

import "rentals-api/domain"

// CreatePropertyForm is the multipart form for creating a property.
// Boolean fields arrive as strings and are coerced by the service.
type CreatePropertyForm struct {
	Name          string   `form:"name" binding:"required"`
	Slug          string   `form:"slug"`
	Address       string   `form:"address" binding:"required"`
	UnitNumber    string   `form:"unit_number"`
	City          string   `form:"city" binding:"required"`
	State         string   `form:"state" binding:"required"`
	Floor         string   `form:"floor"`
	Beds          int      `form:"beds" binding:"required"`
	Baths         int      `form:"baths" binding:"required"`
	GuestWC       int      `form:"guest_wc"`
	SquareMeters  int      `form:"square_meters"`
	PricePerNight *float64 `form:"price_per_night"`
	PricePerMonth float64  `form:"price_per_month" binding:"required"`
	Description   string   `form:"description" binding:"required"`
	Amenities     string   `form:"amenities"`
	Neighborhood  string   `form:"neighborhood" binding:"required"`
	IsFeatured    string   `form:"is_featured"`
	IsActive      string   `form:"is_active"`
}

// UpdatePropertyForm is the multipart form for partial updates. Pointer
// fields distinguish "absent" from a zero value.
type UpdatePropertyForm struct {
	Name          *string  `form:"name"`
	Slug          *string  `form:"slug"`
	Address       *string  `form:"address"`
	UnitNumber    *string  `form:"unit_number"`
	City          *string  `form:"city"`
	State         *string  `form:"state"`
	Floor         *string  `form:"floor"`
	Beds          *int     `form:"beds"`
	Baths         *int     `form:"baths"`
	GuestWC       *int     `form:"guest_wc"`
	SquareMeters  *int     `form:"square_meters"`
	PricePerNight *float64 `form:"price_per_night"`
	PricePerMonth *float64 `form:"price_per_month"`
	Description   *string  `form:"description"`
	Amenities     *string  `form:"amenities"`
	Neighborhood  *string  `form:"neighborhood"`
	IsFeatured    *string  `form:"is_featured"`
	IsActive      *string  `form:"is_active"`
}

// PropertyFilter carries the listing query parameters. Pointer fields are
// tri-state: absent means unfiltered.
type PropertyFilter struct {
	Search     string   `form:"search"`
	City       string   `form:"city"`
	State      string   `form:"state"`
	Beds       *int     `form:"beds"`
	Baths      *int     `form:"baths"`
	MinPrice   *float64 `form:"min_price"`
	MaxPrice   *float64 `form:"max_price"`
	IsFeatured *bool    `form:"is_featured"`
	IsActive   *bool    `form:"is_active"`
	Amenities  string   `form:"amenities"`
	SortBy     string   `form:"sort_by"`
	Order      string   `form:"order"`
	Page       int      `form:"page"`
	Limit      int      `form:"limit"`
}

// PropertyListData holds the page of listings.
type PropertyListData struct {
	Properties []domain.Property `json:"properties"`
}

// PropertiesResponse is the listing envelope; Results is the total match
// count, not the page size.
type PropertiesResponse struct {
	Status  string           `json:"status"`
	Results int64            `json:"results"`
	Data    PropertyListData `json:"data"`
}

// PropertyResponse wraps a single property.
type PropertyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Property domain.Property `json:"property"`
	} `json:"data"`
}
