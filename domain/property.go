package domain

import "time"

// Property represents a rental listing.
type Property struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	Slug          *string    `gorm:"unique" json:"slug"`
	Address       string     `gorm:"not null" json:"address"`
	UnitNumber    string     `json:"unit_number"`
	City          string     `gorm:"not null" json:"city"`
	State         string     `gorm:"not null" json:"state"`
	Floor         string     `json:"floor"`
	Beds          int        `gorm:"not null" json:"beds"`
	Baths         int        `gorm:"not null" json:"baths"`
	GuestWC       int        `gorm:"column:guest_wc" json:"guest_wc"`
	SquareMeters  int        `gorm:"default:0" json:"square_meters"`
	PricePerNight *float64   `gorm:"type:decimal(10,2)" json:"price_per_night"`
	PricePerMonth float64    `gorm:"type:decimal(10,2);not null" json:"price_per_month"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	Amenities     StringList `gorm:"type:json" json:"amenities"`
	FeaturedImage string     `json:"featured_image"`
	GalleryImages StringList `gorm:"type:json" json:"gallery_images"`
	Videos        StringList `gorm:"type:json" json:"videos"`
	Neighborhood  string     `gorm:"not null" json:"neighborhood"`
	IsFeatured    bool       `gorm:"default:false" json:"is_featured"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	LikedByUsers []UserSummary `gorm:"many2many:property_user;joinForeignKey:property_id;joinReferences:user_id;constraint:OnDelete:CASCADE" json:"liked_by_users,omitempty"`
}

// TableName specifies the table name for Property.
func (Property) TableName() string {
	return "properties"
}

// MediaFiles returns every stored media path of the property.
func (p *Property) MediaFiles() []string {
	var files []string
	if p.FeaturedImage != "" {
		files = append(files, p.FeaturedImage)
	}
	files = append(files, p.GalleryImages...)
	files = append(files, p.Videos...)
	return files
}
