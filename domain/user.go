package domain

import "time"

// Role defines the user roles that exist.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User represents an account on the platform.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // "-" hides the hash in JSON
	Role      Role      `gorm:"type:varchar(20);default:'customer'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// LikedProperties is the many-to-many like relation, resolved through
	// the property_user join table declared in SetupJoinTable.
	LikedProperties []Property `gorm:"many2many:property_user;joinForeignKey:user_id;joinReferences:property_id;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is a user reduced to its public identity, embedded when
// likers are serialized inside property responses.
type UserSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// TableName maps the summary onto the users table.
func (UserSummary) TableName() string {
	return "users"
}

// PublicUser is the user without sensitive fields, for list responses.
type PublicUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Public strips the password hash and timestamps from a user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
