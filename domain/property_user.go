package domain

// PropertyUser is the join row of the like relation. The composite primary
// key makes a duplicate like a constraint violation at the storage layer,
// so concurrent duplicate requests cannot both succeed.
type PropertyUser struct {
	UserID     uint `gorm:"primaryKey;column:user_id"`
	PropertyID uint `gorm:"primaryKey;column:property_id"`
}

// TableName specifies the join table name.
func (PropertyUser) TableName() string {
	return "property_user"
}
