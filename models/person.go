package models

// Person represents a tracked person in the database using GORM.
// It corresponds to the 'people' table.
//
// Guid is the stable external identifier assigned by the recognizer and is
// immutable once set. People unknown at detection time are created lazily
// with the lowest-ranked access level.
type Person struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Guid          string `gorm:"not null;uniqueIndex" json:"guid"`
	Name          string `gorm:"not null" json:"name"`
	Description   string `json:"description"`
	AccessLevelID uint   `gorm:"not null;index" json:"access_level_id"`

	AccessLevel *AccessLevel `gorm:"foreignKey:AccessLevelID" json:"access_level,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}
