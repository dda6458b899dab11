package models

// Room represents a monitored room using GORM.
// It corresponds to the 'rooms' table.
type Room struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string `gorm:"not null" json:"name"`
	Description   string `json:"description"`
	AccessLevelID uint   `gorm:"not null;index" json:"access_level_id"` // minimum rank to enter without a violation

	AccessLevel *AccessLevel `gorm:"foreignKey:AccessLevelID" json:"access_level,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Room) TableName() string {
	return "rooms"
}
