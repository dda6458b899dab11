package models

import "strconv"

// Camera represents a camera-processing node inside a room using GORM.
// It corresponds to the 'cameras' table. Inbound messages identify the
// camera by the decimal string form of its ID.
type Camera struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	RoomID      uint   `gorm:"not null;index" json:"room_id"`

	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Camera) TableName() string {
	return "cameras"
}

// SourceID returns the camera id as it appears in wire messages.
func (c *Camera) SourceID() string {
	return strconv.FormatUint(uint64(c.ID), 10)
}
