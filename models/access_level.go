package models

// AccessLevel represents a privilege tier using GORM.
// It corresponds to the 'access_levels' table.
//
// The ID doubles as the privilege rank: a lower ID is a lower privilege.
// StartSeconds/EndSeconds bound the permitted daily time window as seconds
// since midnight; equal values mean the window is unrestricted.
type AccessLevel struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Description  string `json:"description"`
	StartSeconds int    `gorm:"not null" json:"start_seconds"`
	EndSeconds   int    `gorm:"not null" json:"end_seconds"`
}

// TableName explicitly sets the table name for GORM.
func (AccessLevel) TableName() string {
	return "access_levels"
}

// Unrestricted reports whether the level carries no daily schedule.
func (a *AccessLevel) Unrestricted() bool {
	return a.StartSeconds == a.EndSeconds
}
