package models

// Violation rule types.
const (
	ViolationTypeAccessLevel = "access-level breach"
	ViolationTypeSchedule    = "schedule breach"
)

// Violation represents a detected access-rule breach using GORM.
// It corresponds to the 'violations' table. A movement has at most one
// initiating violation, guarded by Movement.IsViolation.
type Violation struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	MovementID uint   `gorm:"not null;index" json:"movement_id"`
	DetectedAt int64  `gorm:"not null" json:"detected_at"` // Unix microseconds
	Type       string `gorm:"not null" json:"type"`

	Movement *Movement `gorm:"foreignKey:MovementID" json:"movement,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Violation) TableName() string {
	return "violations"
}
