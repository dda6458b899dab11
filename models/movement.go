package models

// Movement represents one continuous presence of a person in a room using
// GORM. It corresponds to the 'movements' table.
//
// All times are stored as Unix microseconds to preserve the sub-second
// precision of the detection stream. LeavingTime stays nil while the
// movement is open; "open" is the most recent movement for the person with
// no successor in a different room.
type Movement struct {
	ID                   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID               uint   `gorm:"not null;index" json:"room_id"`
	CameraID             uint   `gorm:"not null" json:"camera_id"`
	CurrentPersonID      uint   `gorm:"not null;index" json:"current_person_id"`
	MostSimilarPersonID  uint   `gorm:"not null" json:"most_similar_person_id"` // recognizer's best match, audit only
	LastPhotoPath        string `json:"last_photo_path"`
	MostSimilarPhotoPath string `json:"most_similar_photo_path"`

	FirstDetectionSimilarity float64 `gorm:"not null" json:"first_detection_similarity"`
	LastDetectionSimilarity  float64 `gorm:"not null" json:"last_detection_similarity"`

	EnteringTime      int64  `gorm:"not null" json:"entering_time"`       // Unix microseconds
	LastDetectionTime int64  `gorm:"not null" json:"last_detection_time"` // Unix microseconds
	LeavingTime       *int64 `json:"leaving_time,omitempty"`              // Unix microseconds, nil while open

	// set at most once; a flagged movement is never re-evaluated
	IsViolation bool `gorm:"not null;default:false" json:"is_violation"`

	Room              *Room   `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Camera            *Camera `gorm:"foreignKey:CameraID" json:"camera,omitempty"`
	CurrentPerson     *Person `gorm:"foreignKey:CurrentPersonID" json:"current_person,omitempty"`
	MostSimilarPerson *Person `gorm:"foreignKey:MostSimilarPersonID" json:"most_similar_person,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Movement) TableName() string {
	return "movements"
}
