package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/movewatch/backend/models"
)

// CameraRepository handles database operations for Camera entities
type CameraRepository struct {
	DB *gorm.DB
}

// NewCameraRepository creates a new instance of CameraRepository
func NewCameraRepository(db *gorm.DB) *CameraRepository {
	return &CameraRepository{DB: db}
}

// FindBySourceID resolves a camera by the source id carried in wire
// messages (the decimal string form of the primary key), preloading its
// room and the room's access level. A non-numeric source id is treated as
// not found without touching the database.
func (r *CameraRepository) FindBySourceID(ctx context.Context, sourceID string) (*models.Camera, error) {
	id, err := strconv.ParseUint(sourceID, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}

	var camera models.Camera
	err = r.DB.WithContext(ctx).
		Preload("Room").
		Preload("Room.AccessLevel").
		First(&camera, uint(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find camera by source id %q: %w", sourceID, err)
	}
	return &camera, nil
}

// Create creates a new camera record in the database
func (r *CameraRepository) Create(ctx context.Context, camera *models.Camera) error {
	if err := r.DB.WithContext(ctx).Create(camera).Error; err != nil {
		return fmt.Errorf("failed to create camera %q: %w", camera.Name, err)
	}
	return nil
}
