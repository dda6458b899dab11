package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/movewatch/backend/models"
)

// MovementRepository handles database operations for Movement entities
type MovementRepository struct {
	DB *gorm.DB
}

// NewMovementRepository creates a new instance of MovementRepository
func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{DB: db}
}

// FindLatestForPerson retrieves the most recent movement (by insertion
// order) for a person, open or not. The tracker infers "open" from it.
func (r *MovementRepository) FindLatestForPerson(ctx context.Context, personID uint) (*models.Movement, error) {
	var movement models.Movement
	err := r.DB.WithContext(ctx).
		Where("current_person_id = ?", personID).
		Order("id DESC").
		First(&movement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest movement for person %d: %w", personID, err)
	}
	return &movement, nil
}

// Insert creates a new movement record in the database
func (r *MovementRepository) Insert(ctx context.Context, movement *models.Movement) error {
	if err := r.DB.WithContext(ctx).Create(movement).Error; err != nil {
		return fmt.Errorf("failed to insert movement for person %d: %w", movement.CurrentPersonID, err)
	}
	return nil
}

// Update persists all fields of an existing movement
func (r *MovementRepository) Update(ctx context.Context, movement *models.Movement) error {
	result := r.DB.WithContext(ctx).
		Model(&models.Movement{}).
		Where("id = ?", movement.ID).
		Select("last_detection_time", "last_detection_similarity", "leaving_time", "is_violation").
		Updates(movement)
	if result.Error != nil {
		return fmt.Errorf("failed to update movement %d: %w", movement.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
