package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/movewatch/backend/models"
)

// ViolationRepository handles database operations for Violation entities
type ViolationRepository struct {
	DB *gorm.DB
}

// NewViolationRepository creates a new instance of ViolationRepository
func NewViolationRepository(db *gorm.DB) *ViolationRepository {
	return &ViolationRepository{DB: db}
}

// Insert creates a new violation record in the database
func (r *ViolationRepository) Insert(ctx context.Context, violation *models.Violation) error {
	if err := r.DB.WithContext(ctx).Create(violation).Error; err != nil {
		return fmt.Errorf("failed to insert violation for movement %d: %w", violation.MovementID, err)
	}
	return nil
}

// FindLatestForMovement retrieves the most recent violation referencing a
// movement.
func (r *ViolationRepository) FindLatestForMovement(ctx context.Context, movementID uint) (*models.Violation, error) {
	var violation models.Violation
	err := r.DB.WithContext(ctx).
		Where("movement_id = ?", movementID).
		Order("id DESC").
		First(&violation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest violation for movement %d: %w", movementID, err)
	}
	return &violation, nil
}
