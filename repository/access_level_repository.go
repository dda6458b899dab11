package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/movewatch/backend/models"
)

const secondsPerDay = 24 * 3600

// AccessLevelRepository handles database operations for AccessLevel entities
type AccessLevelRepository struct {
	DB *gorm.DB
}

// NewAccessLevelRepository creates a new instance of AccessLevelRepository
func NewAccessLevelRepository(db *gorm.DB) *AccessLevelRepository {
	return &AccessLevelRepository{DB: db}
}

// Create validates and persists an access level. Windows that wrap
// midnight (start after end) or fall outside a day are rejected here so
// the policy evaluator never sees them.
func (r *AccessLevelRepository) Create(ctx context.Context, level *models.AccessLevel) error {
	if level.StartSeconds < 0 || level.StartSeconds >= secondsPerDay ||
		level.EndSeconds < 0 || level.EndSeconds >= secondsPerDay ||
		level.StartSeconds > level.EndSeconds {
		return fmt.Errorf("%w: start=%d end=%d", ErrInvalidWindow, level.StartSeconds, level.EndSeconds)
	}
	if err := r.DB.WithContext(ctx).Create(level).Error; err != nil {
		return fmt.Errorf("failed to create access level %q: %w", level.Name, err)
	}
	return nil
}

// ListOrderedByRank retrieves all access levels, lowest rank first.
func (r *AccessLevelRepository) ListOrderedByRank(ctx context.Context) ([]models.AccessLevel, error) {
	var levels []models.AccessLevel
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&levels).Error; err != nil {
		return nil, fmt.Errorf("failed to list access levels: %w", err)
	}
	return levels, nil
}

// Lowest retrieves the lowest-ranked access level, the safe default for
// people created on first sighting.
func (r *AccessLevelRepository) Lowest(ctx context.Context) (*models.AccessLevel, error) {
	var level models.AccessLevel
	err := r.DB.WithContext(ctx).Order("id ASC").First(&level).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lowest access level: %w", err)
	}
	return &level, nil
}
