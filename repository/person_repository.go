package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/movewatch/backend/models"
)

// PersonRepository handles database operations for Person entities
type PersonRepository struct {
	DB *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

// FindByGuid retrieves a person by their external guid, preloading the
// access level used by the policy evaluator.
func (r *PersonRepository) FindByGuid(ctx context.Context, guid string) (*models.Person, error) {
	var person models.Person
	err := r.DB.WithContext(ctx).
		Preload("AccessLevel").
		Where("guid = ?", guid).
		First(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find person by guid %q: %w", guid, err)
	}
	return &person, nil
}

// Create creates a new person record in the database
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	if err := r.DB.WithContext(ctx).Omit("AccessLevel").Create(person).Error; err != nil {
		return fmt.Errorf("failed to create person %q: %w", person.Guid, err)
	}
	return nil
}
