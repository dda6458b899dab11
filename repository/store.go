package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/movewatch/backend/models"
)

// GormStore aggregates the per-entity repositories over one GORM handle
// and implements the Store interface consumed by the tracking engine.
type GormStore struct {
	db           *gorm.DB
	Cameras      *CameraRepository
	People       *PersonRepository
	AccessLevels *AccessLevelRepository
	Movements    *MovementRepository
	Violations   *ViolationRepository
}

// NewGormStore creates a store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:           db,
		Cameras:      NewCameraRepository(db),
		People:       NewPersonRepository(db),
		AccessLevels: NewAccessLevelRepository(db),
		Movements:    NewMovementRepository(db),
		Violations:   NewViolationRepository(db),
	}
}

func (s *GormStore) FindCameraBySourceID(ctx context.Context, sourceID string) (*models.Camera, error) {
	return s.Cameras.FindBySourceID(ctx, sourceID)
}

func (s *GormStore) FindPersonByGuid(ctx context.Context, guid string) (*models.Person, error) {
	return s.People.FindByGuid(ctx, guid)
}

func (s *GormStore) CreatePerson(ctx context.Context, person *models.Person) error {
	return s.People.Create(ctx, person)
}

func (s *GormStore) ListAccessLevelsOrderedByRank(ctx context.Context) ([]models.AccessLevel, error) {
	return s.AccessLevels.ListOrderedByRank(ctx)
}

func (s *GormStore) FindLatestMovementForPerson(ctx context.Context, personID uint) (*models.Movement, error) {
	return s.Movements.FindLatestForPerson(ctx, personID)
}

func (s *GormStore) InsertMovement(ctx context.Context, movement *models.Movement) error {
	return s.Movements.Insert(ctx, movement)
}

func (s *GormStore) UpdateMovement(ctx context.Context, movement *models.Movement) error {
	return s.Movements.Update(ctx, movement)
}

func (s *GormStore) InsertViolation(ctx context.Context, violation *models.Violation) error {
	return s.Violations.Insert(ctx, violation)
}

func (s *GormStore) FindLatestViolationForMovement(ctx context.Context, movementID uint) (*models.Violation, error) {
	return s.Violations.FindLatestForMovement(ctx, movementID)
}

// Transaction runs fn against a store bound to one database transaction.
// Any error from fn rolls the whole unit back.
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}
