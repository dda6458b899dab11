package repository

import (
	"context"
	"errors"

	"github.com/movewatch/backend/models"
)

// ErrNotFound is returned by lookups that match no row. The GORM-backed
// repositories translate gorm.ErrRecordNotFound into it so callers never
// depend on the ORM.
var ErrNotFound = errors.New("record not found")

// ErrInvalidWindow is returned when an access level's daily window is
// rejected at creation time.
var ErrInvalidWindow = errors.New("invalid access level window")

// CameraRepositoryInterface defines the methods for camera data operations
type CameraRepositoryInterface interface {
	FindBySourceID(ctx context.Context, sourceID string) (*models.Camera, error)
	Create(ctx context.Context, camera *models.Camera) error
}

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	FindByGuid(ctx context.Context, guid string) (*models.Person, error)
	Create(ctx context.Context, person *models.Person) error
}

// AccessLevelRepositoryInterface defines the methods for access level data
// operations. Create validates the daily window and rejects configurations
// with StartSeconds > EndSeconds or values outside a day.
type AccessLevelRepositoryInterface interface {
	Create(ctx context.Context, level *models.AccessLevel) error
	ListOrderedByRank(ctx context.Context) ([]models.AccessLevel, error)
	Lowest(ctx context.Context) (*models.AccessLevel, error)
}

// MovementRepositoryInterface defines the methods for movement data operations
type MovementRepositoryInterface interface {
	FindLatestForPerson(ctx context.Context, personID uint) (*models.Movement, error)
	Insert(ctx context.Context, movement *models.Movement) error
	Update(ctx context.Context, movement *models.Movement) error
}

// ViolationRepositoryInterface defines the methods for violation data operations
type ViolationRepositoryInterface interface {
	Insert(ctx context.Context, violation *models.Violation) error
	FindLatestForMovement(ctx context.Context, movementID uint) (*models.Violation, error)
}

// Store is the persistence boundary consumed by the tracking engine.
// Transaction runs fn against a store whose operations share one atomic
// unit; the engine wraps "read last movement → write movement → write
// violation" in it.
type Store interface {
	FindCameraBySourceID(ctx context.Context, sourceID string) (*models.Camera, error)
	FindPersonByGuid(ctx context.Context, guid string) (*models.Person, error)
	CreatePerson(ctx context.Context, person *models.Person) error
	ListAccessLevelsOrderedByRank(ctx context.Context) ([]models.AccessLevel, error)
	FindLatestMovementForPerson(ctx context.Context, personID uint) (*models.Movement, error)
	InsertMovement(ctx context.Context, movement *models.Movement) error
	UpdateMovement(ctx context.Context, movement *models.Movement) error
	InsertViolation(ctx context.Context, violation *models.Violation) error
	FindLatestViolationForMovement(ctx context.Context, movementID uint) (*models.Violation, error)

	Transaction(ctx context.Context, fn func(Store) error) error
}
