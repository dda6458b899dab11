package tracking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/movewatch/backend/models"
	"github.com/movewatch/backend/repository"
)

// Dispatcher receives the engine's outbound notifications. Implementations
// must never block: delivery is best-effort and failures are logged, not
// retried.
type Dispatcher interface {
	ViolationDetected(violationID string, detectedAt time.Time, roomName string)
	TableChanged(kind string)
}

// Detection is one resolved detected-person record ready for tracking.
// Camera must carry its Room and the room's AccessLevel; Person must carry
// its AccessLevel.
type Detection struct {
	Camera               *models.Camera
	Person               *models.Person
	MostSimilarPerson    *models.Person
	DetectedAt           time.Time
	Similarity           float64
	LastPhotoPath        string
	MostSimilarPhotoPath string
}

// Tracker owns the open/closed lifecycle of movements. All callers must
// hold the per-guid lock for the detection's person across RecordDetection.
type Tracker struct {
	store      repository.Store
	dispatcher Dispatcher
}

func NewTracker(store repository.Store, dispatcher Dispatcher) *Tracker {
	return &Tracker{store: store, dispatcher: dispatcher}
}

// RecordDetection applies one detection to the person's movement history:
// it continues the open movement when the room matches, otherwise closes
// it and opens a new one. Policy is evaluated at most once per movement;
// the first violating detection flags the movement, persists a violation
// row and notifies the dispatcher. The read-modify-write runs in one store
// transaction.
func (t *Tracker) RecordDetection(ctx context.Context, d Detection) (*models.Movement, error) {
	var movement *models.Movement
	var violation *models.Violation

	err := t.store.Transaction(ctx, func(tx repository.Store) error {
		movement = nil
		violation = nil

		last, err := tx.FindLatestMovementForPerson(ctx, d.Person.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		at := d.DetectedAt.UnixMicro()
		switch {
		case last == nil:
			movement = newMovement(d, at)
			if err := tx.InsertMovement(ctx, movement); err != nil {
				return err
			}
		case last.RoomID != d.Camera.RoomID:
			leavingTime := at
			last.LeavingTime = &leavingTime
			if err := tx.UpdateMovement(ctx, last); err != nil {
				return err
			}
			movement = newMovement(d, at)
			if err := tx.InsertMovement(ctx, movement); err != nil {
				return err
			}
		default:
			last.LastDetectionTime = at
			last.LastDetectionSimilarity = d.Similarity
			if err := tx.UpdateMovement(ctx, last); err != nil {
				return err
			}
			movement = last
		}

		// a movement that already produced a violation is never re-evaluated
		if movement.IsViolation {
			return nil
		}
		verdict := EvaluateAccess(d.Person.AccessLevel, d.Camera.Room.AccessLevel, d.DetectedAt)
		if !verdict.Violation {
			return nil
		}

		movement.IsViolation = true
		if err := tx.UpdateMovement(ctx, movement); err != nil {
			return err
		}
		violation = &models.Violation{MovementID: movement.ID, DetectedAt: at, Type: verdict.Type}
		return tx.InsertViolation(ctx, violation)
	})
	if err != nil {
		return nil, err
	}

	// notify only after the transaction committed so the pushed id is durable
	if violation != nil {
		t.dispatcher.ViolationDetected(
			strconv.FormatUint(uint64(violation.ID), 10),
			d.DetectedAt,
			d.Camera.Room.Name,
		)
		t.dispatcher.TableChanged("Violation")
	}
	return movement, nil
}

func newMovement(d Detection, at int64) *models.Movement {
	return &models.Movement{
		RoomID:                   d.Camera.RoomID,
		CameraID:                 d.Camera.ID,
		CurrentPersonID:          d.Person.ID,
		MostSimilarPersonID:      d.MostSimilarPerson.ID,
		LastPhotoPath:            d.LastPhotoPath,
		MostSimilarPhotoPath:     d.MostSimilarPhotoPath,
		FirstDetectionSimilarity: d.Similarity,
		LastDetectionSimilarity:  d.Similarity,
		EnteringTime:             at,
		LastDetectionTime:        at,
	}
}
