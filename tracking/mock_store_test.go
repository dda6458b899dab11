package tracking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/movewatch/backend/models"
	"github.com/movewatch/backend/repository"
)

// memStore is an in-memory repository.Store used by the engine tests.
// Lookups return copies so callers mutate nothing until they write back,
// mirroring row-fetch semantics.
type memStore struct {
	mu sync.Mutex

	levels     []models.AccessLevel
	cameras    map[string]*models.Camera
	people     map[string]*models.Person
	movements  []*models.Movement
	violations []*models.Violation

	nextPersonID    uint
	nextMovementID  uint
	nextViolationID uint

	// failure injection: remaining failures per person id / guid
	failInsertMovementFor map[uint]int
	failCreatePersonGuid  map[string]int
}

var _ repository.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		cameras:               make(map[string]*models.Camera),
		people:                make(map[string]*models.Person),
		nextPersonID:          1,
		nextMovementID:        1,
		nextViolationID:       1,
		failInsertMovementFor: make(map[uint]int),
		failCreatePersonGuid:  make(map[string]int),
	}
}

func (s *memStore) addLevel(id uint, start, end int) *models.AccessLevel {
	level := models.AccessLevel{ID: id, Name: fmt.Sprintf("level %d", id), StartSeconds: start, EndSeconds: end}
	s.levels = append(s.levels, level)
	return &s.levels[len(s.levels)-1]
}

func (s *memStore) addCamera(id uint, room *models.Room) *models.Camera {
	camera := &models.Camera{ID: id, Name: fmt.Sprintf("camera %d", id), RoomID: room.ID, Room: room}
	s.cameras[strconv.FormatUint(uint64(id), 10)] = camera
	return camera
}

func (s *memStore) addPerson(guid string, level *models.AccessLevel) *models.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	person := &models.Person{ID: s.nextPersonID, Guid: guid, Name: "person " + guid, AccessLevelID: level.ID, AccessLevel: level}
	s.nextPersonID++
	s.people[guid] = person
	return person
}

func (s *memStore) FindCameraBySourceID(ctx context.Context, sourceID string) (*models.Camera, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	camera, ok := s.cameras[sourceID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *camera
	return &copied, nil
}

func (s *memStore) FindPersonByGuid(ctx context.Context, guid string) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	person, ok := s.people[guid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *person
	return &copied, nil
}

func (s *memStore) CreatePerson(ctx context.Context, person *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.failCreatePersonGuid[person.Guid]; n > 0 {
		s.failCreatePersonGuid[person.Guid] = n - 1
		return errors.New("injected create person failure")
	}
	if _, exists := s.people[person.Guid]; exists {
		return errors.New("UNIQUE constraint failed: people.guid")
	}
	person.ID = s.nextPersonID
	s.nextPersonID++
	copied := *person
	s.people[person.Guid] = &copied
	return nil
}

func (s *memStore) ListAccessLevelsOrderedByRank(ctx context.Context) ([]models.AccessLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AccessLevel, len(s.levels))
	copy(out, s.levels)
	return out, nil
}

func (s *memStore) FindLatestMovementForPerson(ctx context.Context, personID uint) (*models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.movements) - 1; i >= 0; i-- {
		if s.movements[i].CurrentPersonID == personID {
			copied := *s.movements[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) InsertMovement(ctx context.Context, movement *models.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.failInsertMovementFor[movement.CurrentPersonID]; n > 0 {
		s.failInsertMovementFor[movement.CurrentPersonID] = n - 1
		return errors.New("injected insert movement failure")
	}
	movement.ID = s.nextMovementID
	s.nextMovementID++
	copied := *movement
	s.movements = append(s.movements, &copied)
	return nil
}

func (s *memStore) UpdateMovement(ctx context.Context, movement *models.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.movements {
		if existing.ID == movement.ID {
			copied := *movement
			s.movements[i] = &copied
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *memStore) InsertViolation(ctx context.Context, violation *models.Violation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	violation.ID = s.nextViolationID
	s.nextViolationID++
	copied := *violation
	s.violations = append(s.violations, &copied)
	return nil
}

func (s *memStore) FindLatestViolationForMovement(ctx context.Context, movementID uint) (*models.Violation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.violations) - 1; i >= 0; i-- {
		if s.violations[i].MovementID == movementID {
			copied := *s.violations[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

func (s *memStore) movementsForPerson(personID uint) []models.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Movement
	for _, m := range s.movements {
		if m.CurrentPersonID == personID {
			out = append(out, *m)
		}
	}
	return out
}

// mockDispatcher records notifications for assertions.
type mockDispatcher struct {
	mu         sync.Mutex
	violations []violationPush
	tables     []string
}

type violationPush struct {
	ID         string
	DetectedAt time.Time
	RoomName   string
}

var _ Dispatcher = (*mockDispatcher)(nil)

func (d *mockDispatcher) ViolationDetected(violationID string, detectedAt time.Time, roomName string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.violations = append(d.violations, violationPush{ID: violationID, DetectedAt: detectedAt, RoomName: roomName})
}

func (d *mockDispatcher) TableChanged(kind string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables = append(d.tables, kind)
}

func (d *mockDispatcher) violationCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.violations)
}

func (d *mockDispatcher) tableMarks(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	for _, k := range d.tables {
		if k == kind {
			count++
		}
	}
	return count
}
