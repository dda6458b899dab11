package tracking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/movewatch/backend/database"
	"github.com/movewatch/backend/models"
	"github.com/movewatch/backend/repository"
)

// ErrUnknownCamera indicates a message from a source id with no registered
// camera. The message is discarded and not retried: the source is
// unregistered, not transient.
var ErrUnknownCamera = errors.New("unknown camera")

// Coordinator orchestrates one decoded message end-to-end: camera
// resolution, person resolution, movement tracking per detected person,
// and change marking. Detected-person records are processed in isolation
// so one failing record cannot poison the batch.
type Coordinator struct {
	store      repository.Store
	tracker    *Tracker
	locks      *GuidLocks
	dispatcher Dispatcher
	eventLog   *database.EventLog

	retries int
	backoff time.Duration
}

// NewCoordinator builds a coordinator. eventLog may be nil to disable the
// inbound payload audit trail. retries is the total number of persistence
// attempts per detected-person record.
func NewCoordinator(store repository.Store, tracker *Tracker, dispatcher Dispatcher, eventLog *database.EventLog, retries int, backoff time.Duration) *Coordinator {
	if retries < 1 {
		retries = 1
	}
	return &Coordinator{
		store:      store,
		tracker:    tracker,
		locks:      NewGuidLocks(),
		dispatcher: dispatcher,
		eventLog:   eventLog,
		retries:    retries,
		backoff:    backoff,
	}
}

// HandleMessage decodes and processes one raw payload. Decode failures and
// unknown cameras discard the message with an error; per-person
// persistence failures are logged and do not fail the message.
func (c *Coordinator) HandleMessage(ctx context.Context, payload []byte) error {
	receivedAt := time.Now()

	msg, err := DecodeMessage(payload)
	if err != nil {
		c.recordEvent(ctx, "", database.EventStatusMalformed, payload, receivedAt)
		log.Printf("tracking: discarding message: %v (payload excerpt: %q)", err, excerpt(payload, 128))
		return err
	}

	camera, err := c.store.FindCameraBySourceID(ctx, msg.SourceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.recordEvent(ctx, msg.SourceID, database.EventStatusUnknownCamera, payload, receivedAt)
			log.Printf("tracking: camera %q does not exist, discarding message", msg.SourceID)
			return fmt.Errorf("%w: source id %q", ErrUnknownCamera, msg.SourceID)
		}
		return fmt.Errorf("failed to resolve camera %q: %w", msg.SourceID, err)
	}
	c.recordEvent(ctx, msg.SourceID, database.EventStatusOK, payload, receivedAt)

	description := fmt.Sprintf("Detected at '%s' in room '%s' by camera '%d'.", msg.RawTime, camera.Room.Name, camera.ID)

	for i := range msg.DetectedPersons {
		dp := &msg.DetectedPersons[i]
		if err := c.processDetectedPerson(ctx, camera, msg, dp, description); err != nil {
			log.Printf("tracking: detection of %q via camera %d failed: %v", dp.Guid, camera.ID, err)
		}
	}
	return nil
}

// processDetectedPerson handles one detected-person record under the
// per-guid exclusive section, retrying all of its persistence (person
// resolution included) with bounded backoff.
func (c *Coordinator) processDetectedPerson(ctx context.Context, camera *models.Camera, msg *DetectionMessage, dp *DetectedPerson, description string) error {
	unlock := c.locks.Lock(dp.Guid)
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if lastErr = c.recordOnce(ctx, camera, msg, dp, description); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || attempt == c.retries {
			break
		}
		log.Printf("tracking: attempt %d/%d for %q failed: %v, retrying", attempt, c.retries, dp.Guid, lastErr)
		select {
		case <-time.After(c.backoff * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// recordOnce is one attempt at persisting a detected-person record.
func (c *Coordinator) recordOnce(ctx context.Context, camera *models.Camera, msg *DetectionMessage, dp *DetectedPerson, description string) error {
	person, err := c.resolvePerson(ctx, dp.Guid, description)
	if err != nil {
		return err
	}

	mostSimilar := person
	if dp.MostSimilarGuid != dp.Guid {
		mostSimilar, err = c.resolvePerson(ctx, dp.MostSimilarGuid, description)
		if err != nil {
			return err
		}
	}

	detection := Detection{
		Camera:               camera,
		Person:               person,
		MostSimilarPerson:    mostSimilar,
		DetectedAt:           msg.Time,
		Similarity:           dp.Similarity,
		LastPhotoPath:        dp.LastPhotoPath,
		MostSimilarPhotoPath: dp.MostSimilarPhotoPath,
	}
	if _, err := c.tracker.RecordDetection(ctx, detection); err != nil {
		return err
	}
	c.dispatcher.TableChanged("Movement")
	return nil
}

// resolvePerson looks up a person by guid, creating them on first sighting
// with the lowest-ranked access level as the safe default. Creation races
// lose to the existing row.
func (c *Coordinator) resolvePerson(ctx context.Context, guid, description string) (*models.Person, error) {
	person, err := c.store.FindPersonByGuid(ctx, guid)
	if err == nil {
		return person, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	levels, err := c.store.ListAccessLevelsOrderedByRank(ctx)
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, errors.New("no access levels configured")
	}

	created := &models.Person{
		Guid:          guid,
		Name:          "Anonymous " + guidPrefix(guid),
		Description:   description,
		AccessLevelID: levels[0].ID,
		AccessLevel:   &levels[0],
	}
	if err := c.store.CreatePerson(ctx, created); err != nil {
		// a concurrent detection may have created the same guid first
		if existing, findErr := c.store.FindPersonByGuid(ctx, guid); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	c.dispatcher.TableChanged("Person")
	return created, nil
}

func guidPrefix(guid string) string {
	if len(guid) > 8 {
		return guid[:8]
	}
	return guid
}

func (c *Coordinator) recordEvent(ctx context.Context, sourceID, status string, payload []byte, receivedAt time.Time) {
	if c.eventLog == nil {
		return
	}
	if err := c.eventLog.Record(ctx, sourceID, status, payload, receivedAt); err != nil {
		log.Printf("tracking: failed to record inbound event: %v", err)
	}
}

// excerpt truncates payload for logging without splitting a rune.
func excerpt(payload []byte, max int) string {
	if len(payload) <= max {
		return string(payload)
	}
	for max > 0 && !utf8.RuneStart(payload[max]) {
		max--
	}
	return string(payload[:max]) + "..."
}
