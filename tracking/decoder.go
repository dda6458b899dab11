package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TimeLayout is the fixed wire timestamp layout produced by the camera
// nodes: date and time separated by '-', sub-second fields by '.', exactly
// six fractional digits.
const TimeLayout = "2006-01-02-15.04.05.000000"

var (
	// ErrMalformedMessage indicates a payload that is not well-formed or is
	// missing a required field. The message is discarded.
	ErrMalformedMessage = errors.New("malformed detection message")

	// ErrInvalidTimestamp indicates a Time field that does not match
	// TimeLayout. The message is discarded.
	ErrInvalidTimestamp = errors.New("invalid detection timestamp")
)

// DetectedPerson is one recognizer result inside a detection message.
type DetectedPerson struct {
	Guid                 string
	LastPhotoPath        string
	Validated            bool
	MostSimilarGuid      string
	MostSimilarPhotoPath string
	Similarity           float64
}

// DetectionMessage is one decoded camera observation cycle.
type DetectionMessage struct {
	SourceID string
	Time     time.Time
	RawTime  string
	// ValidationThreshold is carried for audit purposes; the engine does
	// not enforce it.
	ValidationThreshold float64
	DetectedPersons     []DetectedPerson
}

// wire structures match the PascalCase JSON published by the validator
// nodes. Required fields use pointers so absence is distinguishable from
// the zero value.
type wirePerson struct {
	Guid                 *string  `json:"Guid"`
	LastPhotoPath        string   `json:"LastPhotoPath"`
	Validated            bool     `json:"Validated"`
	MostSimilarGuid      *string  `json:"MostSimilarGuid"`
	MostSimilarPhotoPath string   `json:"MostSimilarPhotoPath"`
	Similarity           *float64 `json:"Similarity"`
}

type wireMessage struct {
	SourceID            *string      `json:"SourceId"`
	Time                *string      `json:"Time"`
	ValidationThreshold float64      `json:"ValidationThreshold"`
	DetectedPersons     []wirePerson `json:"DetectedPersons"`
}

// DecodeMessage parses a UTF-8 payload into a DetectionMessage. It has no
// side effects.
func DecodeMessage(payload []byte) (*DetectionMessage, error) {
	var wire wireMessage
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if wire.SourceID == nil || *wire.SourceID == "" {
		return nil, fmt.Errorf("%w: missing SourceId", ErrMalformedMessage)
	}
	if wire.Time == nil {
		return nil, fmt.Errorf("%w: missing Time", ErrMalformedMessage)
	}
	if wire.DetectedPersons == nil {
		return nil, fmt.Errorf("%w: missing DetectedPersons", ErrMalformedMessage)
	}

	parsed, err := time.Parse(TimeLayout, *wire.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, *wire.Time)
	}

	msg := &DetectionMessage{
		SourceID:            *wire.SourceID,
		Time:                parsed,
		RawTime:             *wire.Time,
		ValidationThreshold: wire.ValidationThreshold,
		DetectedPersons:     make([]DetectedPerson, 0, len(wire.DetectedPersons)),
	}

	for i, wp := range wire.DetectedPersons {
		if wp.Guid == nil || *wp.Guid == "" {
			return nil, fmt.Errorf("%w: detected person %d missing Guid", ErrMalformedMessage, i)
		}
		if wp.MostSimilarGuid == nil || *wp.MostSimilarGuid == "" {
			return nil, fmt.Errorf("%w: detected person %d missing MostSimilarGuid", ErrMalformedMessage, i)
		}
		if wp.Similarity == nil {
			return nil, fmt.Errorf("%w: detected person %d missing Similarity", ErrMalformedMessage, i)
		}
		if *wp.Similarity < 0 || *wp.Similarity > 1 {
			return nil, fmt.Errorf("%w: detected person %d similarity %v out of range", ErrMalformedMessage, i, *wp.Similarity)
		}
		msg.DetectedPersons = append(msg.DetectedPersons, DetectedPerson{
			Guid:                 *wp.Guid,
			LastPhotoPath:        wp.LastPhotoPath,
			Validated:            wp.Validated,
			MostSimilarGuid:      *wp.MostSimilarGuid,
			MostSimilarPhotoPath: wp.MostSimilarPhotoPath,
			Similarity:           *wp.Similarity,
		})
	}
	return msg, nil
}
