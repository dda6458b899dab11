package tracking

import (
	"testing"
	"time"

	"github.com/movewatch/backend/models"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(TimeLayout, value)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", value, err)
	}
	return parsed
}

func TestEvaluateAccess(t *testing.T) {
	window := func(id uint, start, end int) *models.AccessLevel {
		return &models.AccessLevel{ID: id, StartSeconds: start, EndSeconds: end}
	}
	tenToSix := func(id uint) *models.AccessLevel {
		return window(id, 10*3600, 18*3600)
	}

	tests := []struct {
		name          string
		person        *models.AccessLevel
		room          *models.AccessLevel
		at            string
		wantViolation bool
		wantType      string
	}{
		{
			name:          "insufficient rank inside window",
			person:        tenToSix(1),
			room:          tenToSix(2),
			at:            "2025-03-01-12.00.00.000000",
			wantViolation: true,
			wantType:      models.ViolationTypeAccessLevel,
		},
		{
			name:          "insufficient rank outside window still level breach",
			person:        tenToSix(1),
			room:          tenToSix(3),
			at:            "2025-03-01-03.00.00.000000",
			wantViolation: true,
			wantType:      models.ViolationTypeAccessLevel,
		},
		{
			name:   "equal rank inside window",
			person: tenToSix(2),
			room:   tenToSix(2),
			at:     "2025-03-01-12.00.00.000000",
		},
		{
			name:   "higher rank inside window",
			person: tenToSix(3),
			room:   tenToSix(1),
			at:     "2025-03-01-17.59.59.999999",
		},
		{
			name:          "one second before window opens",
			person:        tenToSix(2),
			room:          tenToSix(1),
			at:            "2025-03-01-09.59.00.000000",
			wantViolation: true,
			wantType:      models.ViolationTypeSchedule,
		},
		{
			name:          "one minute after window closes",
			person:        tenToSix(2),
			room:          tenToSix(1),
			at:            "2025-03-01-18.01.00.000000",
			wantViolation: true,
			wantType:      models.ViolationTypeSchedule,
		},
		{
			name:          "window end is exclusive",
			person:        tenToSix(2),
			room:          tenToSix(1),
			at:            "2025-03-01-18.00.00.000000",
			wantViolation: true,
			wantType:      models.ViolationTypeSchedule,
		},
		{
			name:   "window start is inclusive",
			person: tenToSix(2),
			room:   tenToSix(1),
			at:     "2025-03-01-10.00.00.000000",
		},
		{
			name:   "unrestricted level never schedule breaches at midnight",
			person: window(2, 0, 0),
			room:   tenToSix(1),
			at:     "2025-03-01-00.00.00.000000",
		},
		{
			name:   "unrestricted level never schedule breaches late",
			person: window(2, 13*3600, 13*3600),
			room:   tenToSix(1),
			at:     "2025-03-01-23.59.59.000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := EvaluateAccess(tt.person, tt.room, mustParse(t, tt.at))
			if verdict.Violation != tt.wantViolation {
				t.Fatalf("Violation = %v, want %v", verdict.Violation, tt.wantViolation)
			}
			if verdict.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", verdict.Type, tt.wantType)
			}
		})
	}
}

func TestEvaluateAccessDeterministic(t *testing.T) {
	person := &models.AccessLevel{ID: 2, StartSeconds: 10 * 3600, EndSeconds: 18 * 3600}
	room := &models.AccessLevel{ID: 2, StartSeconds: 10 * 3600, EndSeconds: 18 * 3600}
	at := mustParse(t, "2025-03-01-09.00.00.000000")

	first := EvaluateAccess(person, room, at)
	for i := 0; i < 5; i++ {
		if got := EvaluateAccess(person, room, at); got != first {
			t.Fatalf("verdict changed between identical evaluations: %+v vs %+v", got, first)
		}
	}
}
