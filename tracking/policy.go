package tracking

import (
	"time"

	"github.com/movewatch/backend/models"
)

// Verdict is the result of evaluating a detection against access policy.
type Verdict struct {
	Violation bool
	Type      string
}

// EvaluateAccess decides whether a detection breaks access policy. It is
// deterministic and performs no I/O.
//
// A person ranked below the room's required level is an access-level
// breach regardless of time. With sufficient rank, the detection's
// time-of-day is checked against the person's permitted daily window
// [start, end); equal start and end mean the level is unrestricted.
// Windows never wrap midnight; that is rejected at creation time.
func EvaluateAccess(person, room *models.AccessLevel, detectedAt time.Time) Verdict {
	if person.ID < room.ID {
		return Verdict{Violation: true, Type: models.ViolationTypeAccessLevel}
	}
	if person.Unrestricted() {
		return Verdict{}
	}
	secondOfDay := detectedAt.Hour()*3600 + detectedAt.Minute()*60 + detectedAt.Second()
	if secondOfDay < person.StartSeconds || secondOfDay >= person.EndSeconds {
		return Verdict{Violation: true, Type: models.ViolationTypeSchedule}
	}
	return Verdict{}
}
