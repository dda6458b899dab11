package realtime

import (
	"sort"
	"sync"
	"time"

	"github.com/movewatch/backend/tracking"
)

// Notifier implements the engine's outbound notification dispatch: a
// fire-and-forget violation push per new violation, and coalesced
// table-change pulses drained on a fixed interval so observers are not
// flooded during bursts.
type Notifier struct {
	violations *Hub
	tables     *Hub
	interval   time.Duration

	mu      sync.Mutex
	changed map[string]bool

	stopChan chan struct{}
	doneChan chan struct{}
}

func NewNotifier(violations, tables *Hub, interval time.Duration) *Notifier {
	return &Notifier{
		violations: violations,
		tables:     tables,
		interval:   interval,
		changed:    make(map[string]bool),
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}
}

// ViolationDetected pushes one violation alert. Delivery is best-effort
// and never blocks the tracker.
func (n *Notifier) ViolationDetected(violationID string, detectedAt time.Time, roomName string) {
	n.violations.Broadcast(Event{
		Type:        "violation",
		ViolationID: violationID,
		DetectedAt:  detectedAt.Format(tracking.TimeLayout),
		RoomName:    roomName,
		Timestamp:   time.Now().Unix(),
	})
}

// TableChanged marks an entity kind as dirty. Repeated marks within one
// flush interval collapse into a single pulse.
func (n *Notifier) TableChanged(kind string) {
	n.mu.Lock()
	n.changed[kind] = true
	n.mu.Unlock()
}

// Flush drains the dirty set, broadcasting one pulse per changed kind, and
// returns the kinds pulsed (sorted, for deterministic behavior).
func (n *Notifier) Flush() []string {
	n.mu.Lock()
	kinds := make([]string, 0, len(n.changed))
	for kind := range n.changed {
		kinds = append(kinds, kind)
		delete(n.changed, kind)
	}
	n.mu.Unlock()

	sort.Strings(kinds)
	for _, kind := range kinds {
		n.tables.Broadcast(Event{
			Type:      "table_update",
			Table:     kind,
			Timestamp: time.Now().Unix(),
		})
	}
	return kinds
}

// Start launches the periodic flusher.
func (n *Notifier) Start() {
	go func() {
		defer close(n.doneChan)
		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n.Flush()
			case <-n.stopChan:
				n.Flush()
				return
			}
		}
	}()
}

// Stop halts the flusher after one final flush.
func (n *Notifier) Stop() {
	close(n.stopChan)
	<-n.doneChan
}
