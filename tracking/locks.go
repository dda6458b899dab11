package tracking

import "sync"

// GuidLocks serializes work per person guid. Detections for the same guid
// take turns; detections for different guids proceed in parallel. Entries
// are reference counted and removed once the last holder releases.
type GuidLocks struct {
	mu      sync.Mutex
	entries map[string]*guidLock
}

type guidLock struct {
	mu   sync.Mutex
	refs int
}

func NewGuidLocks() *GuidLocks {
	return &GuidLocks{entries: make(map[string]*guidLock)}
}

// Lock acquires the exclusive section for guid and returns its release
// function.
func (l *GuidLocks) Lock(guid string) func() {
	l.mu.Lock()
	entry, ok := l.entries[guid]
	if !ok {
		entry = &guidLock{}
		l.entries[guid] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, guid)
		}
		l.mu.Unlock()
	}
}
