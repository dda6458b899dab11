package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Event dispositions recorded in the audit log.
const (
	EventStatusOK            = "ok"
	EventStatusMalformed     = "malformed"
	EventStatusUnknownCamera = "unknown_camera"
)

// EventLog is an append-only audit trail of inbound detection payloads,
// kept in a raw SQL table outside the GORM entity graph.
type EventLog struct {
	DB         *sql.DB
	MaxExcerpt int
}

// EventLogEntry is one recorded inbound payload.
type EventLogEntry struct {
	ID         string
	SourceID   string
	Status     string
	Payload    string
	ReceivedAt int64 // Unix microseconds
}

func NewEventLog(db *sql.DB, maxExcerpt int) (*EventLog, error) {
	sqlStmt := `
	CREATE TABLE IF NOT EXISTS detection_events (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		status TEXT NOT NULL,
		payload TEXT NOT NULL,
		received_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_detection_events_received_at ON detection_events(received_at);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		return nil, fmt.Errorf("failed to create detection_events table: %w", err)
	}
	if maxExcerpt <= 0 {
		maxExcerpt = 2048
	}
	return &EventLog{DB: db, MaxExcerpt: maxExcerpt}, nil
}

// Record appends one inbound payload with its disposition. The payload is
// truncated to at most MaxExcerpt bytes on a rune boundary; sourceID may
// be empty when the payload never decoded far enough to yield one.
func (l *EventLog) Record(ctx context.Context, sourceID, status string, payload []byte, receivedAt time.Time) error {
	excerpt := truncateOnRune(string(payload), l.MaxExcerpt)

	queryBuilder := psql.Insert("detection_events").
		Columns("id", "source_id", "status", "payload", "received_at").
		Values(uuid.NewString(), sourceID, status, excerpt, receivedAt.UnixMicro())

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build SQL query for event log insert: %w", err)
	}
	if _, err := l.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to record detection event from source %q: %w", sourceID, err)
	}
	return nil
}

// truncateOnRune cuts s to at most max bytes, backing off so the cut
// never splits a multi-byte rune.
func truncateOnRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// ListRecent returns up to limit entries, newest first.
func (l *EventLog) ListRecent(limit uint64) ([]EventLogEntry, error) {
	queryBuilder := psql.Select("id", "source_id", "status", "payload", "received_at").
		From("detection_events").
		OrderBy("received_at DESC").
		Limit(limit)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for event log list: %w", err)
	}

	rows, err := l.DB.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query detection events: %w", err)
	}
	defer rows.Close()

	var entries []EventLogEntry
	for rows.Next() {
		var e EventLogEntry
		if err := rows.Scan(&e.ID, &e.SourceID, &e.Status, &e.Payload, &e.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan detection event row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries received before the cutoff and returns the number
// of rows removed.
func (l *EventLog) Prune(before time.Time) (int64, error) {
	queryBuilder := psql.Delete("detection_events").
		Where(sq.Lt{"received_at": before.UnixMicro()})

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL query for event log prune: %w", err)
	}
	res, err := l.DB.Exec(sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to prune detection events: %w", err)
	}
	return res.RowsAffected()
}
