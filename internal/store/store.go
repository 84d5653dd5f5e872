package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/streamlens/streamlens/internal/types"
)

const timestampFormat = time.RFC3339Nano

// Store is a sqlite-backed append-only event log. Events carry a per-stream
// monotonically increasing revision and a global position. The store
// maintains the "$streams" projection: one "$>" link event per user stream,
// appended together with the stream's first event.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the event log at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to event store: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		position INTEGER PRIMARY KEY AUTOINCREMENT,
		stream TEXT NOT NULL,
		revision INTEGER NOT NULL,
		event_type TEXT NOT NULL,
		created TEXT NOT NULL,
		data BLOB,
		is_json INTEGER NOT NULL DEFAULT 0,
		UNIQUE(stream, revision)
	);

	CREATE INDEX IF NOT EXISTS idx_events_stream ON events(stream, revision);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize event store schema: %w", err)
	}

	return nil
}

// Append writes one event to the tail of the named stream and returns its
// revision. Appending to system streams is refused; the store maintains
// those itself.
func (s *Store) Append(ctx context.Context, stream, eventType string, data []byte, isJSON bool) (uint64, error) {
	if stream == "" {
		return 0, fmt.Errorf("stream name must not be empty")
	}
	if types.IsSystemStream(stream) {
		return 0, fmt.Errorf("cannot append to system stream %q", stream)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin append: %w", err)
	}
	defer tx.Rollback()

	rev, err := appendEvent(ctx, tx, stream, eventType, data, isJSON)
	if err != nil {
		return 0, err
	}

	// First event of a new stream: record the creation in $streams so the
	// catalog's "recently created" read can find it.
	if rev == 0 {
		link := []byte("0@" + stream)
		if _, err := appendEvent(ctx, tx, types.StreamsProjection, types.LinkEventType, link, false); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit append: %w", err)
	}

	return rev, nil
}

// AppendLink writes a "$>" link event pointing at target@targetRevision to
// the tail of the named stream.
func (s *Store) AppendLink(ctx context.Context, stream, target string, targetRevision uint64) (uint64, error) {
	if stream == "" {
		return 0, fmt.Errorf("stream name must not be empty")
	}
	if types.IsSystemStream(stream) {
		return 0, fmt.Errorf("cannot append to system stream %q", stream)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin append: %w", err)
	}
	defer tx.Rollback()

	data := []byte(fmt.Sprintf("%d@%s", targetRevision, target))
	rev, err := appendEvent(ctx, tx, stream, types.LinkEventType, data, false)
	if err != nil {
		return 0, err
	}

	if rev == 0 {
		link := []byte("0@" + stream)
		if _, err := appendEvent(ctx, tx, types.StreamsProjection, types.LinkEventType, link, false); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit append: %w", err)
	}

	return rev, nil
}

func appendEvent(ctx context.Context, tx *sql.Tx, stream, eventType string, data []byte, isJSON bool) (uint64, error) {
	var rev uint64
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(revision) + 1, 0) FROM events WHERE stream = ?`,
		stream,
	).Scan(&rev)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next revision for %q: %w", stream, err)
	}

	created := time.Now().UTC().Format(timestampFormat)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (stream, revision, event_type, created, data, is_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		stream, rev, eventType, created, data, isJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append to %q: %w", stream, err)
	}

	return rev, nil
}

// ReadStream performs a bounded directional read of the named stream.
// Backward reads start at the tail. Absent streams return
// types.ErrStreamNotFound.
func (s *Store) ReadStream(ctx context.Context, name string, opts types.ReadOptions) ([]types.ResolvedEvent, error) {
	order := "DESC"
	if opts.Direction == types.Forwards {
		order = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT position, stream, revision, event_type, created, data, is_json
		FROM events
		WHERE stream = ?
		ORDER BY revision %s
		LIMIT ?`, order)

	rows, err := s.db.QueryContext(ctx, query, name, limitFor(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to read stream %q: %w", name, err)
	}
	defer rows.Close()

	records, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		// Every existing stream has at least one event, so an empty result
		// means the stream does not exist.
		return nil, fmt.Errorf("stream %q: %w", name, types.ErrStreamNotFound)
	}

	return s.resolve(ctx, records, opts.ResolveLinks)
}

// ReadAll performs a bounded directional read over the global log.
func (s *Store) ReadAll(ctx context.Context, opts types.ReadOptions) ([]types.ResolvedEvent, error) {
	order := "DESC"
	if opts.Direction == types.Forwards {
		order = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT position, stream, revision, event_type, created, data, is_json
		FROM events
		ORDER BY position %s
		LIMIT ?`, order)

	rows, err := s.db.QueryContext(ctx, query, limitFor(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to read global log: %w", err)
	}
	defer rows.Close()

	records, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}

	return s.resolve(ctx, records, opts.ResolveLinks)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func limitFor(opts types.ReadOptions) int64 {
	if opts.MaxCount == 0 {
		return -1 // sqlite: no limit
	}
	return int64(opts.MaxCount)
}

func scanEvents(rows *sql.Rows) ([]*types.EventRecord, error) {
	var records []*types.EventRecord

	for rows.Next() {
		var (
			rec     types.EventRecord
			created string
			isJSON  int
		)

		err := rows.Scan(&rec.Position, &rec.StreamID, &rec.Revision, &rec.EventType, &created, &rec.Data, &isJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		ts, err := time.Parse(timestampFormat, created)
		if err != nil {
			ts = time.Time{}
		}
		rec.Created = ts
		rec.IsJSON = isJSON != 0

		records = append(records, &rec)
	}

	return records, rows.Err()
}

// resolve turns raw records into resolved events. When resolveLinks is set,
// "$>" records are followed to their targets; a dangling link yields a
// ResolvedEvent with a nil Event.
func (s *Store) resolve(ctx context.Context, records []*types.EventRecord, resolveLinks bool) ([]types.ResolvedEvent, error) {
	events := make([]types.ResolvedEvent, 0, len(records))

	for _, rec := range records {
		if !resolveLinks || rec.EventType != types.LinkEventType {
			events = append(events, types.ResolvedEvent{Event: rec})
			continue
		}

		target, err := s.lookupLinkTarget(ctx, rec.Data)
		if err != nil {
			return nil, err
		}
		events = append(events, types.ResolvedEvent{Event: target, Link: rec})
	}

	return events, nil
}

func (s *Store) lookupLinkTarget(ctx context.Context, data []byte) (*types.EventRecord, error) {
	revText, stream, ok := strings.Cut(string(data), "@")
	if !ok {
		return nil, nil
	}
	rev, err := strconv.ParseUint(revText, 10, 64)
	if err != nil {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT position, stream, revision, event_type, created, data, is_json
		 FROM events WHERE stream = ? AND revision = ?`,
		stream, rev,
	)

	var (
		rec     types.EventRecord
		created string
		isJSON  int
	)
	err = row.Scan(&rec.Position, &rec.StreamID, &rec.Revision, &rec.EventType, &created, &rec.Data, &isJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve link target %q: %w", data, err)
	}

	ts, err := time.Parse(timestampFormat, created)
	if err != nil {
		ts = time.Time{}
	}
	rec.Created = ts
	rec.IsJSON = isJSON != 0

	return &rec, nil
}
