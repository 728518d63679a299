package eventgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is a PostgreSQL-backed EventStore with hash-chained integrity.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTable creates the events table if it doesn't exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			seq       BIGSERIAL,
			id        TEXT PRIMARY KEY,
			type      TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			source    TEXT NOT NULL,
			subject   TEXT NOT NULL DEFAULT '',
			content   JSONB NOT NULL DEFAULT '{}',
			hash      TEXT NOT NULL,
			prev_hash TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS idx_events_seq ON events(seq)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_events_subject ON events(subject) WHERE subject != ''`)
	return err
}

// Append creates and stores a new event, computing the hash chain.
func (s *PgStore) Append(ctx context.Context, eventType, source, subject string, at time.Time, content map[string]any) (*Event, error) {
	if content == nil {
		content = map[string]any{}
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}

	at = at.Truncate(time.Microsecond)
	id := uuid.Must(uuid.NewV7()).String()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var prevHash string
	err = tx.QueryRow(ctx, `SELECT hash FROM events ORDER BY seq DESC LIMIT 1 FOR UPDATE`).Scan(&prevHash)
	if err != nil {
		prevHash = ""
	}

	e := &Event{
		ID:        id,
		Type:      eventType,
		Timestamp: at,
		Source:    source,
		Subject:   subject,
		Content:   content,
		Hash:      computeHash(prevHash, id, eventType, source, subject, at, contentJSON),
		PrevHash:  prevHash,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO events (id, type, timestamp, source, subject, content, hash, prev_hash)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)`,
		e.ID, e.Type, e.Timestamp, e.Source, e.Subject, string(contentJSON), e.Hash, e.PrevHash)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit event: %w", err)
	}

	return e, nil
}

// Get retrieves a single event by ID.
func (s *PgStore) Get(ctx context.Context, id string) (*Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, type, timestamp, source, subject, content, hash, prev_hash
		FROM events WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	defer rows.Close()
	events, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("get event %s: not found", id)
	}
	return &events[0], nil
}

// Recent returns the most recent events, newest first.
func (s *PgStore) Recent(ctx context.Context, limit int) ([]Event, error) {
	return s.scanMany(ctx, `
		SELECT id, type, timestamp, source, subject, content, hash, prev_hash
		FROM events ORDER BY seq DESC LIMIT $1`, limit)
}

// BySubject returns the events for one record, oldest first.
func (s *PgStore) BySubject(ctx context.Context, subject string, limit int) ([]Event, error) {
	return s.scanMany(ctx, `
		SELECT id, type, timestamp, source, subject, content, hash, prev_hash
		FROM events WHERE subject = $1 ORDER BY seq ASC LIMIT $2`, subject, limit)
}

// Since returns events appended after the given ID, for polling/SSE.
func (s *PgStore) Since(ctx context.Context, afterID string, limit int) ([]Event, error) {
	return s.scanMany(ctx, `
		SELECT id, type, timestamp, source, subject, content, hash, prev_hash
		FROM events WHERE seq > (SELECT seq FROM events WHERE id = $1)
		ORDER BY seq ASC LIMIT $2`, afterID, limit)
}

// Count returns the total number of events.
func (s *PgStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// VerifyChain walks the entire chain in append order and verifies hash integrity.
func (s *PgStore) VerifyChain(ctx context.Context) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, type, timestamp, source, subject, content, hash, prev_hash
		FROM events ORDER BY seq ASC`)
	if err != nil {
		return fmt.Errorf("verify chain query: %w", err)
	}
	defer rows.Close()

	prevHash := ""
	i := 0
	for rows.Next() {
		var e Event
		var contentJSON []byte
		err := rows.Scan(&e.ID, &e.Type, &e.Timestamp, &e.Source, &e.Subject, &contentJSON, &e.Hash, &e.PrevHash)
		if err != nil {
			return fmt.Errorf("verify chain scan row %d: %w", i, err)
		}
		if err := json.Unmarshal(contentJSON, &e.Content); err != nil {
			e.Content = map[string]any{"_raw": string(contentJSON)}
		}

		if e.PrevHash != prevHash {
			return fmt.Errorf("event %d (%s): prev_hash mismatch: got %s, want %s", i, e.ID, e.PrevHash, prevHash)
		}
		// JSONB normalizes whitespace and key order; re-marshal first, then fall back to the raw bytes.
		contentJSON2, _ := json.Marshal(e.Content)
		expected := computeHash(prevHash, e.ID, e.Type, e.Source, e.Subject, e.Timestamp, contentJSON2)
		if e.Hash != expected {
			expected2 := computeHash(prevHash, e.ID, e.Type, e.Source, e.Subject, e.Timestamp, contentJSON)
			if e.Hash != expected2 {
				return fmt.Errorf("event %d (%s): hash mismatch: got %s, want remarshal=%s or raw=%s", i, e.ID, e.Hash, expected, expected2)
			}
		}
		prevHash = e.Hash
		i++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("verify chain rows: %w", err)
	}
	return nil
}

func (s *PgStore) scanMany(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

func scanRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var e Event
		var contentJSON []byte
		if err := rows.Scan(&e.ID, &e.Type, &e.Timestamp, &e.Source, &e.Subject, &contentJSON, &e.Hash, &e.PrevHash); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(contentJSON, &e.Content); err != nil {
			return nil, fmt.Errorf("unmarshal content: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return events, nil
}
