// Package store persists application log entries in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/spigell/talentscout/internal/application"
	"github.com/spigell/talentscout/internal/logger"
)

// ErrDuplicate is returned when an application with the same id is already stored.
var ErrDuplicate = errors.New("application already stored")

// timeLayout is fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS applications (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	submitted_at TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	received_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_submitted_at ON applications(submitted_at);
`

// Store is an application log backed by a single SQLite connection.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the database at path. ":memory:" is accepted.
func Open(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	dsn := path
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer; one connection also keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &Store{db: db, logger: logger.WithFields(log, zap.String("database", path)), now: time.Now}
	s.logger.Debug("application store ready")

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save appends rec to the log.
func (s *Store) Save(ctx context.Context, rec application.Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("application id is required")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO applications (id, name, email, submitted_at, summary, received_at)
		 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
		rec.ID, rec.Name, rec.Email,
		rec.SubmittedAt.UTC().Format(timeLayout),
		rec.Summary,
		s.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving application %s: %w", rec.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving application %s: %w", rec.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", rec.ID, ErrDuplicate)
	}

	s.logger.Info("application stored", zap.String("application", rec.ID))
	return nil
}

// Submit implements application.Sink so a local database can replace the HTTP sink.
func (s *Store) Submit(ctx context.Context, rec application.Record) error {
	return s.Save(ctx, rec)
}

// List returns stored applications, newest submission first.
func (s *Store) List(ctx context.Context) ([]application.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, submitted_at, summary FROM applications
		 ORDER BY submitted_at DESC, received_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	var out []application.Record
	for rows.Next() {
		var (
			rec       application.Record
			submitted string
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &submitted, &rec.Summary); err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}

		rec.SubmittedAt, err = time.Parse(timeLayout, submitted)
		if err != nil {
			return nil, fmt.Errorf("application %s has invalid submitted_at %q: %w", rec.ID, submitted, err)
		}

		out = append(out, rec)
	}

	return out, rows.Err()
}

// Get returns one application by id.
func (s *Store) Get(ctx context.Context, id string) (application.Record, bool, error) {
	var (
		rec       application.Record
		submitted string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, submitted_at, summary FROM applications WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Name, &rec.Email, &submitted, &rec.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return application.Record{}, false, nil
	}
	if err != nil {
		return application.Record{}, false, fmt.Errorf("loading application %s: %w", id, err)
	}

	rec.SubmittedAt, err = time.Parse(timeLayout, submitted)
	if err != nil {
		return application.Record{}, false, fmt.Errorf("application %s has invalid submitted_at %q: %w", id, submitted, err)
	}

	return rec, true, nil
}
