/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements generic.HolidayStore (computed set cache) and
  generic.CalendarStore (data-defined calendars) using SQLite.

KEY TABLES:
  holiday_sets: One row per cached (region, year, locale) computation
  holidays:     The occurrences of a cached set, in insertion order
  calendars:    Calendar definitions as JSON (versioned)

CACHE SEMANTICS:
  SaveHolidays replaces a set atomically (delete + insert in one
  transaction). DeleteHolidays(region) invalidates every year and locale.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety plus WAL journaling:
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/holidays.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/holiday-engine/generic"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Cached computations
	CREATE TABLE IF NOT EXISTS holiday_sets (
		region TEXT NOT NULL,
		year INTEGER NOT NULL,
		locale TEXT NOT NULL,
		timezone TEXT NOT NULL,
		computed_at TEXT NOT NULL,
		PRIMARY KEY (region, year, locale)
	);

	-- Occurrences of a cached computation
	CREATE TABLE IF NOT EXISTS holidays (
		region TEXT NOT NULL,
		year INTEGER NOT NULL,
		locale TEXT NOT NULL,
		position INTEGER NOT NULL,
		key TEXT NOT NULL,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		names_json TEXT NOT NULL,
		observed_key TEXT,
		PRIMARY KEY (region, year, locale, key),
		FOREIGN KEY (region, year, locale)
			REFERENCES holiday_sets(region, year, locale) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_region_date
		ON holidays(region, date);

	-- Calendar definitions
	CREATE TABLE IF NOT EXISTS calendars (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		base TEXT,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HOLIDAY CACHE
// =============================================================================

// SaveHolidays replaces the cached set for (region, year, locale).
func (s *Store) SaveHolidays(ctx context.Context, set *generic.Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	region := strings.ToLower(set.Region())
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM holiday_sets WHERE region = ? AND year = ? AND locale = ?",
		region, set.Year(), set.Locale(),
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO holiday_sets (region, year, locale, timezone, computed_at)
		VALUES (?, ?, ?, ?, ?)`,
		region, set.Year(), set.Locale(), set.Scope().Location.String(),
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO holidays (region, year, locale, position, key, date, type, names_json, observed_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range set.Rows() {
		names, err := json.Marshal(row.Names)
		if err != nil {
			return fmt.Errorf("failed to encode names of %s: %w", row.Key, err)
		}
		var observed sql.NullString
		if row.ObservedKey != "" {
			observed = sql.NullString{String: row.ObservedKey, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			region, set.Year(), set.Locale(), i, row.Key, row.Date, string(row.Type), string(names), observed,
		); err != nil {
			return fmt.Errorf("failed to save %s: %w", row.Key, err)
		}
	}

	return tx.Commit()
}

// LoadHolidays rebuilds a cached set. ok is false when nothing is cached.
func (s *Store) LoadHolidays(ctx context.Context, region string, year int, locale string) (*generic.Set, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := strings.ToLower(region)
	locale = generic.NormalizeLocale(locale)

	var timezone string
	err := s.db.QueryRowContext(ctx,
		"SELECT timezone FROM holiday_sets WHERE region = ? AND year = ? AND locale = ?",
		key, year, locale,
	).Scan(&timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, date, type, names_json, observed_key
		FROM holidays
		WHERE region = ? AND year = ? AND locale = ?
		ORDER BY position ASC`,
		key, year, locale,
	)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var stored []generic.StoredHoliday
	for rows.Next() {
		var (
			h        generic.StoredHoliday
			typ      string
			names    string
			observed sql.NullString
		)
		if err := rows.Scan(&h.Key, &h.Date, &typ, &names, &observed); err != nil {
			return nil, false, err
		}
		h.Type = generic.Type(typ)
		h.ObservedKey = observed.String
		if err := json.Unmarshal([]byte(names), &h.Names); err != nil {
			return nil, false, fmt.Errorf("failed to decode names of %s: %w", h.Key, err)
		}
		stored = append(stored, h)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	set, err := generic.RestoreSet(region, generic.Params{Year: year, Timezone: timezone, Locale: locale}, stored)
	if err != nil {
		return nil, false, err
	}
	return set, true, nil
}

// DeleteHolidays drops every cached set of region.
func (s *Store) DeleteHolidays(ctx context.Context, region string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holiday_sets WHERE region = ?", strings.ToLower(region))
	return err
}

// =============================================================================
// CALENDAR STORE
// =============================================================================

// SaveCalendar saves a calendar definition.
func (s *Store) SaveCalendar(ctx context.Context, rec generic.CalendarRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO calendars (id, name, base, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			base = excluded.base,
			config_json = excluded.config_json,
			version = calendars.version + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query, rec.ID, rec.Name, rec.Base, rec.ConfigJSON, now, now)
	return err
}

// GetCalendar retrieves a calendar by ID.
func (s *Store) GetCalendar(ctx context.Context, id string) (generic.CalendarRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, base, config_json, version, created_at, updated_at FROM calendars WHERE id = ?",
		id,
	)
	rec, err := scanCalendar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.CalendarRecord{}, generic.ErrCalendarNotFound
	}
	return rec, err
}

// ListCalendars returns all calendars ordered by ID.
func (s *Store) ListCalendars(ctx context.Context) ([]generic.CalendarRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, base, config_json, version, created_at, updated_at FROM calendars ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calendars []generic.CalendarRecord
	for rows.Next() {
		rec, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		calendars = append(calendars, rec)
	}
	return calendars, rows.Err()
}

// DeleteCalendar removes a calendar.
func (s *Store) DeleteCalendar(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM calendars WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return generic.ErrCalendarNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCalendar(row scanner) (generic.CalendarRecord, error) {
	var (
		rec                  generic.CalendarRecord
		base                 sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &base, &rec.ConfigJSON, &rec.Version, &createdAt, &updatedAt); err != nil {
		return generic.CalendarRecord{}, err
	}
	rec.Base = base.String
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return rec, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"holidays", "holiday_sets", "calendars"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
