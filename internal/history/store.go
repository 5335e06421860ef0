// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records scan results in a local SQLite database so
// minima can be compared across simulator sweeps.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/aatmin/internal/aat"
	"github.com/pdiddy/aatmin/pkg/types"
)

// settingsSep joins settings lines in a single column.
const settingsSep = "\n"

// Entry is one recorded scan.
type Entry struct {
	ID        int64
	ScannedAt time.Time
	Path      string
	Found     bool
	Value     float64
	Matches   int
	Lines     int
	Line      int
	Run       int
	Settings  []string
}

// Summary rebuilds the aat.Summary the entry was recorded from.
func (e Entry) Summary() aat.Summary {
	return aat.Summary{
		Value:    e.Value,
		Found:    e.Found,
		Line:     e.Line,
		Run:      e.Run,
		Settings: e.Settings,
		Lines:    e.Lines,
		Matches:  e.Matches,
	}
}

// Store manages the history database.
type Store struct {
	db    *sql.DB
	limit int
	now   func() time.Time
}

// Open opens or creates the history database at cfg.Path, creating the
// parent directory and schema as needed.
func Open(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = types.DefaultHistoryPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = types.DefaultHistoryLimit
	}

	s := &Store{db: db, limit: limit, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scanned_at TEXT NOT NULL,
			path TEXT NOT NULL,
			found INTEGER NOT NULL,
			value REAL,
			value_text TEXT,
			value_rank INTEGER,
			matches INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			line INTEGER,
			run INTEGER,
			settings TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_rank ON scans(value_rank, value) WHERE value_rank IS NOT NULL`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores the result of scanning path and returns the new entry ID.
func (s *Store) Record(ctx context.Context, path string, sum aat.Summary) (int64, error) {
	var (
		value     sql.NullFloat64
		valueText sql.NullString
		rank      sql.NullInt64
	)
	if sum.Found {
		value, valueText, rank = encodeValue(sum.Value)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (scanned_at, path, found, value, value_text, value_rank, matches, lines, line, run, settings)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.now().UTC().Format(time.RFC3339Nano), path, sum.Found, value, valueText, rank,
		sum.Matches, sum.Lines, sum.Line, sum.Run, strings.Join(sum.Settings, settingsSep),
	)
	if err != nil {
		return 0, fmt.Errorf("recording scan of %s: %w", path, err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit entries, newest first. A non-positive limit
// uses the configured default.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scanned_at, path, found, value_text, matches, lines, line, run, settings
		 FROM scans ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Best returns the entry with the lowest recorded minimum. The boolean is
// false when no recorded scan found a comparable value; NaN minima never
// qualify. Ties keep the earliest entry.
func (s *Store) Best(ctx context.Context) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, scanned_at, path, found, value_text, matches, lines, line, run, settings
		 FROM scans WHERE found = 1 AND value_rank IS NOT NULL
		 ORDER BY value_rank ASC, value ASC, id ASC LIMIT 1`)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

// Values are ranked so that -Inf < finite < +Inf; NaN gets no rank.
const (
	rankNegInf = 0
	rankFinite = 1
	rankPosInf = 2
)

// encodeValue returns the sortable REAL column (finite values only), the
// exact text form used to read the value back, and its rank. SQLite stores
// NaN as NULL, so the text column is the source of truth.
func encodeValue(v float64) (sql.NullFloat64, sql.NullString, sql.NullInt64) {
	text := sql.NullString{String: strconv.FormatFloat(v, 'g', -1, 64), Valid: true}
	switch {
	case math.IsNaN(v):
		return sql.NullFloat64{}, text, sql.NullInt64{}
	case math.IsInf(v, -1):
		return sql.NullFloat64{}, text, sql.NullInt64{Int64: rankNegInf, Valid: true}
	case math.IsInf(v, 1):
		return sql.NullFloat64{}, text, sql.NullInt64{Int64: rankPosInf, Valid: true}
	}
	return sql.NullFloat64{Float64: v, Valid: true}, text, sql.NullInt64{Int64: rankFinite, Valid: true}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(r scanner) (Entry, error) {
	var (
		e         Entry
		scannedAt string
		valueText sql.NullString
		line, run sql.NullInt64
		settings  sql.NullString
	)
	if err := r.Scan(&e.ID, &scannedAt, &e.Path, &e.Found, &valueText, &e.Matches, &e.Lines, &line, &run, &settings); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scanning history row: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, scannedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing scanned_at %q: %w", scannedAt, err)
	}
	e.ScannedAt = t
	if valueText.Valid {
		v, err := strconv.ParseFloat(valueText.String, 64)
		if err != nil {
			return Entry{}, fmt.Errorf("parsing value %q: %w", valueText.String, err)
		}
		e.Value = v
	}
	e.Line = int(line.Int64)
	e.Run = int(run.Int64)
	if settings.String != "" {
		e.Settings = strings.Split(settings.String, settingsSep)
	}
	return e, nil
}
