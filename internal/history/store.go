package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"nvdrivers/internal/drivers"
)

// timestampLayout is fixed width so stored times sort correctly as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrDisabled is returned by callers that need the store while history is
// turned off in the configuration.
var ErrDisabled = errors.New("driver history is disabled")

// Entry is one stored driver release.
type Entry struct {
	drivers.Record
	FirstSeen time.Time
	LastSeen  time.Time
}

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the history database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record upserts records seen at now and returns the keys that were not in
// the store before. Existing rows keep their metadata; empty download links
// are filled in when a later run supplies them.
func (s *Store) Record(ctx context.Context, records []drivers.Record, now time.Time) ([]drivers.Key, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history store is closed")
	}
	timestamp := now.UTC().Format(timestampLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin history tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var added []drivers.Key
	for _, rec := range records {
		key := rec.Key()
		res, err := tx.ExecContext(ctx,
			`UPDATE drivers SET
                last_seen = ?,
                desktop_url = CASE WHEN desktop_url = '' THEN ? ELSE desktop_url END,
                notebook_url = CASE WHEN notebook_url = '' THEN ? ELSE notebook_url END
            WHERE version = ? AND dch = ? AND channel = ?`,
			timestamp, rec.DesktopURL, rec.NotebookURL,
			key.Version, boolToInt(key.DCH), channelToken(key.Channel),
		)
		if err != nil {
			return nil, fmt.Errorf("update driver %s: %w", key, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("update driver %s: %w", key, err)
		}
		if affected > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO drivers (
                version, dch, channel, release_date, desktop_url, notebook_url, first_seen, last_seen
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			key.Version, boolToInt(key.DCH), channelToken(key.Channel),
			rec.ReleaseDate, rec.DesktopURL, rec.NotebookURL, timestamp, timestamp,
		); err != nil {
			return nil, fmt.Errorf("insert driver %s: %w", key, err)
		}
		added = append(added, key)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit history: %w", err)
	}
	return added, nil
}

// List returns every stored release, most recently discovered first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history store is closed")
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT version, dch, channel, release_date, desktop_url, notebook_url, first_seen, last_seen
         FROM drivers
         ORDER BY first_seen DESC, version DESC, dch DESC, channel ASC`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry     Entry
		dch       int
		channel   string
		firstSeen string
		lastSeen  string
	)
	if err := rows.Scan(
		&entry.Version,
		&dch,
		&channel,
		&entry.ReleaseDate,
		&entry.DesktopURL,
		&entry.NotebookURL,
		&firstSeen,
		&lastSeen,
	); err != nil {
		return Entry{}, fmt.Errorf("scan history row: %w", err)
	}
	entry.DCH = dch != 0
	parsed, err := drivers.ParseChannel(channel)
	if err != nil {
		return Entry{}, fmt.Errorf("history row %s: %w", entry.Version, err)
	}
	entry.Channel = parsed
	if entry.FirstSeen, err = time.Parse(timestampLayout, firstSeen); err != nil {
		return Entry{}, fmt.Errorf("history row %s first_seen: %w", entry.Version, err)
	}
	if entry.LastSeen, err = time.Parse(timestampLayout, lastSeen); err != nil {
		return Entry{}, fmt.Errorf("history row %s last_seen: %w", entry.Version, err)
	}
	return entry, nil
}

func channelToken(c drivers.Channel) string {
	if c == drivers.ChannelStudio {
		return "studio"
	}
	return "game_ready"
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
