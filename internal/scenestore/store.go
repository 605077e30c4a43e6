package scenestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"audiomate/internal/config"
	"audiomate/internal/host"
)

// ErrNotFound is returned when a scene has never been saved.
var ErrNotFound = errors.New("scene not found")

// Scene is one stored scene.
type Scene struct {
	Name      string
	Document  []byte
	Triggers  []*host.TriggerSource
	// Active names the collection selected when the scene was saved.
	Active    string
	// Layout records collection order and the collections Document omits.
	Layout    []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary describes a stored scene without its payload.
type Summary struct {
	Name      string
	Bytes     int
	Triggers  int
	UpdatedAt time.Time
}

// Store manages scene persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := range busyRetryAttempts {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Open initializes or connects to the scene database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.StatePath()
	db, err := sql.Open("sqlite", dbPath)
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

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save inserts or replaces a scene.
func (s *Store) Save(ctx context.Context, scene Scene) error {
	name := strings.TrimSpace(scene.Name)
	if name == "" {
		return errors.New("scene name is required")
	}
	triggers := scene.Triggers
	if triggers == nil {
		triggers = []*host.TriggerSource{}
	}
	encoded, err := json.Marshal(triggers)
	if err != nil {
		return fmt.Errorf("encode trigger sources: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.execWithRetry(ctx, `
		INSERT INTO scenes (name, document, triggers, active, layout, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			triggers = excluded.triggers,
			active = excluded.active,
			layout = excluded.layout,
			updated_at = excluded.updated_at`,
		name, string(scene.Document), string(encoded), strings.TrimSpace(scene.Active), string(scene.Layout), now, now,
	)
	if err != nil {
		return fmt.Errorf("save scene %q: %w", name, err)
	}
	return nil
}

// Load returns the named scene or ErrNotFound.
func (s *Store) Load(ctx context.Context, name string) (*Scene, error) {
	ctx = ensureContext(ctx)
	var (
		document, triggers, active, layout, created, updated string
	)
	row := s.db.QueryRowContext(ctx,
		"SELECT document, triggers, active, layout, created_at, updated_at FROM scenes WHERE name = ?",
		strings.TrimSpace(name),
	)
	if err := row.Scan(&document, &triggers, &active, &layout, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load scene %q: %w", name, err)
	}
	scene := &Scene{
		Name:      strings.TrimSpace(name),
		Document:  []byte(document),
		Active:    active,
		Layout:    []byte(layout),
		CreatedAt: parseTime(created),
		UpdatedAt: parseTime(updated),
	}
	if strings.TrimSpace(triggers) != "" {
		if err := json.Unmarshal([]byte(triggers), &scene.Triggers); err != nil {
			return nil, fmt.Errorf("decode trigger sources of %q: %w", name, err)
		}
	}
	return scene, nil
}

// List returns every stored scene ordered by name.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, length(document), triggers, updated_at FROM scenes ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			summary  Summary
			triggers string
			updated  string
		)
		if err := rows.Scan(&summary.Name, &summary.Bytes, &triggers, &updated); err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		var sources []json.RawMessage
		if json.Unmarshal([]byte(triggers), &sources) == nil {
			summary.Triggers = len(sources)
		}
		summary.UpdatedAt = parseTime(updated)
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Delete removes a scene. Deleting an unknown scene returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM scenes WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete scene %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
