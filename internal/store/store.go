package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Keys of the persisted blobs.
const (
	KeyFavors    = "favorTracker"
	KeyProfile   = "userProfile"
	KeyAvatar    = "userAvatar"
	KeyTheme     = "theme"
	KeyErrorLogs = "errorLogs"
)

// ErrStorage matches every *Error with errors.Is.
var ErrStorage = errors.New("storage failure")

// Error reports a failed read or write of a single key.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrStorage }

// Store is a key-value store of JSON blobs backed by SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultDataDir returns the directory holding the database and log file.
func DefaultDataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "socialdebt"), nil
}

func defaultDBPath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "socialdebt.db"), nil
}

// Open opens (or creates) the SQLite database and ensures the schema exists.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		var err error
		dbPath, err = defaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("determine db path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	if err := migrateUpdatedAt(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate updated_at: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func migrateUpdatedAt(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(kv)")
	if err != nil {
		return err
	}
	defer rows.Close()

	hasUpdatedAt := false
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == "updated_at" {
			hasUpdatedAt = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if !hasUpdatedAt {
		_, err := db.Exec("ALTER TABLE kv ADD COLUMN updated_at TEXT")
		return err
	}
	return nil
}

// Get returns the raw value stored under key. ok is false when the key is absent.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &Error{Op: "get", Key: key, Err: err}
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return &Error{Op: "remove", Key: key, Err: err}
	}
	return nil
}

// Clear deletes every key.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM kv"); err != nil {
		return &Error{Op: "clear", Key: "*", Err: err}
	}
	return nil
}

// GetJSON decodes the value under key into v. ok is false when the key is absent.
func (s *Store) GetJSON(key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, &Error{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func (s *Store) SetJSON(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return &Error{Op: "encode", Key: key, Err: err}
	}
	return s.Set(key, string(b))
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
