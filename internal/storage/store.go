// Package storage provides the SQLite-backed key/value store that keeps
// client credentials between runs.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Well-known keys.
const (
	KeyAccessToken = "access_token"
	KeyStudentID   = "student_id"
	KeyStudentName = "student_name"
)

// Credentials is what login and registration leave behind for later runs.
type Credentials struct {
	AccessToken string
	StudentID   int
	StudentName string
}

// Store provides SQLite-backed persistence for client state.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at dbPath and creates tables if they don't exist.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS local_storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	row := s.db.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key)
	err = row.Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// SaveCredentials persists the token, student id and display name in one transaction.
func (s *Store) SaveCredentials(c Credentials) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	values := map[string]string{
		KeyAccessToken: c.AccessToken,
		KeyStudentID:   strconv.Itoa(c.StudentID),
		KeyStudentName: c.StudentName,
	}
	now := time.Now()
	for k, v := range values {
		if _, err := tx.Exec(
			`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			k, v, now,
		); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit credentials: %w", err)
	}
	return nil
}

// LoadCredentials returns the stored credentials, or nil if nobody has
// logged in yet.
func (s *Store) LoadCredentials() (*Credentials, error) {
	token, ok, err := s.Get(KeyAccessToken)
	if err != nil || !ok {
		return nil, err
	}

	creds := &Credentials{AccessToken: token}

	raw, ok, err := s.Get(KeyStudentID)
	if err != nil {
		return nil, err
	}
	if ok {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("stored student id %q: %w", raw, err)
		}
		creds.StudentID = id
	}

	name, _, err := s.Get(KeyStudentName)
	if err != nil {
		return nil, err
	}
	creds.StudentName = name

	return creds, nil
}

// ClearCredentials removes everything SaveCredentials wrote.
func (s *Store) ClearCredentials() error {
	for _, k := range []string{KeyAccessToken, KeyStudentID, KeyStudentName} {
		if err := s.Remove(k); err != nil {
			return err
		}
	}
	return nil
}
