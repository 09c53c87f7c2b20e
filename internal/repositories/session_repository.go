package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"imob-followup/internal/models"
	"imob-followup/internal/utils"
)

const (
	keyToken     = "auth_token"
	keyServerURL = "server_url"
)

// SQLiteSessionRepository persists the session in the local kv_store table.
type SQLiteSessionRepository struct {
	db               *sql.DB
	defaultServerURL string
}

func NewSQLiteSessionRepository(db *sql.DB, defaultServerURL string) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db, defaultServerURL: defaultServerURL}
}

func (r *SQLiteSessionRepository) get(key string) (string, error) {
	var value sql.NullString
	err := r.db.QueryRow("SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", key, err)
	}
	return value.String, nil
}

func (r *SQLiteSessionRepository) set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, utils.NullString(value))
	if err != nil {
		return fmt.Errorf("error writing %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteSessionRepository) Load() (models.Session, error) {
	token, err := r.get(keyToken)
	if err != nil {
		return models.Session{}, err
	}
	serverURL, err := r.get(keyServerURL)
	if err != nil {
		return models.Session{}, err
	}
	if serverURL == "" {
		serverURL = r.defaultServerURL
	}
	return models.Session{Token: token, ServerURL: serverURL}, nil
}

func (r *SQLiteSessionRepository) Save(session models.Session) error {
	if err := r.set(keyToken, session.Token); err != nil {
		return err
	}
	if session.ServerURL == r.defaultServerURL {
		return r.set(keyServerURL, "")
	}
	return r.set(keyServerURL, session.ServerURL)
}

func (r *SQLiteSessionRepository) ClearToken() error {
	_, err := r.db.Exec("DELETE FROM kv_store WHERE key = ?", keyToken)
	if err != nil {
		return fmt.Errorf("error clearing token: %w", err)
	}
	return nil
}
