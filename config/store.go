package config

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type StoreConfig struct {
	Path string
}

func NewStoreConfig(dataDir string) *StoreConfig {
	return &StoreConfig{Path: filepath.Join(dataDir, "session.db")}
}

func (c *StoreConfig) GetDSN() string {
	if c.Path == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", c.Path)
}

// ConnectStore opens the local key-value store that keeps the session token
// and server URL between runs.
func ConnectStore(c *StoreConfig) (*sql.DB, error) {
	if c.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(c.Path), 0o700); err != nil {
			return nil, fmt.Errorf("erro ao criar diretório de dados: %w", err)
		}
	}

	db, err := sql.Open("sqlite", c.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir banco local: %w", err)
	}

	// SQLite serializes writers; a single connection also keeps :memory: stable.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao conectar ao banco local: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			value      TEXT,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao criar tabela kv_store: %w", err)
	}

	return db, nil
}
