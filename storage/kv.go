package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// KVStore is the durable backing for application state. Values are opaque
// strings; callers own (de)serialization.
type KVStore struct {
	db *sql.DB
}

func NewKVStore(dataDir string) (*KVStore, error) {
	dbPath := filepath.Join(dataDir, "xlchat.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &KVStore{db: db}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (kv *KVStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := kv.db.Exec(schema)
	return err
}

// Get returns the stored value for key. A missing key is not an error; it
// returns ("", false, nil).
func (kv *KVStore) Get(key string) (string, bool, error) {
	var value string
	err := kv.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

func (kv *KVStore) Set(key, value string) error {
	_, err := kv.db.Exec(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
	return err
}

func (kv *KVStore) Delete(key string) error {
	_, err := kv.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (kv *KVStore) Close() error {
	if kv.db != nil {
		return kv.db.Close()
	}
	return nil
}
