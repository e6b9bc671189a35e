package store

import (
	"database/sql"
	"time"
)

// SyncStateLastSync is the sync_state key holding the timestamp of the
// last completed sync.
const SyncStateLastSync = "last_sync_time"

// GetSyncState retrieves a sync state value by key
// Returns empty string if key doesn't exist
func (db *DB) GetSyncState(key string) (string, error) {
	var value string
	err := db.QueryRow(`
		SELECT value FROM sync_state WHERE key = ?
	`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSyncState sets a sync state value
func (db *DB) SetSyncState(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO sync_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// GetLastSyncTime returns the time of the last completed sync, or the zero
// time when no sync has run.
func (db *DB) GetLastSyncTime() (time.Time, error) {
	value, err := db.GetSyncState(SyncStateLastSync)
	if err != nil || value == "" {
		return time.Time{}, err
	}
	return parseTime(value)
}

// SetLastSyncTime records the time of the last completed sync
func (db *DB) SetLastSyncTime(t time.Time) error {
	return db.SetSyncState(SyncStateLastSync, t.Format(time.RFC3339))
}
