package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SaveFTPEstimate appends an entry to the FTP history
func (db *DB) SaveFTPEstimate(e *FTPEstimate) error {
	_, err := db.Exec(`
		INSERT INTO ftp_history (estimated_at, watts, source, confidence, activity_id)
		VALUES (?, ?, ?, ?, ?)
	`, e.EstimatedAt.Format(time.RFC3339), e.Watts, e.Source, e.Confidence, e.ActivityID)
	return err
}

// GetLatestFTPEstimate returns the most recent FTP history entry, or nil
// when the history is empty.
func (db *DB) GetLatestFTPEstimate() (*FTPEstimate, error) {
	row := db.QueryRow(`
		SELECT id, estimated_at, watts, source, confidence, activity_id
		FROM ftp_history
		ORDER BY estimated_at DESC, id DESC
		LIMIT 1
	`)

	e, err := scanFTPEstimate(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListFTPHistory returns FTP history entries, newest first
func (db *DB) ListFTPHistory(limit int) ([]FTPEstimate, error) {
	rows, err := db.Query(`
		SELECT id, estimated_at, watts, source, confidence, activity_id
		FROM ftp_history
		ORDER BY estimated_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []FTPEstimate
	for rows.Next() {
		e, err := scanFTPEstimate(rows.Scan)
		if err != nil {
			return nil, err
		}
		history = append(history, *e)
	}

	return history, rows.Err()
}

func scanFTPEstimate(scan func(dest ...any) error) (*FTPEstimate, error) {
	var e FTPEstimate
	var estimatedAt string
	var confidence sql.NullString
	if err := scan(&e.ID, &estimatedAt, &e.Watts, &e.Source, &confidence, &e.ActivityID); err != nil {
		return nil, err
	}

	var err error
	e.EstimatedAt, err = parseTime(estimatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing estimated_at %q: %w", estimatedAt, err)
	}
	e.Confidence = confidence.String
	return &e, nil
}
