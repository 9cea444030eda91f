package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func (fp FileFingerprint) modTime() string {
	return fp.ModTime.UTC().Format(time.RFC3339Nano)
}

// RecordSource marks fp as loaded with the given number of rows.
func (s *Store) RecordSource(fp FileFingerprint, rowCount int) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO sources (path, size, mod_time, row_count)
		VALUES (?, ?, ?, ?)`, fp.Path, fp.Size, fp.modTime(), int64(rowCount))
	if err != nil {
		return fmt.Errorf("record source: %w", err)
	}
	return nil
}

// SourceCurrent reports whether fp was already loaded and has not changed
// on disk since.
func (s *Store) SourceCurrent(fp FileFingerprint) (bool, error) {
	var size int64
	var modTime string
	err := s.db.QueryRow("SELECT size, mod_time FROM sources WHERE path=?", fp.Path).Scan(&size, &modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query source: %w", err)
	}
	return size == fp.Size && modTime == fp.modTime(), nil
}
