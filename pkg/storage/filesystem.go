package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage keeps generated export files on disk under one base
// directory. Files are throwaway artifacts; the cleanup pass reclaims
// anything older than the download window.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create exports directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes data under the given relative file name.
func (s *LocalStorage) Save(filename string, data []byte) (string, error) {
	if err := os.WriteFile(s.resolve(filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return filename, nil
}

// Path returns the on-disk location of a stored file, failing if the
// file does not exist. Callers hand the path to the HTTP layer, which
// does the actual streaming.
func (s *LocalStorage) Path(filename string) (string, error) {
	path := s.resolve(filename)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("stat export file: %w", err)
	}
	return path, nil
}

// CleanupOlderThan removes files past the TTL and reports what was deleted.
func (s *LocalStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	var deleted []string

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("scan exports: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat export: %w", err)
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(s.resolve(entry.Name())); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("delete stale export: %w", err)
		}
		deleted = append(deleted, entry.Name())
	}
	return deleted, nil
}

func (s *LocalStorage) resolve(filename string) string {
	return filepath.Join(s.baseDir, filepath.Base(filename))
}
