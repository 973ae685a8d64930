// Package store persists download history in BoltDB so previously
// fetched wallpapers are not downloaded twice.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketDownloads = []byte("downloads")

// Record is one completed download
type Record struct {
	SourceURL    string    `json:"source_url"`
	Filename     string    `json:"filename"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

// HistoryStore tracks completed downloads keyed by source URL.
type HistoryStore struct {
	db *bolt.DB
}

// Open opens (creating if needed) the history database under dir.
// An empty dir yields a memory-only store that remembers nothing.
func Open(dir string) (*HistoryStore, error) {
	if dir == "" {
		return &HistoryStore{}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDownloads)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &HistoryStore{db: db}, nil
}

// Close releases the database
func (s *HistoryStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Has reports whether a source URL was downloaded before
func (s *HistoryStore) Has(sourceURL string) bool {
	if s.db == nil {
		return false
	}
	found := false
	s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketDownloads).Get([]byte(sourceURL)) != nil
		return nil
	})
	return found
}

// Add records a completed download
func (s *HistoryStore) Add(sourceURL, filename string) error {
	if s.db == nil {
		return nil
	}
	rec := Record{
		SourceURL:    sourceURL,
		Filename:     filename,
		DownloadedAt: time.Now(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDownloads).Put([]byte(sourceURL), data)
	})
}

// All returns every recorded download
func (s *HistoryStore) All() ([]Record, error) {
	if s.db == nil {
		return nil, nil
	}
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDownloads).ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
			return nil
		})
	})
	return records, err
}
