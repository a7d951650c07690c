// Package store persists day-scoped state: committed-selection sets,
// completed-label sets, and submission records. Each day key maps to one
// zstd-compressed JSON document; reads of absent or corrupt documents yield
// empty state and a log line, writes replace the value for a key wholesale.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/zstd"
)

// Namespaced keys used by the application.
const (
	KeyCommitted       = "fieldmap/committed"
	KeyCompletedLabels = "fieldmap/completed-labels"
)

// Submission is one commit event recorded in the day ledger.
type Submission struct {
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
	FeatureIDs []string  `json:"feature_ids"`
}

type document struct {
	Keys        map[string][]string `json:"keys"`
	Submissions []Submission        `json:"submissions,omitempty"`
}

// Store is the day-scoped key-value store. All methods are main-thread only.
type Store struct {
	dir string
	day string
	log hclog.Logger
	doc document
}

// DayKey formats t as the store's day key.
func DayKey(t time.Time) string { return t.Format("2006-01-02") }

// Open loads the document for the given day. Missing or unreadable data is
// treated as empty state, never as an error the caller must handle.
func Open(dir, day string, log hclog.Logger) *Store {
	s := &Store{
		dir: dir,
		day: day,
		log: log,
		doc: document{Keys: make(map[string][]string)},
	}

	raw, err := os.ReadFile(s.path())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("day store unreadable, starting empty", "day", day, "error", err)
		}
		return s
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		log.Warn("zstd reader init failed, starting empty", "error", err)
		return s
	}
	defer dec.Close()

	plain, err := dec.DecodeAll(raw, nil)
	if err != nil {
		log.Warn("day store corrupt, starting empty", "day", day, "error", err)
		return s
	}
	var doc document
	if err := json.Unmarshal(plain, &doc); err != nil {
		log.Warn("day store undecodable, starting empty", "day", day, "error", err)
		return s
	}
	if doc.Keys == nil {
		doc.Keys = make(map[string][]string)
	}
	s.doc = doc
	return s
}

func (s *Store) path() string {
	return filepath.Join(s.dir, s.day+".json.zst")
}

// Get returns the identifier array stored under key, nil when absent.
func (s *Store) Get(key string) []string {
	return s.doc.Keys[key]
}

// Put replaces the value under key and writes the document out.
func (s *Store) Put(key string, ids []string) error {
	s.doc.Keys[key] = ids
	return s.flush()
}

// AppendSubmission records a commit event and persists it.
func (s *Store) AppendSubmission(featureIDs []string) (Submission, error) {
	sub := Submission{
		ID:         uuid.NewString(),
		At:         time.Now().UTC(),
		FeatureIDs: featureIDs,
	}
	s.doc.Submissions = append(s.doc.Submissions, sub)
	return sub, s.flush()
}

// Submissions returns the day's commit ledger in order.
func (s *Store) Submissions() []Submission { return s.doc.Submissions }

// flush writes the whole document atomically: encode to a temp file in the
// same directory, then rename over the target.
func (s *Store) flush() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("store: create dir: %w", err)
	}
	plain, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("store: zstd init: %w", err)
	}
	packed := enc.EncodeAll(plain, nil)
	if err := enc.Close(); err != nil {
		return fmt.Errorf("store: zstd close: %w", err)
	}

	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, packed, 0o644); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	return nil
}
