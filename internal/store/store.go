package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"quiz-quest/internal/logger"

	"go.uber.org/zap"
)

// Collection names.
const (
	Users        = "users"
	Courses      = "courses"
	Tutorials    = "tutorials"
	Articles     = "articles"
	Quizzes      = "quizzes"
	Enrollments  = "enrollments"
	Completions  = "completions"
	Bookmarks    = "bookmarks"
	Likes        = "likes"
	QuizAttempts = "quiz_attempts"
)

// Collections lists every collection the store knows about, in file-init order.
var Collections = []string{
	Users, Courses, Tutorials, Articles, Quizzes,
	Enrollments, Completions, Bookmarks, Likes, QuizAttempts,
}

var known = func() map[string]bool {
	m := make(map[string]bool, len(Collections))
	for _, c := range Collections {
		m[c] = true
	}
	return m
}()

// Known reports whether name is one of the store's collections.
func Known(name string) bool {
	return known[name]
}

// Store keeps each collection as a JSON array in <dataDir>/<collection>.json.
// Every call re-reads the file; mutations rewrite it whole.
type Store struct {
	dataDir   string
	now       func() time.Time
	lockWrite bool
	onCorrupt func(collection string, err error)

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	healthMu     sync.Mutex
	corruptReads int64
	degraded     map[string]string
}

type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithWriteLock serializes read-modify-write cycles per collection within
// this process.
func WithWriteLock(enabled bool) Option {
	return func(s *Store) { s.lockWrite = enabled }
}

// WithCorruptionHook is called whenever a collection file cannot be decoded.
func WithCorruptionHook(fn func(collection string, err error)) Option {
	return func(s *Store) { s.onCorrupt = fn }
}

// New creates dataDir if needed and initializes every missing collection
// file to an empty array.
func New(dataDir string, opts ...Option) (*Store, error) {
	s := &Store{
		dataDir:  dataDir,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
		degraded: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	for _, c := range Collections {
		path := s.path(c)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := s.save(c, []Document{}); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return s, nil
}

// DataDir returns the directory holding the collection files.
func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dataDir, collection+".json")
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *Store) lockFor(collection string) func() {
	if !s.lockWrite {
		return func() {}
	}
	s.locksMu.Lock()
	mu, ok := s.locks[collection]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[collection] = mu
	}
	s.locksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// load reads a collection. Unknown collections, missing files and undecodable
// content all yield an empty list; the last case is recorded in Health.
func (s *Store) load(collection string) ([]Document, error) {
	if !Known(collection) {
		return []Document{}, nil
	}
	raw, err := os.ReadFile(s.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return []Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", collection, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var docs []Document
	if err := dec.Decode(&docs); err != nil {
		s.markCorrupt(collection, err)
		return []Document{}, nil
	}
	s.markHealthy(collection)
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

func (s *Store) save(collection string, docs []Document) error {
	if !Known(collection) {
		return nil
	}
	raw, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}

	tmp, err := os.CreateTemp(s.dataDir, collection+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", collection, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close collection %s: %w", collection, err)
	}
	if err := os.Rename(tmpName, s.path(collection)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace collection %s: %w", collection, err)
	}
	return nil
}

func indexOf(docs []Document, id int64) int {
	for i, d := range docs {
		if d.ID() == id {
			return i
		}
	}
	return -1
}

// Create stores fields as a new record with the next id and fresh
// timestamps. For an unknown collection the record is built but not stored.
func (s *Store) Create(collection string, fields Document) (Document, error) {
	unlock := s.lockFor(collection)
	defer unlock()

	docs, err := s.load(collection)
	if err != nil {
		return nil, err
	}

	var maxID int64
	for _, d := range docs {
		if id := d.ID(); id > maxID {
			maxID = id
		}
	}

	now := s.timestamp()
	record := fields.Clone()
	record[FieldID] = maxID + 1
	record[FieldCreatedAt] = now
	record[FieldUpdatedAt] = now

	docs = append(docs, record)
	if err := s.save(collection, docs); err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// Read returns the record with id, or nil if there is none.
func (s *Store) Read(collection string, id int64) (Document, error) {
	docs, err := s.load(collection)
	if err != nil {
		return nil, err
	}
	if i := indexOf(docs, id); i >= 0 {
		return docs[i], nil
	}
	return nil, nil
}

// ReadAll returns every record in storage order.
func (s *Store) ReadAll(collection string) ([]Document, error) {
	return s.load(collection)
}

// Update merges patch into the record with id and refreshes updated_at.
// id and created_at in the patch are ignored. Returns nil if there is no
// such record.
func (s *Store) Update(collection string, id int64, patch Document) (Document, error) {
	unlock := s.lockFor(collection)
	defer unlock()

	docs, err := s.load(collection)
	if err != nil {
		return nil, err
	}
	i := indexOf(docs, id)
	if i < 0 {
		return nil, nil
	}

	record := docs[i]
	for k, v := range patch {
		if k == FieldID || k == FieldCreatedAt {
			continue
		}
		record[k] = v
	}
	record[FieldUpdatedAt] = s.timestamp()

	if err := s.save(collection, docs); err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// Delete removes the first record with id and reports whether one existed.
func (s *Store) Delete(collection string, id int64) (bool, error) {
	unlock := s.lockFor(collection)
	defer unlock()

	docs, err := s.load(collection)
	if err != nil {
		return false, err
	}
	i := indexOf(docs, id)
	if i < 0 {
		return false, nil
	}
	docs = append(docs[:i], docs[i+1:]...)
	if err := s.save(collection, docs); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) markCorrupt(collection string, err error) {
	s.healthMu.Lock()
	s.corruptReads++
	s.degraded[collection] = err.Error()
	s.healthMu.Unlock()

	logger.Get().Warn("Collection file is not valid JSON, treating as empty",
		zap.String("collection", collection),
		zap.String("path", s.path(collection)),
		zap.Error(err),
	)
	if s.onCorrupt != nil {
		s.onCorrupt(collection, err)
	}
}

func (s *Store) markHealthy(collection string) {
	s.healthMu.Lock()
	delete(s.degraded, collection)
	s.healthMu.Unlock()
}

// Health reports collections whose last read found undecodable content.
type Health struct {
	Healthy      bool              `json:"healthy"`
	CorruptReads int64             `json:"corrupt_reads"`
	Degraded     map[string]string `json:"degraded,omitempty"`
}

func (s *Store) Health() Health {
	s.healthMu.Lock()
	defer s.healthMu.Unlock()

	degraded := make(map[string]string, len(s.degraded))
	for k, v := range s.degraded {
		degraded[k] = v
	}
	return Health{
		Healthy:      len(degraded) == 0,
		CorruptReads: s.corruptReads,
		Degraded:     degraded,
	}
}
