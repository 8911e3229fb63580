package dedup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"portfolio-news-alerts/internal/logger"
)

var (
	// ErrSeenSetMissing means no seen-set has been written yet.
	ErrSeenSetMissing = errors.New("seen-set file missing")
	// ErrSeenSetCorrupt means the file exists but is not a JSON array of strings.
	ErrSeenSetCorrupt = errors.New("seen-set file corrupt")
)

// SeenSet is the set of fingerprints already processed.
type SeenSet map[string]struct{}

func NewSeenSet(ids ...string) SeenSet {
	s := make(SeenSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s SeenSet) Add(id string) { s[id] = struct{}{} }

func (s SeenSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s SeenSet) Len() int { return len(s) }

// Sorted returns the fingerprints in ascending order, the on-disk order.
func (s SeenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ReadSeenSet reads a seen-set file strictly. Failures wrap ErrSeenSetMissing or
// ErrSeenSetCorrupt.
func ReadSeenSet(path string) (SeenSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSeenSetMissing, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrSeenSetCorrupt, err)
	}

	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeenSetCorrupt, err)
	}
	return NewSeenSet(ids...), nil
}

// WriteSeenSet writes the set as a sorted JSON array, replacing path atomically.
func WriteSeenSet(path string, s SeenSet) error {
	b, err := json.Marshal(s.Sorted())
	if err != nil {
		return fmt.Errorf("marshal seen-set: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp seen-set: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write seen-set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close seen-set: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod seen-set: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace seen-set: %w", err)
	}
	return nil
}

// FileStore persists the seen-set in a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = "seen.json"
	}
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

// Load never fails: a missing or corrupt file is a cold start.
func (f *FileStore) Load(ctx context.Context) SeenSet {
	s, err := ReadSeenSet(f.path)
	if err != nil {
		// Recoverable by definition; this is the only place it is discarded.
		if errors.Is(err, ErrSeenSetMissing) {
			logger.Info(ctx, "No seen-set yet, starting empty", "path", f.path)
		} else {
			logger.Warn(ctx, "Seen-set unreadable, starting empty", "path", f.path, "error", err)
		}
		return NewSeenSet()
	}
	logger.Debug(ctx, "Seen-set loaded", "path", f.path, "entries", s.Len())
	return s
}

func (f *FileStore) Save(ctx context.Context, s SeenSet) error {
	if err := WriteSeenSet(f.path, s); err != nil {
		return err
	}
	logger.Debug(ctx, "Seen-set saved", "path", f.path, "entries", s.Len())
	return nil
}
