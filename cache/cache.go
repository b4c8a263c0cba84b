// Package cache implements the translation cache: a content-addressed map
// from MD5 fingerprints of (text, source language, target language) to
// previously obtained translations, mirrored to a single JSON file.
//
// The cache file lives in its own directory as translations.json. Reads are
// served from memory; the file is written on Flush, normally once per run.
package cache

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/minios-linux/lingokit/logging"
)

// FileName is the cache file name inside the cache directory.
const FileName = "translations.json"

// DefaultDir is the cache directory used when none is configured.
const DefaultDir = ".translatte-cache"

// Version is the cache file format version. Files with any other version
// are discarded on load.
const Version = "1.0"

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// Entry is one cached translation.
type Entry struct {
	SourceText     string `json:"sourceText"`
	TranslatedText string `json:"translatedText"`
	SourceLang     string `json:"sourceLang"`
	TargetLang     string `json:"targetLang"`
	Timestamp      int64  `json:"timestamp"` // epoch milliseconds
}

type fileData struct {
	Version string           `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// Stats describes the cache contents.
type Stats struct {
	Enabled bool
	Path    string
	Size    int
	Hits    int64
	Misses  int64
	Oldest  time.Time
	Newest  time.Time
}

// Store is the in-memory cache index plus its backing file.
type Store struct {
	enabled bool
	dir     string
	path    string
	log     *slog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]Entry

	hits   atomic.Int64
	misses atomic.Int64
}

// Fingerprint returns the cache key for a translation unit: the lowercase
// hex MD5 of "text|source|target".
func Fingerprint(text, sourceLang, targetLang string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(text+"|"+sourceLang+"|"+targetLang)))
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load opens the cache stored in dir. An empty dir means DefaultDir.
//
// Load never fails: a missing file gives an empty cache, a file with another
// format version is deleted, and an unreadable or malformed file is left in
// place and ignored. Problems are reported through log.
// When enabled is false the store does nothing and touches no files.
func Load(dir string, enabled bool, log *slog.Logger) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	if log == nil {
		log = logging.Discard()
	}
	s := &Store{
		enabled: enabled,
		dir:     dir,
		path:    filepath.Join(dir, FileName),
		log:     log,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
	if enabled {
		s.load()
	}
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("cache unreadable, starting empty", "path", s.path, logging.Err(err))
		}
		return
	}

	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		s.log.Warn("cache file is corrupted, starting empty", "path", s.path, logging.Err(err))
		return
	}

	if fd.Version != Version {
		s.log.Info("cache version changed, resetting", "path", s.path, "found", fd.Version, "want", Version)
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("removing stale cache", "path", s.path, logging.Err(err))
		}
		return
	}

	if fd.Entries != nil {
		s.entries = fd.Entries
	}
	s.log.Debug("cache loaded", "path", s.path, "entries", len(s.entries))
}

// Flush writes the cache to disk, creating the cache directory if needed.
// The file is replaced atomically via a temporary file in the same
// directory. A disabled store does nothing.
func (s *Store) Flush() error {
	if !s.enabled {
		return nil
	}

	s.mu.RLock()
	data, err := json.MarshalIndent(fileData{Version: Version, Entries: s.entries}, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	if err := s.writeFile(data); err != nil {
		s.log.Warn("failed to save cache", "path", s.path, logging.Err(err))
		return err
	}
	return nil
}

func (s *Store) writeFile(data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

// Get returns the cached translation of text from sourceLang to targetLang.
func (s *Store) Get(text, sourceLang, targetLang string) (string, bool) {
	if !s.enabled {
		return "", false
	}
	key := Fingerprint(text, sourceLang, targetLang)

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.misses.Add(1)
		return "", false
	}
	s.hits.Add(1)
	return e.TranslatedText, true
}

// Has reports whether a translation is cached. It does not count as a hit.
func (s *Store) Has(text, sourceLang, targetLang string) bool {
	if !s.enabled {
		return false
	}
	key := Fingerprint(text, sourceLang, targetLang)

	s.mu.RLock()
	_, ok := s.entries[key]
	s.mu.RUnlock()
	return ok
}

// Set records a translation, replacing any previous one for the same unit.
func (s *Store) Set(text, translated, sourceLang, targetLang string) {
	if !s.enabled {
		return
	}
	e := Entry{
		SourceText:     text,
		TranslatedText: translated,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		Timestamp:      s.now().UnixMilli(),
	}
	key := Fingerprint(text, sourceLang, targetLang)

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// ---------------------------------------------------------------------------
// Maintenance
// ---------------------------------------------------------------------------

// Clear drops every entry and removes the cache file.
func (s *Store) Clear() error {
	if !s.enabled {
		return nil
	}
	s.mu.Lock()
	s.entries = make(map[string]Entry)
	s.mu.Unlock()
	s.hits.Store(0)
	s.misses.Store(0)

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", s.path, err)
	}
	return nil
}

// Prune removes entries older than maxAgeDays and returns how many were
// removed. The file is rewritten only when something was removed.
func (s *Store) Prune(maxAgeDays int) int {
	if !s.enabled {
		return 0
	}
	maxAge := int64(maxAgeDays) * 24 * 60 * 60 * 1000
	now := s.now().UnixMilli()

	removed := 0
	s.mu.Lock()
	for key, e := range s.entries {
		if now-e.Timestamp > maxAge {
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.log.Info("pruned cache", "removed", removed, "maxAgeDays", maxAgeDays)
		_ = s.Flush()
	}
	return removed
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	if !s.enabled {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Hits returns how many Get calls were answered from the cache.
func (s *Store) Hits() int64 { return s.hits.Load() }

// Enabled reports whether the store is active.
func (s *Store) Enabled() bool { return s.enabled }

// Path returns the cache file path.
func (s *Store) Path() string { return s.path }

// Stats returns a snapshot of the cache.
func (s *Store) Stats() Stats {
	st := Stats{
		Enabled: s.enabled,
		Path:    s.path,
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}
	if !s.enabled {
		return st
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	st.Size = len(s.entries)
	var oldest, newest int64
	for _, e := range s.entries {
		if oldest == 0 || e.Timestamp < oldest {
			oldest = e.Timestamp
		}
		if e.Timestamp > newest {
			newest = e.Timestamp
		}
	}
	if st.Size > 0 {
		st.Oldest = time.UnixMilli(oldest)
		st.Newest = time.UnixMilli(newest)
	}
	return st
}
