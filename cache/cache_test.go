package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFingerprint(t *testing.T) {
	// md5("Hello|en|es")
	if got, want := Fingerprint("Hello", "en", "es"), "09f38aaa3b58a5391228b98699e422b8"; got != want {
		t.Errorf("Fingerprint() = %q, want %q", got, want)
	}
	if Fingerprint("Hello", "en", "es") == Fingerprint("Hello", "en", "fr") {
		t.Error("Fingerprint() ignores target language")
	}
}

func TestLoadMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	s := Load(dir, true, nil)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Load() should not create the cache directory")
	}
}

func TestSetGetFlushReload(t *testing.T) {
	dir := t.TempDir()
	s := Load(dir, true, nil)

	s.Set("Hello", "Hola", "en", "es")
	if got, ok := s.Get("Hello", "en", "es"); !ok || got != "Hola" {
		t.Fatalf("Get() = %q, %v; want Hola, true", got, ok)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}

	s2 := Load(dir, true, nil)
	if got, ok := s2.Get("Hello", "en", "es"); !ok || got != "Hola" {
		t.Errorf("after reload Get() = %q, %v; want Hola, true", got, ok)
	}
	if !s2.Has("Hello", "en", "es") {
		t.Error("Has() = false after reload")
	}
}

func TestIdempotentSet(t *testing.T) {
	s := Load(t.TempDir(), true, nil)
	s.Set("Hello", "Hola", "en", "es")
	s.Set("Hello", "Hola", "en", "es")
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	s.Set("Hello", "¡Hola!", "en", "es")
	if got, _ := s.Get("Hello", "en", "es"); got != "¡Hola!" {
		t.Errorf("Get() = %q, want overwrite", got)
	}
}

func TestIsolation(t *testing.T) {
	s := Load(t.TempDir(), true, nil)
	s.Set("Hello", "Hola", "en", "es")

	if _, ok := s.Get("Hello", "en", "fr"); ok {
		t.Error("Get() with other target language should miss")
	}
	if _, ok := s.Get("Hello", "de", "es"); ok {
		t.Error("Get() with other source language should miss")
	}
	if _, ok := s.Get("hello", "en", "es"); ok {
		t.Error("Get() with other text should miss")
	}
}

func TestDisabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	s := Load(dir, false, nil)

	s.Set("Hello", "Hola", "en", "es")
	if _, ok := s.Get("Hello", "en", "es"); ok {
		t.Error("disabled Get() should always miss")
	}
	if s.Has("Hello", "en", "es") {
		t.Error("disabled Has() should be false")
	}
	if st := s.Stats(); st.Size != 0 || st.Enabled {
		t.Errorf("disabled Stats() = %+v", st)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("disabled store must not create files")
	}
}

func TestVersionMismatchResets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	old := `{"version":"0.9","entries":{"x":{"sourceText":"a","translatedText":"b","sourceLang":"en","targetLang":"es","timestamp":1}}}`
	if err := os.WriteFile(path, []byte(old), 0644); err != nil {
		t.Fatal(err)
	}

	s := Load(dir, true, nil)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale cache file should be deleted")
	}
}

func TestCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := Load(dir, true, nil)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("corrupted file should be left in place")
	}

	s.Set("Hello", "Hola", "en", "es")
	if got, ok := s.Get("Hello", "en", "es"); !ok || got != "Hola" {
		t.Errorf("Get() = %q, %v", got, ok)
	}
}

func TestFileFormat(t *testing.T) {
	dir := t.TempDir()
	s := Load(dir, true, nil)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	s.Set("Hello", "Hola", "en", "es")
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	var fd struct {
		Version string                    `json:"version"`
		Entries map[string]map[string]any `json:"entries"`
	}
	if err := json.Unmarshal(data, &fd); err != nil {
		t.Fatalf("cache file is not JSON: %v", err)
	}
	if fd.Version != "1.0" {
		t.Errorf("version = %q, want 1.0", fd.Version)
	}
	e, ok := fd.Entries[Fingerprint("Hello", "en", "es")]
	if !ok {
		t.Fatalf("entry missing, got keys %v", fd.Entries)
	}
	if e["sourceText"] != "Hello" || e["translatedText"] != "Hola" || e["timestamp"] != float64(1700000000000) {
		t.Errorf("entry = %v", e)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("cache dir has %d files, want 1 (no temp leftovers)", len(entries))
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	s := Load(dir, true, nil)
	now := time.Now()
	s.now = func() time.Time { return now.Add(-48 * time.Hour) }
	s.Set("old", "viejo", "en", "es")
	s.Set("older", "más viejo", "en", "es")
	s.now = func() time.Time { return now }
	s.Set("fresh", "fresco", "en", "es")

	if n := s.Prune(365); n != 0 {
		t.Errorf("Prune(365) = %d, want 0", n)
	}
	if n := s.Prune(1); n != 2 {
		t.Errorf("Prune(1) = %d, want 2", n)
	}
	if s.Len() != 1 || !s.Has("fresh", "en", "es") {
		t.Errorf("after prune Len() = %d", s.Len())
	}

	reloaded := Load(dir, true, nil)
	if reloaded.Len() != 1 {
		t.Errorf("pruned cache not persisted, Len() = %d", reloaded.Len())
	}
}

func TestPruneZeroRemovesAged(t *testing.T) {
	s := Load(t.TempDir(), true, nil)
	now := time.Now()
	s.now = func() time.Time { return now.Add(-time.Minute) }
	s.Set("a", "b", "en", "es")
	s.Set("c", "d", "en", "es")
	s.now = func() time.Time { return now }

	if n := s.Prune(0); n != 2 {
		t.Errorf("Prune(0) = %d, want 2", n)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	s := Load(dir, true, nil)
	s.Set("Hello", "Hola", "en", "es")
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Error("Clear() should remove the cache file")
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error: %v", err)
	}
}

func TestStats(t *testing.T) {
	s := Load(t.TempDir(), true, nil)
	s.Set("a", "b", "en", "es")
	s.Get("a", "en", "es")
	s.Get("x", "en", "es")

	st := s.Stats()
	if st.Size != 1 || st.Hits != 1 || st.Misses != 1 || !st.Enabled {
		t.Errorf("Stats() = %+v", st)
	}
	if st.Oldest.IsZero() || st.Newest.Before(st.Oldest) {
		t.Errorf("Stats() timestamps = %v..%v", st.Oldest, st.Newest)
	}
}
