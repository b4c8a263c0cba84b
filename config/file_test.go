package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/minios-linux/lingokit/cache"
	"github.com/minios-linux/lingokit/lingva"
	"github.com/minios-linux/lingokit/translate"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadYAMLDefaultsAndPaths(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "lingokit.yaml", `
sourceLanguage: en
targetLanguages: [es, fr]
sources:
  - name: app
    inputFile: src/en.json
    outputDir: src
  - inputFile: /abs/en.json
    outputDir: /abs
staggerInterval: 250ms
requestTimeout: 3s
`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	if f.LingvaInstance != lingva.DefaultBaseURL {
		t.Errorf("LingvaInstance = %q", f.LingvaInstance)
	}
	if !f.CacheEnabled() || f.PreserveInterpolation == nil || !*f.PreserveInterpolation {
		t.Error("cache and interpolation should default to enabled")
	}
	if f.CacheDir != cache.DefaultDir {
		t.Errorf("CacheDir = %q, want %q", f.CacheDir, cache.DefaultDir)
	}
	if got, want := f.Sources[0].InputFile, filepath.Join(dir, "src", "en.json"); got != want {
		t.Errorf("Sources[0].InputFile = %q, want %q", got, want)
	}
	if f.Sources[1].InputFile != "/abs/en.json" {
		t.Errorf("absolute path changed: %q", f.Sources[1].InputFile)
	}
	if f.Sources[1].Name != "Source #2" {
		t.Errorf("default source name = %q", f.Sources[1].Name)
	}
	if f.StaggerInterval != 250*time.Millisecond || f.RequestTimeout != 3*time.Second {
		t.Errorf("durations = %v, %v", f.StaggerInterval, f.RequestTimeout)
	}
	if f.Path() != path {
		t.Errorf("Path() = %q", f.Path())
	}
}

func TestLoadLegacyJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "translatte.config.json", `{
  "sourceLanguage": "en",
  "targetLanguages": ["es", "de", "es"],
  "inputFile": "./locales/en.json",
  "outputDir": "./locales",
  "lingvaInstance": "https://lingva.example/api/v1",
  "preserveInterpolation": false,
  "enableCache": false
}`)

	if got := Find(dir); got != path {
		t.Fatalf("Find() = %q, want %q", got, path)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if strings.Join(f.TargetLanguages, ",") != "es,de" {
		t.Errorf("TargetLanguages = %v, want deduplicated", f.TargetLanguages)
	}
	if f.CacheEnabled() {
		t.Error("CacheEnabled() = true")
	}

	job := f.Job()
	sources, err := job.ResolveSources()
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0].Name != translate.DefaultSourceName {
		t.Errorf("sources = %+v", sources)
	}
	if sources[0].InputFile != filepath.Join(dir, "locales", "en.json") {
		t.Errorf("InputFile = %q", sources[0].InputFile)
	}

	opts, err := f.ClientOptions(nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.PreserveInterpolation || opts.BaseURL != "https://lingva.example/api/v1" {
		t.Errorf("ClientOptions() = %+v", opts)
	}
}

func TestFindPrefersYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "translatte.config.json", `{}`)
	yml := writeConfig(t, dir, "lingokit.yaml", `sourceLanguage: en`)
	if got := Find(dir); got != yml {
		t.Errorf("Find() = %q, want %q", got, yml)
	}
	if got := Find(t.TempDir()); got != "" {
		t.Errorf("Find(empty) = %q", got)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("LINGVA_HOST", "lingva.internal")
	dir := t.TempDir()
	path := writeConfig(t, dir, "lingokit.yaml", `
sourceLanguage: en
targetLanguages: [es]
inputFile: en.json
outputDir: out
lingvaInstance: https://${LINGVA_HOST}/api/v1
`)
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.LingvaInstance != "https://lingva.internal/api/v1" {
		t.Errorf("LingvaInstance = %q", f.LingvaInstance)
	}
}

func TestLoadKeepsPatternLiteral(t *testing.T) {
	t.Setenv("OUT", "build")
	dir := t.TempDir()
	path := writeConfig(t, dir, "lingokit.yaml", `
sourceLanguage: en
targetLanguages: [es]
inputFile: en.json
outputDir: ${OUT}/locales
interpolationPattern: '\$\$[a-z]+|\$1'
`)
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := `\$\$[a-z]+|\$1`; f.InterpolationPattern != want {
		t.Errorf("InterpolationPattern = %q, want %q", f.InterpolationPattern, want)
	}
	if want := filepath.Join(dir, "build", "locales"); f.OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", f.OutputDir, want)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Load(missing) error = %v", err)
	}
	bad := writeConfig(t, dir, "bad.yaml", "sourceLanguage: [unclosed")
	if _, err := Load(bad); err == nil {
		t.Error("Load(bad yaml) should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		file    File
		wantErr string
	}{
		{
			name:    "missing source language",
			file:    File{TargetLanguages: []string{"es"}, InputFile: "a", OutputDir: "b"},
			wantErr: "sourceLanguage is required",
		},
		{
			name:    "no targets",
			file:    File{SourceLanguage: "en", InputFile: "a", OutputDir: "b"},
			wantErr: "at least one target language",
		},
		{
			name:    "target equals source",
			file:    File{SourceLanguage: "en", TargetLanguages: []string{"en"}, InputFile: "a", OutputDir: "b"},
			wantErr: "is the source language",
		},
		{
			name:    "no sources",
			file:    File{SourceLanguage: "en", TargetLanguages: []string{"es"}},
			wantErr: "No translation sources configured",
		},
		{
			name:    "source without output",
			file:    File{SourceLanguage: "en", TargetLanguages: []string{"es"}, Sources: []Source{{Name: "x", InputFile: "a"}}},
			wantErr: "has no outputDir",
		},
		{
			name:    "bad pattern",
			file:    File{SourceLanguage: "en", TargetLanguages: []string{"es"}, InputFile: "a", OutputDir: "b", InterpolationPattern: "(("},
			wantErr: "invalid interpolation pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.file.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			var ce *translate.ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("Validate() error %T is not a ConfigError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestUnknownLanguages(t *testing.T) {
	f := File{TargetLanguages: []string{"es", "klingon", "pt_BR"}}
	if got := f.UnknownLanguages(); len(got) != 1 || got[0] != "klingon" {
		t.Errorf("UnknownLanguages() = %v", got)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LINGOKIT_LINGVA_URL", "http://localhost:3000/api/v1")
	t.Setenv("LINGOKIT_NO_CACHE", "true")
	t.Setenv("LINGOKIT_CACHE_DIR", "/tmp/lk-cache")

	e, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}
	if e.LogLevel != "warn" {
		t.Errorf("LogLevel default = %q, want warn", e.LogLevel)
	}

	f := &File{}
	f.ApplyDefaults()
	f.ApplyEnv(e)
	if f.LingvaInstance != "http://localhost:3000/api/v1" || f.CacheEnabled() || f.CacheDir != "/tmp/lk-cache" {
		t.Errorf("after ApplyEnv: %+v", f)
	}
}

func TestEngineOptions(t *testing.T) {
	f := &File{StaggerInterval: time.Second, StringDelay: 10 * time.Millisecond, MaxConcurrent: 4}
	opts := f.EngineOptions(nil)
	if opts.Stagger != time.Second || opts.StringDelay != 10*time.Millisecond || opts.MaxConcurrent != 4 {
		t.Errorf("EngineOptions() = %+v", opts)
	}
}

func TestSamplesLoad(t *testing.T) {
	for _, multiple := range []bool{false, true} {
		for _, asJSON := range []bool{false, true} {
			dir := t.TempDir()
			path := filepath.Join(dir, "cfg")
			if err := WriteSample(path, multiple, asJSON); err != nil {
				t.Fatalf("WriteSample() error: %v", err)
			}
			f, err := Load(path)
			if err != nil {
				t.Fatalf("Load(sample multiple=%v json=%v) error: %v", multiple, asJSON, err)
			}
			if err := f.Validate(); err != nil {
				t.Errorf("sample multiple=%v json=%v invalid: %v", multiple, asJSON, err)
			}
			if multiple != (len(f.Sources) == 2) {
				t.Errorf("sample multiple=%v has %d sources", multiple, len(f.Sources))
			}
			if err := WriteSample(path, multiple, asJSON); err == nil {
				t.Error("WriteSample() overwrote an existing file")
			}
		}
	}
}
