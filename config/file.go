// Package config loads the lingokit job file.
//
// The file is YAML. JSON is accepted as well, so translatte.config.json
// files keep working. Environment variables referenced as $VAR or ${VAR}
// are expanded in path and URL fields. Relative paths are resolved against
// the directory of the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/lingokit/cache"
	"github.com/minios-linux/lingokit/langmeta"
	"github.com/minios-linux/lingokit/lingva"
	"github.com/minios-linux/lingokit/placeholder"
	"github.com/minios-linux/lingokit/translate"
)

// FileNames are the config files looked up by Find, in order.
var FileNames = []string{"lingokit.yaml", "lingokit.yml", "lingokit.json", "translatte.config.json"}

// DefaultFileName is the file written by init.
const DefaultFileName = "lingokit.yaml"

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// File is the job configuration.
type File struct {
	SourceLanguage  string   `yaml:"sourceLanguage"`
	TargetLanguages []string `yaml:"targetLanguages"`

	// Legacy single source.
	InputFile string `yaml:"inputFile,omitempty"`
	OutputDir string `yaml:"outputDir,omitempty"`

	Sources []Source `yaml:"sources,omitempty"`

	LingvaInstance        string `yaml:"lingvaInstance,omitempty"`
	PreserveInterpolation *bool  `yaml:"preserveInterpolation,omitempty"`
	InterpolationPattern  string `yaml:"interpolationPattern,omitempty"`
	EnableCache           *bool  `yaml:"enableCache,omitempty"`
	CacheDir              string `yaml:"cacheDir,omitempty"`

	StaggerInterval  time.Duration `yaml:"staggerInterval,omitempty"`
	StringDelay      time.Duration `yaml:"stringDelay,omitempty"`
	RequestTimeout   time.Duration `yaml:"requestTimeout,omitempty"`
	MaxConcurrent    int           `yaml:"maxConcurrent,omitempty"`
	BreakerThreshold int           `yaml:"breakerThreshold,omitempty"`
	Proxy            string        `yaml:"proxy,omitempty"`

	path string
}

// Source is one input file and its output directory.
type Source struct {
	Name      string `yaml:"name"`
	InputFile string `yaml:"inputFile"`
	OutputDir string `yaml:"outputDir"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Find returns the first config file of FileNames present in dir, or "".
func Find(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the config file at path and applies defaults. It does not
// validate; call Validate once all overrides are in place.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.path = path
	f.expandEnv()

	base := filepath.Dir(path)
	f.InputFile = resolvePath(base, f.InputFile)
	f.OutputDir = resolvePath(base, f.OutputDir)
	f.CacheDir = resolvePath(base, f.CacheDir)
	for i := range f.Sources {
		f.Sources[i].InputFile = resolvePath(base, f.Sources[i].InputFile)
		f.Sources[i].OutputDir = resolvePath(base, f.Sources[i].OutputDir)
	}

	f.ApplyDefaults()
	return &f, nil
}

// expandEnv expands $VAR and ${VAR} in the path and URL fields. Other
// fields, interpolationPattern in particular, are taken literally.
func (f *File) expandEnv() {
	for _, p := range []*string{&f.InputFile, &f.OutputDir, &f.CacheDir, &f.LingvaInstance, &f.Proxy} {
		*p = os.ExpandEnv(*p)
	}
	for i := range f.Sources {
		f.Sources[i].InputFile = os.ExpandEnv(f.Sources[i].InputFile)
		f.Sources[i].OutputDir = os.ExpandEnv(f.Sources[i].OutputDir)
	}
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Path returns the file the config was loaded from, or "" for a config
// built from flags.
func (f *File) Path() string { return f.path }

// ApplyDefaults fills unset fields.
func (f *File) ApplyDefaults() {
	if f.LingvaInstance == "" {
		f.LingvaInstance = lingva.DefaultBaseURL
	}
	if f.PreserveInterpolation == nil {
		f.PreserveInterpolation = boolPtr(true)
	}
	if f.EnableCache == nil {
		f.EnableCache = boolPtr(true)
	}
	if f.CacheDir == "" {
		f.CacheDir = cache.DefaultDir
	}
	for i := range f.Sources {
		if f.Sources[i].Name == "" {
			f.Sources[i].Name = fmt.Sprintf("Source #%d", i+1)
		}
	}
}

func boolPtr(b bool) *bool { return &b }

// Validate checks the configuration and normalizes the target list:
// duplicates are dropped. Errors wrap translate.ConfigError.
func (f *File) Validate() error {
	where := f.path
	if where == "" {
		where = "configuration"
	}
	fail := func(format string, args ...any) error {
		return &translate.ConfigError{Err: fmt.Errorf("%s: "+format, append([]any{where}, args...)...)}
	}

	f.SourceLanguage = strings.TrimSpace(f.SourceLanguage)
	if f.SourceLanguage == "" {
		return fail("sourceLanguage is required")
	}

	var targets []string
	for _, lang := range f.TargetLanguages {
		lang = strings.TrimSpace(lang)
		if lang == "" || slices.Contains(targets, lang) {
			continue
		}
		if lang == f.SourceLanguage {
			return fail("target language %q is the source language", lang)
		}
		targets = append(targets, lang)
	}
	if len(targets) == 0 {
		return fail("at least one target language is required")
	}
	f.TargetLanguages = targets

	if len(f.Sources) == 0 && (f.InputFile == "" || f.OutputDir == "") {
		return &translate.ConfigError{Err: translate.ErrNoSources}
	}
	for i, s := range f.Sources {
		if s.InputFile == "" {
			return fail("source #%d (%s) has no inputFile", i+1, s.Name)
		}
		if s.OutputDir == "" {
			return fail("source #%d (%s) has no outputDir", i+1, s.Name)
		}
	}

	if _, err := placeholder.Compile(f.InterpolationPattern); err != nil {
		return fail("%v", err)
	}
	return nil
}

// UnknownLanguages returns the target languages missing from the language
// registry. They are still sent to the endpoint as they are.
func (f *File) UnknownLanguages() []string {
	var out []string
	for _, lang := range f.TargetLanguages {
		if !langmeta.Known(lang) {
			out = append(out, lang)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Conversion to engine settings
// ---------------------------------------------------------------------------

// Job returns the translation job described by the file.
func (f *File) Job() translate.Job {
	job := translate.Job{
		SourceLang:  f.SourceLanguage,
		TargetLangs: slices.Clone(f.TargetLanguages),
		InputFile:   f.InputFile,
		OutputDir:   f.OutputDir,
	}
	for _, s := range f.Sources {
		job.Sources = append(job.Sources, translate.Source{Name: s.Name, InputFile: s.InputFile, OutputDir: s.OutputDir})
	}
	return job
}

// CacheEnabled reports whether the translation cache is on.
func (f *File) CacheEnabled() bool {
	return f.EnableCache == nil || *f.EnableCache
}

// ClientOptions returns the Lingva client settings.
func (f *File) ClientOptions(log *slog.Logger) (lingva.Options, error) {
	re, err := placeholder.Compile(f.InterpolationPattern)
	if err != nil {
		return lingva.Options{}, err
	}
	return lingva.Options{
		BaseURL:               f.LingvaInstance,
		Timeout:               f.RequestTimeout,
		Proxy:                 f.Proxy,
		PreserveInterpolation: f.PreserveInterpolation == nil || *f.PreserveInterpolation,
		Pattern:               re,
		BreakerThreshold:      f.BreakerThreshold,
		Logger:                log,
	}, nil
}

// EngineOptions returns the scheduling settings.
func (f *File) EngineOptions(log *slog.Logger) translate.Options {
	return translate.Options{
		Stagger:       f.StaggerInterval,
		StringDelay:   f.StringDelay,
		MaxConcurrent: f.MaxConcurrent,
		Logger:        log,
	}
}
