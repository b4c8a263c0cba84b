package translate

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrNoSources is returned when a job names neither a source list nor a
// legacy input/output pair.
var ErrNoSources = errors.New(`No translation sources configured. Please provide either "sources" array or "inputFile"/"outputDir".`)

// ConfigError is an invalid job. It aborts a run before any file or
// network I/O.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// SourceReadError is a source file that is missing, unreadable, not JSON,
// or not a JSON object. It fails every target language of that source.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	if errors.Is(e.Err, fs.ErrNotExist) {
		return fmt.Sprintf("Source file not found: %s", e.Path)
	}
	return fmt.Sprintf("Invalid source file %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }
