package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const sampleSingleYAML = `# lingokit configuration
sourceLanguage: en
targetLanguages: [es, fr, de, it, pt]

inputFile: ./locales/en.json
outputDir: ./locales

lingvaInstance: https://lingva.ml/api/v1
preserveInterpolation: true
enableCache: true
cacheDir: .translatte-cache

# Pacing. Durations use Go syntax (500ms, 2s).
staggerInterval: 500ms
stringDelay: 2s
requestTimeout: 10s
`

const sampleMultipleYAML = `# lingokit configuration
sourceLanguage: en
targetLanguages: [es, fr, de, it, pt]

sources:
  - name: Main App
    inputFile: ./src/locales/en.json
    outputDir: ./src/locales
  - name: Admin Panel
    inputFile: ./admin/locales/en.json
    outputDir: ./admin/locales

lingvaInstance: https://lingva.ml/api/v1
preserveInterpolation: true
enableCache: true
cacheDir: .translatte-cache

# Pacing. Durations use Go syntax (500ms, 2s).
staggerInterval: 500ms
stringDelay: 2s
requestTimeout: 10s
`

const sampleSingleJSON = `{
  "sourceLanguage": "en",
  "targetLanguages": ["es", "fr", "de", "it", "pt"],
  "inputFile": "./locales/en.json",
  "outputDir": "./locales",
  "lingvaInstance": "https://lingva.ml/api/v1",
  "preserveInterpolation": true,
  "enableCache": true
}
`

const sampleMultipleJSON = `{
  "sourceLanguage": "en",
  "targetLanguages": ["es", "fr", "de", "it", "pt"],
  "sources": [
    {
      "name": "Main App",
      "inputFile": "./src/locales/en.json",
      "outputDir": "./src/locales"
    },
    {
      "name": "Admin Panel",
      "inputFile": "./admin/locales/en.json",
      "outputDir": "./admin/locales"
    }
  ],
  "lingvaInstance": "https://lingva.ml/api/v1",
  "preserveInterpolation": true,
  "enableCache": true
}
`

// Sample returns a starter config. multiple selects the multi-source
// layout, asJSON the JSON syntax.
func Sample(multiple, asJSON bool) string {
	switch {
	case multiple && asJSON:
		return sampleMultipleJSON
	case asJSON:
		return sampleSingleJSON
	case multiple:
		return sampleMultipleYAML
	}
	return sampleSingleYAML
}

// WriteSample writes a starter config to path. An existing file is never
// overwritten.
func WriteSample(path string, multiple, asJSON bool) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	return os.WriteFile(path, []byte(Sample(multiple, asJSON)), 0644)
}
