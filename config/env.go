package config

import (
	"github.com/caarlos0/env/v11"
)

// Env holds settings taken from the environment. They override the config
// file; command line flags override both.
type Env struct {
	LingvaURL string `env:"LINGOKIT_LINGVA_URL"`
	CacheDir  string `env:"LINGOKIT_CACHE_DIR"`
	NoCache   bool   `env:"LINGOKIT_NO_CACHE"`
	Proxy     string `env:"LINGOKIT_PROXY"`
	LogLevel  string `env:"LINGOKIT_LOG_LEVEL" envDefault:"warn"`
}

// FromEnv parses Env from the process environment.
func FromEnv() (Env, error) {
	return env.ParseAs[Env]()
}

// ApplyEnv copies the set environment values onto f.
func (f *File) ApplyEnv(e Env) {
	if e.LingvaURL != "" {
		f.LingvaInstance = e.LingvaURL
	}
	if e.CacheDir != "" {
		f.CacheDir = e.CacheDir
	}
	if e.NoCache {
		f.EnableCache = boolPtr(false)
	}
	if e.Proxy != "" {
		f.Proxy = e.Proxy
	}
}
