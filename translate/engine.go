// Package translate produces translated copies of JSON string trees.
//
// An Engine runs a Job: for every source file and every target language it
// walks the source tree, translates each string through a UnitTranslator
// and writes <outputDir>/<lang>.json. Languages of a source run
// concurrently with staggered start times; a failure only affects the
// (source, language) pair it happened in.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/xid"

	"github.com/minios-linux/lingokit/cache"
	"github.com/minios-linux/lingokit/jsontree"
	"github.com/minios-linux/lingokit/logging"
)

// DefaultStagger is the gap between the scheduled start times of two
// consecutive target languages.
const DefaultStagger = 500 * time.Millisecond

// DefaultSourceName names the source built from a legacy
// inputFile/outputDir pair.
const DefaultSourceName = "Default"

// ---------------------------------------------------------------------------
// Jobs and results
// ---------------------------------------------------------------------------

// Source is one input file and the directory its translations go to.
type Source struct {
	Name      string
	InputFile string
	OutputDir string
}

// Job describes one run.
type Job struct {
	SourceLang  string
	TargetLangs []string
	Sources     []Source

	// Legacy single-source form, used when Sources is empty.
	InputFile string
	OutputDir string
}

// ResolveSources returns the sources of the job: the explicit list, or the
// legacy pair as a source named DefaultSourceName.
func (j Job) ResolveSources() ([]Source, error) {
	if len(j.Sources) > 0 {
		return j.Sources, nil
	}
	if j.InputFile != "" && j.OutputDir != "" {
		return []Source{{Name: DefaultSourceName, InputFile: j.InputFile, OutputDir: j.OutputDir}}, nil
	}
	return nil, &ConfigError{Err: ErrNoSources}
}

// Validate checks the job without touching the filesystem.
func (j Job) Validate() error {
	if j.SourceLang == "" {
		return &ConfigError{Err: fmt.Errorf("source language is required")}
	}
	if len(j.TargetLangs) == 0 {
		return &ConfigError{Err: fmt.Errorf("at least one target language is required")}
	}
	sources, err := j.ResolveSources()
	if err != nil {
		return err
	}
	for i, s := range sources {
		if s.InputFile == "" || s.OutputDir == "" {
			return &ConfigError{Err: fmt.Errorf("source #%d (%s) needs both inputFile and outputDir", i+1, s.Name)}
		}
	}
	return nil
}

// Result is the outcome for one (source, language) pair.
type Result struct {
	Language     string
	SourceName   string
	OutputFile   string
	Translations *jsontree.Value // nil when the pair failed
	Success      bool
	Error        string
	Duration     time.Duration
}

// Summary aggregates a run.
type Summary struct {
	RunID          string
	TotalSources   int
	TotalLanguages int
	SuccessCount   int
	FailCount      int
	CacheSize      int
	CacheHits      int64
	Duration       time.Duration
	Results        []Result // source order, then target language order
}

// FailedLanguages returns "source/lang" for every failed result.
func (s *Summary) FailedLanguages() []string {
	var out []string
	for _, r := range s.Results {
		if !r.Success {
			out = append(out, r.SourceName+"/"+r.Language)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// Options tunes an Engine.
type Options struct {
	// Stagger separates the start of consecutive target languages.
	// Zero means DefaultStagger, negative starts all at once.
	Stagger time.Duration
	// StringDelay is passed to TranslateTree as WalkOptions.Delay.
	StringDelay time.Duration
	// MaxConcurrent bounds concurrently translated languages across all
	// sources. Zero or negative means unbounded.
	MaxConcurrent int
	// Clock defaults to SystemClock.
	Clock Clock
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
	// OnResult is called as each result completes. It may be called from
	// several goroutines at once.
	OnResult func(Result)
}

func (o Options) effectiveStagger() time.Duration {
	if o.Stagger == 0 {
		return DefaultStagger
	}
	return max(o.Stagger, 0)
}

func (o Options) poolSize() int {
	if o.MaxConcurrent <= 0 {
		return -1
	}
	return o.MaxConcurrent
}

// Engine runs translation jobs.
type Engine struct {
	job   Job
	tr    UnitTranslator
	cache *cache.Store
	opts  Options
	clock Clock
	log   *slog.Logger
}

// NewEngine creates an engine for job. store may be nil when tr does not
// use a cache.
func NewEngine(job Job, tr UnitTranslator, store *cache.Store, opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	if store == nil {
		store = cache.Load("", false, log)
	}
	return &Engine{job: job, tr: tr, cache: store, opts: opts, clock: clock, log: log}
}

// antsLogger routes pool messages to slog.
type antsLogger struct{ log *slog.Logger }

func (l antsLogger) Printf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...), "component", "pool")
}

// Run translates every source into every target language. It returns an
// error only for an invalid job; translation failures are reported in the
// summary. The cache is flushed once, after all tasks finished.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	if err := e.job.Validate(); err != nil {
		return nil, err
	}
	sources, _ := e.job.ResolveSources()
	langs := e.job.TargetLangs

	pool, err := ants.NewPool(e.opts.poolSize(), ants.WithLogger(antsLogger{e.log}))
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	runID := xid.New().String()
	log := e.log.With("run", runID)
	start := e.clock.Now()
	wallStart := time.Now()
	hitsBefore := e.cache.Hits()

	log.Info("translation run started", "sources", len(sources), "languages", len(langs),
		"from", e.job.SourceLang)

	results := make([][]Result, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		results[i] = make([]Result, len(langs))
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.runSource(ctx, log, pool, start, src, results[i])
		}()
	}
	wg.Wait()

	if err := e.cache.Flush(); err != nil {
		log.Warn("cache not saved", logging.Err(err))
	}

	sum := &Summary{
		RunID:          runID,
		TotalSources:   len(sources),
		TotalLanguages: len(langs),
		CacheSize:      e.cache.Len(),
		CacheHits:      e.cache.Hits() - hitsBefore,
		Duration:       time.Since(wallStart),
	}
	for _, rs := range results {
		for _, r := range rs {
			if r.Success {
				sum.SuccessCount++
			} else {
				sum.FailCount++
			}
			sum.Results = append(sum.Results, r)
		}
	}

	log.Info("translation run finished", "succeeded", sum.SuccessCount, "failed", sum.FailCount,
		"cacheSize", sum.CacheSize, "cacheHits", sum.CacheHits, "duration", sum.Duration)
	return sum, nil
}

// runSource loads one source and fans its languages out on pool.
// out has one slot per target language.
func (e *Engine) runSource(ctx context.Context, log *slog.Logger, pool *ants.Pool, start time.Time, src Source, out []Result) {
	log = log.With("source", src.Name)

	tree, err := loadSource(src.InputFile)
	if err != nil {
		log.Error("source unavailable", "path", src.InputFile, logging.Err(err))
		for i, lang := range e.job.TargetLangs {
			out[i] = Result{Language: lang, SourceName: src.Name, Error: err.Error()}
			e.notify(out[i])
		}
		return
	}

	stagger := e.opts.effectiveStagger()
	var wg sync.WaitGroup
	for i, lang := range e.job.TargetLangs {
		at := start.Add(time.Duration(i) * stagger)
		wg.Add(1)
		task := func() {
			defer wg.Done()
			out[i] = e.runLanguage(ctx, log, at, src, lang, tree)
			e.notify(out[i])
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			out[i] = Result{Language: lang, SourceName: src.Name, Error: fmt.Sprintf("scheduling failed: %v", err)}
			e.notify(out[i])
		}
	}
	wg.Wait()
}

// runLanguage translates tree into lang once the scheduled start time at
// is reached and writes the output file.
func (e *Engine) runLanguage(ctx context.Context, log *slog.Logger, at time.Time, src Source, lang string, tree jsontree.Value) (res Result) {
	res = Result{Language: lang, SourceName: src.Name}
	log = log.With("lang", lang)
	defer func() {
		if r := recover(); r != nil {
			log.Error("translation task panicked", "panic", r)
			res = Result{Language: lang, SourceName: src.Name, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()

	if err := sleepUntil(ctx, e.clock, at); err != nil {
		res.Error = err.Error()
		return res
	}

	began := time.Now()
	log.Debug("translating")
	translated, err := TranslateTree(ctx, tree, e.job.SourceLang, lang, e.tr, WalkOptions{
		Delay: e.opts.StringDelay,
		Clock: e.clock,
	})
	if err != nil {
		log.Warn("translation failed", logging.Err(err))
		res.Error = err.Error()
		res.Duration = time.Since(began)
		return res
	}

	path := filepath.Join(src.OutputDir, lang+".json")
	if err := jsontree.WriteFile(path, translated); err != nil {
		log.Warn("writing output failed", "path", path, logging.Err(err))
		res.Error = err.Error()
		res.Duration = time.Since(began)
		return res
	}

	res.OutputFile = path
	res.Translations = &translated
	res.Success = true
	res.Duration = time.Since(began)
	log.Info("generated", "path", path, "strings", jsontree.CountStrings(translated), "duration", res.Duration)
	return res
}

func (e *Engine) notify(r Result) {
	if e.opts.OnResult != nil {
		e.opts.OnResult(r)
	}
}

// loadSource reads a source file, which must hold a JSON object.
func loadSource(path string) (jsontree.Value, error) {
	v, err := jsontree.ReadFile(path)
	if err != nil {
		return jsontree.Value{}, &SourceReadError{Path: path, Err: err}
	}
	if v.Kind() != jsontree.Object {
		return jsontree.Value{}, &SourceReadError{Path: path, Err: fmt.Errorf("top-level value is %v, want object", v.Kind())}
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Cache maintenance
// ---------------------------------------------------------------------------

// CacheStats returns the statistics of the engine's cache.
func (e *Engine) CacheStats() cache.Stats { return e.cache.Stats() }

// ClearCache empties the engine's cache.
func (e *Engine) ClearCache() error { return e.cache.Clear() }

// PruneCache removes cache entries older than maxAgeDays.
func (e *Engine) PruneCache(maxAgeDays int) int { return e.cache.Prune(maxAgeDays) }
