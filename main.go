// lingokit generates translated copies of JSON locale files through a
// Lingva Translate instance.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minios-linux/lingokit/cache"
	"github.com/minios-linux/lingokit/config"
	"github.com/minios-linux/lingokit/i18n"
	"github.com/minios-linux/lingokit/jsontree"
	"github.com/minios-linux/lingokit/langmeta"
	"github.com/minios-linux/lingokit/lingva"
	"github.com/minios-linux/lingokit/logging"
	"github.com/minios-linux/lingokit/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
	colorBold   = "\033[1m"
)

var useColor = logging.ColorEnabled(os.Stderr)

func paint(color, s string) string {
	if !useColor {
		return s
	}
	return color + s + colorReset
}

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, paint(colorBlue, "[INFO]")+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, paint(colorGreen, "[OK]")+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, paint(colorYellow, "[WARN]")+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, paint(colorRed, "[ERROR]")+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lingokit",
		Short: i18n.T("Translate JSON locale files with Lingva"),
		Long: i18n.T(`lingokit generates translated copies of JSON locale files.

Every string of a source file (for example locales/en.json) is sent to a
Lingva Translate instance and the translated tree is written next to it as
<lang>.json. Interpolation placeholders such as {{name}} or {count} are
kept intact, and translations are cached on disk so that unchanged strings
are never requested twice.

Commands:
  generate    Translate the configured sources into every target language
  init        Write a starter configuration file
  cache       Inspect or clean the translation cache
  languages   List the language codes lingokit knows about`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", i18n.T("Project root directory"))

	root.AddCommand(
		newGenerateCmd(),
		newInitCmd(),
		newCacheCmd(),
		newLanguagesCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lingokit version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// generate
// ---------------------------------------------------------------------------

type generateArgs struct {
	configPath    string
	source        string
	targets       []string
	input         string
	output        string
	lingvaURL     string
	noCache       bool
	cacheDir      string
	noPreserve    bool
	pattern       string
	stagger       time.Duration
	delay         time.Duration
	timeout       time.Duration
	maxConcurrent int
	proxy         string
	verbose       bool
}

// jobFlags are the flags that can describe a job without a config file.
var jobFlags = []string{"source", "targets", "input", "output"}

func newGenerateCmd() *cobra.Command {
	var a generateArgs

	cmd := &cobra.Command{
		Use:   "generate",
		Short: i18n.T("Translate the configured sources into every target language"),
		Long: i18n.T(`Translate every source file into every target language.

The job is read from the config file given with --config, or from the first
of lingokit.yaml, lingokit.yml, lingokit.json and translatte.config.json
found in the project root. Without a config file the job can be given
entirely with --source, --targets, --input and --output.

Environment variables (LINGOKIT_LINGVA_URL, LINGOKIT_CACHE_DIR,
LINGOKIT_NO_CACHE, LINGOKIT_PROXY) override the file; flags override both.

A language that fails is reported and the others continue. The command
fails only when the configuration is invalid.`),
		Example: `  lingokit generate
  lingokit generate -c lingokit.yaml --no-cache
  lingokit generate -s en -t es,fr,de -i locales/en.json -o locales`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&a.configPath, "config", "c", "", i18n.T("Config file path"))
	f.StringVarP(&a.source, "source", "s", "", i18n.T("Source language code"))
	f.StringSliceVarP(&a.targets, "targets", "t", nil, i18n.T("Target language codes (comma-separated)"))
	f.StringVarP(&a.input, "input", "i", "", i18n.T("Source JSON file"))
	f.StringVarP(&a.output, "output", "o", "", i18n.T("Output directory"))
	f.StringVar(&a.lingvaURL, "lingva-url", "", i18n.T("Lingva API base URL"))
	f.BoolVar(&a.noCache, "no-cache", false, i18n.T("Disable the translation cache"))
	f.StringVar(&a.cacheDir, "cache-dir", "", i18n.T("Cache directory"))
	f.BoolVar(&a.noPreserve, "no-preserve", false, i18n.T("Do not protect interpolation placeholders"))
	f.StringVar(&a.pattern, "pattern", "", i18n.T("Placeholder regular expression"))
	f.DurationVar(&a.stagger, "stagger", 0, i18n.T("Delay between the start of two languages"))
	f.DurationVar(&a.delay, "delay", 0, i18n.T("Delay after each translated string"))
	f.DurationVar(&a.timeout, "timeout", 0, i18n.T("HTTP request timeout"))
	f.IntVar(&a.maxConcurrent, "max-concurrent", 0, i18n.T("Maximum languages translated at once (0: unlimited)"))
	f.StringVar(&a.proxy, "proxy", "", i18n.T("HTTP proxy URL"))
	f.BoolVarP(&a.verbose, "verbose", "v", false, i18n.T("Log every request"))

	return cmd
}

func runGenerate(cmd *cobra.Command, a generateArgs) error {
	env, err := config.FromEnv()
	if err != nil {
		return &translate.ConfigError{Err: err}
	}
	log, err := newLogger(env.LogLevel, a.verbose)
	if err != nil {
		return &translate.ConfigError{Err: err}
	}

	fl := cmd.Flags()
	haveJobFlags := false
	for _, name := range jobFlags {
		if fl.Changed(name) {
			haveJobFlags = true
		}
	}
	f, err := loadConfig(a.configPath, haveJobFlags)
	if err != nil {
		return err
	}
	f.ApplyEnv(env)
	applyGenerateFlags(fl, f, a)
	if err := f.Validate(); err != nil {
		return err
	}
	for _, lang := range f.UnknownLanguages() {
		logWarning(i18n.T("Unknown language code %q, it is sent to the server as is"), lang)
	}

	store := cache.Load(f.CacheDir, f.CacheEnabled(), log)
	clientOpts, err := f.ClientOptions(log)
	if err != nil {
		return &translate.ConfigError{Err: err}
	}
	client, err := lingva.New(clientOpts, store)
	if err != nil {
		return &translate.ConfigError{Err: err}
	}

	job := f.Job()
	sources, err := job.ResolveSources()
	if err != nil {
		return err
	}

	p := &progress{total: len(sources) * len(job.TargetLangs)}
	opts := f.EngineOptions(log)
	opts.OnResult = p.report
	engine := translate.NewEngine(job, client, store, opts)

	if f.Path() != "" {
		logInfo(i18n.T("Config: %s"), f.Path())
	}
	logInfo(i18n.T("Lingva: %s"), f.LingvaInstance)
	logInfo(i18n.T("Translating %s into %s"), langmeta.Label(job.SourceLang), strings.Join(job.TargetLangs, ", "))
	if store.Enabled() {
		logInfo(i18n.T("Cache: %s (%s entries)"), store.Path(), humanize.Comma(int64(store.Len())))
	} else {
		logInfo("%s", i18n.T("Cache: disabled"))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := engine.Run(ctx)
	if err != nil {
		return err
	}
	printSummary(sum, store.Enabled())
	return nil
}

// loadConfig reads the config file at path, or the one found in the
// project root. Without a file a bare config is returned when the job is
// described by flags.
func loadConfig(path string, haveJobFlags bool) (*config.File, error) {
	if path == "" {
		path = config.Find(rootDir)
	}
	if path == "" {
		if !haveJobFlags {
			return nil, &translate.ConfigError{Err: errors.New(i18n.T(
				"no config file found; run \"lingokit init\" or pass --source, --targets, --input and --output"))}
		}
		f := &config.File{}
		f.ApplyDefaults()
		return f, nil
	}
	f, err := config.Load(path)
	if err != nil {
		return nil, &translate.ConfigError{Err: err}
	}
	return f, nil
}

// applyGenerateFlags copies the flags given on the command line onto f.
func applyGenerateFlags(fl *pflag.FlagSet, f *config.File, a generateArgs) {
	if fl.Changed("source") {
		f.SourceLanguage = a.source
	}
	if fl.Changed("targets") {
		f.TargetLanguages = a.targets
	}
	if fl.Changed("input") || fl.Changed("output") {
		// An explicit pair replaces the configured sources.
		f.Sources = nil
		if fl.Changed("input") {
			f.InputFile = a.input
		}
		if fl.Changed("output") {
			f.OutputDir = a.output
		}
	}
	if fl.Changed("lingva-url") {
		f.LingvaInstance = a.lingvaURL
	}
	if a.noCache {
		off := false
		f.EnableCache = &off
	}
	if fl.Changed("cache-dir") {
		f.CacheDir = a.cacheDir
	}
	if a.noPreserve {
		off := false
		f.PreserveInterpolation = &off
	}
	if fl.Changed("pattern") {
		f.InterpolationPattern = a.pattern
	}
	if fl.Changed("stagger") {
		f.StaggerInterval = a.stagger
	}
	if fl.Changed("delay") {
		f.StringDelay = a.delay
	}
	if fl.Changed("timeout") {
		f.RequestTimeout = a.timeout
	}
	if fl.Changed("max-concurrent") {
		f.MaxConcurrent = a.maxConcurrent
	}
	if fl.Changed("proxy") {
		f.Proxy = a.proxy
	}
}

func newLogger(level string, verbose bool) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return logging.New(os.Stderr, lvl), nil
}

// progress prints one line per finished (source, language) pair.
type progress struct {
	mu    sync.Mutex
	done  int
	total int
}

func (p *progress) report(r translate.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++

	counter := fmt.Sprintf("[%d/%d]", p.done, p.total)
	name := r.SourceName + " " + langmeta.Label(r.Language)
	if !r.Success {
		logError("%s %s: %s", counter, name, r.Error)
		return
	}
	strs := 0
	if r.Translations != nil {
		strs = jsontree.CountStrings(*r.Translations)
	}
	logSuccess(i18n.T("%s %s: %s (%s strings, %s)"), counter, name, r.OutputFile,
		humanize.Comma(int64(strs)), r.Duration.Round(time.Millisecond))
}

func printSummary(sum *translate.Summary, cacheEnabled bool) {
	w := os.Stderr
	fmt.Fprintln(w)
	fmt.Fprintln(w, paint(colorBold, i18n.T("Summary")))
	if sum.TotalSources > 1 {
		printBySource(w, sum.Results)
	}
	fmt.Fprintf(w, "  %s %d\n", i18n.T("Sources:"), sum.TotalSources)
	fmt.Fprintf(w, "  %s %d\n", i18n.T("Languages:"), sum.TotalLanguages)
	generated := i18n.Tf("%d/%d files generated", sum.SuccessCount, sum.SuccessCount+sum.FailCount)
	if sum.FailCount > 0 {
		fmt.Fprintf(w, "  %s, %s\n", paint(colorYellow, generated),
			paint(colorRed, i18n.Tf("%d failed", sum.FailCount)))
	} else {
		fmt.Fprintf(w, "  %s\n", paint(colorGreen, generated))
	}
	if cacheEnabled {
		fmt.Fprintf(w, "  %s %s, %s\n", i18n.T("Cache:"),
			i18n.Tf("%s entries", humanize.Comma(int64(sum.CacheSize))),
			i18n.Tf("%s hits", humanize.Comma(sum.CacheHits)))
	}
	fmt.Fprintf(w, "  %s %s\n", i18n.T("Duration:"), sum.Duration.Round(time.Millisecond))

	fmt.Fprintln(w)
	if failed := sum.FailedLanguages(); len(failed) > 0 {
		logWarning(i18n.T("Failed languages: %s"), strings.Join(failed, ", "))
		return
	}
	logSuccess("%s", i18n.T("All translations generated"))
}

// printBySource lists results grouped under their source. Results arrive
// ordered by source.
func printBySource(w io.Writer, results []translate.Result) {
	current := ""
	for i, r := range results {
		if i == 0 || r.SourceName != current {
			current = r.SourceName
			fmt.Fprintf(w, "  %s\n", paint(colorBold, current))
		}
		if r.Success {
			fmt.Fprintf(w, "    %s %s\n", paint(colorGreen, "ok"), langmeta.Label(r.Language))
		} else {
			fmt.Fprintf(w, "    %s %s: %s\n", paint(colorRed, "failed"), langmeta.Label(r.Language), r.Error)
		}
	}
}

// ---------------------------------------------------------------------------
// init
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var (
		multiple bool
		asJSON   bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: i18n.T("Write a starter configuration file"),
		Long: i18n.T(`Write a starter configuration file into the project root.

The file describes a single source by default; --multiple writes the
multi-source layout. An existing file is never overwritten.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := output
			if name == "" {
				name = config.DefaultFileName
				if asJSON {
					name = "lingokit.json"
				}
			}
			path := name
			if !filepath.IsAbs(path) {
				path = filepath.Join(rootDir, name)
			}
			if err := config.WriteSample(path, multiple, asJSON); err != nil {
				return err
			}
			logSuccess(i18n.T("Created %s"), path)
			logInfo("%s", i18n.T("Edit it, then run \"lingokit generate\""))
			return nil
		},
	}

	cmd.Flags().BoolVar(&multiple, "multiple", false, i18n.T("Configure several sources"))
	cmd.Flags().BoolVar(&asJSON, "json", false, i18n.T("Write JSON instead of YAML"))
	cmd.Flags().StringVarP(&output, "output", "o", "", i18n.T("File name (default lingokit.yaml)"))

	return cmd
}

// ---------------------------------------------------------------------------
// cache
// ---------------------------------------------------------------------------

func newCacheCmd() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: i18n.T("Inspect or clean the translation cache"),
	}
	cmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", i18n.T("Cache directory"))

	engine := func() (*translate.Engine, error) {
		dir, err := resolveCacheDir(cacheDir)
		if err != nil {
			return nil, err
		}
		env, err := config.FromEnv()
		if err != nil {
			return nil, &translate.ConfigError{Err: err}
		}
		log, err := newLogger(env.LogLevel, false)
		if err != nil {
			return nil, &translate.ConfigError{Err: err}
		}
		store := cache.Load(dir, true, log)
		return translate.NewEngine(translate.Job{}, nil, store, translate.Options{Logger: log}), nil
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: i18n.T("Show cache statistics"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine()
			if err != nil {
				return err
			}
			printCacheStats(cmd, e.CacheStats())
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: i18n.T("Delete every cached translation"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine()
			if err != nil {
				return err
			}
			n := e.CacheStats().Size
			if err := e.ClearCache(); err != nil {
				return err
			}
			logSuccess(i18n.N("Removed %d cached translation", "Removed %d cached translations", n), n)
			return nil
		},
	}

	var days int
	prune := &cobra.Command{
		Use:   "prune",
		Short: i18n.T("Delete cached translations older than --days"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return &translate.ConfigError{Err: fmt.Errorf("--days must not be negative")}
			}
			e, err := engine()
			if err != nil {
				return err
			}
			n := e.PruneCache(days)
			logSuccess(i18n.N("Removed %d cached translation", "Removed %d cached translations", n), n)
			return nil
		},
	}
	prune.Flags().IntVar(&days, "days", 30, i18n.T("Maximum entry age in days"))

	cmd.AddCommand(stats, clearCmd, prune)
	return cmd
}

// resolveCacheDir returns the cache directory: the flag, else the
// environment, else the config file in the project root, else the default.
func resolveCacheDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	env, err := config.FromEnv()
	if err != nil {
		return "", &translate.ConfigError{Err: err}
	}
	if env.CacheDir != "" {
		return env.CacheDir, nil
	}
	if path := config.Find(rootDir); path != "" {
		f, err := config.Load(path)
		if err != nil {
			return "", &translate.ConfigError{Err: err}
		}
		return f.CacheDir, nil
	}
	return filepath.Join(rootDir, cache.DefaultDir), nil
}

func printCacheStats(cmd *cobra.Command, st cache.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %s\n", i18n.T("File:"), st.Path)
	fmt.Fprintf(out, "%-10s %s\n", i18n.T("Entries:"), humanize.Comma(int64(st.Size)))
	if fi, err := os.Stat(st.Path); err == nil {
		fmt.Fprintf(out, "%-10s %s\n", i18n.T("Size:"), humanize.Bytes(uint64(fi.Size())))
	}
	if st.Size > 0 {
		fmt.Fprintf(out, "%-10s %s\n", i18n.T("Oldest:"), humanize.Time(st.Oldest))
		fmt.Fprintf(out, "%-10s %s\n", i18n.T("Newest:"), humanize.Time(st.Newest))
	}
}

// ---------------------------------------------------------------------------
// languages
// ---------------------------------------------------------------------------

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: i18n.T("List known language codes"),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, code := range langmeta.Codes() {
				m := langmeta.Resolve(code)
				fmt.Fprintf(out, "%-8s %-24s %s\n", code, m.Name, m.Native)
			}
		},
	}
}
