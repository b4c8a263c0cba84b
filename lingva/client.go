// Package lingva is a client for Lingva Translate style endpoints
// (GET <base>/<source>/<target>/<text> → {"translation": "..."}).
//
// The client consults the translation cache before going to the network,
// masks interpolation placeholders so the translator cannot mangle them, and
// writes every fresh translation back to the cache. Requests are never
// retried. An optional circuit breaker makes callers fail fast once the
// endpoint has failed a given number of times in a row.
package lingva

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/minios-linux/lingokit/cache"
	"github.com/minios-linux/lingokit/logging"
	"github.com/minios-linux/lingokit/placeholder"
)

// Defaults.
const (
	DefaultBaseURL   = "https://lingva.ml/api/v1"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "lingokit (+https://github.com/minios-linux/lingokit)"

	breakerOpenTimeout = 30 * time.Second
)

// Unit is one string to translate.
type Unit struct {
	Text       string
	SourceLang string
	TargetLang string
}

// Translation is the outcome of TranslateUnit.
type Translation struct {
	Text   string
	Cached bool // no request was made: cache hit or blank text
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Proxy   string // empty: HTTP_PROXY/HTTPS_PROXY from the environment

	// PreserveInterpolation masks placeholders matched by Pattern.
	PreserveInterpolation bool
	Pattern               *regexp.Regexp // nil: placeholder.Default()

	// BreakerThreshold is the number of consecutive unanswered or 5xx
	// requests that open the circuit breaker. Zero or negative leaves the
	// breaker off, so every unit gets its own request.
	BreakerThreshold int

	UserAgent string
	Logger    *slog.Logger
}

func (o Options) effectiveBaseURL() string {
	if o.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(o.BaseURL, "/")
}

func (o Options) effectiveTimeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// Client translates units through a Lingva endpoint.
type Client struct {
	base     string
	preserve bool
	pattern  *regexp.Regexp
	http     *resty.Client
	breaker  *gobreaker.CircuitBreaker
	cache    *cache.Store
	log      *slog.Logger
}

// New creates a client. store may be nil, in which case nothing is cached.
func New(opts Options, store *cache.Store) (*Client, error) {
	base := opts.effectiveBaseURL()
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid Lingva URL %q", opts.BaseURL)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	if store == nil {
		store = cache.Load("", false, log)
	}
	pattern := opts.Pattern
	if pattern == nil {
		pattern = placeholder.Default()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	rc := resty.NewWithClient(makeHTTPClient(opts.Proxy, opts.effectiveTimeout())).
		SetHeader("User-Agent", ua).
		SetHeader("Accept", "application/json")

	c := &Client{
		base:     base,
		preserve: opts.PreserveInterpolation,
		pattern:  pattern,
		http:     rc,
		cache:    store,
		log:      log,
	}
	if opts.BreakerThreshold > 0 {
		c.breaker = newBreaker(base, uint32(opts.BreakerThreshold), log)
	}
	return c, nil
}

// makeHTTPClient creates an HTTP client with optional proxy support.
func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func newBreaker(name string, threshold uint32, log *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "lingva:" + name,
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		// Only an unhealthy endpoint trips the breaker; rejected
		// individual strings do not.
		IsSuccessful: func(err error) bool {
			var le *Error
			if !errors.As(err, &le) {
				return err == nil
			}
			switch le.Kind {
			case KindNoResponse:
				return false
			case KindStatus:
				return le.StatusCode < 500
			}
			return true
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// TranslateUnit translates one string, consulting the cache first.
func (c *Client) TranslateUnit(ctx context.Context, u Unit) (Translation, error) {
	if cached, ok := c.cache.Get(u.Text, u.SourceLang, u.TargetLang); ok {
		return Translation{Text: cached, Cached: true}, nil
	}
	if strings.TrimSpace(u.Text) == "" {
		return Translation{Text: u.Text, Cached: true}, nil
	}

	masked := u.Text
	var m placeholder.Map
	if c.preserve {
		masked, m = placeholder.Extract(u.Text, c.pattern)
	}

	translated, err := c.request(ctx, u.SourceLang, u.TargetLang, masked)
	if err != nil {
		return Translation{}, err
	}

	if c.preserve {
		translated = placeholder.Restore(translated, m)
	}
	c.cache.Set(u.Text, translated, u.SourceLang, u.TargetLang)
	return Translation{Text: translated}, nil
}

// request performs one GET, through the breaker when one is configured.
func (c *Client) request(ctx context.Context, src, tgt, text string) (string, error) {
	if c.breaker == nil {
		return c.fetch(ctx, src, tgt, text)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, src, tgt, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &Error{Kind: KindTransport, Err: err}
		}
		return "", err
	}
	return out.(string), nil
}

type response struct {
	Translation *string `json:"translation"`
}

func (c *Client) fetch(ctx context.Context, src, tgt, text string) (string, error) {
	endpoint := c.base + "/" + url.PathEscape(src) + "/" + url.PathEscape(tgt) + "/" + url.PathEscape(text)

	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return "", classify(ctx, err)
	}
	c.log.Debug("lingva request", "source", src, "target", tgt,
		"status", resp.StatusCode(), "duration", time.Since(start))

	if !resp.IsSuccess() {
		reason := http.StatusText(resp.StatusCode())
		if reason == "" {
			reason = resp.Status()
		}
		return "", &Error{Kind: KindStatus, StatusCode: resp.StatusCode(), Status: reason}
	}

	var payload response
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return "", &Error{Kind: KindInvalidResponse, Err: err}
	}
	if payload.Translation == nil || *payload.Translation == "" {
		return "", &Error{Kind: KindInvalidResponse}
	}
	return *payload.Translation, nil
}

// classify maps a request error to the error taxonomy.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
		return &Error{Kind: KindTransport, Err: ctxErr}
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Op == "parse" {
		return &Error{Kind: KindTransport, Err: err}
	}
	return &Error{Kind: KindNoResponse, Err: err}
}
