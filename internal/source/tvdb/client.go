package tvdb

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"episode_syncer/internal/domain"
)

const (
	SourceID   = "tvdb"
	SourceName = "TheTVDB"

	maxFeedSize    = 8 << 20
	maxArchiveSize = 128 << 20
)

// Config holds TheTVDB client configuration.
type Config struct {
	BaseURL           string
	APIKey            string
	Language          string
	Timeout           time.Duration
	ScratchDir        string
	RequestsPerSecond float64
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	FailureThreshold  uint32
	OpenTimeout       time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithFs sets the filesystem used for scratch directories.
func WithFs(fs afero.Fs) Option {
	return func(c *Client) { c.fs = fs }
}

// WithClock overrides the clock used to decide whether an episode has aired.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client talks to the legacy TheTVDB XML API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	language       string
	scratchRoot    string
	fs             afero.Fs
	now            func() time.Time
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[[]byte]
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.StatusCode)
}

func (e *StatusError) temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// New creates a new TheTVDB client.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		language:       cfg.Language,
		scratchRoot:    cfg.ScratchDir,
		fs:             afero.NewOsFs(),
		now:            time.Now,
		limiter:        rate.NewLimiter(limit, 1),
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", SourceID),
	}
	if c.language == "" {
		c.language = "en"
	}
	if c.scratchRoot == "" {
		c.scratchRoot = filepath.Join(os.TempDir(), "episode_syncer")
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    SourceID,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Only transient failures count against the breaker.
		IsSuccessful: func(err error) bool {
			return !isTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ID returns the source identifier.
func (c *Client) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (c *Client) Name() string {
	return SourceName
}

// GetServerCursor returns the catalog's current update time.
func (c *Client) GetServerCursor(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.baseURL+"/Updates.php?type=none")
	if err != nil {
		return "", fmt.Errorf("get server time: %w", err)
	}

	feed, err := decodeFeed(body)
	if err != nil {
		return "", fmt.Errorf("get server time: %w", err)
	}

	cursor := strings.TrimSpace(feed.Time)
	if cursor == "" {
		return "", fmt.Errorf("get server time: %w: feed has no Time element", domain.ErrParse)
	}

	return cursor, nil
}

// GetChangedShowIDs lists the shows changed since the given cursor. The cursor
// embedded in the feed is ignored; callers fetch a fresh one afterwards.
func (c *Client) GetChangedShowIDs(ctx context.Context, since string) ([]domain.ShowID, error) {
	endpoint := fmt.Sprintf("%s/Updates.php?type=all&time=%s", c.baseURL, url.QueryEscape(since))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("get changed shows: %w", err)
	}

	feed, err := decodeFeed(body)
	if err != nil {
		return nil, fmt.Errorf("get changed shows: %w", err)
	}

	ids := make([]domain.ShowID, 0, len(feed.Series))
	for _, raw := range feed.Series {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		ids = append(ids, domain.ShowID(id))
	}

	c.logger.Debug("fetched change feed", "since", since, "changed", len(ids))

	return ids, nil
}

// FetchEpisodeCount downloads the full series archive for a show and counts
// its aired regular episodes. The archive is extracted into a scratch
// directory that is removed before returning.
func (c *Client) FetchEpisodeCount(ctx context.Context, showID domain.ShowID, languageHint string) (int, error) {
	lang := normalizeLanguage(languageHint, c.language)
	endpoint := fmt.Sprintf("%s/%s/series/%s/all/%s.zip",
		c.baseURL,
		url.PathEscape(c.apiKey),
		url.PathEscape(string(showID)),
		lang,
	)

	data, err := c.get(ctx, endpoint)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return 0, fmt.Errorf("fetch archive for %s: %w: %w", showID, domain.ErrArchive, se)
		}
		return 0, fmt.Errorf("fetch archive for %s: %w", showID, err)
	}

	dir, err := newScratchDir(c.fs, c.scratchRoot, showID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrArchive, err)
	}
	defer func() {
		if rerr := dir.Release(); rerr != nil {
			c.logger.Warn("failed to remove scratch dir", "path", dir.path, "error", rerr)
		}
	}()

	if err := dir.Extract(data); err != nil {
		return 0, fmt.Errorf("extract archive for %s: %w", showID, err)
	}

	doc, err := dir.Open(lang + ".xml")
	if err != nil {
		return 0, fmt.Errorf("read archive for %s: %w", showID, err)
	}
	defer doc.Close()

	count, err := countEpisodes(doc, c.now())
	if err != nil {
		return 0, fmt.Errorf("count episodes for %s: %w", showID, err)
	}

	c.logger.Debug("counted episodes", "show_id", showID, "language", lang, "count", count)

	return count, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return retry.DoWithData(
			func() ([]byte, error) {
				return c.doRequest(ctx, endpoint)
			},
			retry.Context(ctx),
			retry.Attempts(uint(c.maxAttempts)),
			retry.Delay(c.initialBackoff),
			retry.MaxDelay(c.maxBackoff),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(isTransient),
			retry.OnRetry(func(n uint, err error) {
				c.logger.Warn("request failed, retrying",
					"attempt", n+1,
					"error", err,
				)
			}),
		)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreachable, err)
	}
	return body, err
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "EpisodeSyncer/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: execute request: %w", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnreachable, &StatusError{StatusCode: resp.StatusCode})
	}

	limit := int64(maxFeedSize)
	if strings.HasSuffix(endpoint, ".zip") {
		limit = maxArchiveSize
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrUnreachable, err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", domain.ErrParse, limit)
	}

	return body, nil
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.temporary()
	}
	return errors.Is(err, domain.ErrUnreachable)
}

func decodeFeed(body []byte) (*updatesFeed, error) {
	var feed updatesFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: decode feed: %w", domain.ErrParse, err)
	}
	return &feed, nil
}
