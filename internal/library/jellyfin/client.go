package jellyfin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	retry "github.com/avast/retry-go/v4"

	"episode_syncer/internal/domain"
)

const (
	defaultTimeout  = 60 * time.Second
	defaultPageSize = 200
	maxRetries      = 3
	baseRetryDelay  = 500 * time.Millisecond

	// ProviderTvdb is the provider key Jellyfin stores TheTVDB ids under.
	ProviderTvdb = "Tvdb"
)

var ErrAuthFailed = errors.New("jellyfin authentication failed")

type Config struct {
	BaseURL  string
	Token    string
	UserID   string
	PageSize int
	Provider string
}

// Client lists the shows of a Jellyfin library.
type Client struct {
	baseURL    string
	token      string
	userID     string
	pageSize   int
	provider   string
	httpClient *http.Client
	retryDelay time.Duration
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderTvdb
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		userID:   cfg.UserID,
		pageSize: cfg.PageSize,
		provider: cfg.Provider,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		retryDelay: baseRetryDelay,
		logger:     logger.With("component", "jellyfin"),
	}
}

// ShowIDs returns the distinct catalog ids of every series in the library.
// Series without an id for the configured provider are skipped.
func (c *Client) ShowIDs(ctx context.Context) ([]domain.ShowID, error) {
	var (
		ids     []domain.ShowID
		seen    = make(map[string]struct{})
		offset  int
		skipped int
	)

	for {
		page, err := c.getSeries(ctx, offset, c.pageSize)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			id := domain.ShowID(strings.TrimSpace(item.providerID(c.provider)))
			if id.Key() == "" {
				skipped++
				continue
			}
			if _, dup := seen[id.Key()]; dup {
				continue
			}
			seen[id.Key()] = struct{}{}
			ids = append(ids, id)
		}

		offset += len(page.Items)
		if offset >= page.TotalRecordCount || len(page.Items) == 0 {
			break
		}
	}

	c.logger.Debug("listed library shows",
		"shows", len(ids),
		"without_provider_id", skipped,
	)

	return ids, nil
}

func (c *Client) getSeries(ctx context.Context, offset, limit int) (*ItemsResponse, error) {
	query := url.Values{}
	query.Set("IncludeItemTypes", "Series")
	query.Set("Recursive", "true")
	query.Set("Fields", "ProviderIds")
	query.Set("StartIndex", strconv.Itoa(offset))
	query.Set("Limit", strconv.Itoa(limit))
	query.Set("SortBy", "SortName")
	query.Set("SortOrder", "Ascending")

	path := "/Items"
	if c.userID != "" {
		path = fmt.Sprintf("/Users/%s/Items", url.PathEscape(c.userID))
	}

	body, err := c.doRequest(ctx, http.MethodGet, path, query)
	if err != nil {
		return nil, err
	}

	var resp ItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp, nil
}

type serverError struct {
	status int
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error: %d", e.status)
}

// doRequest performs an authenticated request, retrying 5xx responses with
// exponential backoff.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	return retry.DoWithData(
		func() ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
			if err != nil {
				return nil, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}

			req.Header.Set("Accept", "application/json")
			req.Header.Set("X-Emby-Authorization", buildAuthHeader(c.token))

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return nil, retry.Unrecoverable(fmt.Errorf("jellyfin request failed: %w", err))
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, retry.Unrecoverable(fmt.Errorf("failed to read response: %w", err))
			}

			switch {
			case resp.StatusCode == http.StatusUnauthorized:
				return nil, retry.Unrecoverable(ErrAuthFailed)
			case resp.StatusCode >= 500:
				return nil, &serverError{status: resp.StatusCode}
			case resp.StatusCode != http.StatusOK:
				return nil, retry.Unrecoverable(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
			}
			return body, nil
		},
		retry.Context(ctx),
		retry.Attempts(maxRetries+1),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("jellyfin server error, will retry",
				"attempt", n+1,
				"path", path,
				"error", err,
			)
		}),
	)
}

// buildAuthHeader constructs the X-Emby-Authorization header
func buildAuthHeader(token string) string {
	parts := []string{
		`MediaBrowser Client="EpisodeSyncer"`,
		`Device="Server"`,
		`DeviceId="episode-syncer"`,
		`Version="1.0.0"`,
	}

	if token != "" {
		parts = append(parts, fmt.Sprintf(`Token="%s"`, token))
	}

	return strings.Join(parts, ", ")
}
