package mojang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultSessionURL is the default Mojang session server base URL.
	DefaultSessionURL = "https://sessionserver.mojang.com"

	// DefaultAPIURL is the default Mojang API base URL.
	DefaultAPIURL = "https://api.mojang.com"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 10 * time.Second

	// UserAgent is the user agent string sent with API requests.
	UserAgent = "mcghosts/dev (https://github.com/steviee/mcghosts)"

	// MaxBatchSize is the largest number of names the bulk endpoint accepts.
	MaxBatchSize = 100

	// DefaultBatchDelay is the pause between bulk requests.
	DefaultBatchDelay = 100 * time.Millisecond

	// DefaultBatchBackoff is the pause after a failed bulk request.
	DefaultBatchBackoff = 500 * time.Millisecond
)

// Client is a Mojang API client for profile lookups.
type Client struct {
	sessionURL   string
	apiURL       string
	httpClient   *http.Client
	userAgent    string
	cache        *Cache
	batchSize    int
	batchDelay   time.Duration
	batchBackoff time.Duration
	limiter      *limiter

	mu     sync.Mutex
	failed map[string]struct{}
}

// Config holds client configuration.
type Config struct {
	SessionURL   string
	APIURL       string
	Timeout      time.Duration
	UserAgent    string
	Cache        *Cache
	BatchSize    int
	BatchDelay   time.Duration
	BatchBackoff time.Duration
	RateLimit    int
}

// NewClient creates a new Mojang API client. A nil Cache gets an in-memory
// cache; zero durations and sizes fall back to the defaults.
func NewClient(config *Config) *Client {
	if config == nil {
		config = &Config{}
	}

	if config.SessionURL == "" {
		config.SessionURL = DefaultSessionURL
	}

	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	if config.UserAgent == "" {
		config.UserAgent = UserAgent
	}

	if config.Cache == nil {
		config.Cache = NewCache()
	}

	if config.BatchSize <= 0 || config.BatchSize > MaxBatchSize {
		config.BatchSize = MaxBatchSize
	}

	if config.BatchDelay == 0 {
		config.BatchDelay = DefaultBatchDelay
	}

	if config.BatchBackoff == 0 {
		config.BatchBackoff = DefaultBatchBackoff
	}

	if config.RateLimit <= 0 {
		config.RateLimit = DefaultRateLimit
	}

	slog.Debug("creating Mojang API client",
		"session_url", config.SessionURL,
		"api_url", config.APIURL,
		"timeout", config.Timeout,
		"cache_path", config.Cache.Path())

	return &Client{
		sessionURL:   strings.TrimRight(config.SessionURL, "/"),
		apiURL:       strings.TrimRight(config.APIURL, "/"),
		httpClient:   &http.Client{Timeout: config.Timeout},
		userAgent:    config.UserAgent,
		cache:        config.Cache,
		batchSize:    config.BatchSize,
		batchDelay:   config.BatchDelay,
		batchBackoff: config.BatchBackoff,
		limiter:      newLimiter(config.RateLimit, DefaultRateWindow),
		failed:       make(map[string]struct{}),
	}
}

// Resolve returns the profile for a player id.
//
// Cached profiles are returned without a request. When the lookup fails the
// raw id is returned as the name with Degraded set; the failure is not
// cached on disk, but the id is not requested again during this run.
func (c *Client) Resolve(ctx context.Context, id string) *Profile {
	key := normalizeID(id)

	if entry, ok := c.cache.Get(key); ok {
		slog.Debug("mojang profile cache hit", "id", key, "name", entry.Name)
		return &Profile{
			UUID:     key,
			Username: entry.Name,
			Textures: entry.Textures,
		}
	}

	if c.hasFailed(key) {
		return degraded(id)
	}

	slog.Debug("mojang profile cache miss, querying API", "id", key)

	profile, err := c.LookupProfile(ctx, key)
	if err != nil {
		slog.Warn("profile lookup failed, using raw id as name",
			"id", id,
			"error", err)
		c.markFailed(key)
		return degraded(id)
	}

	c.cache.Set(key, CacheEntry{
		Name:     profile.Username,
		Textures: profile.Textures,
	})

	return profile
}

// LookupProfile performs a single uncached session server lookup.
func (c *Client) LookupProfile(ctx context.Context, id string) (*Profile, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}

	url := fmt.Sprintf("%s/session/minecraft/profile/%s", c.sessionURL, undashed(parsed))

	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	slog.Debug("mojang API request", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		var profileResp ProfileResponse
		if err := json.NewDecoder(resp.Body).Decode(&profileResp); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", ErrInvalidResponse, err)
		}
		if profileResp.Name == "" {
			return nil, fmt.Errorf("%w: profile has no name", ErrInvalidResponse)
		}

		profile := &Profile{
			UUID:     parsed.String(),
			Username: profileResp.Name,
			Textures: texturesOf(profileResp.Properties),
		}

		slog.Debug("mojang profile lookup success",
			"id", profile.UUID,
			"name", profile.Username)

		return profile, nil

	case http.StatusNoContent, http.StatusNotFound:
		return nil, ErrProfileNotFound

	case http.StatusTooManyRequests:
		slog.Warn("mojang API rate limit exceeded")
		c.limiter.throttle(resp.Header)
		return nil, ErrRateLimitExceeded

	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, NewAPIError(resp.StatusCode, string(body))
	}
}

// CacheSize returns the current number of entries in the cache.
func (c *Client) CacheSize() int {
	return c.cache.Len()
}

func (c *Client) hasFailed(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.failed[key]
	return ok
}

func (c *Client) markFailed(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failed[key] = struct{}{}
}

func degraded(id string) *Profile {
	return &Profile{
		UUID:     id,
		Username: id,
		Degraded: true,
	}
}

func undashed(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}

// formatUUID formats a UUID string with dashes.
// Input:  "069a79f444e94726a5befca90e38aaf5"
// Output: "069a79f4-44e9-4726-a5be-fca90e38aaf5"
// Strings that are not UUIDs are returned unchanged.
func formatUUID(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return parsed.String()
}
