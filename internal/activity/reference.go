package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	httpTimeout     = 10 * time.Second
	defaultLevelTTL = time.Hour
)

// newHTTPClient returns an http.Client with a 10-second timeout.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// doGet performs a GET request and decodes the JSON response into dst.
func doGet(ctx context.Context, client *http.Client, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", rawURL, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", rawURL, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}

	return nil
}

// ReferenceClient fetches activity reference data (intensity and difficulty
// levels) from the catalog API. Results are cached with a TTL; concurrent
// cache misses are collapsed into a single in-flight request per kind.
type ReferenceClient struct {
	intensityURL  string
	difficultyURL string
	client        *http.Client
	ttl           time.Duration

	group singleflight.Group

	mu            sync.RWMutex
	intensity     []IntensityLevel
	intensityExp  time.Time
	difficulty    []DifficultyLevel
	difficultyExp time.Time
}

// NewReferenceClient constructs a ReferenceClient against the given catalog
// base URL, with a 1-hour cache TTL.
func NewReferenceClient(baseURL string) *ReferenceClient {
	base := strings.TrimSuffix(baseURL, "/")
	return &ReferenceClient{
		intensityURL:  base + "/activities/intensity-levels/",
		difficultyURL: base + "/activities/difficulty-levels/",
		client:        newHTTPClient(),
		ttl:           defaultLevelTTL,
	}
}

// NewReferenceClientWithURLs constructs a ReferenceClient pointing at custom
// endpoint URLs and TTL (used in tests).
func NewReferenceClientWithURLs(intensityURL, difficultyURL string, ttl time.Duration) *ReferenceClient {
	return &ReferenceClient{
		intensityURL:  intensityURL,
		difficultyURL: difficultyURL,
		client:        newHTTPClient(),
		ttl:           ttl,
	}
}

// IntensityLevels returns the intensity reference rows, fetching on cache
// miss or expiry.
func (c *ReferenceClient) IntensityLevels(ctx context.Context) ([]IntensityLevel, error) {
	c.mu.RLock()
	cached, exp := c.intensity, c.intensityExp
	c.mu.RUnlock()
	if cached != nil && time.Now().Before(exp) {
		return cached, nil
	}

	v, err, _ := c.group.Do("intensity", func() (any, error) {
		var levels []IntensityLevel
		if err := doGet(ctx, c.client, c.intensityURL, &levels); err != nil {
			return nil, fmt.Errorf("fetching intensity levels: %w", err)
		}
		if levels == nil {
			levels = []IntensityLevel{}
		}
		c.mu.Lock()
		c.intensity = levels
		c.intensityExp = time.Now().Add(c.ttl)
		c.mu.Unlock()
		return levels, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]IntensityLevel), nil
}

// DifficultyLevels returns the difficulty reference rows, fetching on cache
// miss or expiry.
func (c *ReferenceClient) DifficultyLevels(ctx context.Context) ([]DifficultyLevel, error) {
	c.mu.RLock()
	cached, exp := c.difficulty, c.difficultyExp
	c.mu.RUnlock()
	if cached != nil && time.Now().Before(exp) {
		return cached, nil
	}

	v, err, _ := c.group.Do("difficulty", func() (any, error) {
		var levels []DifficultyLevel
		if err := doGet(ctx, c.client, c.difficultyURL, &levels); err != nil {
			return nil, fmt.Errorf("fetching difficulty levels: %w", err)
		}
		if levels == nil {
			levels = []DifficultyLevel{}
		}
		c.mu.Lock()
		c.difficulty = levels
		c.difficultyExp = time.Now().Add(c.ttl)
		c.mu.Unlock()
		return levels, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]DifficultyLevel), nil
}

// WarmUp fetches both reference sets in parallel. Failures are returned but
// callers may ignore them: the scorer degrades to neutral scores when
// reference data is unavailable.
func (c *ReferenceClient) WarmUp(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := c.IntensityLevels(gCtx)
		return err
	})
	g.Go(func() error {
		_, err := c.DifficultyLevels(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("warming reference data: %w", err)
	}
	return nil
}
