// YouTube Music [Catalog] implementation
//
// Communicates with the ytmusicapi proxy server running on port 8080.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/shared"
)

const defaultYTBaseURL string = "http://localhost:8080"

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type youtubeAlbum struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeSearchResult is one entry of a proxy search response.
type YouTubeSearchResult struct {
	ResultType  string          `json:"resultType"`
	VideoID     string          `json:"videoId"`
	Title       string          `json:"title"`
	Artists     []YouTubeArtist `json:"artists"`
	Album       *youtubeAlbum   `json:"album"`
	Duration    string          `json:"duration"`
	DurationSec int             `json:"duration_seconds"`
}

// CatalogItem converts the result to a [CatalogItem]. Artist names are joined with ", ".
func (r YouTubeSearchResult) CatalogItem() CatalogItem {
	names := make([]string, 0, len(r.Artists))
	for _, a := range r.Artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}

	track := models.CatalogTrack{
		ID:       r.VideoID,
		Title:    r.Title,
		Artist:   strings.Join(names, ", "),
		Duration: r.DurationSec,
	}
	if r.Album != nil {
		track.Album = r.Album.Name
	}

	return CatalogItem{Kind: ItemKind(strings.ToLower(r.ResultType)), Track: track}
}

// YouTubeService implements the [Catalog] interface for YouTube Music via proxy.
//
// Requests are paced by a token bucket limiter. When a cache size is configured,
// recent query results are kept in an LRU and served without a request.
type YouTubeService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *lru.Cache[string, []CatalogItem]
	logger     *log.Logger
}

// YouTubeOption configures a [YouTubeService].
type YouTubeOption func(*YouTubeService) error

// WithRateLimit allows rps requests per second with the given burst. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) YouTubeOption {
	return func(y *YouTubeService) error {
		if rps <= 0 {
			y.limiter = rate.NewLimiter(rate.Inf, 0)
			return nil
		}
		if burst < 1 {
			burst = 1
		}
		y.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithCacheSize keeps up to n recent query results. n <= 0 disables the cache.
func WithCacheSize(n int) YouTubeOption {
	return func(y *YouTubeService) error {
		if n <= 0 {
			y.cache = nil
			return nil
		}
		cache, err := lru.New[string, []CatalogItem](n)
		if err != nil {
			return fmt.Errorf("failed to create search cache: %w", err)
		}
		y.cache = cache
		return nil
	}
}

// WithClient sets the HTTP client used for proxy requests.
func WithClient(c *http.Client) YouTubeOption {
	return func(y *YouTubeService) error {
		if c != nil {
			y.httpClient = c
		}
		return nil
	}
}

// WithTimeout uses a dedicated HTTP client with the given request timeout.
func WithTimeout(d time.Duration) YouTubeOption {
	return func(y *YouTubeService) error {
		if d > 0 {
			y.httpClient = &http.Client{Timeout: d}
		}
		return nil
	}
}

// WithLogger sets the logger for cache and request diagnostics.
func WithLogger(l *log.Logger) YouTubeOption {
	return func(y *YouTubeService) error {
		if l != nil {
			y.logger = l
		}
		return nil
	}
}

// SetLogger replaces the service logger. Call it before issuing searches.
func (y *YouTubeService) SetLogger(l *log.Logger) {
	if l != nil {
		y.logger = l
	}
}

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(baseURL string, opts ...YouTubeOption) (*YouTubeService, error) {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}

	y := &YouTubeService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Inf, 0),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		if err := opt(y); err != nil {
			return nil, err
		}
	}
	return y, nil
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// Authenticate stores the authentication file path for subsequent requests.
//
// Expects credentials["auth_file"] to contain the path to browser.json or oauth.json.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	authFile, ok := credentials["auth_file"]
	if !ok || authFile == "" {
		return fmt.Errorf("missing auth_file in credentials")
	}

	y.authFile = authFile
	return nil
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: youtube music API error (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: youtube music API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Search queries the catalog.
//
// Calls GET /api/search?q={query}&filter={filter} on the proxy.
func (y *YouTubeService) Search(ctx context.Context, query string, filter SearchFilter) ([]CatalogItem, error) {
	key := string(filter) + "\x00" + query
	if y.cache != nil {
		if items, ok := y.cache.Get(key); ok {
			y.logger.Debug("search cache hit", "query", query)
			return items, nil
		}
	}

	params := url.Values{}
	params.Set("q", query)
	if filter != "" {
		params.Set("filter", string(filter))
	}

	var results []YouTubeSearchResult
	if err := y.doRequest(ctx, http.MethodGet, "/api/search?"+params.Encode(), &results); err != nil {
		return nil, err
	}

	items := make([]CatalogItem, 0, len(results))
	for _, r := range results {
		items = append(items, r.CatalogItem())
	}

	if y.cache != nil {
		y.cache.Add(key, items)
	}
	return items, nil
}
