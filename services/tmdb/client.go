package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("tmdb api key not configured")

// ErrNotFound is returned for a 404 from TMDB.
var ErrNotFound = errors.New("tmdb resource not found")

// Client is a thin TMDB v3 API client. Requests are throttled and retried
// on 429/5xx; other 4xx responses fail immediately.
type Client struct {
	apiKey   string
	language string
	baseURL  string
	httpc    *http.Client

	// Rate limiting
	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func NewClient(apiKey, language string, opts ...Option) *Client {
	if language == "" {
		language = "en-US"
	}
	c := &Client{
		apiKey:      strings.TrimSpace(apiKey),
		language:    language,
		baseURL:     defaultBaseURL,
		httpc:       &http.Client{Timeout: 15 * time.Second},
		minInterval: 20 * time.Millisecond, // TMDB has generous rate limits
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured reports whether an API key is present.
func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

var errRetryable = errors.New("tmdb retryable status")

func (c *Client) doGET(ctx context.Context, endpoint string, query url.Values, v any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	if query.Get("language") == "" {
		query.Set("language", c.language)
	}
	fullURL := c.baseURL + endpoint + "?" + query.Encode()

	return retry.Do(
		func() error {
			c.throttle()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				log.Printf("[tmdb] %s: status %d, retrying", endpoint, resp.StatusCode)
				return fmt.Errorf("%w: %s", errRetryable, resp.Status)
			case resp.StatusCode == http.StatusNotFound:
				return retry.Unrecoverable(ErrNotFound)
			case resp.StatusCode >= 400:
				return retry.Unrecoverable(fmt.Errorf("tmdb request failed: %s", resp.Status))
			}

			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode tmdb response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) throttle() {
	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()
	if since := time.Since(c.lastRequest); since < c.minInterval {
		time.Sleep(c.minInterval - since)
	}
	c.lastRequest = time.Now()
}

// RawMovie is a movie as TMDB list endpoints return it.
type RawMovie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int64 `json:"genre_ids"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
}

type listResponse struct {
	Page         int        `json:"page"`
	Results      []RawMovie `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int64      `json:"total_results"`
}

// MovieDetails is the /movie/{id} response, which carries runtime and full
// genre objects instead of bare IDs.
type MovieDetails struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Runtime          int     `json:"runtime"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
	Genres           []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// GenreIDList flattens the full genre objects to bare IDs.
func (d *MovieDetails) GenreIDList() []int64 {
	ids := make([]int64, 0, len(d.Genres))
	for _, g := range d.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// DiscoverParams maps to /discover/movie query parameters. Zero values are
// omitted from the request.
type DiscoverParams struct {
	WithGenres        string
	WithoutGenres     string
	WithOriginCountry string
	PrimaryReleaseGTE string // primary_release_date.gte, YYYY-MM-DD
	PrimaryReleaseLTE string // primary_release_date.lte, YYYY-MM-DD
	VoteAverageGTE    float64
	VoteCountGTE      int
	RuntimeGTE        int
	RuntimeLTE        int
	SortBy            string
	Page              int
	IncludeAdult      bool
	Language          string
}

func (p DiscoverParams) values() url.Values {
	q := url.Values{}
	set := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	set("with_genres", p.WithGenres)
	set("without_genres", p.WithoutGenres)
	set("with_origin_country", p.WithOriginCountry)
	set("primary_release_date.gte", p.PrimaryReleaseGTE)
	set("primary_release_date.lte", p.PrimaryReleaseLTE)
	if p.VoteAverageGTE > 0 {
		q.Set("vote_average.gte", strconv.FormatFloat(p.VoteAverageGTE, 'f', -1, 64))
	}
	if p.VoteCountGTE > 0 {
		q.Set("vote_count.gte", strconv.Itoa(p.VoteCountGTE))
	}
	if p.RuntimeGTE > 0 {
		q.Set("with_runtime.gte", strconv.Itoa(p.RuntimeGTE))
	}
	if p.RuntimeLTE > 0 {
		q.Set("with_runtime.lte", strconv.Itoa(p.RuntimeLTE))
	}
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	q.Set("sort_by", sortBy)
	page := p.Page
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("include_adult", strconv.FormatBool(p.IncludeAdult))
	set("language", p.Language)
	return q
}

// Discover queries /discover/movie.
func (c *Client) Discover(ctx context.Context, params DiscoverParams) ([]RawMovie, error) {
	var resp listResponse
	if err := c.doGET(ctx, "/discover/movie", params.values(), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Details fetches /movie/{id}.
func (c *Client) Details(ctx context.Context, id int64) (*MovieDetails, error) {
	var d MovieDetails
	if err := c.doGET(ctx, "/movie/"+strconv.FormatInt(id, 10), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

type keywordsResponse struct {
	Keywords []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"keywords"`
}

// Keywords fetches the keyword names attached to a movie.
func (c *Client) Keywords(ctx context.Context, id int64) ([]string, error) {
	var resp keywordsResponse
	if err := c.doGET(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/keywords", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Keywords))
	for _, k := range resp.Keywords {
		names = append(names, k.Name)
	}
	return names, nil
}

// Similar fetches /movie/{id}/similar.
func (c *Client) Similar(ctx context.Context, id int64, page int) ([]RawMovie, error) {
	return c.list(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/similar", page, "")
}

// Recommendations fetches /movie/{id}/recommendations.
func (c *Client) Recommendations(ctx context.Context, id int64, page int) ([]RawMovie, error) {
	return c.list(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/recommendations", page, "")
}

// Popular fetches /movie/popular.
func (c *Client) Popular(ctx context.Context, page int, language string) ([]RawMovie, error) {
	return c.list(ctx, "/movie/popular", page, language)
}

// Trending fetches /trending/movie/{window}; window is "day" or "week".
func (c *Client) Trending(ctx context.Context, window string, language string) ([]RawMovie, error) {
	if window != "day" && window != "week" {
		window = "week"
	}
	return c.list(ctx, "/trending/movie/"+window, 1, language)
}

// Search queries /search/movie.
func (c *Client) Search(ctx context.Context, query string, page int, language string) ([]RawMovie, error) {
	q := url.Values{}
	q.Set("query", query)
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("include_adult", "false")
	if language != "" {
		q.Set("language", language)
	}
	var resp listResponse
	if err := c.doGET(ctx, "/search/movie", q, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) list(ctx context.Context, endpoint string, page int, language string) ([]RawMovie, error) {
	q := url.Values{}
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	if language != "" {
		q.Set("language", language)
	}
	var resp listResponse
	if err := c.doGET(ctx, endpoint, q, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
