package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tubular-cli/tubular/auth"
	"github.com/tubular-cli/tubular/constant"
	"github.com/tubular-cli/tubular/internal/cache"
	"github.com/tubular-cli/tubular/key"
	"github.com/tubular-cli/tubular/log"
	"github.com/tubular-cli/tubular/network"
	"github.com/tubular-cli/tubular/where"
	"golang.org/x/time/rate"
)

// Options configures a YouTube gateway.
type Options struct {
	BaseURL  string
	APIKey   string
	Language string
	// Timeout bounds every call. Zero keeps the client's own timeout.
	Timeout time.Duration
	// RateLimit is the maximum number of calls per second. Zero disables pacing.
	RateLimit float64
	// Region selects the chart listed by Popular. Empty leaves it to the platform.
	Region string
	// PageSize is the number of videos per listing page. Zero uses DefaultPageSize.
	PageSize int
	// Auth supplies the bearer token for user operations.
	Auth   auth.Source
	Client *http.Client
	// CacheDir holds the metadata cache. Empty disables caching.
	CacheDir string
	// CacheLifetime is how long cached metadata stays valid. Zero disables caching.
	CacheLifetime time.Duration
}

// DefaultPageSize is the listing page size used when none is configured.
const DefaultPageSize = 12

// YouTube implements Gateway on top of the YouTube Data API v3.
type YouTube struct {
	baseURL  string
	apiKey   string
	language string
	region   string
	pageSize int
	auth     auth.Source
	client   *http.Client
	limiter  *rate.Limiter
	videos   *cache.Store[*Video]
	channels *cache.Store[*Channel]
}

var _ Gateway = (*YouTube)(nil)

// New creates a gateway from opts.
func New(opts Options) *YouTube {
	yt := &YouTube{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		apiKey:   opts.APIKey,
		language: opts.Language,
		region:   opts.Region,
		pageSize: opts.PageSize,
		auth:     opts.Auth,
		client:   opts.Client,
		limiter:  rate.NewLimiter(rate.Inf, 0),
	}

	if yt.baseURL == "" {
		yt.baseURL = constant.DefaultAPIBase
	}
	if yt.pageSize <= 0 {
		yt.pageSize = DefaultPageSize
	}
	if yt.auth == nil {
		yt.auth = auth.Static("")
	}
	if yt.client == nil {
		yt.client = network.Client
	}
	if opts.Timeout > 0 {
		yt.client = &http.Client{Timeout: opts.Timeout, Transport: yt.client.Transport}
	}
	if opts.RateLimit > 0 {
		yt.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, int(opts.RateLimit)))
	}
	if opts.CacheDir != "" && opts.CacheLifetime > 0 {
		yt.videos = cache.New[*Video](filepath.Join(opts.CacheDir, "videos.json"), opts.CacheLifetime)
		yt.channels = cache.New[*Channel](filepath.Join(opts.CacheDir, "channels.json"), opts.CacheLifetime)
	}

	return yt
}

// NewFromConfig creates a gateway configured by the gateway.* and cache.* keys.
func NewFromConfig(src auth.Source) *YouTube {
	return New(Options{
		BaseURL:       viper.GetString(key.GatewayBaseURL),
		APIKey:        viper.GetString(key.GatewayAPIKey),
		Language:      viper.GetString(key.GatewayLanguage),
		Region:        viper.GetString(key.GatewayRegion),
		PageSize:      viper.GetInt(key.GatewayPageSize),
		Timeout:       viper.GetDuration(key.GatewayTimeout),
		RateLimit:     viper.GetFloat64(key.GatewayRateLimit),
		Auth:          src,
		CacheDir:      where.Metadata(),
		CacheLifetime: viper.GetDuration(key.CacheMetadataLifetime),
	})
}

// FetchVideo returns the snippet and statistics of a video.
func (y *YouTube) FetchVideo(ctx context.Context, id string) (*Video, error) {
	fetch := func(ctx context.Context) (*Video, error) {
		var list videoList
		query := url.Values{"part": {"snippet,statistics"}, "id": {id}}
		if err := y.do(ctx, "fetch video", http.MethodGet, "videos", query, nil, false, &list); err != nil {
			return nil, err
		}
		video, ok := list.first()
		if !ok {
			return nil, fmt.Errorf("video %s: %w", id, ErrNotFound)
		}
		return video, nil
	}

	if y.videos == nil {
		return fetch(ctx)
	}
	return y.videos.Fetch(ctx, id, fetch)
}

// FetchChannel returns the snippet and statistics of a channel.
func (y *YouTube) FetchChannel(ctx context.Context, id string) (*Channel, error) {
	fetch := func(ctx context.Context) (*Channel, error) {
		var list channelList
		query := url.Values{"part": {"snippet,statistics"}, "id": {id}}
		if err := y.do(ctx, "fetch channel", http.MethodGet, "channels", query, nil, false, &list); err != nil {
			return nil, err
		}
		channel, ok := list.first()
		if !ok {
			return nil, fmt.Errorf("channel %s: %w", id, ErrNotFound)
		}
		return channel, nil
	}

	if y.channels == nil {
		return fetch(ctx)
	}
	return y.channels.Fetch(ctx, id, fetch)
}

// Popular returns one page of the chart of most popular videos.
// Listed videos are stored in the metadata cache, so opening one does not fetch it again.
func (y *YouTube) Popular(ctx context.Context, pageToken string) (*Page, error) {
	var list videoList
	query := url.Values{
		"part":       {"snippet,statistics"},
		"chart":      {"mostPopular"},
		"maxResults": {strconv.Itoa(y.pageSize)},
	}
	if y.region != "" {
		query.Set("regionCode", y.region)
	}
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}
	if err := y.do(ctx, "popular", http.MethodGet, "videos", query, nil, false, &list); err != nil {
		return nil, err
	}

	page := &Page{Videos: list.videos(), NextPageToken: list.NextPageToken}
	if y.videos != nil {
		for _, video := range page.Videos {
			if err := y.videos.Set(video.ID, video); err != nil {
				log.Warnf("cache video %s: %v", video.ID, err)
				break
			}
		}
	}
	return page, nil
}

// Search returns videos matching query. Results carry no statistics.
func (y *YouTube) Search(ctx context.Context, query string, limit int) ([]*Video, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search: %w", ErrEmptyQuery)
	}
	if limit <= 0 {
		limit = y.pageSize
	}

	var list searchList
	params := url.Values{
		"part":       {"snippet"},
		"type":       {"video"},
		"q":          {query},
		"maxResults": {strconv.Itoa(limit)},
	}
	if err := y.do(ctx, "search", http.MethodGet, "search", params, nil, false, &list); err != nil {
		return nil, err
	}
	return list.videos(), nil
}

func (y *YouTube) GetSubscription(ctx context.Context, channelID string) (string, error) {
	var list subscriptionList
	query := url.Values{"part": {"id"}, "mine": {"true"}, "forChannelId": {channelID}}
	if err := y.do(ctx, "get subscription", http.MethodGet, "subscriptions", query, nil, true, &list); err != nil {
		return "", err
	}
	if len(list.Items) == 0 {
		return "", nil
	}
	return list.Items[0].ID, nil
}

func (y *YouTube) SetSubscription(ctx context.Context, channelID string) (string, error) {
	var body subscriptionInsert
	body.Snippet.ResourceID.Kind = "youtube#channel"
	body.Snippet.ResourceID.ChannelID = channelID

	var created subscription
	query := url.Values{"part": {"snippet"}}
	if err := y.do(ctx, "set subscription", http.MethodPost, "subscriptions", query, body, true, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// ClearSubscription reports false without error when the handle no longer exists.
func (y *YouTube) ClearSubscription(ctx context.Context, handle string) (bool, error) {
	query := url.Values{"id": {handle}}
	err := y.do(ctx, "clear subscription", http.MethodDelete, "subscriptions", query, nil, true, nil)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (y *YouTube) GetRating(ctx context.Context, videoID string) (Rating, error) {
	var list ratingList
	query := url.Values{"id": {videoID}}
	if err := y.do(ctx, "get rating", http.MethodGet, "videos/getRating", query, nil, true, &list); err != nil {
		return RatingNone, err
	}
	if len(list.Items) == 0 {
		return RatingNone, nil
	}
	return ParseRating(list.Items[0].Rating), nil
}

func (y *YouTube) SetRating(ctx context.Context, videoID string, rating Rating) error {
	if rating != RatingLiked && rating != RatingDisliked {
		return fmt.Errorf("set rating: unsupported rating %q", rating)
	}
	return y.rate(ctx, "set rating", videoID, rating)
}

func (y *YouTube) ClearRating(ctx context.Context, videoID string) error {
	return y.rate(ctx, "clear rating", videoID, RatingNone)
}

func (y *YouTube) rate(ctx context.Context, op, videoID string, rating Rating) error {
	query := url.Values{"id": {videoID}, "rating": {rating.String()}}
	return y.do(ctx, op, http.MethodPost, "videos/rate", query, nil, true, nil)
}

// do performs one API call. User operations carry the bearer token; public reads carry the API key.
func (y *YouTube) do(ctx context.Context, op, method, path string, query url.Values, body any, user bool, out any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if y.language != "" && method == http.MethodGet && !user {
		query.Set("hl", y.language)
	}

	var token string
	if user {
		t, ok := y.auth.Token()
		if !ok {
			return fmt.Errorf("%s: %w", op, ErrNoToken)
		}
		token = t
	} else if y.apiKey != "" {
		query.Set("key", y.apiKey)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := y.baseURL + "/" + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := y.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	log.WithFields(log.Fields{
		"op":       op,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("gateway call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(op, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	se := &StatusError{Op: op, StatusCode: resp.StatusCode}

	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		se.Message = body.Error.Message
		if len(body.Error.Errors) > 0 {
			se.Reason = body.Error.Errors[0].Reason
		}
	}
	return se
}
