// Package youtube est un client minimal de la YouTube Data API v3
// (clé API, pas d'OAuth).
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/church-livestream/cls/internal/domain"
	"github.com/church-livestream/cls/internal/ports"
)

const (
	defaultBaseURL = "https://www.googleapis.com"
	requestTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

var ErrNoUploadsPlaylist = errors.New("uploads playlist not found for this channel")

// HTTPClient permet d'injecter un transport en test.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) { c.http = h }
}

// WithRateLimit borne le débit sortant (requêtes/seconde). rps <= 0 désactive.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, burst))
	}
}

type Client struct {
	baseURL string
	http    HTTPClient
	limiter *rate.Limiter
}

var _ ports.VideoAPI = (*Client)(nil)

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError est une erreur renvoyée dans le corps JSON de l'API.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Reason     string
}

func (e *APIError) Error() string {
	return e.Endpoint + " API error: " + e.Message
}

// Is: toute APIError est une ports.ErrUpstream; seul "quotaExceeded" est une ports.ErrQuotaExceeded.
func (e *APIError) Is(target error) bool {
	switch target {
	case ports.ErrUpstream:
		return true
	case ports.ErrQuotaExceeded:
		return e.Reason == "quotaExceeded"
	}
	return false
}

// InvalidJSONError: corps de réponse non décodable.
type InvalidJSONError struct {
	Endpoint string
	Err      error
}

func (e *InvalidJSONError) Error() string { return e.Endpoint + " returned invalid JSON" }
func (e *InvalidJSONError) Unwrap() error { return e.Err }

type errorEnvelope struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func (c *Client) UploadsPlaylistID(ctx context.Context, apiKey, channelID string) (string, error) {
	q := url.Values{}
	q.Set("part", "contentDetails")
	q.Set("id", channelID)
	q.Set("key", apiKey)

	var resp channelsResponse
	if err := c.get(ctx, "channels", q, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails.RelatedPlaylists.Uploads == "" {
		return "", ErrNoUploadsPlaylist
	}
	return resp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}

func (c *Client) RecentUploadIDs(ctx context.Context, apiKey, playlistID string, maxResults int) ([]string, error) {
	q := url.Values{}
	q.Set("part", "contentDetails")
	q.Set("playlistId", playlistID)
	q.Set("maxResults", strconv.Itoa(domain.ClampLookback(maxResults)))
	q.Set("key", apiKey)

	var resp playlistItemsResponse
	if err := c.get(ctx, "playlistItems", q, &resp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ContentDetails.VideoID != "" {
			ids = append(ids, it.ContentDetails.VideoID)
		}
	}
	return ids, nil
}

func (c *Client) Videos(ctx context.Context, apiKey string, ids []string) ([]domain.Video, error) {
	if len(ids) == 0 {
		return []domain.Video{}, nil
	}
	q := url.Values{}
	q.Set("part", "snippet,liveStreamingDetails,status")
	q.Set("id", strings.Join(ids, ","))
	q.Set("key", apiKey)

	var resp videosResponse
	if err := c.get(ctx, "videos", q, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Video, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, it.toDomain())
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, dst any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s request failed: %w", endpoint, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/youtube/v3/"+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, redactKey(err))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &InvalidJSONError{Endpoint: endpoint, Err: err}
	}
	if env.Error != nil {
		apiErr := &APIError{Endpoint: endpoint, StatusCode: res.StatusCode, Message: env.Error.Message}
		if apiErr.Message == "" {
			apiErr.Message = "unknown error"
		}
		if len(env.Error.Errors) > 0 {
			apiErr.Reason = env.Error.Errors[0].Reason
		}
		return apiErr
	}
	if res.StatusCode >= 400 {
		return &APIError{Endpoint: endpoint, StatusCode: res.StatusCode, Message: http.StatusText(res.StatusCode)}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &InvalidJSONError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// redactKey retire l'URL (qui contient la clé API) des erreurs de transport.
func redactKey(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
