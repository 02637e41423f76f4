// Package github lit les releases d'un dépôt via l'API REST GitHub.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/church-livestream/cls/internal/domain"
	"github.com/church-livestream/cls/internal/ports"
)

const (
	defaultBaseURL = "https://api.github.com"
	requestTimeout = 15 * time.Second
	prereleasePage = 20
)

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

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

type Client struct {
	baseURL   string
	userAgent string
	http      HTTPClient
}

var _ ports.ReleaseSource = (*Client)(nil)

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		userAgent: "cls",
		http:      &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Releases(ctx context.Context, repo, token string, includePrerelease bool) ([]domain.Release, error) {
	owner, project, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || project == "" {
		return nil, fmt.Errorf("github: invalid repo %q", repo)
	}

	endpoint := c.baseURL + "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(project)
	if includePrerelease {
		endpoint += fmt.Sprintf("/releases?per_page=%d", prereleasePage)
	} else {
		endpoint += "/releases/latest"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github releases request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("github releases for %s: %w", repo, ports.ErrNotFound)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
		return nil, fmt.Errorf("github releases: unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("github releases read: %w", err)
	}

	if includePrerelease {
		var list []releaseDTO
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("github releases decode: %w", err)
		}
		out := make([]domain.Release, 0, len(list))
		for _, r := range list {
			out = append(out, r.toDomain())
		}
		return out, nil
	}

	var one releaseDTO
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, fmt.Errorf("github releases decode: %w", err)
	}
	return []domain.Release{one.toDomain()}, nil
}

type releaseDTO struct {
	TagName     string     `json:"tag_name"`
	Name        string     `json:"name"`
	HTMLURL     string     `json:"html_url"`
	Body        string     `json:"body"`
	Draft       bool       `json:"draft"`
	Prerelease  bool       `json:"prerelease"`
	PublishedAt *time.Time `json:"published_at"`
	ZipballURL  string     `json:"zipball_url"`
	Assets      []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

func (r releaseDTO) toDomain() domain.Release {
	out := domain.Release{
		TagName:    r.TagName,
		Name:       r.Name,
		HTMLURL:    r.HTMLURL,
		Body:       r.Body,
		Draft:      r.Draft,
		Prerelease: r.Prerelease,
		ZipballURL: r.ZipballURL,
	}
	if r.PublishedAt != nil {
		out.PublishedAt = r.PublishedAt.UTC()
	}
	for _, a := range r.Assets {
		out.Assets = append(out.Assets, domain.ReleaseAsset{Name: a.Name, DownloadURL: a.BrowserDownloadURL})
	}
	return out
}
