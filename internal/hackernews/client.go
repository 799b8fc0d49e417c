package hackernews

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aniketraj30/hackernews-scraper/internal/model"
)

// DefaultURL is the Hacker News front page.
const DefaultURL = "https://news.ycombinator.com/"

// maxBodyBytes caps how much of the listing page is read.
const maxBodyBytes = 8 << 20

// Client fetches one listing page and parses it into candidates.
// It holds no state across calls other than the HTTP connection pool.
type Client struct {
	pageURL   string
	base      *url.URL
	userAgent string
	client    *http.Client
}

// NewClient creates a new listing page client. An empty pageURL defaults to
// the Hacker News front page; a non-positive timeout defaults to 20s.
func NewClient(pageURL, userAgent string, timeout time.Duration) *Client {
	if strings.TrimSpace(pageURL) == "" {
		pageURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}
	return &Client{
		pageURL:   pageURL,
		base:      base,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// URL returns the page this client fetches.
func (c *Client) URL() string { return c.pageURL }

// FetchAndParse issues a single GET of the listing page and extracts
// candidates from it. Any failure to obtain the body is a *FetchError.
func (c *Client) FetchAndParse(ctx context.Context) ([]model.Candidate, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	items, err := ParsePage(bytes.NewReader(body), c.base)
	if err != nil {
		return nil, err
	}
	slog.Debug("hackernews: parsed page", "url", c.pageURL, "bytes", len(body), "candidates", len(items))
	return items, nil
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: c.pageURL, Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "text/html")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: c.pageURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{URL: c.pageURL, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: c.pageURL, Err: err}
	}
	return body, nil
}
