package nvidia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the China-region lookup endpoint.
	DefaultBaseURL = "https://gfwsl.geforce.cn/services_toolkit/services/com/nvidia/services/AjaxDriverService.php"
	// DefaultUserAgent mimics a desktop browser; the service rejects bare clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	// DefaultTimeout bounds a single lookup; large result sets are slow.
	DefaultTimeout = 180 * time.Second
)

// Query describes one DriverManualLookup request.
type Query struct {
	Name            string
	ProductSeriesID int
	ProductFamilyID int
	OSID            int
	LanguageCode    int
	DCH             bool
	Studio          bool
	WHQL            bool
	Results         int
}

// Values encodes the query parameters the service expects.
func (q Query) Values() url.Values {
	params := url.Values{}
	params.Set("func", "DriverManualLookup")
	params.Set("psid", strconv.Itoa(q.ProductSeriesID))
	params.Set("pfid", strconv.Itoa(q.ProductFamilyID))
	params.Set("osID", strconv.Itoa(q.OSID))
	params.Set("languageCode", strconv.Itoa(q.LanguageCode))
	params.Set("beta", "0")
	params.Set("isWHQL", flag(q.WHQL))
	params.Set("dltype", "-1")
	params.Set("dch", flag(q.DCH))
	params.Set("upCRD", flag(q.Studio))
	params.Set("sort1", "0")
	params.Set("numberOfResults", strconv.Itoa(q.Results))
	return params
}

func flag(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

// DownloadInfo is the per-driver payload of a lookup result.
type DownloadInfo struct {
	ID                  string `json:"ID"`
	Name                string `json:"Name"`
	Version             string `json:"Version"`
	ReleaseDateTime     string `json:"ReleaseDateTime"`
	DownloadURL         string `json:"DownloadURL"`
	DetailsURL          string `json:"DetailsURL"`
	DownloadURLFileSize string `json:"DownloadURLFileSize"`
	IsBeta              string `json:"IsBeta"`
	IsWHQL              string `json:"IsWHQL"`
	IsDCH               string `json:"IsDCH"`
	IsCRD               string `json:"IsCRD"`
}

// Entry wraps a single result row.
type Entry struct {
	DownloadInfo DownloadInfo `json:"downloadInfo"`
}

// LookupResponse models the DriverManualLookup JSON document. IDS is empty
// when the service found nothing.
type LookupResponse struct {
	Success string  `json:"Success"`
	IDS     []Entry `json:"IDS"`
}

// Lookuper performs driver lookups.
type Lookuper interface {
	Lookup(ctx context.Context, q Query) (*LookupResponse, error)
}

// Client provides access to the driver lookup service.
type Client struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

var _ Lookuper = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUserAgent overrides the User-Agent header sent with each lookup.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if ua := strings.TrimSpace(userAgent); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client. It
// has no effect when WithHTTPClient supplies a client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// New creates a lookup client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("nvidia lookup base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse nvidia lookup url: %w", err)
	}
	client := &Client{
		baseURL:   baseURL,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: client.timeout}
	}
	return client, nil
}

// Lookup performs a single DriverManualLookup request.
func (c *Client) Lookup(ctx context.Context, q Query) (*LookupResponse, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse nvidia lookup url: %w", err)
	}
	endpoint.RawQuery = q.Values().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("driver lookup returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload LookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode driver lookup response: %w", err)
	}
	return &payload, nil
}
