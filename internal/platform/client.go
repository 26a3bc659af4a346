package platform

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

	"storydl/internal/config"
	"storydl/internal/services"
)

const (
	storyInfoPath   = "/api/v3/stories/"
	storyTextPath   = "/apiv2/storytext"
	chapterInfoPath = "/apiv2/info"
	categoriesPath  = "/apiv2/getcategories"
)

// Client provides access to the platform API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

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

// New creates a platform client with the default transport.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("platform base url required")
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("platform user agent required")
	}
	client := &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig builds a client honouring the configured proxy and timeout.
func NewFromConfig(cfg config.Platform, opts ...Option) (*Client, error) {
	httpClient, err := NewHTTPClient(cfg.Proxy, time.Duration(cfg.TimeoutSeconds)*time.Second)
	if err != nil {
		return nil, err
	}
	return New(cfg.BaseURL, cfg.UserAgent, append([]Option{WithHTTPClient(httpClient)}, opts...)...)
}

// NewHTTPClient returns an HTTP client that routes through proxyURL when it is
// non-empty. socks5 and socks5h schemes are handled by the standard transport.
// A zero timeout leaves requests unbounded.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL = strings.TrimSpace(proxyURL); proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(parsed)
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}

// StoryExists asks the story endpoint whether id names a story. A nil error
// means the platform confirmed it.
func (c *Client) StoryExists(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("story id must not be empty")
	}
	body, err := c.get(ctx, "story", c.endpoint(storyInfoPath+url.PathEscape(id), nil))
	if err != nil {
		return err
	}
	return body.Close()
}

// Story fetches story metadata including draft and deleted parts so that
// eligibility can be decided per chapter.
func (c *Client) Story(ctx context.Context, id string) (*Story, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("story id must not be empty")
	}
	params := url.Values{}
	params.Set("drafts", "1")
	params.Set("include_deleted", "1")

	var payload storyPayload
	if err := c.getJSON(ctx, "story", c.endpoint(storyInfoPath+url.PathEscape(id), params), &payload); err != nil {
		return nil, err
	}
	if missing := payload.missingFields(); len(missing) > 0 {
		return nil, services.Wrap(services.ErrMalformedResponse, "platform", "story", "missing fields: "+strings.Join(missing, ", "), nil)
	}
	story := payload.story()
	if story.ID == "" {
		story.ID = ID(id)
	}
	return story, nil
}

// ChapterInfo fetches the chapter info record for a chapter id.
func (c *Client) ChapterInfo(ctx context.Context, chapterID string) (*ChapterInfo, error) {
	chapterID = strings.TrimSpace(chapterID)
	if chapterID == "" {
		return nil, errors.New("chapter id must not be empty")
	}
	params := url.Values{}
	params.Set("id", chapterID)

	var payload ChapterInfo
	if err := c.getJSON(ctx, "chapter info", c.endpoint(chapterInfoPath, params), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ChapterStoryURL returns the canonical URL of the story that owns chapterID.
func (c *Client) ChapterStoryURL(ctx context.Context, chapterID string) (string, error) {
	info, err := c.ChapterInfo(ctx, chapterID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(info.URL) == "" {
		return "", services.Wrap(services.ErrMalformedResponse, "platform", "chapter info", "missing url", nil)
	}
	return info.URL, nil
}

// ChapterText fetches the raw HTML body of one chapter.
func (c *Client) ChapterText(ctx context.Context, chapterID string) (string, error) {
	chapterID = strings.TrimSpace(chapterID)
	if chapterID == "" {
		return "", errors.New("chapter id must not be empty")
	}
	params := url.Values{}
	params.Set("id", chapterID)
	params.Set("output", "json")

	var payload storyTextPayload
	if err := c.getJSON(ctx, "chapter text", c.endpoint(storyTextPath, params), &payload); err != nil {
		return "", err
	}
	if payload.Text == nil {
		return "", services.Wrap(services.ErrMalformedResponse, "platform", "chapter text", "missing text", nil)
	}
	return *payload.Text, nil
}

// Categories fetches the category code to label table. Keys that are not
// integers are ignored.
func (c *Client) Categories(ctx context.Context) (map[int]string, error) {
	var payload map[string]string
	if err := c.getJSON(ctx, "categories", c.endpoint(categoriesPath, nil), &payload); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(payload))
	for key, label := range payload {
		code, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		out[code] = label
	}
	return out, nil
}

// Download fetches an absolute URL (e.g. a cover image) and returns the body.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("download url must not be empty")
	}
	body, err := c.get(ctx, "download", rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "platform", "download", "read body", err)
	}
	return data, nil
}

func (c *Client) endpoint(path string, params url.Values) string {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	return endpoint
}

func (c *Client) getJSON(ctx context.Context, operation, endpoint string, dst any) error {
	body, err := c.get(ctx, operation, endpoint)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return services.Wrap(services.ErrMalformedResponse, "platform", operation, "decode response", err)
	}
	return nil
}

// get performs a GET and returns the body of a 2xx response. The caller owns
// closing it.
func (c *Client) get(ctx context.Context, operation, endpoint string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "platform", operation, "build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "platform", operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, services.Wrap(services.ErrFetch, "platform", operation, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}
	return resp.Body, nil
}
