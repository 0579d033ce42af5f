// Package thumbnails resolves asset references in a dataset into
// thumbnail image URLs through the Roblox thumbnails API.
package thumbnails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/time/rate"
)

// Defaults of the thumbnails API client.
const (
	DefaultEndpoint   = "https://thumbnails.roblox.com/v1/assets"
	DefaultBatchSize  = 100
	DefaultDelay      = time.Second
	DefaultMaxRetries = 5
	DefaultSize       = "250x250"
	DefaultFormat     = "Png"

	stateCompleted = "Completed"
)

// Client fetches thumbnails in batches. Requests are spaced by the
// configured delay; ids that come back pending, missing or in a failed
// request are queued again up to the retry limit.
type Client struct {
	http       *http.Client
	endpoint   string
	batchSize  int
	maxRetries int
	size       string
	format     string
	limiter    *rate.Limiter
	log        logr.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithEndpoint sets the API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithBatchSize sets the number of ids per request.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithMaxRetries sets how often an id is requeued before it is failed.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithDelay sets the minimum spacing between requests. Zero disables pacing.
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithSize sets the thumbnail size, e.g. "250x250".
func WithSize(size string) Option {
	return func(c *Client) { c.size = size }
}

// WithFormat sets the image format, e.g. "Png".
func WithFormat(format string) Option {
	return func(c *Client) { c.format = format }
}

// WithLogger sets the logger.
func WithLogger(lgr logr.Logger) Option {
	return func(c *Client) { c.log = lgr }
}

// NewClient returns a client with the API defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: 30 * time.Second},
		endpoint:   DefaultEndpoint,
		batchSize:  DefaultBatchSize,
		maxRetries: DefaultMaxRetries,
		size:       DefaultSize,
		format:     DefaultFormat,
		log:        logr.Discard(),
	}
	WithDelay(DefaultDelay)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Results maps asset ids to image URLs. A nil URL marks an asset that
// failed after all retries.
type Results map[string]*string

// Fetched counts the resolved assets.
func (r Results) Fetched() int {
	n := 0
	for _, u := range r {
		if u != nil {
			n++
		}
	}
	return n
}

// Failed counts the assets that could not be resolved.
func (r Results) Failed() int {
	return len(r) - r.Fetched()
}

type apiResponse struct {
	Data []struct {
		TargetID json.Number `json:"targetId"`
		State    string      `json:"state"`
		ImageURL string      `json:"imageUrl"`
	} `json:"data"`
}

// Fetch resolves ids. Every id ends up in the results, resolved or failed.
// Only a cancelled ctx stops the run early.
func (c *Client) Fetch(ctx context.Context, ids []string) (Results, error) {
	results := make(Results, len(ids))
	retries := make(map[string]int)
	var pending []string
	next := 0

	requeue := func(id, reason string, queue *[]string) {
		retries[id]++
		if retries[id] <= c.maxRetries {
			c.log.V(1).Info("asset pending", "asset", id, "reason", reason, "retry", retries[id], "max_retries", c.maxRetries)
			*queue = append(*queue, id)
			return
		}
		c.log.Info("asset failed", "asset", id, "reason", reason, "retries", c.maxRetries)
		results[id] = nil
	}

	for batchNumber := 1; next < len(ids) || len(pending) > 0; batchNumber++ {
		n := min(len(pending), c.batchSize)
		batch := append([]string(nil), pending[:n]...)
		pending = pending[n:]
		fresh := 0
		for next < len(ids) && len(batch) < c.batchSize {
			batch = append(batch, ids[next])
			next++
			fresh++
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return results, err
		}
		c.log.V(1).Info("fetching batch", "batch", batchNumber, "retries", len(batch)-fresh, "new", fresh, "total", len(batch))

		var retryNext []string
		resp, err := c.request(ctx, batch)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return results, ctxErr
			}
			c.log.Info("batch request failed", "batch", batchNumber, "error", err.Error())
			for _, id := range batch {
				requeue(id, "request failed", &retryNext)
			}
			pending = append(pending, retryNext...)
			continue
		}

		seen := make(map[string]bool, len(resp.Data))
		for _, item := range resp.Data {
			id := item.TargetID.String()
			seen[id] = true
			if item.State == stateCompleted {
				u := item.ImageURL
				results[id] = &u
				delete(retries, id)
				continue
			}
			requeue(id, "state "+item.State, &retryNext)
		}
		for _, id := range batch {
			if !seen[id] {
				requeue(id, "missing in response", &retryNext)
			}
		}
		pending = append(pending, retryNext...)
	}
	return results, nil
}

func (c *Client) request(ctx context.Context, batch []string) (*apiResponse, error) {
	q := url.Values{}
	q.Set("assetIds", strings.Join(batch, ","))
	q.Set("returnPolicy", "PlaceHolder")
	q.Set("size", c.size)
	q.Set("format", c.format)
	q.Set("isCircular", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request thumbnails: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("request thumbnails: status %d", resp.StatusCode)
	}
	var out apiResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode thumbnails response: %w", err)
	}
	return &out, nil
}
