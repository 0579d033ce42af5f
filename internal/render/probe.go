package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oakwood-commons/showroom/pkg/logger"
)

// DefaultProbeLimit bounds concurrent image probes.
const DefaultProbeLimit = 8

// Prober checks whether an image source loads.
type Prober interface {
	Probe(ctx context.Context, src string) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, src string) error

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, src string) error {
	return f(ctx, src)
}

// HTTPProber probes images with HEAD, retrying with GET when the server
// does not allow HEAD. Any non-2xx status is a failure.
type HTTPProber struct {
	Client *http.Client
}

// NewHTTPProber returns a prober with the given per-request timeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{Client: &http.Client{Timeout: timeout}}
}

// Probe implements Prober.
func (p *HTTPProber) Probe(ctx context.Context, src string) error {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	status, err := p.do(ctx, client, http.MethodHead, src)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = p.do(ctx, client, http.MethodGet, src)
	}
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("image %s: status %d", src, status)
	}
	return nil
}

func (p *HTTPProber) do(ctx context.Context, client *http.Client, method, src string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, src, nil)
	if err != nil {
		return 0, fmt.Errorf("image %s: %w", src, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("image %s: %w", src, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return resp.StatusCode, nil
}

// Failure is an image source that did not load.
type Failure struct {
	Src string
	Err error
}

// ProbeAll probes srcs with at most limit probes in flight and returns the
// failures in input order. A failed image never stops the others; only a
// cancelled ctx returns an error.
func ProbeAll(ctx context.Context, p Prober, srcs []string, limit int) ([]Failure, error) {
	if limit <= 0 {
		limit = DefaultProbeLimit
	}
	lgr := logger.FromContext(ctx)
	errs := make([]error, len(srcs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, src := range srcs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			errs[i] = p.Probe(gctx, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var failures []Failure
	for i, err := range errs {
		if err == nil {
			continue
		}
		lgr.V(1).Info("image probe failed", "src", srcs[i], "error", err.Error())
		failures = append(failures, Failure{Src: srcs[i], Err: err})
	}
	return failures, nil
}

// MarkFailures swaps every failed source for the placeholder and returns
// how many were newly marked.
func (f *Fallbacks) MarkFailures(failures []Failure) int {
	n := 0
	for _, fl := range failures {
		if f.MarkFailed(fl.Src) {
			n++
		}
	}
	return n
}
