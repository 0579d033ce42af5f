package render

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func TestHTTPProber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.WriteHeader(http.StatusOK)
		case "/nohead.png":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := &HTTPProber{Client: srv.Client()}
	ctx := context.Background()
	require.NoError(t, p.Probe(ctx, srv.URL+"/ok.png"))
	require.NoError(t, p.Probe(ctx, srv.URL+"/nohead.png"))

	err := p.Probe(ctx, srv.URL+"/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	require.Error(t, p.Probe(ctx, "://bad"))
	srv.Client().CloseIdleConnections()
}

func TestProbeAll(t *testing.T) {
	var inflight, peak atomic.Int32
	p := ProberFunc(func(_ context.Context, src string) error {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		if src == "b" || src == "d" {
			return errors.New("broken")
		}
		return nil
	})

	failures, err := ProbeAll(context.Background(), p, []string{"a", "b", "c", "d", "e", "f"}, 2)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, "b", failures[0].Src)
	assert.Equal(t, "d", failures[1].Src)
	assert.LessOrEqual(t, peak.Load(), int32(2))

	fb := NewFallbacks("placeholder.png")
	assert.Equal(t, 2, fb.MarkFailures(failures))
	assert.Equal(t, 0, fb.MarkFailures(failures))
}

func TestProbeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ProbeAll(ctx, ProberFunc(func(context.Context, string) error { return nil }), []string{"a"}, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestProbeAllEmpty(t *testing.T) {
	failures, err := ProbeAll(context.Background(), ProberFunc(func(context.Context, string) error { return nil }), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, failures)
}
