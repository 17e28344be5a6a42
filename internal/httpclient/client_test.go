package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	client := New(nil)
	assert.Equal(t, DefaultTimeout, client.defaultTimeout)
	assert.Equal(t, defaultUserAgent, client.userAgent)

	client = New(&Config{DefaultTimeout: 2 * time.Second, UserAgent: "Test/1.0"})
	assert.Equal(t, 2*time.Second, client.defaultTimeout)
	assert.Equal(t, "Test/1.0", client.userAgent)
}

func TestGetMergesQueryAndSetsHeaders(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotUA string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	client := New(nil)
	resp, err := client.Get(t.Context(), server.URL+"/data?lang=en", url.Values{"q": {"London"}, "units": {"metric"}})
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, "en", gotQuery.Get("lang"))
	assert.Equal(t, "London", gotQuery.Get("q"))
	assert.Equal(t, "metric", gotQuery.Get("units"))
	assert.Equal(t, defaultUserAgent, gotUA)
}

func TestDefaultTimeoutApplies(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	client := New(&Config{DefaultTimeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := client.Get(context.Background(), server.URL, nil)

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestContextCancellation(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := New(nil).Get(ctx, server.URL, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHooksObserveResponses(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	var calls atomic.Int32
	var status atomic.Int32
	client := New(nil)
	client.OnResponse(func(req *http.Request, resp *http.Response, err error, elapsed time.Duration) {
		calls.Add(1)
		if resp != nil {
			status.Store(int32(resp.StatusCode))
		}
	})

	resp, err := client.Get(t.Context(), server.URL, nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(http.StatusTeapot), status.Load())
}

func TestDoRejectsNilRequest(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Do(t.Context(), nil)
	require.Error(t, err)
}

func TestGetRejectsBadURL(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Get(t.Context(), "://bad", nil)
	require.Error(t, err)
}
