package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, cfg *Config) *Client {
	t.Helper()
	client := New(cfg)
	t.Cleanup(client.Close)
	return client
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, nil)
		assert.Equal(t, DefaultTimeout, client.defaultTimeout)
		assert.Equal(t, defaultUserAgent, client.userAgent)
		assert.Nil(t, client.limiter)
	})

	t.Run("zero values use defaults", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, &Config{})
		assert.Equal(t, DefaultTimeout, client.defaultTimeout)
		assert.NotEmpty(t, client.userAgent)
	})

	t.Run("rate limit enables limiter", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, &Config{RateLimit: 2})
		require.NotNil(t, client.limiter)
		assert.Equal(t, 1, client.limiter.Burst())
	})
}

func TestGetJSON(t *testing.T) {
	t.Parallel()

	var receivedUA string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		receivedUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"London","main":{"temp":12.5}}`))
	})

	client := newTestClient(t, &Config{UserAgent: "weatherdash-test/1.0"})

	var payload struct {
		Name string `json:"name"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	require.NoError(t, client.GetJSON(t.Context(), server.URL, &payload))

	assert.Equal(t, "London", payload.Name)
	assert.InDelta(t, 12.5, payload.Main.Temp, 0.001)
	assert.Equal(t, "weatherdash-test/1.0", receivedUA)
}

func TestGetJSON_StatusError(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	})

	client := newTestClient(t, nil)

	var payload map[string]any
	err := client.GetJSON(t.Context(), server.URL, &payload)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestGetJSON_NonOKSuccessStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusCreated, http.StatusNonAuthoritativeInfo} {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"name":"London"}`))
		})

		client := newTestClient(t, nil)

		var payload map[string]any
		err := client.GetJSON(t.Context(), server.URL, &payload)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr, "status %d", status)
		assert.Equal(t, status, statusErr.StatusCode)
		assert.Empty(t, payload)
	}
}

func TestGetJSON_DecodeError(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	client := newTestClient(t, nil)

	var payload map[string]any
	require.Error(t, client.GetJSON(t.Context(), server.URL, &payload))
}

func TestDo_DefaultTimeout(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	client := newTestClient(t, &Config{DefaultTimeout: 50 * time.Millisecond})

	resp, err := client.Get(t.Context(), server.URL)
	if resp != nil {
		_ = resp.Body.Close()
	}
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDo_ContextTimeoutOverridesDefault(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	})

	client := newTestClient(t, &Config{DefaultTimeout: 5 * time.Millisecond})

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()

	var payload map[string]any
	require.NoError(t, client.GetJSON(ctx, server.URL, &payload))
}

func TestDo_BodyReadableAfterReturn(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("forecast"))
	})

	client := newTestClient(t, nil)

	resp, err := client.Get(t.Context(), server.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	buf := make([]byte, len("forecast"))
	n, err := resp.Body.Read(buf)
	require.Equal(t, len(buf), n, "read error: %v", err)
	assert.Equal(t, "forecast", string(buf))
}

func TestDo_RateLimitHonoursContext(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{}`))
	})

	// One token, refilled every 10 seconds
	client := newTestClient(t, &Config{RateLimit: 0.1, Burst: 1})

	var payload map[string]any
	require.NoError(t, client.GetJSON(t.Context(), server.URL, &payload))

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	err := client.GetJSON(ctx, server.URL, &payload)
	require.Error(t, err)
	assert.Equal(t, int32(1), requests.Load())
}

func TestDo_Hooks(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	client := newTestClient(t, nil)

	var beforeCalled atomic.Bool
	var afterStatus atomic.Int32
	client.SetBeforeRequestHook(func(r *http.Request) {
		beforeCalled.Store(true)
	})
	client.SetAfterResponseHook(func(r *http.Request, resp *http.Response, err error, elapsed time.Duration) {
		if err == nil {
			afterStatus.Store(int32(resp.StatusCode))
		}
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	})

	resp, err := client.Get(t.Context(), server.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.True(t, beforeCalled.Load())
	assert.Equal(t, int32(http.StatusAccepted), afterStatus.Load())
}

func TestDo_CancelledContextSendsNothing(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	client := newTestClient(t, nil)
	var hookCalled atomic.Bool
	client.SetBeforeRequestHook(func(*http.Request) { hookCalled.Store(true) })

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := client.Get(ctx, server.URL)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, requests.Load())
	assert.False(t, hookCalled.Load())
}

func TestDo_NilRequest(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, nil)
	_, err := client.Do(t.Context(), nil)
	require.Error(t, err)
}
