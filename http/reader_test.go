package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/schemadex"
	schemadexhttp "github.com/fwojciec/schemadex/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader(t *testing.T) {
	t.Parallel()

	for _, base := range []string{"dumped/json", "ftp://example.com/json", "http://", "://bad"} {
		_, err := schemadexhttp.NewReader(base)
		require.Error(t, err, base)
		assert.Equal(t, schemadex.EINVALID, schemadex.ErrorCode(err), base)
	}
}

func TestReader_ReadFile(t *testing.T) {
	t.Parallel()

	t.Run("resolves names against the base directory", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"client.dll": {"classes": {}}}`))
		}))
		defer server.Close()

		reader, err := schemadexhttp.NewReader(server.URL + "/dumped/json")
		require.NoError(t, err)

		body, err := reader.ReadFile(context.Background(), "client_dll.json")

		require.NoError(t, err)
		assert.Equal(t, `{"client.dll": {"classes": {}}}`, body)
		assert.Equal(t, "/dumped/json/client_dll.json", gotPath)
	})

	t.Run("base with trailing slash", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
		}))
		defer server.Close()

		reader, err := schemadexhttp.NewReader(server.URL + "/json/")
		require.NoError(t, err)

		_, err = reader.ReadFile(context.Background(), "offsets.json")

		require.NoError(t, err)
		assert.Equal(t, "/json/offsets.json", gotPath)
	})

	t.Run("not found is unavailable without retrying", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		reader, err := schemadexhttp.NewReader(server.URL, schemadexhttp.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}))
		require.NoError(t, err)

		_, err = reader.ReadFile(context.Background(), "buttons.json")

		require.Error(t, err)
		assert.Equal(t, schemadex.EUNAVAILABLE, schemadex.ErrorCode(err))
		assert.Contains(t, err.Error(), "404")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("server errors are retried", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		reader, err := schemadexhttp.NewReader(server.URL, schemadexhttp.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}))
		require.NoError(t, err)

		body, err := reader.ReadFile(context.Background(), "offsets.json")

		require.NoError(t, err)
		assert.Equal(t, `{}`, body)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after the last delay", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		reader, err := schemadexhttp.NewReader(server.URL, schemadexhttp.WithRetryDelays([]time.Duration{time.Millisecond}))
		require.NoError(t, err)

		_, err = reader.ReadFile(context.Background(), "offsets.json")

		assert.Equal(t, schemadex.EUNAVAILABLE, schemadex.ErrorCode(err))
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		}))
		defer server.Close()

		reader, err := schemadexhttp.NewReader(server.URL,
			schemadexhttp.WithTimeout(10*time.Millisecond),
			schemadexhttp.WithRetryDelays(nil))
		require.NoError(t, err)

		_, err = reader.ReadFile(context.Background(), "offsets.json")

		assert.Equal(t, schemadex.EUNAVAILABLE, schemadex.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{}"))
		}))
		defer server.Close()

		reader, err := schemadexhttp.NewReader(server.URL)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = reader.ReadFile(ctx, "offsets.json")

		assert.Equal(t, schemadex.EUNAVAILABLE, schemadex.ErrorCode(err))
	})

	t.Run("rate limit spaces requests", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{}"))
		}))
		defer server.Close()

		reader, err := schemadexhttp.NewReader(server.URL, schemadexhttp.WithRateLimit(10))
		require.NoError(t, err)

		start := time.Now()
		for _, name := range []string{"a.json", "b.json", "c.json"} {
			_, err := reader.ReadFile(context.Background(), name)
			require.NoError(t, err)
		}

		assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
	})
}
