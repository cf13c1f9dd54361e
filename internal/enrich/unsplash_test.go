package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestUnsplash points a client at an httptest server.
func newTestUnsplash(t *testing.T, h http.HandlerFunc) *UnsplashClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewUnsplashClient("test-access-key")
	c.baseURL = srv.URL
	return c
}

func TestUnsplashClient_SearchImage(t *testing.T) {
	c := newTestUnsplash(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "Colosseum Rome", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		assert.Equal(t, "landscape", r.URL.Query().Get("orientation"))
		assert.Equal(t, "Client-ID test-access-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"urls":{"regular":"https://images.unsplash.com/colosseum"}}]}`))
	})

	url, err := c.SearchImage(context.Background(), "Colosseum Rome")

	require.NoError(t, err)
	assert.Equal(t, "https://images.unsplash.com/colosseum", url)
}

func TestUnsplashClient_SearchImage_NoResults(t *testing.T) {
	c := newTestUnsplash(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	url, err := c.SearchImage(context.Background(), "zzz nowhere")

	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestUnsplashClient_SearchImage_RateLimited(t *testing.T) {
	c := newTestUnsplash(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden) // Unsplash signals exhausted quota with 403
	})

	url, err := c.SearchImage(context.Background(), "Rome")

	require.NoError(t, err, "quota exhaustion is no-image, not an error")
	assert.Empty(t, url)
}

func TestUnsplashClient_SearchImage_Cached(t *testing.T) {
	var hits atomic.Int32
	c := newTestUnsplash(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"results":[{"urls":{"regular":"https://images.unsplash.com/rome"}}]}`))
	})

	for range 3 {
		url, err := c.SearchImage(context.Background(), "Rome")
		require.NoError(t, err)
		assert.Equal(t, "https://images.unsplash.com/rome", url)
	}

	assert.Equal(t, int32(1), hits.Load(), "repeat queries must come from cache")
}
