package pricing

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

func newInstantClient(url string) *Client {
	c := NewClient("test-key", url, url, 5*time.Second)
	c.sleep = func(time.Duration) {}
	return c
}

func TestFetchMetadataBySymbolOrAddress_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"USDC","name":"USD Coin","decimals":6}`))
	}))
	defer srv.Close()

	c := newInstantClient(srv.URL)
	meta, err := c.FetchMetadataBySymbolOrAddress(context.Background(), "ethereum", "0xabc")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "USDC", meta.Symbol)
	assert.Equal(t, 6, meta.Decimals)
}

func TestFetchMetadataBySymbolOrAddress_UnknownTokenReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newInstantClient(srv.URL)
	meta, err := c.FetchMetadataBySymbolOrAddress(context.Background(), "ethereum", "0xdead")
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestPostWithRetry_RetriesThenSucceeds(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"symbol":"WETH","name":"Wrapped Ether","decimals":18}`))
	}))
	defer srv.Close()

	c := newInstantClient(srv.URL)
	meta, err := c.FetchMetadataBySymbolOrAddress(context.Background(), "ethereum", "0xweth")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestPostWithRetry_ExhaustsRetriesReturnsNilNoError(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newInstantClient(srv.URL)
	meta, err := c.FetchMetadataBySymbolOrAddress(context.Background(), "ethereum", "0xdown")
	require.NoError(t, err)
	assert.Nil(t, meta)
	assert.Equal(t, int32(len(retryDelays)+1), atomic.LoadInt32(&attempts))
}

func TestFetchHistoricalPrices_ParsesDataPoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"timestamp":"2024-01-01T00:00:00Z","value":"1.0001"},{"timestamp":"2024-01-02T00:00:00Z","value":"0.9998"}]}`))
	}))
	defer srv.Close()

	c := newInstantClient(srv.URL)
	points, err := c.FetchHistoricalPrices(context.Background(), "USDC", "", "", 1704067200, 1704153600)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.InDelta(t, 1.0001, points[0].Value, 0.0001)
}
