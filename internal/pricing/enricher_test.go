package pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"xchaindata.backend/internal/store"
)

func newEnricherTestRepo(t *testing.T) *store.TokenPriceRepo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.Exec(`CREATE TABLE native_token (blockchain TEXT PRIMARY KEY, symbol TEXT NOT NULL)`).Error)
	require.NoError(t, gdb.Exec(`CREATE TABLE token_metadata (
		symbol TEXT NOT NULL, name TEXT NOT NULL, decimals INTEGER NOT NULL,
		blockchain TEXT NOT NULL, address TEXT NOT NULL,
		PRIMARY KEY (blockchain, address)
	)`).Error)
	require.NoError(t, gdb.Exec(`CREATE TABLE token_price (
		symbol TEXT NOT NULL, name TEXT NOT NULL, date TEXT NOT NULL, price_usd REAL NOT NULL,
		PRIMARY KEY (symbol, name, date)
	)`).Error)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	return store.NewTokenPriceRepo(sqlDB)
}

func TestIsStableDollar(t *testing.T) {
	assert.True(t, isStableDollar("USDC"))
	assert.True(t, isStableDollar("dai"))
	assert.True(t, isStableDollar("FRAX"))
	assert.False(t, isStableDollar("WETH"))
}

func TestFetchAndStoreTokenPrices_StableDollarSkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	repo := newEnricherTestRepo(t)
	provider := newInstantClient(srv.URL)
	e := NewEnricher(provider, repo, nil)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	end := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC).Unix()
	require.NoError(t, e.FetchAndStoreTokenPrices(context.Background(), start, end, "USDC", "USD Coin", "ethereum", "0xabc"))

	assert.False(t, called, "stable-dollar prices must never hit the provider")

	dates, err := repo.DistinctPriceDates(context.Background(), "USDC", "USD Coin", time.Unix(start, 0).UTC(), time.Unix(end, 0).UTC())
	require.NoError(t, err)
	assert.Len(t, dates, 3)
}

func TestFetchAndStoreTokenPrices_NonStableCallsProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"timestamp":"2025-01-01T00:00:00Z","value":"2500.50"}]}`))
	}))
	defer srv.Close()

	repo := newEnricherTestRepo(t)
	provider := newInstantClient(srv.URL)
	e := NewEnricher(provider, repo, nil)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	require.NoError(t, e.FetchAndStoreTokenPrices(context.Background(), start, end, "WETH", "Wrapped Ether", "ethereum", "0xweth"))

	dates, err := repo.DistinctPriceDates(context.Background(), "WETH", "Wrapped Ether", time.Unix(start, 0).UTC(), time.Unix(end, 0).UTC())
	require.NoError(t, err)
	assert.Len(t, dates, 1)
}

func TestIsTokenPriceComplete(t *testing.T) {
	repo := newEnricherTestRepo(t)
	e := NewEnricher(nil, repo, nil)
	ctx := context.Background()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	complete, missing, err := e.IsTokenPriceComplete(ctx, "usdc", "USD Coin", start.Unix(), end.Unix())
	require.NoError(t, err)
	assert.False(t, complete)
	require.Len(t, missing, 1)
	assert.Equal(t, start, missing[0][0])
	assert.Equal(t, end, missing[0][1])

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.InsertTokenPriceDay(ctx, "usdc", "USD Coin", start.AddDate(0, 0, i), 1.0))
	}
	complete, missing, err = e.IsTokenPriceComplete(ctx, "usdc", "USD Coin", start.Unix(), end.Unix())
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Nil(t, missing)
}

func TestIsTokenPriceComplete_PartialReturnsTrimmedRanges(t *testing.T) {
	repo := newEnricherTestRepo(t)
	e := NewEnricher(nil, repo, nil)
	ctx := context.Background()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	// Only the middle day is stored: both sides are missing.
	require.NoError(t, repo.InsertTokenPriceDay(ctx, "usdc", "USD Coin", start.AddDate(0, 0, 2), 1.0))

	complete, missing, err := e.IsTokenPriceComplete(ctx, "usdc", "USD Coin", start.Unix(), end.Unix())
	require.NoError(t, err)
	assert.False(t, complete)
	require.Len(t, missing, 2)
}

func TestPopulateNativeTokens_WritesAllChainsAndSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	repo := newEnricherTestRepo(t)
	provider := newInstantClient(srv.URL)
	e := NewEnricher(provider, repo, nil)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	require.NoError(t, e.PopulateNativeTokens(context.Background(), start, end))

	meta, ok, err := repo.GetTokenMetadata(context.Background(), "ethereum", "0x0000000000000000000000000000000000000000")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ETH", meta.Symbol)
}

func TestPopulateTokenInfo_CachesProviderMissAcrossCalls(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	repo := newEnricherTestRepo(t)
	provider := newInstantClient(srv.URL)
	e := NewEnricher(provider, repo, nil)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Unix()

	require.NoError(t, e.PopulateTokenInfo(context.Background(), "ethereum", "polygon", "0xnope", "", start, end))
	require.NoError(t, e.PopulateTokenInfo(context.Background(), "ethereum", "polygon", "0xnope", "", start, end))

	assert.Equal(t, 1, attempts, "a second lookup for the same (chain, address) must hit the per-run cache, not the provider")
}
