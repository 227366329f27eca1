package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func newTestRepo(t *testing.T) *TokenPriceRepo {
	t.Helper()
	gdb := newTestDB(t)
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
	return NewTokenPriceRepo(sqlDB)
}

func TestEnsureNativeToken_IdempotentAndUppercases(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.EnsureNativeToken(ctx, "ethereum", "eth"))
	require.NoError(t, repo.EnsureNativeToken(ctx, "ethereum", "eth")) // idempotent

	var count int
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM native_token`).Scan(&count))
	assert.Equal(t, 1, count)

	var symbol string
	require.NoError(t, repo.db.QueryRowContext(ctx, `SELECT symbol FROM native_token WHERE blockchain = 'ethereum'`).Scan(&symbol))
	assert.Equal(t, "ETH", symbol)
}

func TestUpsertTokenMetadata_DoesNotOverwrite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertTokenMetadata(ctx, TokenMetadata{Symbol: "usdc", Name: "USD Coin", Decimals: 6, Blockchain: "ethereum", Address: "0xABC"}))
	require.NoError(t, repo.UpsertTokenMetadata(ctx, TokenMetadata{Symbol: "other", Name: "Different", Decimals: 18, Blockchain: "ethereum", Address: "0xabc"}))

	got, ok, err := repo.GetTokenMetadata(ctx, "ethereum", "0xabc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "USDC", got.Symbol)
	assert.Equal(t, 6, got.Decimals)
}

func TestGetTokenMetadata_Missing(t *testing.T) {
	repo := newTestRepo(t)
	_, ok, err := repo.GetTokenMetadata(context.Background(), "ethereum", "0xdead")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInsertTokenPriceDay_AndDistinctPriceDates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.InsertTokenPriceDay(ctx, "usdc", "USD Coin", base.AddDate(0, 0, i), 1.0))
	}
	// Re-inserting the same day must not duplicate or error (ON CONFLICT DO NOTHING).
	require.NoError(t, repo.InsertTokenPriceDay(ctx, "usdc", "USD Coin", base, 1.0))

	dates, err := repo.DistinctPriceDates(ctx, "usdc", "USD Coin", base, base.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, dates, 3)
}
