package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// TokenMetadata mirrors the shared token_metadata table (spec §3).
// (blockchain, address) is unique; symbol is uppercased at write time.
type TokenMetadata struct {
	Symbol     string
	Name       string
	Decimals   int
	Blockchain string
	Address    string
}

// TokenPriceRepo owns token_metadata, token_price, native_token — the three
// tables the Price Enricher exclusively owns (spec §3 Ownership).
type TokenPriceRepo struct {
	db *sql.DB
}

// NewTokenPriceRepo builds a TokenPriceRepo over a raw *sql.DB.
func NewTokenPriceRepo(db *sql.DB) *TokenPriceRepo {
	return &TokenPriceRepo{db: db}
}

// EnsureNativeToken inserts a native_token row if absent.
func (r *TokenPriceRepo) EnsureNativeToken(ctx context.Context, blockchain, symbol string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO native_token (blockchain, symbol)
		VALUES ($1, $2)
		ON CONFLICT (blockchain) DO NOTHING
	`, blockchain, strings.ToUpper(symbol))
	return err
}

// UpsertTokenMetadata inserts a token_metadata row if its (blockchain,
// address) pair is absent; existing rows are never overwritten (spec §3
// Lifecycles: monotonically added, not overwritten).
func (r *TokenPriceRepo) UpsertTokenMetadata(ctx context.Context, m TokenMetadata) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO token_metadata (symbol, name, decimals, blockchain, address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (blockchain, address) DO NOTHING
	`, strings.ToUpper(m.Symbol), m.Name, m.Decimals, m.Blockchain, strings.ToLower(m.Address))
	return err
}

// GetTokenMetadata looks up metadata by (blockchain, address).
func (r *TokenPriceRepo) GetTokenMetadata(ctx context.Context, blockchain, address string) (*TokenMetadata, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT symbol, name, decimals, blockchain, address
		FROM token_metadata
		WHERE blockchain = $1 AND address = $2
	`, blockchain, strings.ToLower(address))

	var m TokenMetadata
	err := row.Scan(&m.Symbol, &m.Name, &m.Decimals, &m.Blockchain, &m.Address)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &m, true, nil
}

// InsertTokenPriceDay inserts one day of (symbol, name, date) price if
// absent.
func (r *TokenPriceRepo) InsertTokenPriceDay(ctx context.Context, symbol, name string, date time.Time, priceUSD float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO token_price (symbol, name, date, price_usd)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol, name, date) DO NOTHING
	`, strings.ToUpper(symbol), name, date.Format("2006-01-02"), priceUSD)
	return err
}

// DistinctPriceDates returns the set of dates already stored for a
// (symbol, name) series within [start, end], used by
// is_token_price_complete.
func (r *TokenPriceRepo) DistinctPriceDates(ctx context.Context, symbol, name string, start, end time.Time) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT date
		FROM token_price
		WHERE symbol = $1 AND name = $2 AND date BETWEEN $3 AND $4
		ORDER BY date
	`, strings.ToUpper(symbol), name, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
