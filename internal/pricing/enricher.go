package pricing

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"xchaindata.backend/internal/chain"
	"xchaindata.backend/internal/metrics"
	"xchaindata.backend/internal/store"
)

// pairKey identifies a (chain, contract) pair for the per-run tried caches.
type pairKey struct {
	chain, contract string
}

// Enricher is the Price Enricher (spec §4.8). pairsTriedMetadata/Price are
// per-instance, per-run caches — never process-wide state (spec §9).
type Enricher struct {
	provider *Client
	tokens   *store.TokenPriceRepo
	db       *sql.DB

	pairsTriedMetadata map[pairKey]struct{}
	pairsTriedPrice    map[pairKey]struct{}
}

// NewEnricher builds an Enricher for one run.
func NewEnricher(provider *Client, tokens *store.TokenPriceRepo, db *sql.DB) *Enricher {
	return &Enricher{
		provider:           provider,
		tokens:             tokens,
		db:                 db,
		pairsTriedMetadata: map[pairKey]struct{}{},
		pairsTriedPrice:    map[pairKey]struct{}{},
	}
}

func isStableDollar(symbol string) bool {
	s := strings.ToLower(symbol)
	return strings.Contains(s, "usd") || strings.Contains(s, "dai") || strings.Contains(s, "frax")
}

// PopulateNativeTokens ensures a native_token row and a wrapped-native
// token_metadata row for every known chain, plus a parallel sentinel-address
// row for native fee accounting (spec §4.8).
func (e *Enricher) PopulateNativeTokens(ctx context.Context, startTS, endTS int64) error {
	for _, info := range chain.All() {
		if info.Name == "solana" {
			continue
		}
		if err := e.tokens.EnsureNativeToken(ctx, info.Name, info.NativeTokenSymbol); err != nil {
			return err
		}
		if err := e.tokens.UpsertTokenMetadata(ctx, store.TokenMetadata{
			Symbol: info.NativeTokenSymbol, Name: info.NativeTokenSymbol, Decimals: 18,
			Blockchain: info.Name, Address: info.NativeTokenContract,
		}); err != nil {
			return err
		}
		if err := e.FetchAndStoreTokenPrices(ctx, startTS, endTS, info.NativeTokenSymbol, info.NativeTokenSymbol, "", ""); err != nil {
			return err
		}
		if err := e.tokens.UpsertTokenMetadata(ctx, store.TokenMetadata{
			Symbol: info.NativeTokenSymbol, Name: info.NativeTokenSymbol, Decimals: 18,
			Blockchain: info.Name, Address: chain.SentinelAddress,
		}); err != nil {
			return err
		}
	}
	return nil
}

// PopulateTokenInfo ensures metadata and a complete price series exist for
// both sides of one src/dst pair, at most one provider attempt per
// (chain, contract) per run (spec §4.8).
func (e *Enricher) PopulateTokenInfo(ctx context.Context, srcChain, dstChain, inputToken, outputToken string, startTS, endTS int64) error {
	sides := []struct{ chain, token string }{
		{srcChain, inputToken},
		{dstChain, outputToken},
	}
	for _, side := range sides {
		if side.token == "" {
			continue
		}
		meta, err := e.ensureMetadata(ctx, side.chain, side.token)
		if err != nil {
			return err
		}
		if meta == nil {
			continue
		}
		if err := e.ensurePriceSeries(ctx, *meta, side.chain, side.token, startTS, endTS); err != nil {
			return err
		}
	}
	return nil
}

func (e *Enricher) ensureMetadata(ctx context.Context, chainName, address string) (*store.TokenMetadata, error) {
	if existing, ok, err := e.tokens.GetTokenMetadata(ctx, chainName, address); err != nil {
		return nil, err
	} else if ok {
		return existing, nil
	}

	key := pairKey{chainName, address}
	if _, tried := e.pairsTriedMetadata[key]; tried {
		metrics.ProviderCacheHits.WithLabelValues("metadata").Inc()
		return nil, nil
	}
	e.pairsTriedMetadata[key] = struct{}{}
	metrics.ProviderCacheMisses.WithLabelValues("metadata").Inc()

	meta, err := e.provider.FetchMetadataBySymbolOrAddress(ctx, chainName, address)
	if err != nil || meta == nil {
		return nil, nil
	}
	m := store.TokenMetadata{Symbol: meta.Symbol, Name: meta.Name, Decimals: meta.Decimals, Blockchain: chainName, Address: address}
	if err := e.tokens.UpsertTokenMetadata(ctx, m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (e *Enricher) ensurePriceSeries(ctx context.Context, meta store.TokenMetadata, chainName, address string, startTS, endTS int64) error {
	complete, _, err := e.IsTokenPriceComplete(ctx, meta.Symbol, meta.Name, startTS, endTS)
	if err != nil {
		return err
	}
	if complete {
		return nil
	}

	key := pairKey{chainName, address}
	if _, tried := e.pairsTriedPrice[key]; tried {
		metrics.ProviderCacheHits.WithLabelValues("price").Inc()
		return nil
	}
	e.pairsTriedPrice[key] = struct{}{}
	metrics.ProviderCacheMisses.WithLabelValues("price").Inc()

	return e.FetchAndStoreTokenPrices(ctx, startTS, endTS, meta.Symbol, meta.Name, chainName, address)
}

// FetchAndStoreTokenPrices writes 1.0 for every day without a network call
// for stable-dollar symbols; otherwise it queries the provider by symbol,
// falling back to (chain, address) (spec §4.8).
func (e *Enricher) FetchAndStoreTokenPrices(ctx context.Context, startTS, endTS int64, symbol, name, chainName, address string) error {
	if isStableDollar(symbol) {
		start := time.Unix(startTS, 0).UTC()
		end := time.Unix(endTS, 0).UTC()
		for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
			if err := e.tokens.InsertTokenPriceDay(ctx, symbol, name, d, 1.0); err != nil {
				return err
			}
		}
		return nil
	}

	points, err := e.provider.FetchHistoricalPrices(ctx, symbol, chainName, address, startTS, endTS)
	if err != nil {
		return nil // ProviderError: USD columns remain NULL, run continues (spec §7)
	}
	for _, p := range points {
		if err := e.tokens.InsertTokenPriceDay(ctx, symbol, name, dateOnly(p.Timestamp), p.Value); err != nil {
			return err
		}
	}
	return nil
}

// IsTokenPriceComplete compares the distinct-date count against the
// requested window's day count (spec §4.8). If incomplete, it returns the
// trimmed two-sided missing ranges.
func (e *Enricher) IsTokenPriceComplete(ctx context.Context, symbol, name string, startTS, endTS int64) (complete bool, missing [][2]time.Time, err error) {
	start := dateOnly(time.Unix(startTS, 0).UTC())
	end := dateOnly(time.Unix(endTS, 0).UTC())

	dates, err := e.tokens.DistinctPriceDates(ctx, symbol, name, start, end)
	if err != nil {
		return false, nil, err
	}
	wantDays := int(end.Sub(start).Hours()/24) + 1
	if len(dates) >= wantDays {
		return true, nil, nil
	}
	if len(dates) == 0 {
		return false, [][2]time.Time{{start, end}}, nil
	}

	minStored, maxStored := dates[0], dates[0]
	for _, d := range dates {
		if d.Before(minStored) {
			minStored = d
		}
		if d.After(maxStored) {
			maxStored = d
		}
	}
	var ranges [][2]time.Time
	if minStored.After(start) {
		ranges = append(ranges, [2]time.Time{start, minStored})
	}
	if maxStored.Before(end) {
		ranges = append(ranges, [2]time.Time{maxStored, end})
	}
	return false, ranges, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CalculateCctxUSDValues runs the four UPDATE...FROM templates against one
// bridge's cross-chain table, filling input_amount_usd, output_amount_usd,
// src_fee_usd, dst_fee_usd (spec §4.7). Each joins token_metadata and
// token_price on (address, blockchain) and (symbol, date) respectively,
// dividing by 10^decimals.
func (e *Enricher) CalculateCctxUSDValues(ctx context.Context, table string) error {
	templates := []struct{ amountCol, usdCol, blockchainCol, contractCol, tsCol string }{
		{"input_amount", "input_amount_usd", "src_blockchain", "src_contract_address", "src_timestamp"},
		{"output_amount", "output_amount_usd", "dst_blockchain", "dst_contract_address", "dst_timestamp"},
	}
	for _, tmpl := range templates {
		query := fmt.Sprintf(`
			UPDATE %[1]s AS c
			SET %[3]s = (c.%[2]s::numeric / POWER(10, tm.decimals)) * tp.price_usd
			FROM token_metadata tm
			JOIN token_price tp ON tp.symbol = tm.symbol AND tp.name = tm.name
			WHERE tm.address = c.%[5]s AND tm.blockchain = c.%[4]s
			AND tp.date = to_timestamp(c.%[6]s)::date
			AND c.%[3]s IS NULL
		`, table, tmpl.amountCol, tmpl.usdCol, tmpl.blockchainCol, tmpl.contractCol, tmpl.tsCol)
		if _, err := e.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// CalculateCctxNativeUSDValues fills src_fee_usd/dst_fee_usd, joining on the
// sentinel native-token address and (symbol, name) instead of just symbol,
// since the native fee row is keyed by the chain's native symbol which may
// collide across chains (spec §4.7).
func (e *Enricher) CalculateCctxNativeUSDValues(ctx context.Context, table string) error {
	templates := []struct{ feeCol, usdCol, blockchainCol, tsCol string }{
		{"src_fee", "src_fee_usd", "src_blockchain", "src_timestamp"},
		{"dst_fee", "dst_fee_usd", "dst_blockchain", "dst_timestamp"},
	}
	for _, tmpl := range templates {
		query := fmt.Sprintf(`
			UPDATE %[1]s AS c
			SET %[3]s = (c.%[2]s::numeric / POWER(10, 18)) * tp.price_usd
			FROM token_metadata tm
			JOIN native_token nt ON nt.blockchain = tm.blockchain
			JOIN token_price tp ON tp.symbol = tm.symbol AND tp.name = tm.name
			WHERE tm.address = '%[6]s' AND tm.blockchain = c.%[4]s
			AND tp.date = to_timestamp(c.%[5]s)::date
			AND c.%[3]s IS NULL
		`, table, tmpl.feeCol, tmpl.usdCol, tmpl.blockchainCol, tmpl.tsCol, chainSentinel())
		if _, err := e.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func chainSentinel() string {
	return "0x0000000000000000000000000000000000000000"
}
