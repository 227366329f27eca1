package mayan

import (
	"context"
	"database/sql"

	"xchaindata.backend/internal/bridge"
)

// Generator rebuilds mayan_cross_chain_transactions by joining the EVM-side
// order created/fulfilled legs (and, once wired, the Solana program's own
// InitOrder/Settle legs) on order key (spec §4.7).
type Generator struct{ DB *sql.DB }

func NewGenerator(db *sql.DB) *Generator { return &Generator{DB: db} }

func (g *Generator) Generate(ctx context.Context, db *sql.DB) (startTS, endTS int64, ok bool, err error) {
	row := db.QueryRowContext(ctx, `SELECT MIN(timestamp), MAX(timestamp) FROM mayan_blockchain_transaction`)
	var minTS, maxTS sql.NullInt64
	if err := row.Scan(&minTS, &maxTS); err != nil {
		return 0, 0, false, err
	}
	if !minTS.Valid {
		return 0, 0, false, nil
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM mayan_cross_chain_transactions`); err != nil {
		return 0, 0, false, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO mayan_cross_chain_transactions (
			order_key, src_blockchain, dst_blockchain,
			src_transaction_hash, dst_transaction_hash,
			src_timestamp, dst_timestamp,
			src_fee, dst_fee,
			refund_blockchain, refund_transaction_hash, refund_fee, refund_timestamp
		)
		SELECT
			c.key, c.blockchain, f.blockchain,
			c.transaction_hash, f.transaction_hash,
			ct.timestamp, ft.timestamp,
			ct.fee, ft.fee,
			u.blockchain, u.transaction_hash, rt.fee, rt.timestamp
		FROM mayan_order_created c
		JOIN mayan_order_fulfilled f ON f.key = c.key
		JOIN mayan_blockchain_transaction ct ON ct.transaction_hash = c.transaction_hash
		JOIN mayan_blockchain_transaction ft ON ft.transaction_hash = f.transaction_hash
		LEFT JOIN mayan_order_unlocked u ON u.key = c.key
		LEFT JOIN mayan_blockchain_transaction rt ON rt.transaction_hash = u.transaction_hash
		ON CONFLICT (order_key, src_blockchain, dst_blockchain) DO NOTHING
	`)
	if err != nil {
		return 0, 0, false, err
	}
	return minTS.Int64 - 86400, maxTS.Int64 + 86400, true, nil
}

// CalculateRefundFeeUSD fills refund_fee_usd the same way
// pricing.Enricher.CalculateCctxNativeUSDValues fills src_fee_usd/dst_fee_usd
// (spec §4.7) — kept bridge-local rather than folded into the shared
// enricher because refund_blockchain/refund_fee/refund_timestamp only exist
// on this bridge's cross-chain table (an OrderUnlocked leg no other bridge
// models). Run after CalculateCctxNativeUSDValues and before FixSolanaFeeUSD.
func CalculateRefundFeeUSD(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		UPDATE mayan_cross_chain_transactions AS c
		SET refund_fee_usd = (c.refund_fee::numeric / POWER(10, 18)) * tp.price_usd
		FROM token_metadata tm
		JOIN native_token nt ON nt.blockchain = tm.blockchain
		JOIN token_price tp ON tp.symbol = tm.symbol AND tp.name = tm.name
		WHERE tm.address = '0x0000000000000000000000000000000000000000'
		AND tm.blockchain = c.refund_blockchain
		AND tp.date = to_timestamp(c.refund_timestamp)::date
		AND c.refund_fee IS NOT NULL
		AND c.refund_fee_usd IS NULL
	`)
	return err
}

// FixSolanaFeeUSD applies the Solana-specific post-join correction (spec
// §4.7): src_fee_usd/dst_fee_usd/refund_fee_usd on Solana-side legs were
// computed against the price provider's 18-decimal basis even though SOL
// has 9 decimals, so every Solana-side USD fee column is multiplied by
// 10^9 after CalculateCctxNativeUSDValues runs (spec §9 "Mixed decimal
// semantics for Solana USD correction").
func FixSolanaFeeUSD(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`UPDATE mayan_cross_chain_transactions SET src_fee_usd = src_fee_usd * 1e9 WHERE src_blockchain = 'solana' AND src_fee_usd IS NOT NULL`,
		`UPDATE mayan_cross_chain_transactions SET dst_fee_usd = dst_fee_usd * 1e9 WHERE dst_blockchain = 'solana' AND dst_fee_usd IS NOT NULL`,
		`UPDATE mayan_cross_chain_transactions SET refund_fee_usd = refund_fee_usd * 1e9 WHERE refund_blockchain = 'solana' AND refund_fee_usd IS NOT NULL`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// UniquePairs is empty: mayan_cross_chain_transactions carries order keys and
// timestamps but no token-contract columns (the EVM/Solana order legs encode
// the traded token inside mayanData/order params, never persisted onto the
// cross-chain row itself), so there is nothing for the Price Enricher's
// per-pair population to key on. The Solana fee-USD fix-up (FixSolanaFeeUSD)
// still applies to this bridge's src_fee_usd/dst_fee_usd/refund_fee_usd.
func (g *Generator) UniquePairs(ctx context.Context, db *sql.DB) ([]bridge.TokenPair, error) {
	return nil, nil
}
