package eco

import (
	"context"
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Generator rebuilds eco_cross_chain_transactions by joining a source-chain
// IntentCreated to its destination-chain Fulfillment on intent_hash (spec
// §4.7), grounded on generator/eco/generator.py's match_transfers.
type Generator struct{ DB *sql.DB }

func NewGenerator(db *sql.DB) *Generator { return &Generator{DB: db} }

func (g *Generator) Generate(ctx context.Context, db *sql.DB) (startTS, endTS int64, ok bool, err error) {
	row := db.QueryRowContext(ctx, `SELECT MIN(timestamp), MAX(timestamp) FROM eco_blockchain_transaction`)
	var minTS, maxTS sql.NullInt64
	if err := row.Scan(&minTS, &maxTS); err != nil {
		return 0, 0, false, err
	}
	if !minTS.Valid {
		return 0, 0, false, nil
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM eco_cross_chain_transactions`); err != nil {
		return 0, 0, false, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO eco_cross_chain_transactions (
			src_blockchain, src_transaction_hash, src_timestamp,
			dst_blockchain, dst_transaction_hash, dst_timestamp,
			src_contract_address, dst_contract_address,
			input_amount, output_amount, intent_hash,
			src_fee, dst_fee
		)
		SELECT
			src_tx.blockchain, ic.transaction_hash, src_tx.timestamp,
			dst_tx.blockchain, f.transaction_hash, dst_tx.timestamp,
			ic.inbox, dst_tx.to_address,
			ic.native_value, ic.native_value, ic.intent_hash,
			src_tx.fee, dst_tx.fee
		FROM eco_intent_created ic
		JOIN eco_blockchain_transaction src_tx ON src_tx.transaction_hash = ic.transaction_hash
		JOIN eco_fulfillment f ON f.intent_hash = ic.intent_hash
		JOIN eco_blockchain_transaction dst_tx ON dst_tx.transaction_hash = f.transaction_hash
		ON CONFLICT (intent_hash, src_blockchain, dst_blockchain) DO NOTHING
	`)
	if err != nil {
		return 0, 0, false, err
	}
	return minTS.Int64 - 86400, maxTS.Int64 + 86400, true, nil
}

func (g *Generator) UniquePairs(ctx context.Context, db *sql.DB) ([]bridge.TokenPair, error) {
	return common.DistinctPairs(ctx, db, "eco_cross_chain_transactions",
		"src_blockchain", "src_contract_address", "dst_blockchain", "dst_contract_address")
}
