package wormhole

import (
	"context"
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Generator rebuilds wormhole_cross_chain_transactions by joining a
// published message to its redemption on (emitter_chain_id,
// emitter_address_32, sequence) — the composite natural key
// ix_wh_pub_key/ix_wh_red_key both index (spec §4.7), grounded on
// repository/wormhole/models.py's WormholeCrossChainTransaction.
type Generator struct{ DB *sql.DB }

func NewGenerator(db *sql.DB) *Generator { return &Generator{DB: db} }

func (g *Generator) Generate(ctx context.Context, db *sql.DB) (startTS, endTS int64, ok bool, err error) {
	row := db.QueryRowContext(ctx, `SELECT MIN(timestamp), MAX(timestamp) FROM wormhole_blockchain_transaction`)
	var minTS, maxTS sql.NullInt64
	if err := row.Scan(&minTS, &maxTS); err != nil {
		return 0, 0, false, err
	}
	if !minTS.Valid {
		return 0, 0, false, nil
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM wormhole_cross_chain_transactions`); err != nil {
		return 0, 0, false, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO wormhole_cross_chain_transactions (
			emitter_chain_id, emitter_address_32, sequence,
			src_blockchain, src_transaction_hash, src_timestamp,
			dst_blockchain, dst_transaction_hash, dst_timestamp,
			src_contract_address, dst_contract_address, input_amount, output_amount,
			src_fee, dst_fee
		)
		SELECT
			pub.emitter_chain_id, pub.emitter_address_32, pub.sequence,
			pub.blockchain, pub.transaction_hash, pubtx.timestamp,
			red.blockchain, red.transaction_hash, redtx.timestamp,
			pub.sender, pub.sender, pub.amount, pub.amount,
			pubtx.fee, redtx.fee
		FROM wormhole_published pub
		JOIN wormhole_redeemed red
			ON red.emitter_chain_id = pub.emitter_chain_id
			AND red.emitter_address_32 = pub.emitter_address_32
			AND red.sequence = pub.sequence
		JOIN wormhole_blockchain_transaction pubtx ON pubtx.transaction_hash = pub.transaction_hash
		JOIN wormhole_blockchain_transaction redtx ON redtx.transaction_hash = red.transaction_hash
		ON CONFLICT (emitter_chain_id, emitter_address_32, sequence) DO NOTHING
	`)
	if err != nil {
		return 0, 0, false, err
	}
	return minTS.Int64 - 86400, maxTS.Int64 + 86400, true, nil
}

func (g *Generator) UniquePairs(ctx context.Context, db *sql.DB) ([]bridge.TokenPair, error) {
	return common.DistinctPairs(ctx, db, "wormhole_cross_chain_transactions",
		"src_blockchain", "src_contract_address", "dst_blockchain", "dst_contract_address")
}
