package router

import (
	"context"
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Generator rebuilds router_cross_chain_transactions by joining a deposit to
// its payment on message_hash — the id Router never emits on-chain but this
// package recomputes client-side (spec §4.7), grounded on
// generator/router/generator.py.
type Generator struct{ DB *sql.DB }

func NewGenerator(db *sql.DB) *Generator { return &Generator{DB: db} }

func (g *Generator) Generate(ctx context.Context, db *sql.DB) (startTS, endTS int64, ok bool, err error) {
	row := db.QueryRowContext(ctx, `SELECT MIN(timestamp), MAX(timestamp) FROM router_blockchain_transaction`)
	var minTS, maxTS sql.NullInt64
	if err := row.Scan(&minTS, &maxTS); err != nil {
		return 0, 0, false, err
	}
	if !minTS.Valid {
		return 0, 0, false, nil
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM router_cross_chain_transactions`); err != nil {
		return 0, 0, false, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO router_cross_chain_transactions (
			message_hash, deposit_id, depositor, recipient,
			src_blockchain, src_transaction_hash, src_timestamp, src_contract_address,
			dst_blockchain, dst_transaction_hash, dst_timestamp, dst_contract_address,
			input_amount, output_amount, src_fee, dst_fee
		)
		SELECT
			dep.message_hash, dep.deposit_id, dep.depositor, dep.recipient_raw,
			dep.blockchain, dep.transaction_hash, deptx.timestamp, dep.src_token,
			paid.blockchain, paid.transaction_hash, paidtx.timestamp, dep.dest_token_raw,
			dep.amount, COALESCE(dep.dest_amount, dep.amount), deptx.fee, paidtx.fee
		FROM router_funds_deposited dep
		JOIN router_funds_paid paid ON paid.message_hash = dep.message_hash
		JOIN router_blockchain_transaction deptx ON deptx.transaction_hash = dep.transaction_hash
		JOIN router_blockchain_transaction paidtx ON paidtx.transaction_hash = paid.transaction_hash
		WHERE dep.message_hash IS NOT NULL
		ON CONFLICT (message_hash, src_blockchain, dst_blockchain) DO NOTHING
	`)
	if err != nil {
		return 0, 0, false, err
	}
	return minTS.Int64 - 86400, maxTS.Int64 + 86400, true, nil
}

func (g *Generator) UniquePairs(ctx context.Context, db *sql.DB) ([]bridge.TokenPair, error) {
	return common.DistinctPairs(ctx, db, "router_cross_chain_transactions",
		"src_blockchain", "src_contract_address", "dst_blockchain", "dst_contract_address")
}
