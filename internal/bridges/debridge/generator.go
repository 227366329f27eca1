package debridge

import (
	"context"
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Generator rebuilds debridge_cross_chain_transactions by joining the source
// leg (created_order) to the destination leg (fulfilled_order) on order_id
// (spec §4.7).
type Generator struct{ DB *sql.DB }

func NewGenerator(db *sql.DB) *Generator { return &Generator{DB: db} }

func (g *Generator) Generate(ctx context.Context, db *sql.DB) (startTS, endTS int64, ok bool, err error) {
	row := db.QueryRowContext(ctx, `SELECT MIN(timestamp), MAX(timestamp) FROM debridge_blockchain_transaction`)
	var minTS, maxTS sql.NullInt64
	if err := row.Scan(&minTS, &maxTS); err != nil {
		return 0, 0, false, err
	}
	if !minTS.Valid {
		return 0, 0, false, nil
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM debridge_cross_chain_transactions`); err != nil {
		return 0, 0, false, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO debridge_cross_chain_transactions (
			order_id, src_blockchain, dst_blockchain,
			src_transaction_hash, dst_transaction_hash,
			src_contract_address, dst_contract_address, input_amount, output_amount,
			src_timestamp, dst_timestamp, src_fee, dst_fee
		)
		SELECT
			c.order_id, c.src_blockchain, c.dst_blockchain,
			c.transaction_hash, f.transaction_hash,
			c.give_token_address, c.take_token_address, c.give_amount, c.take_amount,
			ct.timestamp, ft.timestamp, ct.fee, ft.fee
		FROM debridge_created_order c
		JOIN debridge_fulfilled_order f ON f.order_id = c.order_id
		JOIN debridge_blockchain_transaction ct ON ct.transaction_hash = c.transaction_hash
		JOIN debridge_blockchain_transaction ft ON ft.transaction_hash = f.transaction_hash
		ON CONFLICT (order_id, src_blockchain, dst_blockchain) DO NOTHING
	`)
	if err != nil {
		return 0, 0, false, err
	}
	return minTS.Int64 - 86400, maxTS.Int64 + 86400, true, nil
}

// UniquePairs uses the canonical src_contract_address/dst_contract_address
// column names (spec §3's CrossChainTransaction shape), not the raw orders'
// give/take_token_address naming.
func (g *Generator) UniquePairs(ctx context.Context, db *sql.DB) ([]bridge.TokenPair, error) {
	return common.DistinctPairs(ctx, db, "debridge_cross_chain_transactions",
		"src_blockchain", "src_contract_address", "dst_blockchain", "dst_contract_address")
}
