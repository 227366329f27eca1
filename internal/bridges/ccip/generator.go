package ccip

import (
	"context"
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Generator rebuilds ccip_cross_chain_transactions by joining
// ccip_send_requested (source leg) to ccip_execution_state_changed
// (destination leg) on message_id (spec §4.7).
type Generator struct {
	DB *sql.DB
}

func NewGenerator(db *sql.DB) *Generator { return &Generator{DB: db} }

func (g *Generator) Generate(ctx context.Context, db *sql.DB) (startTS, endTS int64, ok bool, err error) {
	row := db.QueryRowContext(ctx, `SELECT MIN(timestamp), MAX(timestamp) FROM ccip_blockchain_transaction`)
	var minTS, maxTS sql.NullInt64
	if err := row.Scan(&minTS, &maxTS); err != nil {
		return 0, 0, false, err
	}
	if !minTS.Valid {
		return 0, 0, false, nil
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM ccip_cross_chain_transactions`); err != nil {
		return 0, 0, false, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO ccip_cross_chain_transactions (
			message_id, src_blockchain, dst_blockchain,
			src_transaction_hash, dst_transaction_hash,
			src_contract_address, dst_contract_address, input_amount, output_amount,
			src_timestamp, dst_timestamp, src_fee, dst_fee
		)
		SELECT
			s.message_id, s.blockchain, e.blockchain,
			s.transaction_hash, e.transaction_hash,
			s.input_token, s.output_token, s.amount, s.amount,
			st.timestamp, et.timestamp, st.fee, et.fee
		FROM ccip_send_requested s
		JOIN ccip_execution_state_changed e ON e.message_id = s.message_id
		JOIN ccip_blockchain_transaction st ON st.transaction_hash = s.transaction_hash
		JOIN ccip_blockchain_transaction et ON et.transaction_hash = e.transaction_hash
		ON CONFLICT (message_id, src_blockchain, dst_blockchain) DO NOTHING
	`)
	if err != nil {
		return 0, 0, false, err
	}

	return minTS.Int64 - 86400, maxTS.Int64 + 86400, true, nil
}

// UniquePairs uses the canonical src_contract_address/dst_contract_address
// column names (spec §3's CrossChainTransaction shape), not the raw
// ccip_send_requested table's input_token/output_token naming — the two are
// unified at the cross-chain-table boundary so CalculateCctxUSDValues (spec
// §4.7) can join every bridge's cross-chain table the same way.
func (g *Generator) UniquePairs(ctx context.Context, db *sql.DB) ([]bridge.TokenPair, error) {
	return common.DistinctPairs(ctx, db, "ccip_cross_chain_transactions",
		"src_blockchain", "src_contract_address", "dst_blockchain", "dst_contract_address")
}
