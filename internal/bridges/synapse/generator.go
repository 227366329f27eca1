package synapse

import (
	"context"
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Generator rebuilds synapse_cross_chain_transactions by joining a deposit
// to its mint on a case/prefix-normalized kappa (spec §4.7), grounded on
// generator/synapse/generator.py's match_deposit_mint_swaps, bounded to
// pairs within 86400 seconds of each other as the original does.
type Generator struct{ DB *sql.DB }

func NewGenerator(db *sql.DB) *Generator { return &Generator{DB: db} }

func (g *Generator) Generate(ctx context.Context, db *sql.DB) (startTS, endTS int64, ok bool, err error) {
	row := db.QueryRowContext(ctx, `SELECT MIN(timestamp), MAX(timestamp) FROM synapse_blockchain_transaction`)
	var minTS, maxTS sql.NullInt64
	if err := row.Scan(&minTS, &maxTS); err != nil {
		return 0, 0, false, err
	}
	if !minTS.Valid {
		return 0, 0, false, nil
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM synapse_cross_chain_transactions`); err != nil {
		return 0, 0, false, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO synapse_cross_chain_transactions (
			src_blockchain, src_transaction_hash, src_timestamp,
			dst_blockchain, dst_transaction_hash, dst_timestamp,
			recipient, src_contract_address, dst_contract_address,
			input_amount, output_amount, swap_success, kappa,
			src_fee, dst_fee
		)
		SELECT
			src_tx.blockchain, src_ev.transaction_hash, src_tx.timestamp,
			dst_tx.blockchain, dst_ev.transaction_hash, dst_tx.timestamp,
			src_ev.to_address, src_ev.token, dst_ev.token,
			src_ev.amount, dst_ev.amount, dst_ev.swap_success, dst_ev.kappa,
			src_tx.fee, dst_tx.fee
		FROM synapse_token_deposit_and_swap src_ev
		JOIN synapse_blockchain_transaction src_tx ON src_tx.transaction_hash = src_ev.transaction_hash
		JOIN synapse_token_mint_and_swap dst_ev
			ON REPLACE(lower(dst_ev.kappa), '0x', '') = REPLACE(lower(src_ev.kappa), '0x', '')
		JOIN synapse_blockchain_transaction dst_tx ON dst_tx.transaction_hash = dst_ev.transaction_hash
		WHERE ABS(dst_tx.timestamp - src_tx.timestamp) <= 86400
		ON CONFLICT (kappa, src_blockchain, dst_blockchain) DO NOTHING
	`)
	if err != nil {
		return 0, 0, false, err
	}
	return minTS.Int64 - 86400, maxTS.Int64 + 86400, true, nil
}

func (g *Generator) UniquePairs(ctx context.Context, db *sql.DB) ([]bridge.TokenPair, error) {
	return common.DistinctPairs(ctx, db, "synapse_cross_chain_transactions",
		"src_blockchain", "src_contract_address", "dst_blockchain", "dst_contract_address")
}
