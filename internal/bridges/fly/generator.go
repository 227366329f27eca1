package fly

import (
	"context"
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Generator rebuilds fly_cross_chain_transactions by joining a source-chain
// SwapIn to its destination-chain SwapOut on deposit_data_hash, grounded on
// generator/fly/generator.py's match_token_transfers (fly_deposit is
// informational only and not joined here, matching the original).
type Generator struct{ DB *sql.DB }

func NewGenerator(db *sql.DB) *Generator { return &Generator{DB: db} }

func (g *Generator) Generate(ctx context.Context, db *sql.DB) (startTS, endTS int64, ok bool, err error) {
	row := db.QueryRowContext(ctx, `SELECT MIN(timestamp), MAX(timestamp) FROM fly_blockchain_transaction`)
	var minTS, maxTS sql.NullInt64
	if err := row.Scan(&minTS, &maxTS); err != nil {
		return 0, 0, false, err
	}
	if !minTS.Valid {
		return 0, 0, false, nil
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM fly_cross_chain_transactions`); err != nil {
		return 0, 0, false, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO fly_cross_chain_transactions (
			deposit_data_hash,
			src_blockchain, src_transaction_hash, src_from_address, src_to_address,
			src_fee, src_timestamp,
			dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address,
			dst_fee, dst_timestamp,
			src_contract_address, dst_contract_address,
			input_amount, output_amount
		)
		SELECT
			si.deposit_data_hash,
			si.blockchain, si.transaction_hash, stx.from_address, stx.to_address,
			stx.fee, stx.timestamp,
			so.blockchain, so.transaction_hash, dtx.from_address, dtx.to_address,
			dtx.fee, dtx.timestamp,
			si.from_asset_address, so.to_asset_address,
			si.amount_in, so.amount_out
		FROM fly_swap_in si
		JOIN fly_blockchain_transaction stx ON stx.transaction_hash = si.transaction_hash
		JOIN fly_swap_out so ON lower(so.deposit_data_hash) = lower(si.deposit_data_hash)
		JOIN fly_blockchain_transaction dtx ON dtx.transaction_hash = so.transaction_hash
		ON CONFLICT (deposit_data_hash, src_blockchain, dst_blockchain) DO NOTHING
	`)
	if err != nil {
		return 0, 0, false, err
	}
	return minTS.Int64 - 86400, maxTS.Int64 + 86400, true, nil
}

func (g *Generator) UniquePairs(ctx context.Context, db *sql.DB) ([]bridge.TokenPair, error) {
	return common.DistinctPairs(ctx, db, "fly_cross_chain_transactions",
		"src_blockchain", "src_contract_address", "dst_blockchain", "dst_contract_address")
}
