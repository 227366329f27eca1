package cow

import (
	"context"
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Generator rebuilds cow_cross_chain_transactions. CoW trades settle on a
// single chain, so unlike the other bridges there is no src/dst leg to
// join across: every trade's src and dst sides are the same transaction,
// mirrored into the two-sided shape for schema symmetry with the other
// bridges' cross-chain tables, grounded on generator/cow/generator.py's
// match_token_transfers (its own JOIN condition requires
// src_tx.blockchain = trade.blockchain).
type Generator struct{ DB *sql.DB }

func NewGenerator(db *sql.DB) *Generator { return &Generator{DB: db} }

func (g *Generator) Generate(ctx context.Context, db *sql.DB) (startTS, endTS int64, ok bool, err error) {
	row := db.QueryRowContext(ctx, `SELECT MIN(timestamp), MAX(timestamp) FROM cow_blockchain_transaction`)
	var minTS, maxTS sql.NullInt64
	if err := row.Scan(&minTS, &maxTS); err != nil {
		return 0, 0, false, err
	}
	if !minTS.Valid {
		return 0, 0, false, nil
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM cow_cross_chain_transactions`); err != nil {
		return 0, 0, false, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO cow_cross_chain_transactions (
			src_blockchain, src_transaction_hash, src_from_address, src_to_address, src_fee, src_timestamp,
			dst_blockchain, dst_transaction_hash, dst_from_address, dst_to_address, dst_fee, dst_timestamp,
			trade_id, owner, sell_token, buy_token, sell_amount, buy_amount, fee_amount,
			app_data, app_data_cid, valid_to,
			src_contract_address, dst_contract_address, input_amount, output_amount
		)
		SELECT
			trade.blockchain, trade.transaction_hash, src_tx.from_address, src_tx.to_address, src_tx.fee, src_tx.timestamp,
			trade.blockchain, trade.transaction_hash, src_tx.from_address, src_tx.to_address, src_tx.fee, src_tx.timestamp,
			trade.trade_id, trade.owner, trade.sell_token, trade.buy_token, trade.sell_amount, trade.buy_amount, trade.fee_amount,
			trade.app_data, trade.app_data_cid, trade.valid_to,
			trade.sell_token, trade.buy_token, trade.sell_amount, trade.buy_amount
		FROM cow_trade trade
		JOIN cow_blockchain_transaction src_tx
			ON src_tx.transaction_hash = trade.transaction_hash
			AND src_tx.blockchain = trade.blockchain
		ON CONFLICT (trade_id, src_blockchain, dst_blockchain) DO NOTHING
	`)
	if err != nil {
		return 0, 0, false, err
	}
	return minTS.Int64 - 86400, maxTS.Int64 + 86400, true, nil
}

func (g *Generator) UniquePairs(ctx context.Context, db *sql.DB) ([]bridge.TokenPair, error) {
	return common.DistinctPairs(ctx, db, "cow_cross_chain_transactions",
		"src_blockchain", "src_contract_address", "dst_blockchain", "dst_contract_address")
}
