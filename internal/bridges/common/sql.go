// Package common holds the raw-SQL building blocks shared by every
// internal/bridges/<name> package: transaction bulk-insert, existence
// checks, and natural-key event inserts with duplicate-key retry, grounded
// on the teacher's internal/infrastructure/repositories/payment_repo_impl.go
// raw-SQL style and on base_handler.py's create_transaction_object /
// does_transaction_exist_by_hash contract (spec §4.4, §9).
package common

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// SQLHandler is embedded by every bridge's Handler implementation to supply
// the table-agnostic parts of bridge.Handler.
type SQLHandler struct {
	DB    *sql.DB
	Table string // "<bridge>_blockchain_transaction"
}

// NewSQLHandler builds a SQLHandler bound to one bridge's transaction table.
func NewSQLHandler(db *sql.DB, bridgeName string) SQLHandler {
	return SQLHandler{DB: db, Table: bridgeName + "_blockchain_transaction"}
}

// DoesTransactionExist looks up transaction_hash in the bridge's transaction
// table.
func (h SQLHandler) DoesTransactionExist(ctx context.Context, txHash string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE transaction_hash = $1)`, h.Table)
	if err := h.DB.QueryRowContext(ctx, query, strings.ToLower(txHash)).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// HandleTransactions bulk-inserts rows, idempotent on transaction_hash. On a
// unique-constraint violation it retries once, row by row, swallowing the
// individual duplicate, mirroring the source system's
// rollback-and-retry-once policy (spec §4.4, §9).
func (h SQLHandler) HandleTransactions(ctx context.Context, txs []bridge.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (blockchain, transaction_hash, block_number, timestamp, from_address, to_address, status, value, fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (transaction_hash) DO NOTHING
	`, h.Table)

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, t := range txs {
		if _, err := tx.ExecContext(ctx, query, t.Blockchain, strings.ToLower(t.TransactionHash), t.BlockNumber, t.Timestamp, strings.ToLower(t.FromAddress), strings.ToLower(t.ToAddress), t.Status, t.Value, t.Fee); err != nil {
			tx.Rollback()
			return h.retryIndividually(ctx, query, txs)
		}
	}
	return tx.Commit()
}

func (h SQLHandler) retryIndividually(ctx context.Context, query string, txs []bridge.Transaction) error {
	for _, t := range txs {
		_, err := h.DB.ExecContext(ctx, query, t.Blockchain, strings.ToLower(t.TransactionHash), t.BlockNumber, t.Timestamp, strings.ToLower(t.FromAddress), strings.ToLower(t.ToAddress), t.Status, t.Value, t.Fee)
		if err != nil && !isUniqueViolation(err) {
			return err
		}
	}
	return nil
}

// EventExists checks whether a row already exists for a natural key column.
func EventExists(ctx context.Context, db *sql.DB, table, keyCol, keyVal string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)`, table, keyCol)
	if err := db.QueryRowContext(ctx, query, keyVal).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertRow inserts one event row via a parameterized column list. A unique
// violation on the natural key is reported as HandlerDuplicateError, not a
// fatal error — the caller drops the event and continues (spec §4.4.iii).
func InsertRow(ctx context.Context, db *sql.DB, table string, cols []string, vals []any) error {
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING`,
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := db.ExecContext(ctx, query, vals...); err != nil {
		if isUniqueViolation(err) {
			return xerrors.HandlerDuplicateError("duplicate natural key in "+table, err)
		}
		return err
	}
	return nil
}

// DistinctPairs selects every distinct (srcChainCol, srcContractCol,
// dstChainCol, dstContractCol) tuple out of a bridge's cross-chain table,
// feeding the Price Enricher's per-pair metadata/price population (spec
// §4.7 step 4). Every bridge's cross-chain table now carries canonical
// src_contract_address/dst_contract_address columns, but callers still pass
// column names explicitly so a bridge whose table reuses one column for
// both sides (Portal) isn't forced through a fixed four-column shape.
func DistinctPairs(ctx context.Context, db *sql.DB, table, srcChainCol, srcContractCol, dstChainCol, dstContractCol string) ([]bridge.TokenPair, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %s, %s, %s, %s FROM %s WHERE %s IS NOT NULL AND %s IS NOT NULL`,
		srcChainCol, srcContractCol, dstChainCol, dstContractCol, table, srcContractCol, dstContractCol)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []bridge.TokenPair
	for rows.Next() {
		var p bridge.TokenPair
		if err := rows.Scan(&p.SrcChain, &p.SrcContract, &p.DstChain, &p.DstContract); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
