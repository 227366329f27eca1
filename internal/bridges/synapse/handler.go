package synapse

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
	xerrors "xchaindata.backend/internal/domain/errors"
	"xchaindata.backend/internal/evmutil"
)

// Handler implements bridge.Handler for Synapse (spec §4.2), grounded on
// SynapseHandler.handle_events/handle_deposit_and_swap/handle_mint_and_swap.
type Handler struct {
	common.SQLHandler
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{SQLHandler: common.NewSQLHandler(db, "synapse")}
}

func (h *Handler) BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	return BridgeContractsAndTopics(chain)
}

func (h *Handler) HandleEvents(ctx context.Context, chain string, startBlock, endBlock uint64, contract string, topics []string, events []bridge.RawLog) []bridge.RawLog {
	var included []bridge.RawLog
	for _, ev := range events {
		if ev.DecodedFields == nil {
			continue
		}
		var ok bool
		var err error
		switch ev.Topic0 {
		case TokenDepositAndSwapTopic():
			ok, err = h.handleDepositAndSwap(ctx, chain, contract, ev)
		case TokenMintAndSwapTopic():
			ok, err = h.handleMintAndSwap(ctx, chain, contract, ev)
		default:
			continue
		}
		if err != nil {
			continue
		}
		if ok {
			included = append(included, ev)
		}
	}
	return included
}

// handleDepositAndSwap mirrors handle_deposit_and_swap: the correlation
// kappa is not emitted on the source leg, so it's computed client-side as
// keccak256(lowercase transaction hash), matching what the destination
// chain's relayer uses as its own TokenMintAndSwap kappa.
func (h *Handler) handleDepositAndSwap(ctx context.Context, chain, contract string, ev bridge.RawLog) (bool, error) {
	toAddr, _ := ev.DecodedFields["to"].(string)

	exists, err := eventExistsTriple(ctx, h.DB, "synapse_token_deposit_and_swap",
		"transaction_hash", ev.TransactionHash, "to_address", toAddr, "amount", bigString(ev.DecodedFields["amount"]))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	kappa := evmutil.StripHexPrefix(evmutil.Keccak256Hex([]byte(strings.ToLower(ev.TransactionHash))))

	cols := []string{
		"blockchain", "transaction_hash", "contract_address", "to_address", "chain_id",
		"token", "amount", "token_index_from", "token_index_to", "min_dy", "deadline", "kappa",
	}
	vals := []any{
		chain, ev.TransactionHash, contract, toAddr, bigString(ev.DecodedFields["chainId"]),
		ev.DecodedFields["token"], bigString(ev.DecodedFields["amount"]), ev.DecodedFields["tokenIndexFrom"],
		ev.DecodedFields["tokenIndexTo"], bigString(ev.DecodedFields["minDy"]), bigString(ev.DecodedFields["deadline"]), kappa,
	}
	if err := common.InsertRow(ctx, h.DB, "synapse_token_deposit_and_swap", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) handleMintAndSwap(ctx context.Context, chain, contract string, ev bridge.RawLog) (bool, error) {
	kappa, _ := ev.DecodedFields["kappa"].(string)
	kappa = strings.TrimPrefix(strings.ToLower(kappa), "0x")
	toAddr, _ := ev.DecodedFields["to"].(string)

	exists, err := eventExistsComposite(ctx, h.DB, "synapse_token_mint_and_swap",
		"transaction_hash", ev.TransactionHash, "kappa", kappa)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{
		"blockchain", "transaction_hash", "contract_address", "to_address", "token", "amount",
		"fee", "token_index_from", "token_index_to", "min_dy", "deadline", "swap_success", "kappa",
	}
	vals := []any{
		chain, ev.TransactionHash, contract, toAddr, ev.DecodedFields["token"], bigString(ev.DecodedFields["amount"]),
		bigString(ev.DecodedFields["fee"]), ev.DecodedFields["tokenIndexFrom"], ev.DecodedFields["tokenIndexTo"],
		bigString(ev.DecodedFields["minDy"]), bigString(ev.DecodedFields["deadline"]), ev.DecodedFields["swapSuccess"], kappa,
	}
	if err := common.InsertRow(ctx, h.DB, "synapse_token_mint_and_swap", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func bigString(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

func eventExistsComposite(ctx context.Context, db *sql.DB, table, col1, val1, col2, val2 string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM " + table + " WHERE " + col1 + " = $1 AND " + col2 + " = $2)"
	var exists bool
	if err := db.QueryRowContext(ctx, query, val1, val2).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func eventExistsTriple(ctx context.Context, db *sql.DB, table, col1, val1, col2, val2, col3, val3 string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM " + table + " WHERE " + col1 + " = $1 AND " + col2 + " = $2 AND " + col3 + " = $3)"
	var exists bool
	if err := db.QueryRowContext(ctx, query, val1, val2, val3).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
