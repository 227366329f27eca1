package debridge

import (
	"context"
	"database/sql"
	"errors"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// Handler implements bridge.Handler for deBridge (spec §4.4), grounded on
// DebridgeHandler.handle_events and its four per-event handlers.
type Handler struct {
	common.SQLHandler
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{SQLHandler: common.NewSQLHandler(db, "debridge")}
}

func (h *Handler) BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	return BridgeContractsAndTopics(chain)
}

func (h *Handler) HandleEvents(ctx context.Context, chain string, startBlock, endBlock uint64, contract string, topics []string, events []bridge.RawLog) []bridge.RawLog {
	var included []bridge.RawLog
	for _, ev := range events {
		if ev.DecodedFields == nil {
			continue // dropped during decode: out-of-scope chain id
		}
		var table string
		switch ev.Topic0 {
		case createdOrderTopic:
			table = "debridge_created_order"
		case fulfilledOrderTopic:
			table = "debridge_fulfilled_order"
		case sentOrderUnlockTopic:
			table = "debridge_sent_order_unlock"
		case claimedUnlockTopic:
			table = "debridge_claimed_unlock"
		default:
			continue
		}
		ok, err := h.insertOrder(ctx, table, chain, ev)
		if err != nil {
			continue
		}
		if ok {
			included = append(included, ev)
		}
	}
	return included
}

func (h *Handler) insertOrder(ctx context.Context, table, chain string, ev bridge.RawLog) (bool, error) {
	orderID, _ := ev.DecodedFields["order_id"].(string)
	if orderID == "" {
		return false, xerrors.DecodeError("debridge: missing order_id")
	}
	exists, err := common.EventExists(ctx, h.DB, table, "order_id", orderID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{"blockchain", "transaction_hash"}
	vals := []any{chain, ev.TransactionHash}
	for k, v := range ev.DecodedFields {
		cols = append(cols, snakeColumn(k))
		vals = append(vals, v)
	}

	err = common.InsertRow(ctx, h.DB, table, cols, vals)
	if err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// snakeColumn passes decoded field names through unchanged: Decode already
// emits snake_case keys matching each table's columns.
func snakeColumn(k string) string { return k }
