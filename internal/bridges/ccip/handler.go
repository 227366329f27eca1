package ccip

import (
	"context"
	"database/sql"
	"errors"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// Handler implements bridge.Handler for CCIP (spec §4.4), grounded on
// CcipHandler.handle_events/handle_send_requested/handle_execution_state_changed.
type Handler struct {
	common.SQLHandler
}

// NewHandler builds a CCIP Handler over db.
func NewHandler(db *sql.DB) *Handler {
	return &Handler{SQLHandler: common.NewSQLHandler(db, "ccip")}
}

func (h *Handler) BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	return BridgeContractsAndTopics(chain)
}

// HandleEvents dispatches each decoded log on its topic0, dropping events
// whose natural key already exists or whose message carries inline data
// (message.data != "" means it isn't a pure token transfer, spec §4.4 and
// handle_send_requested's early return).
func (h *Handler) HandleEvents(ctx context.Context, chain string, startBlock, endBlock uint64, contract string, topics []string, events []bridge.RawLog) []bridge.RawLog {
	var included []bridge.RawLog
	for _, ev := range events {
		var ok bool
		var err error
		switch ev.Topic0 {
		case sendRequestedTopic:
			ok, err = h.handleSendRequested(ctx, chain, ev)
		case executionStateChangedTopic:
			ok, err = h.handleExecutionStateChanged(ctx, chain, ev)
		}
		if err != nil {
			continue // per-event drop; caller logs at the extractor level
		}
		if ok {
			included = append(included, ev)
		}
	}
	return included
}

func (h *Handler) handleSendRequested(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	messageID, _ := ev.DecodedFields["message_id"].(string)
	if messageID == "" {
		return false, xerrors.DecodeError("ccip: missing message_id")
	}
	if dataEmpty, _ := ev.DecodedFields["data_empty"].(bool); !dataEmpty {
		return false, nil
	}
	exists, err := common.EventExists(ctx, h.DB, "ccip_send_requested", "message_id", messageID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	err = common.InsertRow(ctx, h.DB, "ccip_send_requested",
		[]string{"blockchain", "transaction_hash", "nonce", "sender", "receiver", "sequence_number",
			"gas_limit", "strict", "fee_token", "fee_token_amount", "input_token", "amount", "output_token", "message_id"},
		[]any{chain, ev.TransactionHash, ev.DecodedFields["nonce"], ev.DecodedFields["sender"], ev.DecodedFields["receiver"],
			ev.DecodedFields["sequence_number"], ev.DecodedFields["gas_limit"], ev.DecodedFields["strict"],
			ev.DecodedFields["fee_token"], ev.DecodedFields["fee_token_amount"], ev.DecodedFields["input_token"],
			ev.DecodedFields["amount"], ev.DecodedFields["output_token"], messageID})
	if err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) handleExecutionStateChanged(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	messageID, _ := ev.DecodedFields["message_id"].(string)
	if messageID == "" {
		return false, xerrors.DecodeError("ccip: missing message_id")
	}
	exists, err := common.EventExists(ctx, h.DB, "ccip_execution_state_changed", "message_id", messageID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	err = common.InsertRow(ctx, h.DB, "ccip_execution_state_changed",
		[]string{"blockchain", "transaction_hash", "sequence_number", "message_id", "state", "return_data"},
		[]any{chain, ev.TransactionHash, ev.DecodedFields["sequence_number"], messageID, ev.DecodedFields["state"], ev.DecodedFields["return_data"]})
	if err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
