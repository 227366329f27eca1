package eco

import (
	"context"
	"database/sql"
	"errors"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// Handler implements bridge.Handler for Eco Protocol (spec §4.2), grounded
// on EcoHandler.handle_events/handle_intent_created/handle_fulfillment.
type Handler struct {
	common.SQLHandler
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{SQLHandler: common.NewSQLHandler(db, "eco")}
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
		case IntentCreatedTopic():
			ok, err = h.handleIntentCreated(ctx, chain, ev)
		case FulfillmentTopic():
			ok, err = h.handleFulfillment(ctx, chain, ev)
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

func (h *Handler) handleIntentCreated(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	intentHash, _ := ev.DecodedFields["hash"].(string)
	if intentHash == "" {
		return false, nil
	}

	exists, err := common.EventExists(ctx, h.DB, "eco_intent_created", "intent_hash", intentHash)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{
		"blockchain", "transaction_hash", "intent_hash", "salt", "source_chain_id",
		"destination_chain_id", "inbox", "creator", "prover", "deadline", "native_value",
	}
	vals := []any{
		chain, ev.TransactionHash, intentHash, ev.DecodedFields["salt"], bigString(ev.DecodedFields["source"]),
		bigString(ev.DecodedFields["destination"]), ev.DecodedFields["inbox"], ev.DecodedFields["creator"],
		ev.DecodedFields["prover"], bigString(ev.DecodedFields["deadline"]), bigString(ev.DecodedFields["nativeValue"]),
	}
	if err := common.InsertRow(ctx, h.DB, "eco_intent_created", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) handleFulfillment(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	intentHash, _ := ev.DecodedFields["_hash"].(string)
	if intentHash == "" {
		return false, nil
	}

	exists, err := common.EventExists(ctx, h.DB, "eco_fulfillment", "intent_hash", intentHash)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{"blockchain", "transaction_hash", "intent_hash", "source_chain_id", "prover", "claimant"}
	vals := []any{
		chain, ev.TransactionHash, intentHash, bigString(ev.DecodedFields["_sourceChainID"]),
		ev.DecodedFields["_prover"], ev.DecodedFields["_claimant"],
	}
	if err := common.InsertRow(ctx, h.DB, "eco_fulfillment", cols, vals); err != nil {
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
