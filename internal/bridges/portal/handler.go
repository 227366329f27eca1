package portal

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// Handler implements bridge.Handler for Portal (spec §4.4), grounded on
// PortalHandler.handle_events/_handle_log_message_published/_handle_transfer_redeemed.
type Handler struct {
	common.SQLHandler
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{SQLHandler: common.NewSQLHandler(db, "portal")}
}

func (h *Handler) BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	return BridgeContractsAndTopics(chain)
}

func (h *Handler) HandleEvents(ctx context.Context, chain string, startBlock, endBlock uint64, contract string, topics []string, events []bridge.RawLog) []bridge.RawLog {
	var included []bridge.RawLog
	for _, ev := range events {
		if ev.DecodedFields == nil {
			continue // LogMessagePublished dropped: non-266-byte payload or unmapped dst_chain
		}
		var ok bool
		var err error
		switch ev.Topic0 {
		case LogMessagePublishedTopic():
			ok, err = h.handleLogMessagePublished(ctx, chain, ev)
		case TransferRedeemedTopic():
			ok, err = h.handleTransferRedeemed(ctx, chain, ev)
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

func (h *Handler) handleLogMessagePublished(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	sequence, _ := ev.DecodedFields["sequence"].(uint64)
	seqStr := strconv.FormatUint(sequence, 10)

	exists, err := common.EventExists(ctx, h.DB, "portal_log_message_published", "sequence_number", seqStr)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{
		"blockchain", "transaction_hash", "amount", "token_address", "token_chain",
		"recipient", "recipient_chain", "fee", "nonce", "sequence_number",
	}
	vals := []any{
		chain, ev.TransactionHash,
		ev.DecodedFields["amount"], ev.DecodedFields["token_address"], ev.DecodedFields["token_chain"],
		ev.DecodedFields["recipient"], ev.DecodedFields["dst_chain"], ev.DecodedFields["fee"],
		ev.DecodedFields["nonce"], seqStr,
	}
	if err := common.InsertRow(ctx, h.DB, "portal_log_message_published", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) handleTransferRedeemed(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	seqStr, _ := ev.DecodedFields["sequence"].(string)

	exists, err := common.EventExists(ctx, h.DB, "portal_transfer_redeemed", "sequence_number", seqStr)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{"blockchain", "transaction_hash", "emitter_chain_id", "emitter_address", "sequence_number"}
	vals := []any{chain, ev.TransactionHash, ev.DecodedFields["emitterChainId"], ev.DecodedFields["emitterAddress"], seqStr}
	if err := common.InsertRow(ctx, h.DB, "portal_transfer_redeemed", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
