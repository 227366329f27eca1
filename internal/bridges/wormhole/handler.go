package wormhole

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// Handler implements bridge.Handler for the Wormhole Core Bridge (spec
// §4.4), grounded on WormholeHandler.handle_events/_handle_published/_handle_redeemed.
type Handler struct {
	common.SQLHandler
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{SQLHandler: common.NewSQLHandler(db, "wormhole")}
}

func (h *Handler) BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	return BridgeContractsAndTopics(chain)
}

func (h *Handler) HandleEvents(ctx context.Context, chain string, startBlock, endBlock uint64, contract string, topics []string, events []bridge.RawLog) []bridge.RawLog {
	var included []bridge.RawLog
	for _, ev := range events {
		var ok bool
		var err error
		switch ev.Topic0 {
		case LogMessagePublishedTopic():
			ok, err = h.handlePublished(ctx, chain, ev)
		case TransferRedeemedTopic():
			ok, err = h.handleRedeemed(ctx, chain, ev)
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

// publishedExists checks (transaction_hash, sequence), mirroring
// WormholePublishedRepository.event_exists — the natural key is the pair,
// not sequence alone, since sequence numbers are only unique per emitter.
func (h *Handler) handlePublished(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	sequence, _ := ev.DecodedFields["sequence"].(uint64)
	seqStr := strconv.FormatUint(sequence, 10)

	exists, err := eventExistsByTxAndSequence(ctx, h.DB, "wormhole_published", ev.TransactionHash, seqStr)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{
		"blockchain", "transaction_hash", "block_number", "sender", "sequence", "nonce",
		"payload", "consistency_level", "emitter_address_32", "emitter_chain_id", "amount",
	}
	vals := []any{
		chain, ev.TransactionHash, ev.BlockNumber, ev.DecodedFields["sender"], seqStr, ev.DecodedFields["nonce"],
		ev.DecodedFields["payload"], ev.DecodedFields["consistencyLevel"], ev.DecodedFields["emitter_address_32"], ev.DecodedFields["emitter_chain_id"], ev.DecodedFields["amount"],
	}
	if err := common.InsertRow(ctx, h.DB, "wormhole_published", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) handleRedeemed(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	seqStr, _ := ev.DecodedFields["sequence"].(string)

	exists, err := eventExistsByTxAndSequence(ctx, h.DB, "wormhole_redeemed", ev.TransactionHash, seqStr)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{"blockchain", "transaction_hash", "block_number", "emitter_chain_id", "emitter_address_32", "sequence"}
	vals := []any{chain, ev.TransactionHash, ev.BlockNumber, ev.DecodedFields["emitterChainId"], ev.DecodedFields["emitter_address_32"], seqStr}
	if err := common.InsertRow(ctx, h.DB, "wormhole_redeemed", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func eventExistsByTxAndSequence(ctx context.Context, db *sql.DB, table, txHash, sequence string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM " + table + " WHERE transaction_hash = $1 AND sequence = $2)"
	if err := db.QueryRowContext(ctx, query, txHash, sequence).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
