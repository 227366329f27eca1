package mayan

import (
	"context"
	"database/sql"
	"errors"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// Handler implements bridge.Handler for Mayan's EVM side (spec §4.4),
// grounded on MayanHandler.handle_events and its per-event handlers.
type Handler struct {
	common.SQLHandler
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{SQLHandler: common.NewSQLHandler(db, "mayan")}
}

func (h *Handler) BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	return BridgeContractsAndTopics(chain)
}

func (h *Handler) HandleEvents(ctx context.Context, chain string, startBlock, endBlock uint64, contract string, topics []string, events []bridge.RawLog) []bridge.RawLog {
	var included []bridge.RawLog
	for _, ev := range events {
		if ev.DecodedFields == nil {
			continue // Forwarder events drop here when dst_chain is out of scope
		}
		var ok bool
		var err error
		switch ev.Topic0 {
		case OrderCreatedTopic():
			ok, err = h.insertKeyedRow(ctx, "mayan_order_created", chain, ev, nil)
		case OrderFulfilledTopic():
			ok, err = h.insertKeyedRow(ctx, "mayan_order_fulfilled", chain, ev, []string{"sequence", "net_amount"})
		case OrderUnlockedTopic():
			ok, err = h.insertKeyedRow(ctx, "mayan_order_unlocked", chain, ev, nil)
		case SwapAndForwardedEthTopic(), SwapAndForwardedErc20Topic():
			ev.DecodedFields["token_in"] = tokenInOrWETH(chain, ev.DecodedFields)
			ok, err = h.insertSwapOrForward(ctx, "mayan_swap_and_forwarded", chain, ev, swapAndForwardedColumns)
		case ForwardedEthTopic(), ForwardedErc20Topic():
			ev.DecodedFields["token"] = tokenOrWETH(chain, ev.DecodedFields)
			ok, err = h.insertSwapOrForward(ctx, "mayan_forwarded", chain, ev, forwardedColumns)
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

// tokenInOrWETH substitutes the chain's wrapped-native token for the ETH
// variant of SwapAndForwarded, which carries no tokenIn field on-chain.
func tokenInOrWETH(chain string, fields map[string]any) string {
	if v, ok := fields["token_in"].(string); ok && v != "" {
		return v
	}
	return wethByChain[chain]
}

func tokenOrWETH(chain string, fields map[string]any) string {
	if v, ok := fields["token"].(string); ok && v != "" {
		return v
	}
	return wethByChain[chain]
}

var swapAndForwardedColumns = []string{
	"token_in", "amount_in", "swap_protocol", "middle_token", "middle_amount", "mayan_protocol",
	"trader", "tokenOut", "minAmountOut", "gasDrop", "cancelFee", "refundFee", "deadline",
	"destAddr", "dst_chain", "referrerAddr", "referrerBps", "auctionMode", "random",
}

var forwardedColumns = []string{
	"token", "amount", "mayan_protocol",
	"trader", "tokenOut", "minAmountOut", "gasDrop", "cancelFee", "refundFee", "deadline",
	"destAddr", "dst_chain", "referrerAddr", "referrerBps", "auctionMode", "random",
}

func (h *Handler) insertKeyedRow(ctx context.Context, table, chain string, ev bridge.RawLog, extraCols []string) (bool, error) {
	key, _ := ev.DecodedFields["key"].(string)
	if key == "" {
		return false, xerrors.DecodeError("mayan: missing key")
	}
	exists, err := common.EventExists(ctx, h.DB, table, "key", key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{"blockchain", "transaction_hash", "key"}
	vals := []any{chain, ev.TransactionHash, key}
	for _, c := range extraCols {
		cols = append(cols, snakeColumn(c))
		vals = append(vals, ev.DecodedFields[c])
	}

	if err := common.InsertRow(ctx, h.DB, table, cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) insertSwapOrForward(ctx context.Context, table, chain string, ev bridge.RawLog, fieldOrder []string) (bool, error) {
	exists, err := common.EventExists(ctx, h.DB, table, "transaction_hash", ev.TransactionHash)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{"blockchain", "transaction_hash"}
	vals := []any{chain, ev.TransactionHash}
	for _, c := range fieldOrder {
		if v, ok := ev.DecodedFields[c]; ok {
			cols = append(cols, snakeColumn(c))
			vals = append(vals, v)
		}
	}

	if err := common.InsertRow(ctx, h.DB, table, cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// snakeColumn converts the camelCase OrderParams field names into the
// snake_case columns the rest of this system uses.
func snakeColumn(k string) string {
	switch k {
	case "tokenOut":
		return "token_out"
	case "minAmountOut":
		return "min_amount_out"
	case "gasDrop":
		return "gas_drop"
	case "cancelFee":
		return "cancel_fee"
	case "refundFee":
		return "refund_fee"
	case "destAddr":
		return "dst_addr"
	case "referrerAddr":
		return "referrer_addr"
	case "referrerBps":
		return "referrer_bps"
	case "auctionMode":
		return "auction_mode"
	default:
		return k
	}
}
