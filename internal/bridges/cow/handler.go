package cow

import (
	"context"
	"database/sql"
	"errors"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// appDataResolver is satisfied by *AppDataClient; an interface so tests can
// substitute a fake instead of hitting the network.
type appDataResolver interface {
	Resolve(ctx context.Context, blockchain, orderUID string) AppData
}

// Handler implements bridge.Handler for CoW (spec §4.4), grounded on
// CowHandler.handle_events/handle_trade. Only Trade events are persisted;
// Settlement/Interaction/OrderInvalidated/PreSignature are scanned and
// passed through unpersisted, matching the source's commented-out repos.
type Handler struct {
	common.SQLHandler
	// AppData enriches Trade inserts with appData/appDataCid best-effort;
	// tests override it with a fake or nil it out to avoid network calls.
	AppData appDataResolver
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{
		SQLHandler: common.NewSQLHandler(db, "cow"),
		AppData:    NewAppDataClient(nil),
	}
}

func (h *Handler) BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	return BridgeContractsAndTopics(chain)
}

func (h *Handler) HandleEvents(ctx context.Context, chain string, startBlock, endBlock uint64, contract string, topics []string, events []bridge.RawLog) []bridge.RawLog {
	var included []bridge.RawLog
	for _, ev := range events {
		if ev.Topic0 == TradeTopic() {
			ok, err := h.handleTrade(ctx, chain, ev)
			if err != nil {
				continue
			}
			if !ok {
				continue
			}
		}
		// Non-Trade events (or a Trade that just wasn't a fresh duplicate)
		// are still reported as included, mirroring handle_events's
		// pass-through of events it didn't specifically dispatch.
		included = append(included, ev)
	}
	return included
}

func (h *Handler) handleTrade(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	orderUID, _ := ev.DecodedFields["order_uid"].(string)
	if orderUID == "" {
		return false, xerrors.DecodeError("cow: missing order_uid")
	}
	exists, err := common.EventExists(ctx, h.DB, "cow_trade", "trade_id", orderUID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{
		"blockchain", "transaction_hash", "trade_id", "owner",
		"sell_token", "buy_token", "sell_amount", "buy_amount", "fee_amount",
		"valid_to", "contract_address", "block_number",
		"app_data", "app_data_cid",
	}
	var appData, appDataCid string
	if h.AppData != nil {
		resolved := h.AppData.Resolve(ctx, chain, orderUID)
		appData, appDataCid = resolved.AppData, resolved.AppDataCid
	}
	vals := []any{
		chain, ev.TransactionHash, orderUID, ev.DecodedFields["owner"],
		ev.DecodedFields["sell_token"], ev.DecodedFields["buy_token"],
		ev.DecodedFields["sell_amount"], ev.DecodedFields["buy_amount"], ev.DecodedFields["fee_amount"],
		ev.DecodedFields["valid_to"], ev.ContractAddress, ev.BlockNumber,
		appData, appDataCid,
	}

	err = common.InsertRow(ctx, h.DB, "cow_trade", cols, vals)
	if err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
