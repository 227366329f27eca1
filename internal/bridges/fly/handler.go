package fly

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	gethcommon "github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
	xerrors "xchaindata.backend/internal/domain/errors"
	"xchaindata.backend/internal/evmutil"
)

// Handler implements bridge.Handler for the Fly/magpiecctpbridge bridge,
// grounded on FlyHandler.handle_events/handle_swap_in/handle_swap_out/handle_deposit.
type Handler struct {
	common.SQLHandler
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{SQLHandler: common.NewSQLHandler(db, "fly")}
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
		case SwapInTopic():
			ok, err = h.handleSwapIn(ctx, chain, ev)
		case SwapOutTopic():
			ok, err = h.handleSwapOut(ctx, chain, ev)
		case DepositTopic():
			ok, err = h.handleDeposit(ctx, chain, ev)
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

// computeDepositHashFromEncoded mirrors _compute_deposit_hash_from_encoded:
// hex-decode encoded (stripping an optional 0x prefix), falling back to the
// raw bytes of the string if it isn't valid hex, then keccak256 it.
func computeDepositHashFromEncoded(encoded string) string {
	stripped := strings.TrimPrefix(encoded, "0x")
	if isHex(stripped) {
		return evmutil.Keccak256Hex(gethcommon.FromHex(encoded))
	}
	return evmutil.Keccak256Hex([]byte(encoded))
}

func isHex(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func (h *Handler) handleSwapIn(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	if ev.TransactionHash == "" {
		return false, nil
	}
	exists, err := common.EventExists(ctx, h.DB, "fly_swap_in", "transaction_hash", ev.TransactionHash)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	encoded, _ := ev.DecodedFields["encodedDepositData"].(string)
	var depositHash any
	if encoded != "" {
		depositHash = computeDepositHashFromEncoded(encoded)
	}

	cols := []string{
		"blockchain", "transaction_hash", "from_address", "to_address",
		"from_asset_address", "to_asset_address", "amount_in", "amount_out",
		"encoded_deposit_data", "deposit_data_hash",
	}
	vals := []any{
		chain, ev.TransactionHash, ev.DecodedFields["fromAddress"], ev.DecodedFields["toAddress"],
		ev.DecodedFields["fromAssetAddress"], ev.DecodedFields["toAssetAddress"],
		bigString(ev.DecodedFields["amountIn"]), bigString(ev.DecodedFields["amountOut"]),
		encoded, depositHash,
	}
	if err := common.InsertRow(ctx, h.DB, "fly_swap_in", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) handleSwapOut(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	if ev.TransactionHash == "" {
		return false, nil
	}
	exists, err := common.EventExists(ctx, h.DB, "fly_swap_out", "transaction_hash", ev.TransactionHash)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{
		"blockchain", "transaction_hash", "from_address", "to_address",
		"from_asset_address", "to_asset_address", "amount_in", "amount_out", "deposit_data_hash",
	}
	vals := []any{
		chain, ev.TransactionHash, ev.DecodedFields["fromAddress"], ev.DecodedFields["toAddress"],
		ev.DecodedFields["fromAssetAddress"], ev.DecodedFields["toAssetAddress"],
		bigString(ev.DecodedFields["amountIn"]), bigString(ev.DecodedFields["amountOut"]),
		ev.DecodedFields["depositDataHash"],
	}
	if err := common.InsertRow(ctx, h.DB, "fly_swap_out", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) handleDeposit(ctx context.Context, chain string, ev bridge.RawLog) (bool, error) {
	depositHash, _ := ev.DecodedFields["depositDataHash"].(string)
	if depositHash == "" {
		return false, nil
	}
	exists, err := common.EventExists(ctx, h.DB, "fly_deposit", "deposit_data_hash", depositHash)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	cols := []string{"blockchain", "transaction_hash", "deposit_data_hash", "amount"}
	vals := []any{chain, ev.TransactionHash, depositHash, bigString(ev.DecodedFields["amount"])}
	if err := common.InsertRow(ctx, h.DB, "fly_deposit", cols, vals); err != nil {
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
