package router

import (
	"context"
	"database/sql"
	"errors"
	"math/big"
	"strings"

	gethcommon "github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
	"xchaindata.backend/internal/chain"
	xerrors "xchaindata.backend/internal/domain/errors"
	"xchaindata.backend/internal/evmutil"
)

// Handler implements bridge.Handler for Router Protocol's Asset Forwarder
// (spec §4.2), grounded on RouterHandler.handle_events and its four
// per-event-type handlers in original_source/extractor/router/handler.py.
type Handler struct {
	common.SQLHandler
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{SQLHandler: common.NewSQLHandler(db, "router")}
}

func (h *Handler) BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	return BridgeContractsAndTopics(chain)
}

func (h *Handler) HandleEvents(ctx context.Context, chainName string, startBlock, endBlock uint64, contract string, topics []string, events []bridge.RawLog) []bridge.RawLog {
	var included []bridge.RawLog
	for _, ev := range events {
		if ev.DecodedFields == nil {
			continue
		}
		var ok bool
		var err error
		switch ev.Topic0 {
		case FundsDepositedTopic(), FundsDepositedWithMessageTopic():
			ok, err = h.handleFundsDeposited(ctx, chainName, ev)
		case IUSDCDepositedTopic():
			ok, err = h.handleIUSDCDeposited(ctx, chainName, ev)
		case DepositInfoUpdateTopic():
			ok, err = h.handleDepositInfoUpdate(ctx, chainName, ev)
		case FundsPaidTopic(), FundsPaidWithMessageTopic():
			ok, err = h.handleFundsPaid(ctx, chainName, ev)
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

// extractAddress mirrors handler.py's _extract_address: lowercases and, when
// given a 64-hex-char bytes32-shaped value, takes the rightmost 40 chars.
func extractAddress(raw any) string {
	s, _ := raw.(string)
	s = strings.ToLower(evmutil.StripHexPrefix(s))
	if s == "" {
		return ""
	}
	if len(s) == 64 {
		s = s[24:]
	}
	return "0x" + s
}

// decodeAsciiChainID reads the ASCII-decimal chain id out of a bytes32 hex
// string, mirroring handler.py's _decode_ascii_chain_id.
func decodeAsciiChainID(raw any) (uint64, bool) {
	s, _ := raw.(string)
	s = evmutil.StripHexPrefix(s)
	if len(s) != 64 {
		return 0, false
	}
	b := gethcommon.FromHex("0x" + s)
	if len(b) != 32 {
		return 0, false
	}
	var arr [32]byte
	copy(arr[:], b)
	return evmutil.DecodeAsciiBytes32(arr)
}

// mapChainName resolves a numeric chain id against the global chain table,
// mirroring handler.py's _map_chain_name/_source_chain_id_int (both of which
// walk config.constants.BLOCKCHAIN_IDS).
func mapChainName(id uint64) (string, bool) {
	info, ok := chain.ByID(id)
	if !ok {
		return "", false
	}
	return info.Name, true
}

// forwarder returns the Asset Forwarder contract configured for chainName,
// used as destinationContract in the message hash, mirroring handler.py's
// _forwarder.
func forwarder(chainName string) (string, bool) {
	addr, ok := contractsByChain[strings.ToLower(chainName)]
	return addr, ok
}

func (h *Handler) handleFundsDeposited(ctx context.Context, chainName string, ev bridge.RawLog) (bool, error) {
	depositID, _ := ev.DecodedFields["depositId"].(*big.Int)
	if depositID == nil {
		return false, nil
	}
	hasMessage, _ := ev.DecodedFields["hasMessage"].(bool)

	exists, err := eventExistsComposite(ctx, h.DB, "router_funds_deposited",
		"deposit_id", depositID.String(), "has_message", boolStr(hasMessage))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	amount, _ := ev.DecodedFields["amount"].(*big.Int)
	destAmount, _ := ev.DecodedFields["destAmount"].(*big.Int)
	partnerID, _ := ev.DecodedFields["partnerId"].(*big.Int)
	srcToken, _ := ev.DecodedFields["srcToken"].(string)
	depositor, _ := ev.DecodedFields["depositor"].(string)
	destChainIDBytesHex, _ := ev.DecodedFields["destChainIdBytes"].(string)

	recipient := extractAddress(ev.DecodedFields["recipient"])

	var destChainName string
	var haveDestChain bool
	if destChainID, ok := decodeAsciiChainID(ev.DecodedFields["destChainIdBytes"]); ok {
		destChainName, haveDestChain = mapChainName(destChainID)
	}

	var srcChainIDInt uint64
	var haveSrcChain bool
	if info, ok := chain.ByName(chainName); ok {
		srcChainIDInt, haveSrcChain = info.ChainID, true
	}

	// Router's raw FundsDeposited payload carries no explicit destination
	// token field; fall back to the per-chain stable token table.
	destToken := ""
	if haveDestChain {
		destToken = stableTokens[destChainName]
	}

	var messageHash string
	if haveDestChain && haveSrcChain && recipient != "" && destToken != "" && amount != nil {
		if fwd, ok := forwarder(destChainName); ok {
			decimals, ok := tokenDecimals[destChainName]
			if !ok {
				decimals = 18
			}
			scaled := scaleToEighteenDecimals(amount, decimals)
			if hash, err := computeMessageHash(scaled, srcChainIDInt, depositID, destToken, recipient, fwd); err == nil {
				messageHash = hash
			}
		}
	}

	cols := []string{
		"blockchain", "transaction_hash", "partner_id", "amount", "dest_chain_id_bytes",
		"dest_amount", "deposit_id", "src_token", "depositor", "recipient_raw",
		"dest_token_raw", "has_message", "message_hash",
	}
	vals := []any{
		chainName, ev.TransactionHash, bigToString(partnerID), bigToString(amount), destChainIDBytesHex,
		bigToString(destAmount), depositID.String(), srcToken, depositor, recipient,
		nullableString(destToken), hasMessage, nullableString(messageHash),
	}
	if err := common.InsertRow(ctx, h.DB, "router_funds_deposited", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) handleIUSDCDeposited(ctx context.Context, chainName string, ev bridge.RawLog) (bool, error) {
	usdcNonce, _ := ev.DecodedFields["usdcNonce"].(*big.Int)
	if usdcNonce == nil {
		return false, nil
	}

	exists, err := common.EventExists(ctx, h.DB, "router_iusdc_deposited", "usdc_nonce", usdcNonce.String())
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	amount, _ := ev.DecodedFields["amount"].(*big.Int)
	partnerID, _ := ev.DecodedFields["partnerId"].(*big.Int)
	srcToken, _ := ev.DecodedFields["srcToken"].(string)
	depositor, _ := ev.DecodedFields["depositor"].(string)
	destChainIDBytesHex, _ := ev.DecodedFields["destChainIdBytes"].(string)
	recipient := extractAddress(ev.DecodedFields["recipient"])

	cols := []string{
		"blockchain", "transaction_hash", "partner_id", "amount", "dest_chain_id_bytes",
		"usdc_nonce", "src_token", "recipient", "depositor",
	}
	vals := []any{
		chainName, ev.TransactionHash, bigToString(partnerID), bigToString(amount), destChainIDBytesHex,
		usdcNonce.String(), srcToken, recipient, depositor,
	}
	if err := common.InsertRow(ctx, h.DB, "router_iusdc_deposited", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) handleDepositInfoUpdate(ctx context.Context, chainName string, ev bridge.RawLog) (bool, error) {
	depositID, _ := ev.DecodedFields["depositId"].(*big.Int)
	eventNonce, _ := ev.DecodedFields["eventNonce"].(*big.Int)
	if depositID == nil || eventNonce == nil {
		return false, nil
	}

	exists, err := eventExistsComposite(ctx, h.DB, "router_deposit_info_update",
		"deposit_id", depositID.String(), "event_nonce", eventNonce.String())
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	srcToken, _ := ev.DecodedFields["srcToken"].(string)
	feeAmount, _ := ev.DecodedFields["feeAmount"].(*big.Int)
	initiateWithdrawal, _ := ev.DecodedFields["initiatewithdrawal"].(bool)
	depositor, _ := ev.DecodedFields["depositor"].(string)

	cols := []string{
		"blockchain", "transaction_hash", "src_token", "fee_amount", "deposit_id",
		"event_nonce", "initiate_withdrawal", "depositor",
	}
	vals := []any{
		chainName, ev.TransactionHash, srcToken, bigToString(feeAmount), depositID.String(),
		eventNonce.String(), initiateWithdrawal, depositor,
	}
	if err := common.InsertRow(ctx, h.DB, "router_deposit_info_update", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *Handler) handleFundsPaid(ctx context.Context, chainName string, ev bridge.RawLog) (bool, error) {
	messageHash, _ := ev.DecodedFields["messageHash"].(string)
	messageHash = strings.ToLower(messageHash)
	if messageHash == "" {
		return false, nil
	}
	hasMessage, _ := ev.DecodedFields["hasMessage"].(bool)

	exists, err := eventExistsComposite(ctx, h.DB, "router_funds_paid",
		"message_hash", messageHash, "has_message", boolStr(hasMessage))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	forwarderAddr, _ := ev.DecodedFields["forwarder"].(string)
	nonce, _ := ev.DecodedFields["nonce"].(*big.Int)
	execFlag, _ := ev.DecodedFields["execFlag"].(bool)

	cols := []string{
		"blockchain", "transaction_hash", "message_hash", "forwarder", "nonce",
		"has_message", "exec_flag",
	}
	vals := []any{
		chainName, ev.TransactionHash, messageHash, forwarderAddr, bigToString(nonce),
		hasMessage, execFlag,
	}
	if err := common.InsertRow(ctx, h.DB, "router_funds_paid", cols, vals); err != nil {
		if errors.Is(err, xerrors.ErrHandlerDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// eventExistsComposite checks a two-column natural key, mirroring the
// composite event_exists methods in repository/router/repository.py (none
// of Router's four tables key on a single column alone except iUSDCDeposited).
func eventExistsComposite(ctx context.Context, db *sql.DB, table, col1, val1, col2, val2 string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM " + table + " WHERE " + col1 + " = $1 AND " + col2 + " = $2)"
	var exists bool
	if err := db.QueryRowContext(ctx, query, val1, val2).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func bigToString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
