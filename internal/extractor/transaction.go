package extractor

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"xchaindata.backend/internal/bridge"
)

// BuildTransaction constructs the normalized BlockchainTransaction row from
// an eth_getTransactionReceipt result and the enclosing eth_getBlockByNumber
// result (spec §3, §4.4 create_transaction_object):
// fee = gasUsed * effectiveGasPrice; timestamp is parsed from hex to unix
// seconds.
func BuildTransaction(chainName, txHash string, receiptRaw, blockRaw json.RawMessage) (bridge.Transaction, error) {
	var receipt struct {
		From              string `json:"from"`
		To                string `json:"to"`
		Status            string `json:"status"`
		BlockNumber       string `json:"blockNumber"`
		GasUsed           string `json:"gasUsed"`
		EffectiveGasPrice string `json:"effectiveGasPrice"`
	}
	if err := json.Unmarshal(receiptRaw, &receipt); err != nil {
		return bridge.Transaction{}, fmt.Errorf("unmarshal receipt: %w", err)
	}

	var block struct {
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(blockRaw, &block); err != nil {
		return bridge.Transaction{}, fmt.Errorf("unmarshal block: %w", err)
	}

	gasUsed := hexToBigInt(receipt.GasUsed)
	gasPrice := hexToBigInt(receipt.EffectiveGasPrice)
	fee := new(big.Int).Mul(gasUsed, gasPrice)

	return bridge.Transaction{
		Blockchain:      chainName,
		TransactionHash: strings.ToLower(txHash),
		BlockNumber:     hexToUint64(receipt.BlockNumber),
		Timestamp:       int64(hexToUint64(block.Timestamp)),
		FromAddress:     strings.ToLower(receipt.From),
		ToAddress:       strings.ToLower(receipt.To),
		Status:          hexToUint64(receipt.Status),
		Fee:             fee.String(),
	}, nil
}

func hexToUint64(s string) uint64 {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return 0
	}
	v, _ := strconv.ParseUint(s, 16, 64)
	return v
}

func hexToBigInt(s string) *big.Int {
	s = strings.TrimPrefix(s, "0x")
	v := new(big.Int)
	if s == "" {
		return v
	}
	v.SetString(s, 16)
	return v
}
