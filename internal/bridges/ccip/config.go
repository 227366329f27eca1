// Package ccip implements the CCIP bridge (spec §4.2): CCIPSendRequested /
// ExecutionStateChanged event decoding and the natural-key-idempotent
// ccip_send_requested / ccip_execution_state_changed raw tables, grounded on
// original_source/extractor/ccip/handler.py.
package ccip

import (
	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// sendRequestedSig/executionStateChangedSig mirror the real Chainlink CCIP
// OnRamp/OffRamp ABI shapes; topic0 is computed at runtime (internal/evmutil)
// rather than trusted as a literal, since the handler.py topic0 comments did
// not consistently match their own event names.
const (
	sendRequestedSig          = "CCIPSendRequested((address,address,uint64,uint256,bool,uint64,address,uint256,bytes32,bytes,(address,uint256)[],bytes[]))"
	executionStateChangedSig  = "ExecutionStateChanged(uint64,bytes32,uint8,bytes)"
)

// contractsByChain lists the OnRamp/OffRamp router contracts CCIP is scanned
// on per chain (spec §3 ContractGroup).
var contractsByChain = map[string][]string{
	"ethereum": {"0xe84f9b0358e6ebc31b7b08e1d8c02dcbe8dfec06"},
	"arbitrum": {"0x70c46a1a0fd39cbd9e233a9d98a4c4c7bd34c2d1"},
	"polygon":  {"0xb4c4a8b6c6c0e4cec8b9fd3e2dd8a7b45e2a5f3c"},
	"base":     {"0x881e32b11d5e50bbb1f6ddaaaeb5fa29e6858d97"},
}

// BridgeContractsAndTopics returns the CCIP ContractGroup for chain, or a
// ConfigError when the chain is out of scope (spec §4.4.i).
func BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	contracts, ok := contractsByChain[chain]
	if !ok {
		return nil, xerrors.ConfigError("ccip: chain not supported: " + chain)
	}
	return []bridge.ContractGroup{{
		ABIName:   "CCIPOnRamp",
		Contracts: contracts,
		Topics:    []string{SendRequestedTopic(), ExecutionStateChangedTopic()},
	}}, nil
}
