// Package fly implements the Bridge.Fly event pipeline, grounded on
// extractor/fly/{constants,decoder,handler}.py, repository/fly/{models,repository}.py
// and generator/fly/generator.py.
package fly

import (
	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

const (
	swapInSig  = "SwapIn(address,address,address,address,uint256,uint256,bytes)"
	swapOutSig = "SwapOut(address,address,address,address,uint256,uint256,bytes32)"
	depositSig = "Deposit(bytes32,uint256)"

	abiName = "magpiecctpbridge"
)

// contractsByChain mirrors extractor/fly/constants.py's per-chain
// BRIDGE_CONFIG addresses, which (unlike Eco) differ across chains.
var contractsByChain = map[string]string{
	"ethereum":  "0xeb57de1f78304cf925405efc1089793aabddb0d5",
	"optimism":  "0xeb57de1f78304cf925405efc1089793aabddb0d5",
	"polygon":   "0xeb57de1f78304cf925405efc1089793aabddb0d5",
	"arbitrum":  "0xD0DAa14D983a40b4c91f7b6875fAa8d27f024e73",
	"avalanche": "0x34cDCe58Cbdc6C54F2aC808A24561D0Ab18CA8be",
	"base":      "0x6c9b3A74AE4779Da5cA999371Ee8950e8db3407f",
}

// BridgeContractsAndTopics reports the magpiecctpbridge contract and its
// three watched topics for chain.
func BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	addr, ok := contractsByChain[chain]
	if !ok {
		return nil, xerrors.ConfigError("fly: chain not supported: " + chain)
	}
	return []bridge.ContractGroup{
		{
			ABIName:   abiName,
			Contracts: []string{addr},
			Topics:    []string{SwapInTopic(), SwapOutTopic(), DepositTopic()},
		},
	}, nil
}
