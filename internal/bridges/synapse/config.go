// Package synapse implements the Synapse bridge (spec §4.2):
// TokenDepositAndSwap on the source chain, correlated against
// TokenMintAndSwap on the destination chain by a kappa value — grounded on
// original_source/extractor/synapse/{constants,decoder,handler}.py and
// generator/synapse/generator.py.
package synapse

import (
	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

const (
	tokenDepositAndSwapSig = "TokenDepositAndSwap(address,uint256,address,uint256,uint8,uint8,uint256,uint256)"
	tokenMintAndSwapSig    = "TokenMintAndSwap(address,address,uint256,uint256,uint8,uint8,uint256,uint256,bool,bytes32)"
)

// contractsByChain lists the single Bridge contract scanned per chain,
// grounded on synapse/constants.py's BRIDGE_CONFIG.
var contractsByChain = map[string]string{
	"ethereum":  "0x2796317b0ff8538f253012862c06787adfb8ceb6",
	"arbitrum":  "0x6f4e8eba4d337f874ab57478acc2cb5bacdc19c9",
	"avalanche": "0xc05e61d0e7a63d27546389b7ad62fdff5a91aace",
	"base":      "0xf07d1c752fab503e47fef309bf14fbdd3e867089",
	"optimism":  "0xaf41a65f786339e7911f4acdad6bd49426f2dc6b",
	"polygon":   "0x8f5bbb2bb8c2ee94639e55d5f41de9b4839c1280",
}

// BridgeContractsAndTopics returns Synapse's ContractGroup for chain (spec
// §4.4.i).
func BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	contract, ok := contractsByChain[chain]
	if !ok {
		return nil, xerrors.ConfigError("synapse: chain not supported: " + chain)
	}
	return []bridge.ContractGroup{{
		ABIName:   "bridge",
		Contracts: []string{contract},
		Topics:    []string{TokenDepositAndSwapTopic(), TokenMintAndSwapTopic()},
	}}, nil
}
