// Package eco implements the Eco Protocol intents bridge (spec §4.2):
// IntentCreated on the source chain's Intent contract, correlated against
// Fulfillment on the destination chain's Inbox contract by intent_hash —
// grounded on original_source/extractor/eco/{constants,decoder,handler}.py
// and generator/eco/generator.py.
package eco

import (
	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

const (
	intentCreatedSig = "IntentCreated(bytes32,bytes32,uint256,uint256,address,address,address,uint256,uint256)"
	intentFundedSig  = "IntentFunded(bytes32,address)"
	withdrawalSig    = "Withdrawal(bytes32,address)"
	fulfillmentSig   = "Fulfillment(bytes32,uint256,address,address)"
)

// chainContracts names the two contract families scanned per chain:
// "intent" (source-side Intent contract) and "inbox" (destination-side
// Inbox contract), grounded on eco/constants.py's BRIDGE_CONFIG.
type chainContracts struct {
	Intent string
	Inbox  string
}

var contractsByChain = map[string]chainContracts{
	"ethereum":  {"0x2020ae689ed3e017450280cea110d0ef6e640da4", "0x04c816032a076df65b411bb3f31c8d569d411ee2"},
	"arbitrum":  {"0x2020ae689ed3e017450280cea110d0ef6e640da4", "0x04c816032a076df65b411bb3f31c8d569d411ee2"},
	"base":      {"0x2020ae689ed3e017450280cea110d0ef6e640da4", "0x04c816032a076df65b411bb3f31c8d569d411ee2"},
	"optimism":  {"0x2020ae689ed3e017450280cea110d0ef6e640da4", "0x04c816032a076df65b411bb3f31c8d569d411ee2"},
	"polygon":   {"0x2020ae689ed3e017450280cea110d0ef6e640da4", "0x04c816032a076df65b411bb3f31c8d569d411ee2"},
}

// BridgeContractsAndTopics returns Eco's two ContractGroups for chain (spec
// §4.4.i): Intent (IntentCreated/IntentFunded/Withdrawal) and Inbox
// (Fulfillment).
func BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	contracts, ok := contractsByChain[chain]
	if !ok {
		return nil, xerrors.ConfigError("eco: chain not supported: " + chain)
	}
	return []bridge.ContractGroup{
		{
			ABIName:   "intent",
			Contracts: []string{contracts.Intent},
			Topics:    []string{WithdrawalTopic(), IntentFundedTopic(), IntentCreatedTopic()},
		},
		{
			ABIName:   "inbox",
			Contracts: []string{contracts.Inbox},
			Topics:    []string{FulfillmentTopic()},
		},
	}, nil
}
