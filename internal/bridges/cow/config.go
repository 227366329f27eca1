// Package cow implements the CoW Protocol settlement bridge (spec §4.2):
// Trade event decoding into cow_trade, with Settlement/Interaction/
// OrderInvalidated/PreSignature events scanned but not persisted (only
// Trade carries a repository in the source system), grounded on
// original_source/extractor/cow/{constants,decoder,handler}.py.
package cow

import (
	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

const (
	tradeSig           = "Trade(address,address,address,uint256,uint256,uint256,bytes)"
	settlementSig      = "Settlement(address)"
	interactionSig     = "Interaction(address,uint256,bytes4)"
	orderInvalidatedSig = "OrderInvalidated(address,bytes)"
	preSignatureSig    = "PreSignature(address,bytes,bool)"
)

// contractsByChain is the GPv2Settlement contract address, identical across
// every chain CoW is deployed on (constants.py).
var contractsByChain = map[string]string{
	"ethereum": "0x9008D19f58AAbD9eD0D60971565AA8510560ab41",
	"arbitrum": "0x9008D19f58AAbD9eD0D60971565AA8510560ab41",
	"polygon":  "0x9008D19f58AAbD9eD0D60971565AA8510560ab41",
	"optimism": "0x9008D19f58AAbD9eD0D60971565AA8510560ab41",
	"base":     "0x9008D19f58AAbD9eD0D60971565AA8510560ab41",
}

func BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	contract, ok := contractsByChain[chain]
	if !ok {
		return nil, xerrors.ConfigError("cow: chain not supported: " + chain)
	}
	return []bridge.ContractGroup{{
		ABIName:   "cow",
		Contracts: []string{contract},
		Topics: []string{
			TradeTopic(),
			SettlementTopic(),
			InteractionTopic(),
			OrderInvalidatedTopic(),
		},
	}}, nil
}
