// Package debridge implements the deBridge (DLN) bridge (spec §4.2):
// CreatedOrder/FulfilledOrder (order tuple events) and
// SentOrderUnlock/ClaimedUnlock, grounded on
// original_source/extractor/debridge/{constants,handler}.py.
package debridge

import (
	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

const (
	createdOrderSig    = "CreatedOrder((uint256,bytes32,uint256,bytes32,uint256,uint256,bytes32,uint256,bytes32,bytes32,bytes32,bytes32,bytes,bytes),bytes32,uint256,uint32,uint256,uint256,bytes)"
	fulfilledOrderSig  = "FulfilledOrder((uint256,bytes32,uint256,bytes32,uint256,uint256,bytes32,uint256,bytes32,bytes32,bytes32,bytes32,bytes,bytes),bytes32,bytes32,bytes32)"
	sentOrderUnlockSig = "SentOrderUnlock(bytes32,bytes32,bytes32)"
	claimedUnlockSig   = "ClaimedUnlock(bytes32,bytes32,uint256,bytes32)"
)

var contractsByChain = map[string]struct{ source, destination string }{
	"ethereum": {"0xef4fb24ad0916217251f553c0596f8edc630eb66", "0xe7351fd770a37282b91d153ee690b63579d6dd7f"},
	"arbitrum": {"0xef4fb24ad0916217251f553c0596f8edc630eb66", "0xe7351fd770a37282b91d153ee690b63579d6dd7f"},
	"bnb":      {"0xef4fb24ad0916217251f553c0596f8edc630eb66", "0xe7351fd770a37282b91d153ee690b63579d6dd7f"},
	"base":     {"0xef4fb24ad0916217251f553c0596f8edc630eb66", "0xe7351fd770a37282b91d153ee690b63579d6dd7f"},
}

func BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	c, ok := contractsByChain[chain]
	if !ok {
		return nil, xerrors.ConfigError("debridge: chain not supported: " + chain)
	}
	return []bridge.ContractGroup{
		{ABIName: "dln_source", Contracts: []string{c.source}, Topics: []string{CreatedOrderTopic(), ClaimedUnlockTopic()}},
		{ABIName: "dln_destination", Contracts: []string{c.destination}, Topics: []string{SentOrderUnlockTopic(), FulfilledOrderTopic()}},
	}, nil
}
