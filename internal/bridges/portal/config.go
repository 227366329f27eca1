// Package portal implements the Portal Token Bridge (spec §4.2): the
// TransferRedeemed event on each chain's Token Bridge contract, decoded with
// the Wormhole Core Transfer payload shared with the wormhole package,
// grounded on original_source/extractor/portal/{constants,decoder,handler}.py
// and utils/PayloadDecoder.py.
package portal

import (
	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// transferRedeemedSig/logMessagePublishedSig mirror the real Wormhole Token
// Bridge / Core Bridge ABI shapes; topic0 is computed at runtime
// (internal/evmutil) rather than trusted as a literal.
const (
	transferRedeemedSig    = "TransferRedeemed(uint16,bytes32,uint64)"
	logMessagePublishedSig = "LogMessagePublished(address,uint64,uint32,bytes,uint8)"
)

// contractsByChain lists the Token Bridge and Core Bridge contracts scanned
// per chain (spec §3 ContractGroup), grounded on portal/constants.py's
// BRIDGE_CONFIG.
var contractsByChain = map[string]struct{ tokenBridge, coreBridge string }{
	"ethereum":  {"0x3ee18B2214AFF97000D974cf647E7C347E8fa585", "0x98f3c9e6E3fAce36bAAd05FE09d375Ef1464288B"},
	"arbitrum":  {"0x0b2402144Bb366A632D14B83F244D2e0e21bD39c", "0xa5f208e072434bC67592E4C49C1B991BA79BCA46"},
	"base":      {"0x8d2de8d2f73F1F4cAB472AC9A881C9b123C79627", "0xbebdb6C8ddC678FfA9f8748f85C815C556Dd8ac6"},
	"avalanche": {"0x0e082F06FF657D94310cB8cE8B0D9a04541d8052", "0x54a8e5f9c4CbA08F9943965859F6c34eAF03E26c"},
	"polygon":   {"0x5a58505a96D1dbf8dF91cB21B54419FC36e93fdE", "0x7A4B5a56256163F07b2C80A7cA55aBE66c4ec4d7"},
	"optimism":  {"0x1D68124e65faFC907325e3EDbF8c4d84499DAa8b", "0xEe91C335eab126dF5fDB3797EA9d6aD93aeC9722"},
	"bnb":       {"0xB6F6D86a8f9879A9c87f643768d9efc38c1Da6E7", "0x98f3c9e6E3fAce36bAAd05FE09d375Ef1464288B"},
	"scroll":    {"0x24850c6f61C438823F01B7A3BF2B89B72174Fa9d", "0xbebdb6C8ddC678FfA9f8748f85C815C556Dd8ac6"},
}

// blockchainIDs is Wormhole's own numeric chain-id override table (spec
// ChainName glossary: "a second per-bridge override table where a bridge
// uses its own numbering"), grounded on portal/constants.py's BLOCKCHAIN_IDS.
var blockchainIDs = map[uint16]string{
	30: "base",
	24: "optimism",
	23: "arbitrum",
	5:  "polygon",
	6:  "avalanche",
	4:  "bnb",
	2:  "ethereum",
	38: "linea",
	34: "scroll",
}

// BridgeContractsAndTopics returns the Token Bridge and Core Bridge
// ContractGroups for chain (spec §4.4.i).
func BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	c, ok := contractsByChain[chain]
	if !ok {
		return nil, xerrors.ConfigError("portal: chain not supported: " + chain)
	}
	return []bridge.ContractGroup{
		{
			ABIName:   "portal-token-bridge",
			Contracts: []string{c.tokenBridge},
			Topics:    []string{TransferRedeemedTopic()},
		},
		{
			ABIName:   "wormhole-core-bridge",
			Contracts: []string{c.coreBridge},
			Topics:    []string{LogMessagePublishedTopic()},
		},
	}, nil
}

// convertIDToBlockchain maps a Wormhole chain id to this system's blockchain
// name, or "" if it's out of scope (spec §4.4.i), mirroring
// PortalHandler.convert_id_to_blockchain_name.
func convertIDToBlockchain(id uint16) string {
	return blockchainIDs[id]
}
