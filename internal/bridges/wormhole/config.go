// Package wormhole implements the Wormhole Core Bridge (spec §4.2):
// LogMessagePublished and TransferRedeemed on each chain's Core/Token Bridge
// contracts, grounded on
// original_source/extractor/wormhole/{constants,decoder,handler,payload}.py.
// Unlike portal, which reconstructs the full Transfer struct, this bridge
// only extracts the normalized amount (payload.py's extract_amount) and
// keeps the raw payload hex for downstream consumers.
package wormhole

import (
	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

const (
	logMessagePublishedSig = "LogMessagePublished(address,uint64,uint32,bytes,uint8)"
	transferRedeemedSig    = "TransferRedeemed(uint16,bytes32,uint64)"
)

// contractsByChain lists the Core Bridge and Token Bridge contracts scanned
// per chain, grounded on wormhole/constants.py's BRIDGE_CONFIG.
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

// wormholeChainIDs is Wormhole V2's own chain-id override table, grounded on
// WormholeHandler's self.WORMHOLE_CHAIN_IDS (spec ChainName glossary's
// "second per-bridge override table"). This is a distinct numbering from
// portal's own BLOCKCHAIN_IDS, confirming each Wormhole-family bridge keeps
// its own table rather than sharing one.
var wormholeChainIDs = map[string]uint16{
	"ethereum":  2,
	"bsc":       4,
	"bnb":       4,
	"binance":   4,
	"polygon":   5,
	"avalanche": 6,
	"arbitrum":  23,
	"optimism":  24,
	"base":      30,
	"scroll":    34,
}

// BridgeContractsAndTopics returns the Core Bridge and Token Bridge
// ContractGroups for chain (spec §4.4.i).
func BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	c, ok := contractsByChain[chain]
	if !ok {
		return nil, xerrors.ConfigError("wormhole: chain not supported: " + chain)
	}
	return []bridge.ContractGroup{
		{
			ABIName:   "wormholecorebridge",
			Contracts: []string{c.coreBridge},
			Topics:    []string{LogMessagePublishedTopic()},
		},
		{
			ABIName:   "wormholetokenbridge",
			Contracts: []string{c.tokenBridge},
			Topics:    []string{TransferRedeemedTopic()},
		},
	}, nil
}

// wormholeChainID maps a local blockchain name to its Wormhole chain id,
// defaulting to 0 (mirrors _get_wormhole_chain_id's "Missing ... Writing 0").
func wormholeChainID(blockchain string) uint16 {
	return wormholeChainIDs[blockchain]
}
