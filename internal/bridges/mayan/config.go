// Package mayan implements the Mayan Swift/Forwarder bridge (spec §4.2):
// an EVM side (OrderCreated/OrderFulfilled/OrderUnlocked on Mayan Swift,
// SwapAndForwarded/Forwarded on the Mayan Forwarder, the latter carrying an
// inline OrderParams blob switched on function selector) and a Solana side
// (InitOrder/Unlock/Fulfill/Settle/RegisterOrder/AuctionBid/AuctionClose/
// SetAuctionWinner instructions), grounded on
// original_source/extractor/mayan/{constants,handler}.py.
package mayan

import (
	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

const (
	orderCreatedSig         = "OrderCreated(bytes32)"
	orderFulfilledSig       = "OrderFulfilled(bytes32,uint64,uint64)"
	orderUnlockedSig        = "OrderUnlocked(bytes32)"
	swapAndForwardedEthSig  = "SwapAndForwardedEth(address,uint256,address,address,uint256,bytes)"
	swapAndForwardedErc20Sig = "SwapAndForwardedERC20(address,uint256,address,address,address,uint256,bytes)"
	forwardedEthSig         = "ForwardedEth(address,bytes)"
	forwardedErc20Sig       = "ForwardedERC20(address,uint256,address,bytes)"
)

const mayanSwiftProtocol = "0xc38e4e6a15593f908255214653d3d947ca1c2338"

// contractsByChain lists the mayan_swift and mayan_forwarder contracts;
// both are deployed at the same address on every supported chain.
var contractsByChain = map[string]struct{ swift, forwarder string }{
	"ethereum":  {"0xC38e4e6A15593f908255214653d3D947CA1c2338", "0x337685fdaB40D39bd02028545a4FfA7D287cC3E2"},
	"optimism":  {"0xC38e4e6A15593f908255214653d3D947CA1c2338", "0x337685fdaB40D39bd02028545a4FfA7D287cC3E2"},
	"arbitrum":  {"0xC38e4e6A15593f908255214653d3D947CA1c2338", "0x337685fdaB40D39bd02028545a4FfA7D287cC3E2"},
	"avalanche": {"0xC38e4e6A15593f908255214653d3D947CA1c2338", "0x337685fdaB40D39bd02028545a4FfA7D287cC3E2"},
	"base":      {"0xC38e4e6A15593f908255214653d3D947CA1c2338", "0x337685fdaB40D39bd02028545a4FfA7D287cC3E2"},
	"bnb":       {"0xC38e4e6A15593f908255214653d3D947CA1c2338", "0x337685fdaB40D39bd02028545a4FfA7D287cC3E2"},
	"polygon":   {"0xC38e4e6A15593f908255214653d3D947CA1c2338", "0x337685fdaB40D39bd02028545a4FfA7D287cC3E2"},
	"linea":     {"0xC38e4e6A15593f908255214653d3D947CA1c2338", "0x337685fdaB40D39bd02028545a4FfA7D287cC3E2"},
}

// blockchainIDs maps Mayan's own numeric chain ids to blockchain names
// (BLOCKCHAIN_IDS), distinct from the process-wide chain.ByID table since
// Mayan uses Wormhole-style chain ids, not EVM chain ids.
var blockchainIDs = map[uint16]string{
	30: "base",
	24: "optimism",
	23: "arbitrum",
	5:  "polygon",
	6:  "avalanche",
	2:  "ethereum",
	38: "linea",
	4:  "bnb",
}

// wethByChain is the wrapped-native token substituted as tokenIn/token for
// the ETH-denominated Forwarder events (populate_weth_token).
var wethByChain = map[string]string{
	"base":      "0x4200000000000000000000000000000000000006",
	"optimism":  "0x4200000000000000000000000000000000000006",
	"arbitrum":  "0x82af49447d8a07e3bd95bd0d56f35241523fbab1",
	"polygon":   "0x7ceb23fd6bc0add59e62ac25578270cff1b9f619",
	"ethereum":  "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
	"linea":     "0xe5d7c2a44ffddf6b295a15c148167daaaf5cf34f",
	"bnb":       "0x4db5a66e937a9f4473fa95b1caf1d1e1d62e29ea",
	"avalanche": "0x49d5c2bdffac6ce2bfdb6640f4f80f226bc10bab",
}

func BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	c, ok := contractsByChain[chain]
	if !ok {
		return nil, xerrors.ConfigError("mayan: chain not supported: " + chain)
	}
	return []bridge.ContractGroup{
		{
			ABIName:   "mayan_swift",
			Contracts: []string{c.swift},
			Topics:    []string{OrderFulfilledTopic(), OrderCreatedTopic(), OrderUnlockedTopic()},
		},
		{
			ABIName:   "mayan_forwarder",
			Contracts: []string{c.forwarder},
			Topics:    []string{SwapAndForwardedEthTopic(), SwapAndForwardedErc20Topic(), ForwardedEthTopic(), ForwardedErc20Topic()},
		},
	}, nil
}
