// Package router implements the Router Protocol Asset Forwarder bridge
// (spec §4.2): FundsDeposited/FundsDepositedWithMessage, iUSDCDeposited,
// DepositInfoUpdate, and FundsPaid/FundsPaidWithMessage, with a
// destination message_hash recomputed from each deposit so it joins against
// the paid leg without any on-chain correlation id — grounded on
// original_source/extractor/router/{constants,decoder,handler}.py and
// utils/router_hash.py.
package router

import (
	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// Event signatures are reconstructed from handler.py's field-name usage
// (fundsDeposited/iUSDCDeposited/depositInfoUpdate/fundsPaid dict keys); no
// ABI file was in the retrieval pack, so every field here is treated as
// non-indexed — handler.py never slices log.Topics itself, reading every
// field off the ABI-decoded event dict instead.
const (
	fundsDepositedSig            = "FundsDeposited(uint256,uint256,bytes32,uint256,uint256,address,address,bytes,bytes)"
	fundsDepositedWithMessageSig = "FundsDepositedWithMessage(uint256,uint256,bytes32,uint256,uint256,address,address,bytes,bytes)"
	iUSDCDepositedSig            = "iUSDCDeposited(address,bytes32,uint256,uint256,uint256,address,bytes)"
	depositInfoUpdateSig         = "DepositInfoUpdate(address,uint256,uint256,uint256,bool,address)"
	fundsPaidSig                 = "FundsPaid(bytes32,address,uint256,bool,bytes)"
	fundsPaidWithMessageSig      = "FundsPaidWithMessage(bytes32,address,uint256,bool,bytes)"
)

// contractsByChain lists the single Asset Forwarder contract scanned per
// chain, grounded on router/constants.py's BRIDGE_CONFIG.
var contractsByChain = map[string]string{
	"ethereum":  "0xc21e4ebd1d92036cb467b53fe3258f219d909eb9",
	"optimism":  "0x8201c02d4ab2214471e8c3ad6475c8b0cd9f2d06",
	"bnb":       "0x260687ebc6c55dadd578264260f9f6e968f7b2a5",
	"polygon":   "0x1396f41d89b96eaf29a7ef9ee01ad36e452235ae",
	"base":      "0x0fa205c0446cd9eedcc7538c9e24bc55ad08207f",
	"arbitrum":  "0xef300fb4243a0ff3b90c8ccfa1264d78182adaa4",
	"avalanche": "0xf9f4c3dc7ba8f56737a92d74fd67230c38af51f2",
}

// stableTokens is the destination stable token used when FundsDeposited
// carries no explicit destination token, grounded on handler.py's
// STABLE_TOKENS.
var stableTokens = map[string]string{
	"ethereum":  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
	"arbitrum":  "0xAf88d065e77c8cC2239327C5EDb3A432268e5831",
	"optimism":  "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85",
	"polygon":   "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359",
	"base":      "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
	"bnb":       "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d",
	"avalanche": "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E",
}

// tokenDecimals is the destination token's decimals, used to scale a
// deposit's amount up to 18 decimals before hashing (grounded on
// handler.py's TOKEN_DECIMALS; bnb's USDT-style stable token uses 6).
var tokenDecimals = map[string]int{
	"ethereum":  18,
	"arbitrum":  18,
	"optimism":  18,
	"polygon":   18,
	"base":      18,
	"bnb":       6,
	"avalanche": 18,
}

// BridgeContractsAndTopics returns Router's ContractGroup for chain (spec
// §4.4.i).
func BridgeContractsAndTopics(chain string) ([]bridge.ContractGroup, error) {
	contract, ok := contractsByChain[chain]
	if !ok {
		return nil, xerrors.ConfigError("router: chain not supported: " + chain)
	}
	return []bridge.ContractGroup{{
		ABIName:   "routerassetforwader",
		Contracts: []string{contract},
		Topics: []string{
			FundsDepositedTopic(), FundsDepositedWithMessageTopic(), IUSDCDepositedTopic(),
			DepositInfoUpdateTopic(), FundsPaidTopic(), FundsPaidWithMessageTopic(),
		},
	}}, nil
}
