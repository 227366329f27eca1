// Package bridge defines the closed bridge enumeration and the compile-time
// registry that replaces the source system's dynamic module loading
// (spec §9 "Dynamic bridge dispatch").
package bridge

import "strings"

// Bridge is a closed enumeration of supported bridge identifiers. Each has a
// stable lowercase string form used in filenames and SQL table names.
type Bridge string

const (
	CCIP      Bridge = "ccip"
	DeBridge  Bridge = "debridge"
	CoW       Bridge = "cow"
	Mayan     Bridge = "mayan"
	Portal    Bridge = "portal"
	Wormhole  Bridge = "wormhole"
	Router    Bridge = "router"
	Synapse   Bridge = "synapse"
	Eco       Bridge = "eco"
	Fly       Bridge = "fly"
)

// All lists every configured bridge, used to validate --bridge against the
// enumeration (spec §6).
var All = []Bridge{CCIP, DeBridge, CoW, Mayan, Portal, Wormhole, Router, Synapse, Eco, Fly}

// Parse validates a user-supplied bridge name against the enumeration.
func Parse(s string) (Bridge, bool) {
	b := Bridge(strings.ToLower(s))
	for _, known := range All {
		if known == b {
			return b, true
		}
	}
	return "", false
}

// ContractGroup is a {abi_name, contracts, topics} triple describing what the
// extractor should scan for one (bridge, chain) pair (spec §3).
type ContractGroup struct {
	ABIName   string
	Contracts []string
	Topics    []string
	// StartBlock/EndBlock are the baseline scan range from the YAML config;
	// the Extractor's own [start,end] inputs take precedence when given.
	StartBlock uint64
	EndBlock   uint64
}

// RawLog is a decoded EVM log record (spec §3). DecodedFields uses canonical
// types: addresses lowercased 0x-prefixed, bytes 0x-prefixed hex, uints as
// *big.Int via the decoder.
type RawLog struct {
	TransactionHash string
	BlockNumber     uint64
	ContractAddress string
	Topic0          string
	DecodedFields   map[string]any
}

// TokenPair is one distinct (src_chain, src_contract, dst_chain,
// dst_contract) tuple out of a freshly-generated cross-chain table, the unit
// of work the Price Enricher's per-pair metadata/price population consumes
// (spec §4.7 step 4).
type TokenPair struct {
	SrcChain    string
	SrcContract string
	DstChain    string
	DstContract string
}
