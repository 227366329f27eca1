// Package chain holds the process-wide chain id <-> name table and the
// per-bridge override tables used where a bridge numbers chains itself
// (Wormhole, Mayan).
package chain

import "strings"

// Info describes one EVM chain known to the extractor.
type Info struct {
	Name                 string
	ChainID              uint64
	NativeTokenSymbol    string
	NativeTokenContract  string
}

// SentinelAddress is the address used to represent a chain's native token in
// token_metadata rows.
const SentinelAddress = "0x0000000000000000000000000000000000000000"

// byName is the single process-wide chain id <-> name table (spec §3).
var byName = map[string]Info{
	"ethereum":  {"ethereum", 1, "ETH", "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"},
	"optimism":  {"optimism", 10, "ETH", "0x4200000000000000000000000000000000000006"},
	"bnb":       {"bnb", 56, "BNB", "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c"},
	"gnosis":    {"gnosis", 100, "XDAI", "0xe91d153e0b41518a2ce8dd3d7944fa863463a97d"},
	"polygon":   {"polygon", 137, "MATIC", "0x0d500b1d8e8ef31e21c99d1db9a6444d3adf1270"},
	"base":      {"base", 8453, "ETH", "0x4200000000000000000000000000000000000006"},
	"arbitrum":  {"arbitrum", 42161, "ETH", "0x82af49447d8a07e3bd95bd0d56f35241523fbab1"},
	"avalanche": {"avalanche", 43114, "AVAX", "0xb31f66aa3c1e785363f0875a1b74e27b85fd66c7"},
	"linea":     {"linea", 59144, "ETH", "0xe5d7c2a44ffddf6b295a15c148167daaaf5cf34f"},
	"scroll":    {"scroll", 534352, "ETH", "0x5300000000000000000000000000000000000004"},
	"ronin":     {"ronin", 2020, "RON", "0xe514d9deb7966c8be0ca922de8a064264ea6bcd4"},
	"solana":    {"solana", 0, "SOL", "So11111111111111111111111111111111111111112"},
}

var byID = func() map[uint64]Info {
	m := make(map[uint64]Info, len(byName))
	for _, info := range byName {
		if info.Name == "solana" {
			continue
		}
		m[info.ChainID] = info
	}
	return m
}()

// ByName looks up a chain by its lowercase short name.
func ByName(name string) (Info, bool) {
	info, ok := byName[strings.ToLower(name)]
	return info, ok
}

// ByID looks up an EVM chain by its numeric chain id.
func ByID(id uint64) (Info, bool) {
	info, ok := byID[id]
	return info, ok
}

// All returns every configured chain, for the Price Enricher's
// populate_native_tokens sweep.
func All() []Info {
	out := make([]Info, 0, len(byName))
	for _, info := range byName {
		out = append(out, info)
	}
	return out
}

// Set is the user-supplied --blockchains selection, used to drop events that
// reference a chain outside scope (spec §4.4.ii, GLOSSARY "Out-of-scope chain").
type Set map[string]struct{}

// NewSet builds a Set from a slice of chain names.
func NewSet(names []string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[strings.ToLower(n)] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set.
func (s Set) Contains(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}
