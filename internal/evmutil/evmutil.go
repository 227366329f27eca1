// Package evmutil holds the small set of EVM normalization helpers every
// bridge decoder and handler needs: address/hash lowercasing, topic0
// derivation, and unpadding 32-byte log topics down to their 20-byte
// address payload (the Go equivalent of the original's unpad_address).
package evmutil

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// EventTopic returns the topic0 (keccak256 of the event signature) for an
// ABI event signature string, e.g. "Transfer(address,address,uint256)".
func EventTopic(signature string) string {
	return strings.ToLower(crypto.Keccak256Hash([]byte(signature)).Hex())
}

// NormalizeAddress lowercases a 0x-prefixed address.
func NormalizeAddress(addr string) string {
	return strings.ToLower(addr)
}

// NormalizeHex lowercases a 0x-prefixed hex string.
func NormalizeHex(s string) string {
	return strings.ToLower(s)
}

// UnpadAddress extracts the 20-byte address from a 32-byte left-padded log
// topic or ABI word.
func UnpadAddress(topic string) string {
	h := strings.TrimPrefix(topic, "0x")
	if len(h) < 40 {
		return "0x" + h
	}
	return "0x" + strings.ToLower(h[len(h)-40:])
}

// TopicToBigInt interprets a 32-byte topic as an unsigned big-endian integer.
func TopicToBigInt(topic string) *big.Int {
	h := strings.TrimPrefix(topic, "0x")
	v := new(big.Int)
	v.SetString(h, 16)
	return v
}

// StripHexPrefix normalizes a hash for case/prefix-insensitive comparison
// (used by Synapse's kappa join, spec §4.4).
func StripHexPrefix(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "0x"))
}

// Keccak256Hex returns 0x + 64 lowercase hex nibbles of keccak256(data).
func Keccak256Hex(data []byte) string {
	return strings.ToLower(crypto.Keccak256Hash(data).Hex())
}

// AsciiBytes32 encodes an integer chain id as its ASCII decimal
// representation, right-padded with zero bytes to 32 bytes total
// (spec Round-trip laws: encode_ASCII_bytes32).
func AsciiBytes32(id uint64) [32]byte {
	var out [32]byte
	s := big.NewInt(0).SetUint64(id).String()
	copy(out[:], s)
	return out
}

// DecodeAsciiBytes32 is the inverse of AsciiBytes32: it reads the ASCII
// decimal digits up to the first zero byte and parses them back to a chain
// id.
func DecodeAsciiBytes32(b [32]byte) (uint64, bool) {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	v := new(big.Int)
	_, ok := v.SetString(string(b[:i]), 10)
	if !ok {
		return 0, false
	}
	return v.Uint64(), true
}

// LeftPadAddress left-pads a 20-byte address to a 32-byte word, matching
// common.LeftPadBytes use in the teacher's evm_client.go.
func LeftPadAddress(addr common.Address) []byte {
	return common.LeftPadBytes(addr.Bytes(), 32)
}
