// Package wormholepayload decodes the Wormhole Core "Transfer" VAA payload
// (payloadID 1) shared by the Portal Token Bridge and the Wormhole Core
// Bridge's own LogMessagePublished event, grounded on
// original_source/extractor/portal/utils/PayloadDecoder.py and
// original_source/extractor/wormhole/payload.py — both decode the same
// 133-byte wire format, differing only in how much of it each bridge keeps.
package wormholepayload

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// transferPayloadLen is payloadID(1) + normalizedAmount(32) + tokenAddress(32)
// + tokenChain(2) + recipient(32) + toChain(2) + fee(32).
const transferPayloadLen = 1 + 32 + 32 + 2 + 32 + 2 + 32

// maxNumeric30 mirrors payload.py's MAX_NUMERIC_30 sanity bound on the raw
// normalized amount (a NUMERIC(30,0) column overflow guard, not a protocol
// constant).
var maxNumeric30 = new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil)

// Transfer is the decoded fixed-width body of a Wormhole Transfer payload
// (payloadID 1). OriginalAmount restores the token's native decimals from
// Wormhole's 8-decimal normalized encoding.
type Transfer struct {
	OriginalAmount *big.Int
	TokenAddress   string // 0x-prefixed, 20-byte, left-padding stripped
	TokenChain     uint16
	Recipient      string // 0x-prefixed, 20-byte, left-padding stripped
	ToChain        uint16
	Fee            *big.Int
}

// Decode parses a hex Transfer payload (with or without 0x prefix) and scales
// the normalized amount back to decimals, mirroring
// PayloadDecoder.decode(payload_hex, decimals):
// originalAmount = normalizedAmount * 10^max(decimals-8, 0).
func Decode(payloadHex string, decimals int) (Transfer, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(payloadHex, "0x"))
	if err != nil {
		return Transfer{}, fmt.Errorf("wormholepayload: invalid hex: %w", err)
	}
	if len(raw) != transferPayloadLen {
		return Transfer{}, fmt.Errorf("wormholepayload: expected %d bytes, got %d", transferPayloadLen, len(raw))
	}

	off := 0
	payloadID := raw[off]
	off++
	if payloadID != 1 {
		return Transfer{}, fmt.Errorf("wormholepayload: unsupported payloadID %d", payloadID)
	}

	normalizedAmount := new(big.Int).SetBytes(raw[off : off+32])
	off += 32
	tokenAddress := raw[off : off+32]
	off += 32
	tokenChain := uint16(raw[off])<<8 | uint16(raw[off+1])
	off += 2
	recipient := raw[off : off+32]
	off += 32
	toChain := uint16(raw[off])<<8 | uint16(raw[off+1])
	off += 2
	fee := new(big.Int).SetBytes(raw[off : off+32])

	scale := decimals - 8
	if scale < 0 {
		scale = 0
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	originalAmount := new(big.Int).Mul(normalizedAmount, factor)

	return Transfer{
		OriginalAmount: originalAmount,
		TokenAddress:   "0x" + hex.EncodeToString(tokenAddress[12:]),
		TokenChain:     tokenChain,
		Recipient:      "0x" + hex.EncodeToString(recipient[12:]),
		ToChain:        toChain,
		Fee:            fee,
	}, nil
}

// ExtractAmount returns only the normalized amount field for payloadID 1 or
// 3 transfers, or nil if the payload is some other VAA type or the amount
// exceeds the NUMERIC(30,0) column bound — mirroring payload.py's
// extract_amount, used by the Wormhole Core bridge which (unlike Portal)
// does not reconstruct the full Transfer struct.
func ExtractAmount(payloadHex string) *big.Int {
	raw, err := hex.DecodeString(strings.TrimPrefix(payloadHex, "0x"))
	if err != nil || len(raw) < 33 {
		return nil
	}
	payloadID := raw[0]
	if payloadID != 1 && payloadID != 3 {
		return nil
	}
	amount := new(big.Int).SetBytes(raw[1:33])
	if amount.Cmp(maxNumeric30) >= 0 {
		return nil
	}
	return amount
}
