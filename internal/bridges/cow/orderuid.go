package cow

import (
	"encoding/hex"
	"strings"
)

// decodedOrderUID is the {order_hash, owner, valid_to} triple packed into
// CoW's 56-byte orderUid, grounded on handler.py's decode_order_uid.
type decodedOrderUID struct {
	OrderHash string
	Owner     string
	ValidTo   uint32
}

// decodeOrderUID splits a 56-byte orderUid: order_hash (0:32), owner
// (32:52), valid_to (52:56, big-endian). Malformed input (short uid) yields
// a zero-valued result rather than an error, matching the best-effort
// enrichment this value feeds.
func decodeOrderUID(uidHex string) decodedOrderUID {
	raw, err := hex.DecodeString(strings.TrimPrefix(uidHex, "0x"))
	if err != nil || len(raw) < 56 {
		return decodedOrderUID{}
	}
	validTo := uint32(raw[52])<<24 | uint32(raw[53])<<16 | uint32(raw[54])<<8 | uint32(raw[55])
	return decodedOrderUID{
		OrderHash: "0x" + hex.EncodeToString(raw[0:32]),
		Owner:     "0x" + hex.EncodeToString(raw[32:52]),
		ValidTo:   validTo,
	}
}
