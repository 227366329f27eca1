package mayan

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	xerrors "xchaindata.backend/internal/domain/errors"
)

// orderParamsLen is the packed (non-ABI, tightly-packed) encoding length of
// Mayan Swift's OrderParams struct: trader(32) + tokenOut(32) +
// minAmountOut(8) + gasDrop(8) + cancelFee(8) + refundFee(8) + deadline(8) +
// destAddr(32) + destChainId(2) + referrerAddr(32) + referrerBps(1) +
// auctionMode(1) + random(32). Field order is grounded on the key order
// handler.py reads off the decoded payload; the packed (as opposed to
// ABI-tuple) layout matches Mayan Swift's on-chain calldata encoding, which
// favors fixed-width packed fields over abi.encode for gas.
const orderParamsLen = 32 + 32 + 8 + 8 + 8 + 8 + 8 + 32 + 2 + 32 + 1 + 1 + 32

// decodeOrderParams parses the OrderParams blob following a Mayan Swift
// createOrderWithEth/createOrderWithToken call (handler.py's
// MayanOrderParamsDecoder.decode, switched on the leading 4-byte function
// selector before this is called).
func decodeOrderParams(data []byte) (map[string]any, error) {
	if len(data) < orderParamsLen {
		return nil, xerrors.DecodeError("mayan: order params blob too short")
	}
	off := 0
	read := func(n int) []byte {
		b := data[off : off+n]
		off += n
		return b
	}

	trader := read(32)
	tokenOut := read(32)
	minAmountOut := binary.BigEndian.Uint64(read(8))
	gasDrop := binary.BigEndian.Uint64(read(8))
	cancelFee := binary.BigEndian.Uint64(read(8))
	refundFee := binary.BigEndian.Uint64(read(8))
	deadline := binary.BigEndian.Uint64(read(8))
	destAddr := read(32)
	destChainID := binary.BigEndian.Uint16(read(2))
	referrerAddr := read(32)
	referrerBps := read(1)[0]
	auctionMode := read(1)[0]
	random := read(32)

	return map[string]any{
		"trader":        "0x" + common.Bytes2Hex(trader),
		"tokenOut":      "0x" + common.Bytes2Hex(tokenOut),
		"minAmountOut":  new(big.Int).SetUint64(minAmountOut).String(),
		"gasDrop":       new(big.Int).SetUint64(gasDrop).String(),
		"cancelFee":     new(big.Int).SetUint64(cancelFee).String(),
		"refundFee":     new(big.Int).SetUint64(refundFee).String(),
		"deadline":      new(big.Int).SetUint64(deadline).String(),
		"destAddr":      "0x" + common.Bytes2Hex(destAddr),
		"destChainId":   destChainID,
		"referrerAddr":  "0x" + common.Bytes2Hex(referrerAddr),
		"referrerBps":   referrerBps,
		"auctionMode":   auctionMode,
		"random":        "0x" + common.Bytes2Hex(random),
	}, nil
}

// convertMayanChainID maps Mayan's own numeric chain id to a blockchain
// name, returning "" for an id this system doesn't track.
func convertMayanChainID(id uint16) string {
	return blockchainIDs[id]
}
