package mayan

import (
	"encoding/binary"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchaindata.backend/internal/bridge"
)

func packOrderParams(destChainID uint16) []byte {
	buf := make([]byte, orderParamsLen)
	off := 0
	off += 32 // trader
	off += 32 // tokenOut
	off += 8  // minAmountOut
	off += 8  // gasDrop
	off += 8  // cancelFee
	off += 8  // refundFee
	off += 8  // deadline
	off += 32 // destAddr
	binary.BigEndian.PutUint16(buf[off:], destChainID)
	return buf
}

func TestDecode_OrderCreated(t *testing.T) {
	var key [32]byte
	key[0] = 0xAB
	data, err := orderCreatedArgs.Pack(key)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{OrderCreatedTopic()},
		Data:   "0x" + common.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Equal(t, "0x"+common.Bytes2Hex(key[:]), fields["key"])
}

func TestDecode_OrderFulfilled(t *testing.T) {
	var key [32]byte
	key[0] = 0xCD
	data, err := orderFulfilledArgs.Pack(key, uint64(7), uint64(1000))
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{OrderFulfilledTopic()},
		Data:   "0x" + common.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, fields["sequence"])
	assert.Equal(t, "1000", fields["net_amount"])
}

func TestDecode_ForwardedErc20_UnknownSelectorDrops(t *testing.T) {
	blob := append([]byte{0xAA, 0xBB, 0xCC, 0xDD}, make([]byte, orderParamsLen)...)
	data, err := forwardedErc20Args.Pack(
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		big.NewInt(500),
		common.HexToAddress(mayanSwiftProtocol),
		blob,
	)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{ForwardedErc20Topic()},
		Data:   "0x" + common.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestDecode_ForwardedErc20_DecodesOrderParamsAndDropsOutOfScopeChain(t *testing.T) {
	params := packOrderParams(999) // not in blockchainIDs
	blob := append([]byte{0xb8, 0x66, 0xe1, 0x73}, params...)
	data, err := forwardedErc20Args.Pack(
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		big.NewInt(500),
		common.HexToAddress(mayanSwiftProtocol),
		blob,
	)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{ForwardedErc20Topic()},
		Data:   "0x" + common.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestDecode_ForwardedErc20_KnownDestChain(t *testing.T) {
	params := packOrderParams(2) // ethereum
	blob := append([]byte{0xb8, 0x66, 0xe1, 0x73}, params...)
	data, err := forwardedErc20Args.Pack(
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		big.NewInt(500),
		common.HexToAddress(mayanSwiftProtocol),
		blob,
	)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{ForwardedErc20Topic()},
		Data:   "0x" + common.Bytes2Hex(data),
	})
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "ethereum", fields["dst_chain"])
	assert.Equal(t, "500", fields["amount"])
}
