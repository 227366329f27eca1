package portal

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/evmutil"
)

// packTransferPayload builds a 133-byte Wormhole Transfer payload (payloadID
// 1) with the given normalized amount and toChain, matching wormholepayload.Decode.
func packTransferPayload(normalizedAmount *big.Int, toChain uint16) []byte {
	buf := make([]byte, 133)
	buf[0] = 1
	normalizedAmount.FillBytes(buf[1:33])
	copy(buf[33:65], make([]byte, 32)) // tokenAddress
	buf[65] = 0
	buf[66] = 2 // tokenChain = ethereum(2)
	copy(buf[67:99], make([]byte, 32)) // recipient
	buf[99] = byte(toChain >> 8)
	buf[100] = byte(toChain)
	return buf
}

func TestDecode_LogMessagePublished_KnownDestChain(t *testing.T) {
	payload := packTransferPayload(big.NewInt(1_000_000), 2) // ethereum
	data, err := logMessagePublishedArgs.Pack(uint64(42), uint32(1), payload, uint8(1))
	require.NoError(t, err)

	fields, err := Decode("arbitrum", bridge.EVMLog{
		Topics: []string{LogMessagePublishedTopic(), "0x" + evmutil.StripHexPrefix(common.HexToAddress("0x1111111111111111111111111111111111111111").Hex())},
		Data:   "0x" + common.Bytes2Hex(data),
	})
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "ethereum", fields["dst_chain"])
	assert.EqualValues(t, 42, fields["sequence"])
}

func TestDecode_LogMessagePublished_UnknownDestChainDrops(t *testing.T) {
	payload := packTransferPayload(big.NewInt(1_000_000), 999) // not in blockchainIDs
	data, err := logMessagePublishedArgs.Pack(uint64(42), uint32(1), payload, uint8(1))
	require.NoError(t, err)

	fields, err := Decode("arbitrum", bridge.EVMLog{
		Topics: []string{LogMessagePublishedTopic(), "0x" + evmutil.StripHexPrefix(common.HexToAddress("0x1111111111111111111111111111111111111111").Hex())},
		Data:   "0x" + common.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestDecode_TransferRedeemed(t *testing.T) {
	topics := []string{
		TransferRedeemedTopic(),
		"0x0000000000000000000000000000000000000000000000000000000000000002",
		"0x00000000000000000000000000000000000000000000000000000000000000ab",
		"0x000000000000000000000000000000000000000000000000000000000000007b",
	}

	fields, err := Decode("ethereum", bridge.EVMLog{Topics: topics, Data: "0x"})
	require.NoError(t, err)
	assert.EqualValues(t, uint16(2), fields["emitterChainId"])
	assert.Equal(t, "123", fields["sequence"])
}

func TestDecode_UnknownTopicReturnsNil(t *testing.T) {
	fields, err := Decode("ethereum", bridge.EVMLog{Topics: []string{"0xdeadbeef"}, Data: "0x"})
	require.NoError(t, err)
	assert.Nil(t, fields)
}
