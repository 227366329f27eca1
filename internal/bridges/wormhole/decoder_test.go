package wormhole

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchaindata.backend/internal/bridge"
)

func TestDecode_LogMessagePublished(t *testing.T) {
	payload := make([]byte, 133)
	payload[0] = 1
	payload[32] = 0x01 // normalizedAmount low byte -> 1 (MSB side is 0)
	data, err := logMessagePublishedArgs.Pack(uint64(7), uint32(1), payload, uint8(1))
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{LogMessagePublishedTopic(), "0x0000000000000000000000001111111111111111111111111111111111111111"},
		Data:   "0x" + common.Bytes2Hex(data),
	})
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.EqualValues(t, 7, fields["sequence"])
	assert.Equal(t, uint16(2), fields["emitter_chain_id"])
	assert.Equal(t, "1", fields["amount"])
}

func TestDecode_LogMessagePublished_UnknownBlockchainDefaultsToZero(t *testing.T) {
	payload := make([]byte, 133)
	payload[0] = 1
	data, err := logMessagePublishedArgs.Pack(uint64(7), uint32(1), payload, uint8(1))
	require.NoError(t, err)

	fields, err := Decode("unknownchain", bridge.EVMLog{
		Topics: []string{LogMessagePublishedTopic(), "0x0000000000000000000000001111111111111111111111111111111111111111"},
		Data:   "0x" + common.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Equal(t, uint16(0), fields["emitter_chain_id"])
}

func TestDecode_TransferRedeemed(t *testing.T) {
	topics := []string{
		TransferRedeemedTopic(),
		"0x0000000000000000000000000000000000000000000000000000000000000004",
		"0x1111111111111111111111111111111111111111111111111111111111111111"[:66], // emitterAddress (bytes32)
		"0x000000000000000000000000000000000000000000000000000000000000002a",
	}

	fields, err := Decode("bnb", bridge.EVMLog{Topics: topics, Data: "0x"})
	require.NoError(t, err)
	assert.EqualValues(t, uint16(4), fields["emitterChainId"])
	assert.Equal(t, "42", fields["sequence"])
}

func TestDecode_UnknownTopicReturnsNil(t *testing.T) {
	fields, err := Decode("ethereum", bridge.EVMLog{Topics: []string{"0xdeadbeef"}, Data: "0x"})
	require.NoError(t, err)
	assert.Nil(t, fields)
}
