package evmutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventTopic_TransferSignature(t *testing.T) {
	// keccak256("Transfer(address,address,uint256)") is a well known constant.
	got := EventTopic("Transfer(address,address,uint256)")
	assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", got)
}

func TestUnpadAddress(t *testing.T) {
	topic := "0x000000000000000000000000" + "8857acc3a823277632bf1ec51b1b58b87df50f53"
	assert.Equal(t, "0x8857acc3a823277632bf1ec51b1b58b87df50f53", UnpadAddress(topic))
}

func TestAsciiBytes32_RoundTrip(t *testing.T) {
	for _, id := range []uint64{1, 137, 42161, 999999999} {
		encoded := AsciiBytes32(id)
		decoded, ok := DecodeAsciiBytes32(encoded)
		assert.True(t, ok)
		assert.Equal(t, id, decoded)
	}
}

func TestStripHexPrefix(t *testing.T) {
	assert.Equal(t, "abc123", StripHexPrefix("0xABC123"))
	assert.Equal(t, "abc123", StripHexPrefix("ABC123"))
}

func TestTopicToBigInt(t *testing.T) {
	v := TopicToBigInt("0x" + strings.Repeat("0", 62) + "10")
	assert.Equal(t, "16", v.String())
}
