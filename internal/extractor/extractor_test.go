package extractor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumThreads(t *testing.T) {
	assert.Equal(t, 2, NumThreads(1))
	assert.Equal(t, 6, NumThreads(3))
	assert.Equal(t, 20, NumThreads(10))
	assert.Equal(t, 20, NumThreads(100)) // clamped to min(10, n)
	assert.Equal(t, 2, NumThreads(0))
}

func TestChunkSize_ClampsToOneForSmallRanges(t *testing.T) {
	// spec boundary case: end-start < num_threads clamps chunk_size to 1.
	assert.Equal(t, uint64(1), ChunkSize(100, 105, 20))
}

func TestChunkSize_ClampsToThousand(t *testing.T) {
	assert.Equal(t, uint64(1000), ChunkSize(0, 1_000_000, 2))
}

func TestDivideBlockRanges_ExactCoverage(t *testing.T) {
	// spec boundary case: end-start < num_threads clamps chunk_size to 1,
	// producing exactly end-start+1 one-block chunks.
	ranges := divideBlockRanges(100, 105, 1)
	assert.Equal(t, [][2]uint64{{100, 100}, {101, 101}, {102, 102}, {103, 103}, {104, 104}, {105, 105}}, ranges)
}

func TestDivideBlockRanges_SingleChunk(t *testing.T) {
	ranges := divideBlockRanges(100, 200, 1000)
	assert.Equal(t, [][2]uint64{{100, 200}}, ranges)
}

func TestBuildTransaction_ComputesFeeAndTimestamp(t *testing.T) {
	receipt := json.RawMessage(`{"from":"0xAAA","to":"0xBBB","status":"0x1","blockNumber":"0x64","gasUsed":"0x5208","effectiveGasPrice":"0x3b9aca00"}`)
	block := json.RawMessage(`{"timestamp":"0x676e4b00"}`)

	tx, err := BuildTransaction("ethereum", "0xDEAD", receipt, block)
	assert.NoError(t, err)
	assert.Equal(t, "ethereum", tx.Blockchain)
	assert.Equal(t, "0xdead", tx.TransactionHash)
	assert.Equal(t, uint64(100), tx.BlockNumber)
	assert.Equal(t, uint64(1), tx.Status)
	// 0x5208 (21000) * 0x3b9aca00 (1_000_000_000) = 21_000_000_000_000
	assert.Equal(t, "21000000000000", tx.Fee)
}
