package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByName_KnownChain(t *testing.T) {
	info, ok := ByName("Ethereum")
	assert.True(t, ok)
	assert.Equal(t, uint64(1), info.ChainID)
}

func TestByID_KnownChain(t *testing.T) {
	info, ok := ByID(42161)
	assert.True(t, ok)
	assert.Equal(t, "arbitrum", info.Name)
}

func TestByID_Unknown(t *testing.T) {
	_, ok := ByID(999999)
	assert.False(t, ok)
}

func TestSet_Contains(t *testing.T) {
	s := NewSet([]string{"Ethereum", "arbitrum"})
	assert.True(t, s.Contains("ethereum"))
	assert.True(t, s.Contains("ARBITRUM"))
	assert.False(t, s.Contains("polygon"))
}
