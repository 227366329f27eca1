package debridge

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertIDToBlockchainName_KnownChain(t *testing.T) {
	assert.Equal(t, "ethereum", convertIDToBlockchainName(big.NewInt(1)))
}

func TestConvertIDToBlockchainName_DropsPrefixedSmallChains(t *testing.T) {
	// IDs like 100000001 identify chains deBridge considers out of scope.
	assert.Equal(t, "", convertIDToBlockchainName(big.NewInt(100000001)))
}

func TestConvertIDToBlockchainName_UnknownID(t *testing.T) {
	assert.Equal(t, "", convertIDToBlockchainName(big.NewInt(999999)))
}
