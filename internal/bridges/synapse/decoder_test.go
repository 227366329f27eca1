package synapse

import (
	"math/big"
	"testing"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchaindata.backend/internal/bridge"
)

func TestDecode_TokenDepositAndSwap(t *testing.T) {
	data, err := tokenDepositAndSwapArgs.Pack(
		gethcommon.HexToAddress("0x1111111111111111111111111111111111111111"),
		big.NewInt(42),
		gethcommon.HexToAddress("0x2222222222222222222222222222222222222222"),
		big.NewInt(1000),
		uint8(0), uint8(1),
		big.NewInt(990), big.NewInt(123456),
	)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{TokenDepositAndSwapTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "1000", fields["amount"].(*big.Int).String())
}

func TestDecode_TokenMintAndSwap(t *testing.T) {
	var kappa [32]byte
	kappa[31] = 0x07
	data, err := tokenMintAndSwapArgs.Pack(
		gethcommon.HexToAddress("0x1111111111111111111111111111111111111111"),
		gethcommon.HexToAddress("0x2222222222222222222222222222222222222222"),
		big.NewInt(1000), big.NewInt(1),
		uint8(0), uint8(1),
		big.NewInt(990), big.NewInt(123456),
		true, kappa,
	)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{TokenMintAndSwapTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Equal(t, true, fields["swapSuccess"])
	assert.Equal(t, "0x"+gethcommon.Bytes2Hex(kappa[:]), fields["kappa"])
}

func TestDecode_UnknownTopicReturnsNil(t *testing.T) {
	fields, err := Decode("ethereum", bridge.EVMLog{Topics: []string{"0xdeadbeef"}, Data: "0x"})
	require.NoError(t, err)
	assert.Nil(t, fields)
}
