package fly

import (
	"math/big"
	"testing"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchaindata.backend/internal/bridge"
)

func TestDecode_SwapIn(t *testing.T) {
	data, err := swapInArgs.Pack(
		gethcommon.HexToAddress("0x1111111111111111111111111111111111111111"),
		gethcommon.HexToAddress("0x2222222222222222222222222222222222222222"),
		gethcommon.HexToAddress("0x3333333333333333333333333333333333333333"),
		gethcommon.HexToAddress("0x4444444444444444444444444444444444444444"),
		big.NewInt(1000), big.NewInt(990),
		[]byte{0xde, 0xad, 0xbe, 0xef},
	)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{SwapInTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "0xdeadbeef", fields["encodedDepositData"])
	assert.Equal(t, "1000", fields["amountIn"].(*big.Int).String())
}

func TestDecode_SwapOut(t *testing.T) {
	var hash [32]byte
	hash[31] = 0x07
	data, err := swapOutArgs.Pack(
		gethcommon.HexToAddress("0x1111111111111111111111111111111111111111"),
		gethcommon.HexToAddress("0x2222222222222222222222222222222222222222"),
		gethcommon.HexToAddress("0x3333333333333333333333333333333333333333"),
		gethcommon.HexToAddress("0x4444444444444444444444444444444444444444"),
		big.NewInt(1000), big.NewInt(990),
		hash,
	)
	require.NoError(t, err)

	fields, err := Decode("base", bridge.EVMLog{
		Topics: []string{SwapOutTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Equal(t, "0x"+gethcommon.Bytes2Hex(hash[:]), fields["depositDataHash"])
}

func TestDecode_Deposit(t *testing.T) {
	var hash [32]byte
	hash[31] = 0x09
	data, err := depositArgs.Pack(hash, big.NewInt(500))
	require.NoError(t, err)

	fields, err := Decode("arbitrum", bridge.EVMLog{
		Topics: []string{DepositTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Equal(t, "0x"+gethcommon.Bytes2Hex(hash[:]), fields["depositDataHash"])
	assert.Equal(t, "500", fields["amount"].(*big.Int).String())
}

func TestDecode_UnknownTopicReturnsNil(t *testing.T) {
	fields, err := Decode("ethereum", bridge.EVMLog{Topics: []string{"0xdeadbeef"}, Data: "0x"})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestComputeDepositHashFromEncoded_HexInput(t *testing.T) {
	got := computeDepositHashFromEncoded("0xdeadbeef")
	require.Len(t, got, 66)
	assert.Equal(t, got, computeDepositHashFromEncoded("0xdeadbeef"))
	assert.NotEqual(t, got, computeDepositHashFromEncoded("0xdeadbeee"))
}
