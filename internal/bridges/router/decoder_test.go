package router

import (
	"math/big"
	"testing"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/evmutil"
)

func TestDecode_FundsDeposited(t *testing.T) {
	destChainIDBytes := evmutil.AsciiBytes32(1) // ethereum
	data, err := fundsDepositedArgs.Pack(
		big.NewInt(9),                                             // partnerId
		big.NewInt(1_000_000),                                     // amount
		destChainIDBytes,                                          // destChainIdBytes
		big.NewInt(990_000),                                       // destAmount
		big.NewInt(42),                                            // depositId
		gethcommon.HexToAddress("0x1111111111111111111111111111111111111111"), // srcToken
		gethcommon.HexToAddress("0x2222222222222222222222222222222222222222"), // depositor
		[]byte{0x33, 0x33, 0x33, 0x33},                             // recipient (raw, short form)
		[]byte{},                                                   // message
	)
	require.NoError(t, err)

	fields, err := Decode("bnb", bridge.EVMLog{
		Topics: []string{FundsDepositedTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, false, fields["hasMessage"])
	assert.Equal(t, "42", fields["depositId"].(*big.Int).String())
	assert.Equal(t, "0x33333333", fields["recipient"])
}

func TestDecode_FundsDepositedWithMessage_SetsHasMessage(t *testing.T) {
	destChainIDBytes := evmutil.AsciiBytes32(1)
	data, err := fundsDepositedArgs.Pack(
		big.NewInt(1), big.NewInt(1), destChainIDBytes, big.NewInt(1), big.NewInt(1),
		gethcommon.HexToAddress("0x1111111111111111111111111111111111111111"),
		gethcommon.HexToAddress("0x2222222222222222222222222222222222222222"),
		[]byte{0x01}, []byte{0x02},
	)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{FundsDepositedWithMessageTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Equal(t, true, fields["hasMessage"])
}

func TestDecode_IUSDCDeposited(t *testing.T) {
	destChainIDBytes := evmutil.AsciiBytes32(137) // polygon
	data, err := iUSDCDepositedArgs.Pack(
		gethcommon.HexToAddress("0x2222222222222222222222222222222222222222"), // depositor
		destChainIDBytes,
		big.NewInt(77),     // usdcNonce
		big.NewInt(500),    // amount
		big.NewInt(9),      // partnerId
		gethcommon.HexToAddress("0x1111111111111111111111111111111111111111"), // srcToken
		[]byte{0x44, 0x44}, // recipient
	)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{IUSDCDepositedTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Equal(t, "77", fields["usdcNonce"].(*big.Int).String())
}

func TestDecode_DepositInfoUpdate(t *testing.T) {
	data, err := depositInfoUpdateArgs.Pack(
		gethcommon.HexToAddress("0x1111111111111111111111111111111111111111"),
		big.NewInt(5),
		big.NewInt(42),
		big.NewInt(1),
		true,
		gethcommon.HexToAddress("0x2222222222222222222222222222222222222222"),
	)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{DepositInfoUpdateTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Equal(t, true, fields["initiatewithdrawal"])
	assert.Equal(t, "42", fields["depositId"].(*big.Int).String())
}

func TestDecode_FundsPaid(t *testing.T) {
	var hash [32]byte
	hash[31] = 0x09
	data, err := fundsPaidArgs.Pack(
		hash,
		gethcommon.HexToAddress("0x1111111111111111111111111111111111111111"),
		big.NewInt(3),
		false,
		[]byte{},
	)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{FundsPaidTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Equal(t, false, fields["hasMessage"])
	assert.Equal(t, false, fields["execFlag"])
}

func TestDecode_UnknownTopicReturnsNil(t *testing.T) {
	fields, err := Decode("ethereum", bridge.EVMLog{Topics: []string{"0xdeadbeef"}, Data: "0x"})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestComputeMessageHash_Deterministic(t *testing.T) {
	h1, err := computeMessageHash(big.NewInt(1000), 1, big.NewInt(42),
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
		"0x3333333333333333333333333333333333333333")
	require.NoError(t, err)

	h2, err := computeMessageHash(big.NewInt(1000), 1, big.NewInt(42),
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
		"0x3333333333333333333333333333333333333333")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := computeMessageHash(big.NewInt(1001), 1, big.NewInt(42),
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
		"0x3333333333333333333333333333333333333333")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestScaleToEighteenDecimals(t *testing.T) {
	assert.Equal(t, big.NewInt(1000), scaleToEighteenDecimals(big.NewInt(1000), 18))
	assert.Equal(t, big.NewInt(1_000_000_000_000), scaleToEighteenDecimals(big.NewInt(1_000_000), 6))
}
