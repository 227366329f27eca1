package eco

import (
	"math/big"
	"testing"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchaindata.backend/internal/bridge"
)

func TestDecode_IntentCreated(t *testing.T) {
	var hash, salt [32]byte
	hash[31] = 0x01
	salt[31] = 0x02
	data, err := intentCreatedArgs.Pack(
		hash, salt,
		big.NewInt(1), big.NewInt(10),
		gethcommon.HexToAddress("0x1111111111111111111111111111111111111111"),
		gethcommon.HexToAddress("0x2222222222222222222222222222222222222222"),
		gethcommon.HexToAddress("0x3333333333333333333333333333333333333333"),
		big.NewInt(999999), big.NewInt(1000),
	)
	require.NoError(t, err)

	fields, err := Decode("ethereum", bridge.EVMLog{
		Topics: []string{IntentCreatedTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "0x"+gethcommon.Bytes2Hex(hash[:]), fields["hash"])
	assert.Equal(t, "10", fields["destination"].(*big.Int).String())
}

func TestDecode_Fulfillment(t *testing.T) {
	var hash [32]byte
	hash[31] = 0x01
	data, err := fulfillmentArgs.Pack(
		hash, big.NewInt(1),
		gethcommon.HexToAddress("0x2222222222222222222222222222222222222222"),
		gethcommon.HexToAddress("0x3333333333333333333333333333333333333333"),
	)
	require.NoError(t, err)

	fields, err := Decode("base", bridge.EVMLog{
		Topics: []string{FulfillmentTopic()},
		Data:   "0x" + gethcommon.Bytes2Hex(data),
	})
	require.NoError(t, err)
	assert.Equal(t, "0x"+gethcommon.Bytes2Hex(hash[:]), fields["_hash"])
}

func TestDecode_IntentFundedAndWithdrawalReturnNil(t *testing.T) {
	fields, err := Decode("ethereum", bridge.EVMLog{Topics: []string{IntentFundedTopic()}, Data: "0x"})
	require.NoError(t, err)
	assert.Nil(t, fields)

	fields, err = Decode("ethereum", bridge.EVMLog{Topics: []string{WithdrawalTopic()}, Data: "0x"})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestDecode_UnknownTopicReturnsNil(t *testing.T) {
	fields, err := Decode("ethereum", bridge.EVMLog{Topics: []string{"0xdeadbeef"}, Data: "0x"})
	require.NoError(t, err)
	assert.Nil(t, fields)
}
