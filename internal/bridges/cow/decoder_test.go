package cow

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchaindata.backend/internal/bridge"
)

func mustOrderUID(t *testing.T, owner string, validTo uint32) string {
	t.Helper()
	orderHash := make([]byte, 32)
	orderHash[0] = 0xAB
	ownerBytes := common.HexToAddress(owner).Bytes()
	uid := make([]byte, 56)
	copy(uid[0:32], orderHash)
	copy(uid[32:52], ownerBytes)
	uid[52] = byte(validTo >> 24)
	uid[53] = byte(validTo >> 16)
	uid[54] = byte(validTo >> 8)
	uid[55] = byte(validTo)
	return "0x" + common.Bytes2Hex(uid)
}

func TestDecode_Trade(t *testing.T) {
	owner := "0x1111111111111111111111111111111111111111"
	sellToken := "0x2222222222222222222222222222222222222222"
	buyToken := "0x3333333333333333333333333333333333333333"
	orderUID := mustOrderUID(t, owner, 123456)

	packed, err := tradeArgs.Pack(
		common.HexToAddress(sellToken),
		common.HexToAddress(buyToken),
		big.NewInt(1000),
		big.NewInt(950),
		big.NewInt(5),
		common.FromHex(orderUID),
	)
	require.NoError(t, err)

	log := bridge.EVMLog{
		Topics: []string{TradeTopic(), "0x000000000000000000000000" + owner[2:]},
		Data:   "0x" + common.Bytes2Hex(packed),
	}

	fields, err := Decode("ethereum", log)
	require.NoError(t, err)
	assert.Equal(t, owner, fields["owner"])
	assert.Equal(t, "1000", fields["sell_amount"])
	assert.Equal(t, "950", fields["buy_amount"])
	assert.Equal(t, "5", fields["fee_amount"])
	assert.Equal(t, orderUID, fields["order_uid"])
	assert.EqualValues(t, 123456, fields["valid_to"])
}

func TestDecode_UnknownTopicReturnsNil(t *testing.T) {
	fields, err := Decode("ethereum", bridge.EVMLog{Topics: []string{"0xdeadbeef"}})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestDecodeOrderUID(t *testing.T) {
	owner := "0x4444444444444444444444444444444444444444"
	uid := mustOrderUID(t, owner, 42)
	decoded := decodeOrderUID(uid)
	assert.Equal(t, owner, decoded.Owner)
	assert.EqualValues(t, 42, decoded.ValidTo)
}

func TestDecodeOrderUID_MalformedReturnsZeroValue(t *testing.T) {
	decoded := decodeOrderUID("0x1234")
	assert.Equal(t, decodedOrderUID{}, decoded)
}

func TestExtractCID_IPFSURL(t *testing.T) {
	cidStr := "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	assert.Equal(t, cidStr, ExtractCID("ipfs://"+cidStr))
}

func TestExtractCID_NotACidReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", ExtractCID("{\"appCode\":\"cow\"}"))
}

