package ccip

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchaindata.backend/internal/bridge"
)

func encodeSendRequested(t *testing.T, tokenAmounts []tokenAmount) []byte {
	t.Helper()
	data, err := sendRequestedArgs.Pack(struct {
		Sender          common.Address
		Receiver        common.Address
		SequenceNumber  uint64
		GasLimit        *big.Int
		Strict          bool
		Nonce           uint64
		FeeToken        common.Address
		FeeTokenAmount  *big.Int
		MessageId       [32]byte
		Data            []byte
		TokenAmounts    []tokenAmount
		SourceTokenData [][]byte
	}{
		Sender:          common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Receiver:        common.HexToAddress("0x2222222222222222222222222222222222222222"),
		SequenceNumber:  7,
		GasLimit:        big.NewInt(200000),
		Strict:          false,
		Nonce:           1,
		FeeToken:        common.HexToAddress("0x3333333333333333333333333333333333333333"),
		FeeTokenAmount:  big.NewInt(1000),
		MessageId:       [32]byte{0xAB},
		Data:            []byte{},
		TokenAmounts:    tokenAmounts,
		SourceTokenData: [][]byte{make([]byte, 576)},
	})
	require.NoError(t, err)
	return data
}

func TestDecode_SendRequested(t *testing.T) {
	data := encodeSendRequested(t, []tokenAmount{{Token: common.HexToAddress("0x4444444444444444444444444444444444444444"), Amount: big.NewInt(500)}})

	log := bridge.EVMLog{
		Topics:          []string{sendRequestedTopic},
		Data:            "0x" + common.Bytes2Hex(data),
		TransactionHash: "0xdead",
	}

	fields, err := Decode("ethereum", log)
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", fields["receiver"])
	assert.Equal(t, uint64(7), fields["sequence_number"])
	assert.Equal(t, "0x4444444444444444444444444444444444444444", fields["input_token"])
	assert.Equal(t, "500", fields["amount"])
	assert.Equal(t, true, fields["data_empty"])
}

func TestDecode_UnknownTopicReturnsNil(t *testing.T) {
	log := bridge.EVMLog{Topics: []string{"0xdeadbeef"}, Data: "0x", TransactionHash: "0xdead"}
	fields, err := Decode("ethereum", log)
	require.NoError(t, err)
	assert.Nil(t, fields)
}
