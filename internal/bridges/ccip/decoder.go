package ccip

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/evmutil"
)

var (
	sendRequestedTopic         = evmutil.EventTopic(sendRequestedSig)
	executionStateChangedTopic = evmutil.EventTopic(executionStateChangedSig)
)

// SendRequestedTopic/ExecutionStateChangedTopic expose the runtime-computed
// topic0 values for config.go's ContractGroup.
func SendRequestedTopic() string         { return sendRequestedTopic }
func ExecutionStateChangedTopic() string { return executionStateChangedTopic }

type tokenAmount struct {
	Token  common.Address
	Amount *big.Int
}

var messageTupleType = mustTupleType()

func mustTupleType() abi.Type {
	t, err := abi.NewType("tuple", "", []abi.ArgumentMarshaling{
		{Name: "sender", Type: "address"},
		{Name: "receiver", Type: "address"},
		{Name: "sequenceNumber", Type: "uint64"},
		{Name: "gasLimit", Type: "uint256"},
		{Name: "strict", Type: "bool"},
		{Name: "nonce", Type: "uint64"},
		{Name: "feeToken", Type: "address"},
		{Name: "feeTokenAmount", Type: "uint256"},
		{Name: "messageId", Type: "bytes32"},
		{Name: "data", Type: "bytes"},
		{Name: "tokenAmounts", Type: "tuple[]", Components: []abi.ArgumentMarshaling{
			{Name: "token", Type: "address"},
			{Name: "amount", Type: "uint256"},
		}},
		{Name: "sourceTokenData", Type: "bytes[]"},
	})
	if err != nil {
		panic(err)
	}
	return t
}

var sendRequestedArgs = abi.Arguments{{Type: messageTupleType}}

var executionStateArgs = abi.Arguments{
	{Name: "state", Type: mustUint8()},
	{Name: "returnData", Type: mustBytes()},
}

func mustUint8() abi.Type  { t, _ := abi.NewType("uint8", "", nil); return t }
func mustBytes() abi.Type  { t, _ := abi.NewType("bytes", "", nil); return t }

// Decode dispatches on log.Topic0, mirroring handle_events's topic switch
// (spec §4.3).
func Decode(chain string, log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) == 0 {
		return nil, nil
	}
	switch log.Topics[0] {
	case sendRequestedTopic:
		return decodeSendRequested(log)
	case executionStateChangedTopic:
		return decodeExecutionStateChanged(log)
	default:
		return nil, nil
	}
}

func decodeSendRequested(log bridge.EVMLog) (map[string]any, error) {
	data := common.FromHex(log.Data)
	values, err := sendRequestedArgs.Unpack(data)
	if err != nil {
		return nil, err
	}
	raw := values[0].(struct {
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
	})

	var inputToken, outputToken string
	var amount *big.Int
	if len(raw.TokenAmounts) == 1 {
		inputToken = strings.ToLower(raw.TokenAmounts[0].Token.Hex())
		amount = raw.TokenAmounts[0].Amount
		if len(raw.SourceTokenData) > 0 {
			outputToken = evmutil.UnpadAddress(common.Bytes2Hex(raw.SourceTokenData[0]))
		}
	}

	return map[string]any{
		"message_id":       common.Bytes2Hex(raw.MessageId[:]),
		"nonce":            raw.Nonce,
		"sender":           strings.ToLower(raw.Sender.Hex()),
		"receiver":         strings.ToLower(raw.Receiver.Hex()),
		"sequence_number":  raw.SequenceNumber,
		"gas_limit":        raw.GasLimit.String(),
		"strict":           raw.Strict,
		"fee_token":        strings.ToLower(raw.FeeToken.Hex()),
		"fee_token_amount": raw.FeeTokenAmount.String(),
		"input_token":      inputToken,
		"amount":           amountString(amount),
		"output_token":     outputToken,
		"data_empty":       len(raw.Data) == 0,
	}, nil
}

func decodeExecutionStateChanged(log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) < 3 {
		return nil, nil
	}
	data := common.FromHex(log.Data)
	values, err := executionStateArgs.Unpack(data)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"sequence_number": evmutil.TopicToBigInt(log.Topics[1]).Uint64(),
		"message_id":      evmutil.StripHexPrefix(log.Topics[2]),
		"state":           values[0],
		"return_data":     common.Bytes2Hex(values[1].([]byte)),
	}, nil
}

func amountString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}
