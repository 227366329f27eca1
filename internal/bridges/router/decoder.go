package router

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/evmutil"
)

var (
	fundsDepositedTopic            = evmutil.EventTopic(fundsDepositedSig)
	fundsDepositedWithMessageTopic = evmutil.EventTopic(fundsDepositedWithMessageSig)
	iUSDCDepositedTopic            = evmutil.EventTopic(iUSDCDepositedSig)
	depositInfoUpdateTopic         = evmutil.EventTopic(depositInfoUpdateSig)
	fundsPaidTopic                 = evmutil.EventTopic(fundsPaidSig)
	fundsPaidWithMessageTopic      = evmutil.EventTopic(fundsPaidWithMessageSig)
)

func FundsDepositedTopic() string            { return fundsDepositedTopic }
func FundsDepositedWithMessageTopic() string { return fundsDepositedWithMessageTopic }
func IUSDCDepositedTopic() string            { return iUSDCDepositedTopic }
func DepositInfoUpdateTopic() string         { return depositInfoUpdateTopic }
func FundsPaidTopic() string                 { return fundsPaidTopic }
func FundsPaidWithMessageTopic() string      { return fundsPaidWithMessageTopic }

// fundsDepositedArgs matches FundsDeposited/FundsDepositedWithMessage's field
// order as read by handler.py's dict-key usage: partnerId, amount,
// destChainIdBytes, destAmount, depositId, srcToken, depositor, recipient,
// message. No ABI file was retrieved, so every field is treated non-indexed.
var fundsDepositedArgs = abi.Arguments{
	{Name: "partnerId", Type: mustType("uint256")},
	{Name: "amount", Type: mustType("uint256")},
	{Name: "destChainIdBytes", Type: mustType("bytes32")},
	{Name: "destAmount", Type: mustType("uint256")},
	{Name: "depositId", Type: mustType("uint256")},
	{Name: "srcToken", Type: mustType("address")},
	{Name: "depositor", Type: mustType("address")},
	{Name: "recipient", Type: mustType("bytes")},
	{Name: "message", Type: mustType("bytes")},
}

// iUSDCDepositedArgs matches iUSDCDeposited's fields: depositor,
// destChainIdBytes, usdcNonce, amount, partnerId, srcToken, recipient.
var iUSDCDepositedArgs = abi.Arguments{
	{Name: "depositor", Type: mustType("address")},
	{Name: "destChainIdBytes", Type: mustType("bytes32")},
	{Name: "usdcNonce", Type: mustType("uint256")},
	{Name: "amount", Type: mustType("uint256")},
	{Name: "partnerId", Type: mustType("uint256")},
	{Name: "srcToken", Type: mustType("address")},
	{Name: "recipient", Type: mustType("bytes")},
}

// depositInfoUpdateArgs matches DepositInfoUpdate's fields: srcToken,
// feeAmount, depositId, eventNonce, initiatewithdrawal, depositor.
var depositInfoUpdateArgs = abi.Arguments{
	{Name: "srcToken", Type: mustType("address")},
	{Name: "feeAmount", Type: mustType("uint256")},
	{Name: "depositId", Type: mustType("uint256")},
	{Name: "eventNonce", Type: mustType("uint256")},
	{Name: "initiatewithdrawal", Type: mustType("bool")},
	{Name: "depositor", Type: mustType("address")},
}

// fundsPaidArgs matches FundsPaid/FundsPaidWithMessage's fields:
// messageHash, forwarder, nonce, execFlag, execData.
var fundsPaidArgs = abi.Arguments{
	{Name: "messageHash", Type: mustType("bytes32")},
	{Name: "forwarder", Type: mustType("address")},
	{Name: "nonce", Type: mustType("uint256")},
	{Name: "execFlag", Type: mustType("bool")},
	{Name: "execData", Type: mustType("bytes")},
}

// Decode dispatches on topic0 (spec §4.2), returning the decoded event's
// fields keyed the way handler.py's event dict is keyed.
func Decode(chain string, log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) == 0 {
		return nil, nil
	}
	switch log.Topics[0] {
	case fundsDepositedTopic:
		return decodeFundsDeposited(log, false)
	case fundsDepositedWithMessageTopic:
		return decodeFundsDeposited(log, true)
	case iUSDCDepositedTopic:
		return decodeIUSDCDeposited(log)
	case depositInfoUpdateTopic:
		return decodeDepositInfoUpdate(log)
	case fundsPaidTopic:
		return decodeFundsPaid(log, false)
	case fundsPaidWithMessageTopic:
		return decodeFundsPaid(log, true)
	default:
		return nil, nil
	}
}

// unpackInto unpacks args against data and normalizes addresses/bytes/
// bytes32 into "0x"-prefixed hex strings, the convention decoder.go files
// across this repo use so handler.go never has to branch on abi-reflected
// Go types (common.Address, [32]byte, []byte).
func unpackInto(args abi.Arguments, data string) (map[string]any, error) {
	raw, err := args.Unpack(common.FromHex(data))
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(args))
	for i, arg := range args {
		values[arg.Name] = normalizeValue(raw[i])
	}
	return values, nil
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case common.Address:
		return t.Hex()
	case [32]byte:
		return "0x" + common.Bytes2Hex(t[:])
	case []byte:
		return "0x" + common.Bytes2Hex(t)
	default:
		return v
	}
}

func decodeFundsDeposited(log bridge.EVMLog, hasMessage bool) (map[string]any, error) {
	values, err := unpackInto(fundsDepositedArgs, log.Data)
	if err != nil {
		return nil, err
	}
	values["hasMessage"] = hasMessage
	return values, nil
}

func decodeIUSDCDeposited(log bridge.EVMLog) (map[string]any, error) {
	return unpackInto(iUSDCDepositedArgs, log.Data)
}

func decodeDepositInfoUpdate(log bridge.EVMLog) (map[string]any, error) {
	return unpackInto(depositInfoUpdateArgs, log.Data)
}

func decodeFundsPaid(log bridge.EVMLog, hasMessage bool) (map[string]any, error) {
	values, err := unpackInto(fundsPaidArgs, log.Data)
	if err != nil {
		return nil, err
	}
	values["hasMessage"] = hasMessage
	return values, nil
}
