package mayan

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/evmutil"
)

var (
	orderCreatedTopic          = evmutil.EventTopic(orderCreatedSig)
	orderFulfilledTopic        = evmutil.EventTopic(orderFulfilledSig)
	orderUnlockedTopic         = evmutil.EventTopic(orderUnlockedSig)
	swapAndForwardedEthTopic   = evmutil.EventTopic(swapAndForwardedEthSig)
	swapAndForwardedErc20Topic = evmutil.EventTopic(swapAndForwardedErc20Sig)
	forwardedEthTopic          = evmutil.EventTopic(forwardedEthSig)
	forwardedErc20Topic        = evmutil.EventTopic(forwardedErc20Sig)
)

func OrderCreatedTopic() string          { return orderCreatedTopic }
func OrderFulfilledTopic() string        { return orderFulfilledTopic }
func OrderUnlockedTopic() string         { return orderUnlockedTopic }
func SwapAndForwardedEthTopic() string   { return swapAndForwardedEthTopic }
func SwapAndForwardedErc20Topic() string { return swapAndForwardedErc20Topic }
func ForwardedEthTopic() string          { return forwardedEthTopic }
func ForwardedErc20Topic() string        { return forwardedErc20Topic }

func mustType(kind string) abi.Type {
	t, err := abi.NewType(kind, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	orderCreatedArgs   = abi.Arguments{{Type: mustType("bytes32")}}
	orderFulfilledArgs = abi.Arguments{{Type: mustType("bytes32")}, {Type: mustType("uint64")}, {Type: mustType("uint64")}}
	orderUnlockedArgs  = abi.Arguments{{Type: mustType("bytes32")}}

	swapAndForwardedEthArgs = abi.Arguments{
		{Type: mustType("address")}, {Type: mustType("uint256")}, {Type: mustType("address")},
		{Type: mustType("address")}, {Type: mustType("uint256")}, {Type: mustType("bytes")},
	}
	swapAndForwardedErc20Args = abi.Arguments{
		{Type: mustType("address")}, {Type: mustType("uint256")}, {Type: mustType("address")},
		{Type: mustType("address")}, {Type: mustType("address")}, {Type: mustType("uint256")}, {Type: mustType("bytes")},
	}
	forwardedEthArgs   = abi.Arguments{{Type: mustType("address")}, {Type: mustType("bytes")}}
	forwardedErc20Args = abi.Arguments{{Type: mustType("address")}, {Type: mustType("uint256")}, {Type: mustType("address")}, {Type: mustType("bytes")}}
)

// Decode dispatches on log.Topics[0] (spec §4.3). OrderParams embedded in
// the Forwarder events is decoded here too since it's a pure function of
// the log payload, not a DB lookup.
func Decode(chain string, log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) == 0 {
		return nil, nil
	}
	data := common.FromHex(log.Data)
	switch log.Topics[0] {
	case orderCreatedTopic:
		return decodeKeyOnly(orderCreatedArgs, data)
	case orderUnlockedTopic:
		return decodeKeyOnly(orderUnlockedArgs, data)
	case orderFulfilledTopic:
		values, err := orderFulfilledArgs.Unpack(data)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"key":        "0x" + common.Bytes2Hex(values[0].([32]byte)[:]),
			"sequence":   values[1].(uint64),
			"net_amount": new(big.Int).SetUint64(values[2].(uint64)).String(),
		}, nil
	case swapAndForwardedEthTopic:
		values, err := swapAndForwardedEthArgs.Unpack(data)
		if err != nil {
			return nil, err
		}
		return mergeOrderParams(map[string]any{
			"mayan_protocol": values[0].(common.Address).Hex(),
			"amount_in":      values[1].(*big.Int).String(),
			"swap_protocol":  values[2].(common.Address).Hex(),
			"middle_token":   values[3].(common.Address).Hex(),
			"middle_amount":  values[4].(*big.Int).String(),
		}, values[0].(common.Address).Hex(), values[5].([]byte))
	case swapAndForwardedErc20Topic:
		values, err := swapAndForwardedErc20Args.Unpack(data)
		if err != nil {
			return nil, err
		}
		return mergeOrderParams(map[string]any{
			"token_in":       values[0].(common.Address).Hex(),
			"amount_in":      values[1].(*big.Int).String(),
			"mayan_protocol": values[2].(common.Address).Hex(),
			"swap_protocol":  values[3].(common.Address).Hex(),
			"middle_token":   values[4].(common.Address).Hex(),
			"middle_amount":  values[5].(*big.Int).String(),
		}, values[2].(common.Address).Hex(), values[6].([]byte))
	case forwardedEthTopic:
		values, err := forwardedEthArgs.Unpack(data)
		if err != nil {
			return nil, err
		}
		return mergeOrderParams(map[string]any{
			"mayan_protocol": values[0].(common.Address).Hex(),
		}, values[0].(common.Address).Hex(), values[1].([]byte))
	case forwardedErc20Topic:
		values, err := forwardedErc20Args.Unpack(data)
		if err != nil {
			return nil, err
		}
		return mergeOrderParams(map[string]any{
			"token":          values[0].(common.Address).Hex(),
			"amount":         values[1].(*big.Int).String(),
			"mayan_protocol": values[2].(common.Address).Hex(),
		}, values[2].(common.Address).Hex(), values[3].([]byte))
	default:
		return nil, nil
	}
}

func decodeKeyOnly(args abi.Arguments, data []byte) (map[string]any, error) {
	values, err := args.Unpack(data)
	if err != nil {
		return nil, err
	}
	return map[string]any{"key": "0x" + common.Bytes2Hex(values[0].([32]byte)[:])}, nil
}

// mergeOrderParams folds the createOrderWithEth/createOrderWithToken
// OrderParams payload into the event's own fields. Only Mayan Swift protocol
// events are kept (handler.py's "other alternatives ... currently not
// supported" check). blob is the raw mayanData/protocolData bytes,
// including its leading 4-byte function selector.
func mergeOrderParams(fields map[string]any, mayanProtocol string, blob []byte) (map[string]any, error) {
	if evmutil.NormalizeAddress(mayanProtocol) != mayanSwiftProtocol {
		return nil, nil
	}
	if len(blob) < 4 {
		return nil, nil
	}
	selector := common.Bytes2Hex(blob[:4])
	var payload []byte
	switch selector {
	case "b866e173": // createOrderWithEth(OrderParams)
		payload = blob[4:]
	case "8e8d142b": // createOrderWithToken(address,uint256,OrderParams,...)
		if len(blob) < 4+32+32 {
			return nil, nil
		}
		payload = blob[4+32+32:]
	default:
		return nil, nil
	}

	params, err := decodeOrderParams(payload)
	if err != nil {
		return nil, nil
	}
	dstChain := convertMayanChainID(params["destChainId"].(uint16))
	if dstChain == "" {
		return nil, nil
	}
	for k, v := range params {
		fields[k] = v
	}
	fields["dst_chain"] = dstChain
	return fields, nil
}
