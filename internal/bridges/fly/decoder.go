package fly

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/evmutil"
)

var (
	swapInTopic  = evmutil.EventTopic(swapInSig)
	swapOutTopic = evmutil.EventTopic(swapOutSig)
	depositTopic = evmutil.EventTopic(depositSig)
)

func SwapInTopic() string  { return swapInTopic }
func SwapOutTopic() string { return swapOutTopic }
func DepositTopic() string { return depositTopic }

func mustType(kind string) abi.Type {
	t, err := abi.NewType(kind, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// swapInArgs matches handler.py's field usage: fromAddress, toAddress,
// fromAssetAddress, toAssetAddress, amountIn, amountOut, encodedDepositData.
var swapInArgs = abi.Arguments{
	{Name: "fromAddress", Type: mustType("address")},
	{Name: "toAddress", Type: mustType("address")},
	{Name: "fromAssetAddress", Type: mustType("address")},
	{Name: "toAssetAddress", Type: mustType("address")},
	{Name: "amountIn", Type: mustType("uint256")},
	{Name: "amountOut", Type: mustType("uint256")},
	{Name: "encodedDepositData", Type: mustType("bytes")},
}

// swapOutArgs matches handler.py's field usage: fromAddress, toAddress,
// fromAssetAddress, toAssetAddress, amountIn, amountOut, depositDataHash.
var swapOutArgs = abi.Arguments{
	{Name: "fromAddress", Type: mustType("address")},
	{Name: "toAddress", Type: mustType("address")},
	{Name: "fromAssetAddress", Type: mustType("address")},
	{Name: "toAssetAddress", Type: mustType("address")},
	{Name: "amountIn", Type: mustType("uint256")},
	{Name: "amountOut", Type: mustType("uint256")},
	{Name: "depositDataHash", Type: mustType("bytes32")},
}

// depositArgs matches handler.py's field usage: depositDataHash, amount.
var depositArgs = abi.Arguments{
	{Name: "depositDataHash", Type: mustType("bytes32")},
	{Name: "amount", Type: mustType("uint256")},
}

// Decode dispatches on topic0, grounded on FlyDecoder.decode_event's
// if/elif chain over the three magpiecctpbridge events.
func Decode(chain string, log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) == 0 {
		return nil, nil
	}
	switch log.Topics[0] {
	case swapInTopic:
		return unpackInto(swapInArgs, log.Data)
	case swapOutTopic:
		return unpackInto(swapOutArgs, log.Data)
	case depositTopic:
		return unpackInto(depositArgs, log.Data)
	default:
		return nil, nil
	}
}

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
