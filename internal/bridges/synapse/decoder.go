package synapse

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/evmutil"
)

var (
	tokenDepositAndSwapTopic = evmutil.EventTopic(tokenDepositAndSwapSig)
	tokenMintAndSwapTopic    = evmutil.EventTopic(tokenMintAndSwapSig)
)

func TokenDepositAndSwapTopic() string { return tokenDepositAndSwapTopic }
func TokenMintAndSwapTopic() string    { return tokenMintAndSwapTopic }

func mustType(kind string) abi.Type {
	t, err := abi.NewType(kind, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// tokenDepositAndSwapArgs matches handler.py's field usage: to, chainId,
// token, amount, tokenIndexFrom, tokenIndexTo, minDy, deadline.
var tokenDepositAndSwapArgs = abi.Arguments{
	{Name: "to", Type: mustType("address")},
	{Name: "chainId", Type: mustType("uint256")},
	{Name: "token", Type: mustType("address")},
	{Name: "amount", Type: mustType("uint256")},
	{Name: "tokenIndexFrom", Type: mustType("uint8")},
	{Name: "tokenIndexTo", Type: mustType("uint8")},
	{Name: "minDy", Type: mustType("uint256")},
	{Name: "deadline", Type: mustType("uint256")},
}

// tokenMintAndSwapArgs matches handler.py's field usage: to, token, amount,
// fee, tokenIndexFrom, tokenIndexTo, minDy, deadline, swapSuccess, kappa.
var tokenMintAndSwapArgs = abi.Arguments{
	{Name: "to", Type: mustType("address")},
	{Name: "token", Type: mustType("address")},
	{Name: "amount", Type: mustType("uint256")},
	{Name: "fee", Type: mustType("uint256")},
	{Name: "tokenIndexFrom", Type: mustType("uint8")},
	{Name: "tokenIndexTo", Type: mustType("uint8")},
	{Name: "minDy", Type: mustType("uint256")},
	{Name: "deadline", Type: mustType("uint256")},
	{Name: "swapSuccess", Type: mustType("bool")},
	{Name: "kappa", Type: mustType("bytes32")},
}

// Decode dispatches on topic0 (spec §4.2), grounded on
// synapse/decoder.py's trivial topic0 switch.
func Decode(chain string, log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) == 0 {
		return nil, nil
	}
	switch log.Topics[0] {
	case tokenDepositAndSwapTopic:
		return decodeTokenDepositAndSwap(log)
	case tokenMintAndSwapTopic:
		return decodeTokenMintAndSwap(log)
	default:
		return nil, nil
	}
}

func decodeTokenDepositAndSwap(log bridge.EVMLog) (map[string]any, error) {
	return unpackInto(tokenDepositAndSwapArgs, log.Data)
}

func decodeTokenMintAndSwap(log bridge.EVMLog) (map[string]any, error) {
	return unpackInto(tokenMintAndSwapArgs, log.Data)
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
