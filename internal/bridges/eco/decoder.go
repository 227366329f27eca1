package eco

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/evmutil"
)

var (
	intentCreatedTopic = evmutil.EventTopic(intentCreatedSig)
	intentFundedTopic  = evmutil.EventTopic(intentFundedSig)
	withdrawalTopic    = evmutil.EventTopic(withdrawalSig)
	fulfillmentTopic   = evmutil.EventTopic(fulfillmentSig)
)

func IntentCreatedTopic() string { return intentCreatedTopic }
func IntentFundedTopic() string  { return intentFundedTopic }
func WithdrawalTopic() string    { return withdrawalTopic }
func FulfillmentTopic() string   { return fulfillmentTopic }

func mustType(kind string) abi.Type {
	t, err := abi.NewType(kind, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// intentCreatedArgs matches handler.py's field usage: hash, salt, source,
// destination, inbox, creator, prover, deadline, nativeValue.
var intentCreatedArgs = abi.Arguments{
	{Name: "hash", Type: mustType("bytes32")},
	{Name: "salt", Type: mustType("bytes32")},
	{Name: "source", Type: mustType("uint256")},
	{Name: "destination", Type: mustType("uint256")},
	{Name: "inbox", Type: mustType("address")},
	{Name: "creator", Type: mustType("address")},
	{Name: "prover", Type: mustType("address")},
	{Name: "deadline", Type: mustType("uint256")},
	{Name: "nativeValue", Type: mustType("uint256")},
}

// fulfillmentArgs matches handler.py's field usage: _hash, _sourceChainID,
// _prover, _claimant.
var fulfillmentArgs = abi.Arguments{
	{Name: "_hash", Type: mustType("bytes32")},
	{Name: "_sourceChainID", Type: mustType("uint256")},
	{Name: "_prover", Type: mustType("address")},
	{Name: "_claimant", Type: mustType("address")},
}

// Decode dispatches on topic0 (spec §4.2), grounded on eco/decoder.py's
// topic0 switch. IntentFunded/Withdrawal are accepted (so they don't fall
// through as unknown topics) but return nil — decoder.py decodes them too
// but handler.py never persists them.
func Decode(chain string, log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) == 0 {
		return nil, nil
	}
	switch log.Topics[0] {
	case intentCreatedTopic:
		return unpackInto(intentCreatedArgs, log.Data)
	case fulfillmentTopic:
		return unpackInto(fulfillmentArgs, log.Data)
	case intentFundedTopic, withdrawalTopic:
		return nil, nil
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
