package cow

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/evmutil"
)

var (
	tradeTopic            = evmutil.EventTopic(tradeSig)
	settlementTopic       = evmutil.EventTopic(settlementSig)
	interactionTopic      = evmutil.EventTopic(interactionSig)
	orderInvalidatedTopic = evmutil.EventTopic(orderInvalidatedSig)
	preSignatureTopic     = evmutil.EventTopic(preSignatureSig)
)

func TradeTopic() string            { return tradeTopic }
func SettlementTopic() string       { return settlementTopic }
func InteractionTopic() string      { return interactionTopic }
func OrderInvalidatedTopic() string { return orderInvalidatedTopic }
func PreSignatureTopic() string     { return preSignatureTopic }

func mustType(kind string) abi.Type {
	t, err := abi.NewType(kind, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// tradeArgs unpacks the non-indexed fields of
// Trade(address indexed owner, address sellToken, address buyToken,
// uint256 sellAmount, uint256 buyAmount, uint256 feeAmount, bytes orderUid).
var tradeArgs = abi.Arguments{
	{Type: mustType("address")},
	{Type: mustType("address")},
	{Type: mustType("uint256")},
	{Type: mustType("uint256")},
	{Type: mustType("uint256")},
	{Type: mustType("bytes")},
}

var interactionArgs = abi.Arguments{{Type: mustType("uint256")}}

var orderInvalidatedArgs = abi.Arguments{{Type: mustType("bytes")}}

var preSignatureArgs = abi.Arguments{{Type: mustType("bytes")}, {Type: mustType("bool")}}

// Decode dispatches on log.Topics[0] (spec §4.3). Only Trade's fields are
// exercised by the Handler; the others are decoded to their indexed/topic
// fields only since no repository consumes them (handler.py's
// CowSettlementRepository/CowInteractionRepository/CowOrderInvalidatedRepository
// are commented out in the source).
func Decode(chain string, log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) == 0 {
		return nil, nil
	}
	data := common.FromHex(log.Data)
	switch log.Topics[0] {
	case tradeTopic:
		return decodeTrade(log, data)
	case settlementTopic:
		if len(log.Topics) < 2 {
			return nil, nil
		}
		return map[string]any{"solver": evmutil.UnpadAddress(log.Topics[1])}, nil
	case interactionTopic:
		if len(log.Topics) < 3 {
			return nil, nil
		}
		values, err := interactionArgs.Unpack(data)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"target":   evmutil.UnpadAddress(log.Topics[1]),
			"selector": log.Topics[2][:10],
			"value":    values[0].(*big.Int).String(),
		}, nil
	case orderInvalidatedTopic:
		if len(log.Topics) < 2 {
			return nil, nil
		}
		values, err := orderInvalidatedArgs.Unpack(data)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"owner":     evmutil.UnpadAddress(log.Topics[1]),
			"order_uid": common.Bytes2Hex(values[0].([]byte)),
		}, nil
	case preSignatureTopic:
		if len(log.Topics) < 2 {
			return nil, nil
		}
		values, err := preSignatureArgs.Unpack(data)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"owner":     evmutil.UnpadAddress(log.Topics[1]),
			"order_uid": common.Bytes2Hex(values[0].([]byte)),
			"signed":    values[1].(bool),
		}, nil
	default:
		return nil, nil
	}
}

func decodeTrade(log bridge.EVMLog, data []byte) (map[string]any, error) {
	if len(log.Topics) < 2 {
		return nil, nil
	}
	values, err := tradeArgs.Unpack(data)
	if err != nil {
		return nil, err
	}
	orderUID := values[5].([]byte)
	decoded := decodeOrderUID(common.Bytes2Hex(orderUID))
	return map[string]any{
		"owner":       evmutil.UnpadAddress(log.Topics[1]),
		"sell_token":  values[0].(common.Address).Hex(),
		"buy_token":   values[1].(common.Address).Hex(),
		"sell_amount": values[2].(*big.Int).String(),
		"buy_amount":  values[3].(*big.Int).String(),
		"fee_amount":  values[4].(*big.Int).String(),
		"order_uid":   "0x" + common.Bytes2Hex(orderUID),
		"order_hash":  decoded.OrderHash,
		"valid_to":    decoded.ValidTo,
	}, nil
}
