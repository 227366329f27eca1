package debridge

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/chain"
	"xchaindata.backend/internal/evmutil"
)

var (
	createdOrderTopic    = evmutil.EventTopic(createdOrderSig)
	fulfilledOrderTopic  = evmutil.EventTopic(fulfilledOrderSig)
	sentOrderUnlockTopic = evmutil.EventTopic(sentOrderUnlockSig)
	claimedUnlockTopic   = evmutil.EventTopic(claimedUnlockSig)
)

func CreatedOrderTopic() string    { return createdOrderTopic }
func FulfilledOrderTopic() string  { return fulfilledOrderTopic }
func SentOrderUnlockTopic() string { return sentOrderUnlockTopic }
func ClaimedUnlockTopic() string   { return claimedUnlockTopic }

type order struct {
	MakerOrderNonce             *big.Int
	MakerSrc                    [32]byte
	GiveChainID                 *big.Int
	GiveTokenAddress            [32]byte
	GiveAmount                  *big.Int
	TakeChainID                 *big.Int
	TakeTokenAddress            [32]byte
	TakeAmount                  *big.Int
	ReceiverDst                 [32]byte
	GivePatchAuthoritySrc       [32]byte
	OrderAuthorityAddressDst    [32]byte
	AllowedTakerDst             [32]byte
	AllowedCancelBeneficiarySrc []byte
	ExternalCall                []byte
}

var orderComponents = []abi.ArgumentMarshaling{
	{Name: "makerOrderNonce", Type: "uint256"},
	{Name: "makerSrc", Type: "bytes32"},
	{Name: "giveChainId", Type: "uint256"},
	{Name: "giveTokenAddress", Type: "bytes32"},
	{Name: "giveAmount", Type: "uint256"},
	{Name: "takeChainId", Type: "uint256"},
	{Name: "takeTokenAddress", Type: "bytes32"},
	{Name: "takeAmount", Type: "uint256"},
	{Name: "receiverDst", Type: "bytes32"},
	{Name: "givePatchAuthoritySrc", Type: "bytes32"},
	{Name: "orderAuthorityAddressDst", Type: "bytes32"},
	{Name: "allowedTakerDst", Type: "bytes32"},
	{Name: "allowedCancelBeneficiarySrc", Type: "bytes"},
	{Name: "externalCall", Type: "bytes"},
}

func mustType(name, kind string, components []abi.ArgumentMarshaling) abi.Type {
	t, err := abi.NewType(kind, name, components)
	if err != nil {
		panic(err)
	}
	return t
}

var orderType = mustType("tuple", "tuple", orderComponents)

var createdOrderArgs = abi.Arguments{
	{Type: orderType},
	{Type: mustType("bytes32", "", nil)},
	{Type: mustType("uint256", "", nil)},
	{Type: mustType("uint32", "", nil)},
	{Type: mustType("uint256", "", nil)},
	{Type: mustType("uint256", "", nil)},
	{Type: mustType("bytes", "", nil)},
}

var fulfilledOrderArgs = abi.Arguments{
	{Type: orderType},
	{Type: mustType("bytes32", "", nil)},
	{Type: mustType("bytes32", "", nil)},
	{Type: mustType("bytes32", "", nil)},
}

var sentOrderUnlockArgs = abi.Arguments{
	{Type: mustType("bytes32", "", nil)},
	{Type: mustType("bytes32", "", nil)},
	{Type: mustType("bytes32", "", nil)},
}

var claimedUnlockArgs = abi.Arguments{
	{Type: mustType("bytes32", "", nil)},
	{Type: mustType("bytes32", "", nil)},
	{Type: mustType("uint256", "", nil)},
	{Type: mustType("bytes32", "", nil)},
}

// Decode dispatches on log.Topics[0] (spec §4.3).
func Decode(chain string, log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) == 0 {
		return nil, nil
	}
	data := common.FromHex(log.Data)
	switch log.Topics[0] {
	case createdOrderTopic:
		return decodeOrderEvent(createdOrderArgs, data, true)
	case fulfilledOrderTopic:
		return decodeOrderEvent(fulfilledOrderArgs, data, false)
	case sentOrderUnlockTopic:
		values, err := sentOrderUnlockArgs.Unpack(data)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"order_id":      bytes32Hex(values[0]),
			"beneficiary":   evmutil.UnpadAddress(bytes32Hex(values[1])),
			"submission_id": bytes32Hex(values[2]),
		}, nil
	case claimedUnlockTopic:
		values, err := claimedUnlockArgs.Unpack(data)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"order_id":           bytes32Hex(values[0]),
			"beneficiary":        evmutil.UnpadAddress(bytes32Hex(values[1])),
			"give_amount":        values[2].(*big.Int).String(),
			"give_token_address": evmutil.UnpadAddress(bytes32Hex(values[3])),
		}, nil
	default:
		return nil, nil
	}
}

func decodeOrderEvent(args abi.Arguments, data []byte, created bool) (map[string]any, error) {
	values, err := args.Unpack(data)
	if err != nil {
		return nil, err
	}
	o := values[0].(order)

	srcChain := convertIDToBlockchainName(o.GiveChainID)
	dstChain := convertIDToBlockchainName(o.TakeChainID)
	if srcChain == "" || dstChain == "" {
		return nil, nil
	}

	out := map[string]any{
		"maker_order_nonce":              o.MakerOrderNonce.String(),
		"maker_src":                      evmutil.UnpadAddress(bytes32Hex(o.MakerSrc)),
		"src_blockchain":                 srcChain,
		"give_token_address":             evmutil.UnpadAddress(bytes32Hex(o.GiveTokenAddress)),
		"give_amount":                    o.GiveAmount.String(),
		"dst_blockchain":                 dstChain,
		"take_token_address":             evmutil.UnpadAddress(bytes32Hex(o.TakeTokenAddress)),
		"take_amount":                    o.TakeAmount.String(),
		"receiver_dst":                   evmutil.UnpadAddress(bytes32Hex(o.ReceiverDst)),
		"give_patch_authority_src":       evmutil.UnpadAddress(bytes32Hex(o.GivePatchAuthoritySrc)),
		"order_authority_address_dst":    evmutil.UnpadAddress(bytes32Hex(o.OrderAuthorityAddressDst)),
		"allowed_taker_dst":              evmutil.UnpadAddress(bytes32Hex(o.AllowedTakerDst)),
		"allowed_cancel_beneficiary_src": common.Bytes2Hex(o.AllowedCancelBeneficiarySrc),
		"external_call":                  common.Bytes2Hex(o.ExternalCall),
		"order_id":                       bytes32Hex(values[1]),
	}

	if created {
		out["affiliate_fee"] = values[2].(*big.Int).String()
		out["referral_code"] = values[3]
		out["native_fix_fee"] = values[4].(*big.Int).String()
		out["percent_fee"] = values[5].(*big.Int).String()
		out["metadata"] = common.Bytes2Hex(values[6].([]byte))
	} else {
		out["sender"] = evmutil.UnpadAddress(bytes32Hex(values[2]))
		out["unlock_authority"] = evmutil.UnpadAddress(bytes32Hex(values[3]))
	}
	return out, nil
}

func bytes32Hex(v any) string {
	switch b := v.(type) {
	case [32]byte:
		return "0x" + common.Bytes2Hex(b[:])
	default:
		return ""
	}
}

// convertIDToBlockchainName maps a deBridge internal chain id to a
// blockchain name. IDs prefixed with "1000000" address smaller chains out
// of scope for this system and are dropped (spec §9 Open Question:
// DeBridge/Router numeric chain-id heuristic).
func convertIDToBlockchainName(id *big.Int) string {
	if id == nil {
		return ""
	}
	s := id.String()
	if strings.HasPrefix(s, "1000000") {
		return ""
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return ""
	}
	info, ok := chain.ByID(n)
	if !ok {
		return ""
	}
	return info.Name
}
