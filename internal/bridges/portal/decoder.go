package portal

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/wormholepayload"
	xerrors "xchaindata.backend/internal/domain/errors"
	"xchaindata.backend/internal/evmutil"
)

var (
	transferRedeemedTopic    = evmutil.EventTopic(transferRedeemedSig)
	logMessagePublishedTopic = evmutil.EventTopic(logMessagePublishedSig)
)

func TransferRedeemedTopic() string    { return transferRedeemedTopic }
func LogMessagePublishedTopic() string { return logMessagePublishedTopic }

func mustType(kind string) abi.Type {
	t, err := abi.NewType(kind, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

// logMessagePublishedArgs is the non-indexed tail of LogMessagePublished
// (sender is the sole indexed field).
var logMessagePublishedArgs = abi.Arguments{
	{Name: "sequence", Type: mustType("uint64")},
	{Name: "nonce", Type: mustType("uint32")},
	{Name: "payload", Type: mustType("bytes")},
	{Name: "consistencyLevel", Type: mustType("uint8")},
}

// tokenBridgeDecimals is the hardcoded decimals PayloadDecoder.decode is
// always invoked with upstream (handler.py's token_decimals = 18), since
// this extractor does not look up the wrapped token's real decimals before
// decoding the payload.
const tokenBridgeDecimals = 18

// Decode dispatches TransferRedeemed and LogMessagePublished (spec §4.2,
// §4.3), grounded on portal/decoder.py's topic0 switch.
func Decode(chain string, log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) == 0 {
		return nil, xerrors.DecodeError("portal: log has no topics")
	}
	switch log.Topics[0] {
	case TransferRedeemedTopic():
		return decodeTransferRedeemed(log)
	case LogMessagePublishedTopic():
		return decodeLogMessagePublished(log)
	default:
		return nil, nil
	}
}

// decodeTransferRedeemed decodes TransferRedeemed(uint16 indexed
// emitterChainId, bytes32 indexed emitterAddress, uint64 indexed sequence) —
// fully indexed, so log.Data is empty.
func decodeTransferRedeemed(log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) < 4 {
		return nil, xerrors.DecodeError("portal: TransferRedeemed missing indexed topics")
	}
	emitterChainID := evmutil.TopicToBigInt(log.Topics[1])
	emitterAddress := evmutil.StripHexPrefix(log.Topics[2])
	sequence := evmutil.TopicToBigInt(log.Topics[3])

	return map[string]any{
		"emitterChainId": uint16(emitterChainID.Uint64()),
		"emitterAddress": "0x" + emitterAddress,
		"sequence":       sequence.String(),
	}, nil
}

// decodeLogMessagePublished decodes LogMessagePublished(address indexed
// sender, uint64 sequence, uint32 nonce, bytes payload, uint8
// consistencyLevel), then — when the payload is exactly 266 hex chars (133
// bytes), the fixed-width Transfer body — decodes it via wormholepayload,
// mirroring handler.py's len(payload)==266 gate ("a transfer of another
// protocol on top of wormhole" otherwise).
func decodeLogMessagePublished(log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) < 2 {
		return nil, xerrors.DecodeError("portal: LogMessagePublished missing sender topic")
	}
	sender := "0x" + evmutil.UnpadAddress(log.Topics[1])

	data := common.FromHex(log.Data)
	values, err := logMessagePublishedArgs.Unpack(data)
	if err != nil {
		return nil, xerrors.DecodeError("portal: unpack LogMessagePublished: " + err.Error())
	}
	sequence := values[0].(uint64)
	nonce := values[1].(uint32)
	payload := values[2].([]byte)
	consistencyLevel := values[3].(uint8)

	payloadHex := common.Bytes2Hex(payload)
	if len(payloadHex) != 266 {
		return nil, nil
	}

	transfer, err := wormholepayload.Decode(payloadHex, tokenBridgeDecimals)
	if err != nil {
		return nil, nil
	}

	dstChain := convertIDToBlockchain(transfer.ToChain)
	if dstChain == "" {
		return nil, nil
	}

	return map[string]any{
		"sender":           sender,
		"sequence":         sequence,
		"nonce":            nonce,
		"payload":          "0x" + payloadHex,
		"consistencyLevel": consistencyLevel,
		"amount":           transfer.OriginalAmount.String(),
		"token_address":    transfer.TokenAddress,
		"token_chain":      transfer.TokenChain,
		"recipient":        transfer.Recipient,
		"dst_chain":        dstChain,
		"fee":              transfer.Fee.String(),
	}, nil
}
