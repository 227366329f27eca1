package wormhole

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/wormholepayload"
	xerrors "xchaindata.backend/internal/domain/errors"
	"xchaindata.backend/internal/evmutil"
)

var (
	logMessagePublishedTopic = evmutil.EventTopic(logMessagePublishedSig)
	transferRedeemedTopic    = evmutil.EventTopic(transferRedeemedSig)
)

func LogMessagePublishedTopic() string { return logMessagePublishedTopic }
func TransferRedeemedTopic() string    { return transferRedeemedTopic }

func mustType(kind string) abi.Type {
	t, err := abi.NewType(kind, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

var logMessagePublishedArgs = abi.Arguments{
	{Name: "sequence", Type: mustType("uint64")},
	{Name: "nonce", Type: mustType("uint32")},
	{Name: "payload", Type: mustType("bytes")},
	{Name: "consistencyLevel", Type: mustType("uint8")},
}

// Decode dispatches LogMessagePublished and TransferRedeemed (spec §4.2,
// §4.3), grounded on wormhole/decoder.py's topic0 switch.
func Decode(chain string, log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) == 0 {
		return nil, xerrors.DecodeError("wormhole: log has no topics")
	}
	switch log.Topics[0] {
	case LogMessagePublishedTopic():
		return decodeLogMessagePublished(chain, log)
	case TransferRedeemedTopic():
		return decodeTransferRedeemed(log)
	default:
		return nil, nil
	}
}

// decodeLogMessagePublished decodes the raw VAA publish event and extracts
// only the normalized amount (payload.py's extract_amount), rather than
// reconstructing the full Transfer struct as portal does — this system's own
// emitter_chain_id/emitter_address_32 keys come from the local blockchain
// name, not the payload, mirroring _handle_published's
// _get_wormhole_chain_id(blockchain) / _to_bytes32_address(sender) fallback.
func decodeLogMessagePublished(chain string, log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) < 2 {
		return nil, xerrors.DecodeError("wormhole: LogMessagePublished missing sender topic")
	}
	sender := "0x" + evmutil.UnpadAddress(log.Topics[1])

	data := common.FromHex(log.Data)
	values, err := logMessagePublishedArgs.Unpack(data)
	if err != nil {
		return nil, xerrors.DecodeError("wormhole: unpack LogMessagePublished: " + err.Error())
	}
	sequence := values[0].(uint64)
	nonce := values[1].(uint32)
	payload := values[2].([]byte)
	consistencyLevel := values[3].(uint8)

	payloadHex := common.Bytes2Hex(payload)
	amount := wormholepayload.ExtractAmount(payloadHex)

	fields := map[string]any{
		"sender":             sender,
		"sequence":           sequence,
		"nonce":              nonce,
		"payload":            "0x" + payloadHex,
		"consistencyLevel":   consistencyLevel,
		"emitter_address_32": evmutil.NormalizeHex(addressToBytes32(sender)),
		"emitter_chain_id":   wormholeChainID(chain),
	}
	if amount != nil {
		fields["amount"] = amount.String()
	}
	return fields, nil
}

func decodeTransferRedeemed(log bridge.EVMLog) (map[string]any, error) {
	if len(log.Topics) < 4 {
		return nil, xerrors.DecodeError("wormhole: TransferRedeemed missing indexed topics")
	}
	emitterChainID := evmutil.TopicToBigInt(log.Topics[1])
	emitterAddress := evmutil.StripHexPrefix(log.Topics[2])
	sequence := evmutil.TopicToBigInt(log.Topics[3])

	return map[string]any{
		"emitterChainId":     uint16(emitterChainID.Uint64()),
		"emitter_address_32": "0x" + emitterAddress,
		"sequence":           sequence.String(),
	}, nil
}

// addressToBytes32 left-pads a 20-byte address out to a bytes32 hex string,
// mirroring _to_bytes32_address.
func addressToBytes32(addr string) string {
	h := evmutil.StripHexPrefix(addr)
	if len(h) != 40 {
		return "0x" + h
	}
	return "0x" + zeros24 + h
}

const zeros24 = "000000000000000000000000"
