package common

import "xchaindata.backend/internal/bridge"

// DecoderFunc adapts a plain decode function to bridge.Decoder, since every
// bridge's Decode is a stateless dispatch-on-topic0 function rather than a
// type needing its own state (spec §4.3).
type DecoderFunc func(chain string, log bridge.EVMLog) (map[string]any, error)

func (f DecoderFunc) Decode(chain string, log bridge.EVMLog) (map[string]any, error) {
	return f(chain, log)
}
