package solana

import (
	"encoding/json"

	"xchaindata.backend/internal/bridge"
)

// DefaultInstructionDecoder reads the standard Solana jsonParsed instruction
// shape ({"parsed":{"type":...,"info":{...}}}) produced by getTransaction
// with encoding=jsonParsed. Per-bridge instruction semantics (spec §1 "the
// Solana-specific instruction decoder ... consumed as an opaque service") are
// out of scope; this only unwraps the RPC's own parsed envelope so a
// bridge's SolanaHandler can dispatch on instr.Name / instr.Data.
func DefaultInstructionDecoder(index int, raw json.RawMessage) (bridge.ParsedInstruction, error) {
	var inst struct {
		Parsed struct {
			Type string         `json:"type"`
			Info map[string]any `json:"info"`
		} `json:"parsed"`
	}
	if err := json.Unmarshal(raw, &inst); err != nil {
		return bridge.ParsedInstruction{}, err
	}
	return bridge.ParsedInstruction{
		Index: index,
		Name:  inst.Parsed.Type,
		Data:  inst.Parsed.Info,
	}, nil
}
