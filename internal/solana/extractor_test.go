package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchaindata.backend/internal/bridge"
)

type fakeSolanaHandler struct {
	programID string
	existing  map[string]bool
	handled   []bridge.SolanaTransaction
	persisted []bridge.Transaction
}

func (f *fakeSolanaHandler) SolanaBridgeProgramID() string { return f.programID }

func (f *fakeSolanaHandler) DoesTransactionExistByHash(ctx context.Context, signature string) (bool, error) {
	return f.existing[signature], nil
}

func (f *fakeSolanaHandler) HandleSolanaEvents(ctx context.Context, chain, start, end string, txs []bridge.SolanaTransaction) []bridge.SolanaTransaction {
	f.handled = txs
	var out []bridge.SolanaTransaction
	for _, tx := range txs {
		for _, inst := range tx.Instructions {
			if inst.Name == "initOrder" {
				out = append(out, tx)
				break
			}
		}
	}
	return out
}

func (f *fakeSolanaHandler) HandleTransactions(ctx context.Context, txs []bridge.Transaction) error {
	f.persisted = append(f.persisted, txs...)
	return nil
}

func newFakeRPCServer(t *testing.T, signatures []string, instructionsBySig map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch req.Method {
		case "getSignaturesForAddress":
			entries := make([]map[string]string, 0, len(signatures))
			for _, s := range signatures {
				entries = append(entries, map[string]string{"signature": s})
			}
			resp := map[string]any{"jsonrpc": "2.0", "id": 1, "result": entries}
			json.NewEncoder(w).Encode(resp)
		case "getTransaction":
			var sig string
			json.Unmarshal(req.Params[0], &sig)
			resp := map[string]any{"jsonrpc": "2.0", "id": 1, "result": map[string]any{
				"slot":      1,
				"blockTime": 1700000000,
				"meta":      map[string]any{"fee": 5000},
				"transaction": map[string]any{"message": map[string]any{
					"instructions": []any{map[string]any{"parsed": map[string]any{"type": instructionsBySig[sig]}}},
				}},
			}}
			json.NewEncoder(w).Encode(resp)
		default:
			t.Fatalf("unexpected method %s", req.Method)
		}
	}))
}

func decodeFromParsedType(index int, raw json.RawMessage) (bridge.ParsedInstruction, error) {
	var p struct {
		Parsed struct {
			Type string `json:"type"`
		} `json:"parsed"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return bridge.ParsedInstruction{}, err
	}
	return bridge.ParsedInstruction{Index: index, Name: p.Parsed.Type}, nil
}

func TestExtractorRun_DispatchesSurvivingTransactions(t *testing.T) {
	signatures := []string{"sig3", "sig2", "sig1"} // newest-first, as Solana returns them
	byType := map[string]string{"sig1": "initOrder", "sig2": "transfer", "sig3": "initOrder"}

	srv := newFakeRPCServer(t, signatures, byType)
	defer srv.Close()

	handler := &fakeSolanaHandler{programID: "Program111", existing: map[string]bool{}}
	x := New(NewClient(srv.URL, http.DefaultClient), decodeFromParsedType)

	err := x.Run(context.Background(), bridge.Mayan, handler, "solana", "", "")
	require.NoError(t, err)

	assert.Len(t, handler.handled, 3)
	assert.Len(t, handler.persisted, 2) // only the two initOrder signatures survive
	for _, tx := range handler.persisted {
		assert.Equal(t, "5000", tx.Fee)
		assert.Equal(t, "solana", tx.Blockchain)
	}
}

func TestExtractorRun_SkipsAlreadyIngestedSignatures(t *testing.T) {
	signatures := []string{"sig2", "sig1"}
	byType := map[string]string{"sig1": "initOrder", "sig2": "initOrder"}

	srv := newFakeRPCServer(t, signatures, byType)
	defer srv.Close()

	handler := &fakeSolanaHandler{programID: "Program111", existing: map[string]bool{"sig1": true}}
	x := New(NewClient(srv.URL, http.DefaultClient), decodeFromParsedType)

	err := x.Run(context.Background(), bridge.Mayan, handler, "solana", "", "")
	require.NoError(t, err)

	assert.Len(t, handler.handled, 1)
}

func TestExtractorRun_NoSignaturesIsNotAnError(t *testing.T) {
	srv := newFakeRPCServer(t, nil, nil)
	defer srv.Close()

	handler := &fakeSolanaHandler{programID: "Program111", existing: map[string]bool{}}
	x := New(NewClient(srv.URL, http.DefaultClient), decodeFromParsedType)

	err := x.Run(context.Background(), bridge.Mayan, handler, "solana", "", "")
	require.NoError(t, err)
	assert.Nil(t, handler.persisted)
}
