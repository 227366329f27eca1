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

func TestGetSignaturesForAddress_SinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[{"signature":"sig3"},{"signature":"sig2"},{"signature":"sig1"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, http.DefaultClient)
	sigs, err := c.GetSignaturesForAddress(context.Background(), "Program111", "sig1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"sig3", "sig2", "sig1"}, sigs)
}

func TestGetSignaturesForAddress_Paginates(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req struct {
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if calls == 1 {
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[{"signature":"a"},{"signature":"b"}]}`))
			return
		}
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, http.DefaultClient)
	sigs, err := c.GetSignaturesForAddress(context.Background(), "Program111", "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sigs)
	assert.Equal(t, 2, calls)
}

func TestGetParsedTransaction_DecodesInstructions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{
			"slot": 100,
			"blockTime": 1700000000,
			"meta": {"fee": 5000},
			"transaction": {"message": {"instructions": [
				{"parsed": {"type": "initOrder"}},
				{"parsed": {"type": "transfer"}}
			]}}
		}}`))
	}))
	defer srv.Close()

	decode := func(index int, raw json.RawMessage) (bridge.ParsedInstruction, error) {
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

	c := NewClient(srv.URL, http.DefaultClient)
	tx, err := c.GetParsedTransaction(context.Background(), "sigXYZ", decode)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), tx.Slot)
	assert.Equal(t, uint64(5000), tx.Fee)
	require.Len(t, tx.Instructions, 2)
	assert.Equal(t, "initOrder", tx.Instructions[0].Name)
	assert.Equal(t, "transfer", tx.Instructions[1].Name)
}
