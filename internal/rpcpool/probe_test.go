package rpcpool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe_FilterEndpoints_KeepsOnlyHealthy(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "result": []any{map[string]any{"topics": []string{}}}})
	}))
	defer healthy.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "result": []any{}})
	}))
	defer empty.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer dead.Close()

	p := NewProbe(New(nil, time.Second, time.Millisecond))
	result := p.FilterEndpoints(context.Background(), []string{healthy.URL, empty.URL, dead.URL}, "0xabc", []string{"0x01"}, 1, 2)
	assert.Equal(t, []string{healthy.URL}, result)
}

func TestProbe_Run_WritesEmptyListOnTotalFailure(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer dead.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "rpcs_config.yaml")

	p := NewProbe(New(nil, time.Second, time.Millisecond))
	base := &FileConfig{Blockchains: []BlockchainEndpoints{
		{Name: "ethereum", Contract: "0xabc", Topics: []string{"0x01"}, RPCs: []string{dead.URL}},
	}}
	require.NoError(t, p.Run(context.Background(), base, out))

	written, err := LoadConfigFile(out)
	require.NoError(t, err)
	require.Len(t, written.Blockchains, 1)
	assert.Empty(t, written.Blockchains[0].RPCs)

	_, statErr := os.Stat(out)
	require.NoError(t, statErr)
}
