package rpcpool

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Next_RoundRobin(t *testing.T) {
	p := New(map[string][]string{"ethereum": {"a", "b", "c"}}, time.Second, time.Millisecond)
	seen := []string{}
	for i := 0; i < 4; i++ {
		url, err := p.Next("ethereum")
		require.NoError(t, err)
		seen = append(seen, url)
	}
	assert.Equal(t, []string{"a", "b", "c", "a"}, seen)
}

func TestPool_Next_UnknownChain(t *testing.T) {
	p := New(map[string][]string{}, time.Second, time.Millisecond)
	_, err := p.Next("mars")
	assert.ErrorIs(t, err, ErrUnknownChain)
}

func TestPool_Request_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "result": "0x1"})
	}))
	defer srv.Close()

	p := New(map[string][]string{"ethereum": {srv.URL, srv.URL}}, time.Second, time.Millisecond)
	p.sleep = func(time.Duration) {}

	result, err := p.Request(context.Background(), "ethereum", "eth_blockNumber", nil)
	require.NoError(t, err)
	assert.Equal(t, `"0x1"`, string(result))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestPool_Request_NullResultRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "result": nil})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "result": "0x2"})
	}))
	defer srv.Close()

	p := New(map[string][]string{"ethereum": {srv.URL}}, time.Second, time.Millisecond)
	p.sleep = func(time.Duration) {}

	result, err := p.Request(context.Background(), "ethereum", "eth_blockNumber", nil)
	require.NoError(t, err)
	assert.Equal(t, `"0x2"`, string(result))
}

func TestPool_PlainRequest_FailsImmediatelyOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := New(map[string][]string{}, time.Second, time.Millisecond)
	_, err := p.PlainRequest(context.Background(), srv.URL, "eth_getLogs", nil)
	assert.Error(t, err)
}

func TestPool_BlockByTimestamp_BinarySearch(t *testing.T) {
	const latestBlock = uint64(1000)
	const secondsPerBlock = uint64(12)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch req.Method {
		case "eth_blockNumber":
			json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0", "id": 1, "result": fmt.Sprintf("0x%x", latestBlock),
			})
		case "eth_getBlockByNumber":
			blockHex := req.Params[0].(string)
			blockNum := new(big.Int)
			blockNum.SetString(blockHex[2:], 16)
			ts := blockNum.Uint64() * secondsPerBlock
			json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0", "id": 1,
				"result": map[string]any{"timestamp": fmt.Sprintf("0x%x", ts)},
			})
		default:
			t.Fatalf("unexpected method %s", req.Method)
		}
	}))
	defer srv.Close()

	p := New(map[string][]string{"ethereum": {srv.URL}}, time.Second, time.Millisecond)

	block, err := p.BlockByTimestamp(context.Background(), "ethereum", 500*secondsPerBlock)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), block)

	block, err = p.BlockByTimestamp(context.Background(), "ethereum", 500*secondsPerBlock+5)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), block)

	// a target past the latest block clamps to the latest block.
	block, err = p.BlockByTimestamp(context.Background(), "ethereum", (latestBlock+10)*secondsPerBlock)
	require.NoError(t, err)
	assert.Equal(t, latestBlock, block)
}

func TestHexToUint64(t *testing.T) {
	assert.Equal(t, uint64(0), hexToUint64(""))
	assert.Equal(t, uint64(255), hexToUint64("0xff"))
	assert.Equal(t, uint64(16), hexToUint64("0x10"))
}
