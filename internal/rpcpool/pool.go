// Package rpcpool implements the RPC Pool (spec §4.1): a per-chain
// round-robin ring of JSON-RPC endpoints with indefinite retry and doubling
// backoff across the full ring, grounded on the Alchemy client's retry loop
// in the original Python implementation (rpcs/alchemy_client.py) and on the
// teacher's own manual-selector style of talking to EVM nodes
// (internal/infrastructure/blockchain/evm_client.go).
package rpcpool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
	"xchaindata.backend/internal/metrics"
)

// ErrUnknownChain is returned by Next when a chain has no configured ring.
var ErrUnknownChain = errors.New("unknown chain")

type ring struct {
	mu       sync.Mutex
	urls     []string
	cursor   int
	attempted map[string]struct{}
}

// Pool is the process-wide RPC Pool. One Pool instance is shared by every
// worker in an extraction session; the ring cursor is advanced under a
// per-chain mutex so concurrent workers receive different endpoints.
type Pool struct {
	rings          map[string]*ring
	client         *http.Client
	initialBackoff time.Duration
	sleep          func(time.Duration)
}

// New builds a Pool from a chain -> endpoint-list map.
func New(endpoints map[string][]string, timeout, initialBackoff time.Duration) *Pool {
	rings := make(map[string]*ring, len(endpoints))
	for chain, urls := range endpoints {
		rings[chain] = &ring{urls: append([]string(nil), urls...), attempted: map[string]struct{}{}}
	}
	return &Pool{
		rings:          rings,
		client:         &http.Client{Timeout: timeout},
		initialBackoff: initialBackoff,
		sleep:          time.Sleep,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Next returns the next endpoint for chain and advances its cursor.
func (p *Pool) Next(chain string) (string, error) {
	r, ok := p.rings[chain]
	if !ok || len(r.urls) == 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownChain, chain)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	url := r.urls[r.cursor%len(r.urls)]
	r.cursor++
	return url, nil
}

// PlainRequest issues a single-shot JSON-RPC POST to a specific URL, used
// only by the Endpoint Probe. Fails immediately on a non-2xx response.
func (p *Pool) PlainRequest(ctx context.Context, url, method string, params []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("plain_request: non-2xx status %d from %s", resp.StatusCode, url)
	}
	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, fmt.Errorf("plain_request: rpc error %d: %s", out.Error.Code, out.Error.Message)
	}
	return out.Result, nil
}

// Request picks Next(chain), issues a JSON-RPC 2.0 POST, and retries
// indefinitely with doubling backoff across the full ring on any retryable
// failure: non-2xx, JSON parse failure, result absent/null, transport error.
func (p *Pool) Request(ctx context.Context, chain, method string, params []any) (json.RawMessage, error) {
	r, ok := p.rings[chain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChain, chain)
	}

	backoff := p.initialBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	triedThisEpoch := 0

	for {
		url, err := p.Next(chain)
		if err != nil {
			return nil, err
		}

		result, retryable, err := p.attempt(ctx, url, method, params)
		if err == nil {
			metrics.RPCRequests.WithLabelValues(chain, method).Inc()
			return result, nil
		}
		if !retryable {
			return nil, err
		}

		metrics.RPCRetries.WithLabelValues(chain).Inc()
		triedThisEpoch++
		if triedThisEpoch >= len(r.urls) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			p.sleep(backoff)
			backoff *= 2
			triedThisEpoch = 0
		}
	}
}

func (p *Pool) attempt(ctx context.Context, url, method string, params []any) (json.RawMessage, bool, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, true, xerrors.RPCFailure("transport error calling "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, true, xerrors.RPCFailure(fmt.Sprintf("non-2xx status %d from %s", resp.StatusCode, url), nil)
	}

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, true, xerrors.RPCFailure("json parse failure from "+url, err)
	}
	if out.Error != nil {
		return nil, true, xerrors.RPCFailure(fmt.Sprintf("rpc error %d: %s", out.Error.Code, out.Error.Message), nil)
	}
	if len(out.Result) == 0 || string(out.Result) == "null" {
		return nil, true, xerrors.RPCFailure("result absent or null from "+url, nil)
	}
	return out.Result, false, nil
}

// GetLogsEmittedByContract wraps eth_getLogs; topics is passed as a
// single-element outer array whose inner element is the topic0 list (OR
// semantics over topic0).
func (p *Pool) GetLogsEmittedByContract(ctx context.Context, chain, address string, topics []string, fromBlock, toBlock uint64) ([]bridge.EVMLog, error) {
	filter := map[string]any{
		"address":   address,
		"topics":    [][]string{topics},
		"fromBlock": fmt.Sprintf("0x%x", fromBlock),
		"toBlock":   fmt.Sprintf("0x%x", toBlock),
	}
	raw, err := p.Request(ctx, chain, "eth_getLogs", []any{filter})
	if err != nil {
		return nil, err
	}
	var rawLogs []struct {
		Address         string   `json:"address"`
		Topics          []string `json:"topics"`
		Data            string   `json:"data"`
		BlockNumber     string   `json:"blockNumber"`
		TransactionHash string   `json:"transactionHash"`
		LogIndex        string   `json:"logIndex"`
	}
	if err := json.Unmarshal(raw, &rawLogs); err != nil {
		return nil, err
	}
	out := make([]bridge.EVMLog, 0, len(rawLogs))
	for _, l := range rawLogs {
		out = append(out, bridge.EVMLog{
			Address:         l.Address,
			Topics:          l.Topics,
			Data:            l.Data,
			BlockNumber:     hexToUint64(l.BlockNumber),
			TransactionHash: l.TransactionHash,
			LogIndex:        hexToUint64(l.LogIndex),
		})
	}
	return out, nil
}

// ProcessTransaction concurrently fetches the receipt and the enclosing
// block for a transaction, both subject to the Request retry discipline.
func (p *Pool) ProcessTransaction(ctx context.Context, chain, txHash string, blockNumber uint64) (receipt, block json.RawMessage, err error) {
	type result struct {
		data json.RawMessage
		err  error
	}
	receiptCh := make(chan result, 1)
	blockCh := make(chan result, 1)

	go func() {
		r, e := p.Request(ctx, chain, "eth_getTransactionReceipt", []any{txHash})
		receiptCh <- result{r, e}
	}()
	go func() {
		b, e := p.Request(ctx, chain, "eth_getBlockByNumber", []any{fmt.Sprintf("0x%x", blockNumber), true})
		blockCh <- result{b, e}
	}()

	rres := <-receiptCh
	bres := <-blockCh
	if rres.err != nil {
		return nil, nil, rres.err
	}
	if bres.err != nil {
		return nil, nil, bres.err
	}
	return rres.data, bres.data, nil
}

// BlockNumber wraps eth_blockNumber, returning the chain's latest block.
func (p *Pool) BlockNumber(ctx context.Context, chain string) (uint64, error) {
	raw, err := p.Request(ctx, chain, "eth_blockNumber", nil)
	if err != nil {
		return 0, err
	}
	var hexNum string
	if err := json.Unmarshal(raw, &hexNum); err != nil {
		return 0, err
	}
	return hexToUint64(hexNum), nil
}

// blockTimestamp fetches only the timestamp field of a block, used by
// BlockByTimestamp's binary search.
func (p *Pool) blockTimestamp(ctx context.Context, chain string, blockNumber uint64) (uint64, error) {
	raw, err := p.Request(ctx, chain, "eth_getBlockByNumber", []any{fmt.Sprintf("0x%x", blockNumber), false})
	if err != nil {
		return 0, err
	}
	var out struct {
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, err
	}
	return hexToUint64(out.Timestamp), nil
}

// BlockByTimestamp resolves a unix timestamp to the highest block number
// whose timestamp does not exceed it (spec §6's CLI takes --start_ts/
// --end_ts, not block numbers; original_source/cli/cli.py resolves each via
// get_block_by_timestamp per chain before calling extract_data). Binary
// search over eth_getBlockByNumber between block 0 and the chain's latest
// block, since EVM block timestamps are monotonically non-decreasing.
func (p *Pool) BlockByTimestamp(ctx context.Context, chain string, targetTS uint64) (uint64, error) {
	latest, err := p.BlockNumber(ctx, chain)
	if err != nil {
		return 0, err
	}

	latestTS, err := p.blockTimestamp(ctx, chain, latest)
	if err != nil {
		return 0, err
	}
	if targetTS >= latestTS {
		return latest, nil
	}

	lo, hi := uint64(0), latest
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		ts, err := p.blockTimestamp(ctx, chain, mid)
		if err != nil {
			return 0, err
		}
		if ts <= targetTS {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, nil
}

func hexToUint64(s string) uint64 {
	var v uint64
	if s == "" {
		return 0
	}
	start := 0
	if len(s) > 1 && s[0:2] == "0x" {
		start = 2
	}
	for _, c := range s[start:] {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint64(c - '0')
		case c >= 'a' && c <= 'f':
			v |= uint64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= uint64(c-'A') + 10
		}
	}
	return v
}
