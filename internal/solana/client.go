// Package solana implements the Solana Extractor variant (spec §4.6): a
// single-worker extractor that pages transaction signatures under a program
// id rather than scanning block ranges, grounded on the same JSON-RPC POST
// style as internal/rpcpool but reimplemented for getSignaturesForAddress /
// getTransaction's cursor-based paging (before/until) instead of a ring.
package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"xchaindata.backend/internal/bridge"
	xerrors "xchaindata.backend/internal/domain/errors"
)

// Client talks to a single Solana RPC endpoint. Unlike the EVM RPC Pool,
// Solana has one endpoint per chain and no round-robin ring (spec §4.6).
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient builds a Client bound to one Solana RPC URL.
func NewClient(url string, client *http.Client) *Client {
	return &Client{httpClient: client, url: url}
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

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, xerrors.RPCFailure("transport error calling "+c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, xerrors.RPCFailure(fmt.Sprintf("non-2xx status %d from %s", resp.StatusCode, c.url), nil)
	}
	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, xerrors.RPCFailure("json parse failure from "+c.url, err)
	}
	if out.Error != nil {
		return nil, xerrors.RPCFailure(fmt.Sprintf("rpc error %d: %s", out.Error.Code, out.Error.Message), nil)
	}
	return out.Result, nil
}

// GetSignaturesForAddress pages getSignaturesForAddress(programID,
// {before, until, limit}) from newest to oldest, stopping once a page
// returns fewer than limit results or the until boundary is reached
// (spec §4.6).
func (c *Client) GetSignaturesForAddress(ctx context.Context, programID, until string, limit int) ([]string, error) {
	const pageSize = 1000
	var out []string
	before := ""

	for {
		params := map[string]any{"limit": limit}
		if limit <= 0 || limit > pageSize {
			params["limit"] = pageSize
		}
		if before != "" {
			params["before"] = before
		}
		if until != "" {
			params["until"] = until
		}
		raw, err := c.call(ctx, "getSignaturesForAddress", []any{programID, params})
		if err != nil {
			return nil, err
		}
		var page []struct {
			Signature string `json:"signature"`
			Err       any    `json:"err"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, p := range page {
			out = append(out, p.Signature)
		}
		before = page[len(page)-1].Signature
		if len(page) < pageSize {
			break
		}
	}
	return out, nil
}

// GetParsedTransaction fetches and parses one transaction by signature
// (jsonParsed encoding), returning the instruction list and fee. The
// instruction-level field decoding itself is delegated to decode, the
// out-of-scope Solana instruction decoder (spec §1 Out of scope).
func (c *Client) GetParsedTransaction(ctx context.Context, signature string, decode InstructionDecoder) (bridge.SolanaTransaction, error) {
	raw, err := c.call(ctx, "getTransaction", []any{signature, map[string]any{
		"encoding":                       "jsonParsed",
		"maxSupportedTransactionVersion": 0,
	}})
	if err != nil {
		return bridge.SolanaTransaction{}, err
	}

	var parsed struct {
		Slot      uint64 `json:"slot"`
		BlockTime int64  `json:"blockTime"`
		Meta      struct {
			Fee uint64 `json:"fee"`
		} `json:"meta"`
		Transaction struct {
			Message struct {
				Instructions []json.RawMessage `json:"instructions"`
			} `json:"message"`
		} `json:"transaction"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return bridge.SolanaTransaction{}, xerrors.DecodeError("malformed getTransaction response: " + err.Error())
	}

	instructions := make([]bridge.ParsedInstruction, 0, len(parsed.Transaction.Message.Instructions))
	for i, raw := range parsed.Transaction.Message.Instructions {
		inst, err := decode(i, raw)
		if err != nil {
			continue
		}
		instructions = append(instructions, inst)
	}

	return bridge.SolanaTransaction{
		Signature:    signature,
		Slot:         parsed.Slot,
		BlockTime:    parsed.BlockTime,
		Fee:          parsed.Meta.Fee,
		Instructions: instructions,
	}, nil
}

// InstructionDecoder turns one raw parsed-JSON instruction into a
// bridge.ParsedInstruction. Implementations live in the bridges that need
// Solana support (currently Mayan); this extractor treats decoding as an
// opaque service (spec §1 Out of scope).
type InstructionDecoder func(index int, raw json.RawMessage) (bridge.ParsedInstruction, error)
