package rpcpool

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"xchaindata.backend/pkg/logger"
)

// Probe implements the Endpoint Probe (spec §4.2): before extraction,
// filter a chain's configured endpoint list by issuing a canary eth_getLogs
// request and retaining only endpoints whose response has a well-formed,
// non-empty result.
type Probe struct {
	client *Pool
}

// NewProbe builds a Probe that issues canary requests through a throwaway
// Pool (the probe never shares a ring's cursor state with extraction).
func NewProbe(p *Pool) *Probe {
	return &Probe{client: p}
}

type probeLogsResult []json.RawMessage

// FilterEndpoints issues the canary getLogs request to each candidate
// endpoint sequentially and returns only those that respond with a result
// array of length >= 1 and no error.
func (p *Probe) FilterEndpoints(ctx context.Context, candidates []string, contract string, topics []string, startBlock, endBlock uint64) []string {
	filter := map[string]any{
		"address":   contract,
		"topics":    [][]string{topics},
		"fromBlock": fmt.Sprintf("0x%x", startBlock),
		"toBlock":   fmt.Sprintf("0x%x", endBlock),
	}

	var healthy []string
	for _, url := range candidates {
		raw, err := p.client.PlainRequest(ctx, url, "eth_getLogs", []any{filter})
		if err != nil {
			logger.Warn(ctx, "probe endpoint failed", zap.String("url", url), zap.Error(err))
			continue
		}
		var results probeLogsResult
		if err := json.Unmarshal(raw, &results); err != nil || len(results) < 1 {
			logger.Warn(ctx, "probe endpoint returned malformed or empty result", zap.String("url", url))
			continue
		}
		healthy = append(healthy, url)
	}
	return healthy
}

// Run probes every chain in baseCfg and writes the filtered result to
// outPath (spec §4.2: "The filtered list is written to the working RPC
// config file read by the RPC Pool."). A chain where every endpoint fails
// is written with an empty list rather than treated as fatal; the Extractor
// fails fast on first use against an empty ring.
func (p *Probe) Run(ctx context.Context, baseCfg *FileConfig, outPath string) error {
	out := &FileConfig{Blockchains: make([]BlockchainEndpoints, 0, len(baseCfg.Blockchains))}
	for _, bc := range baseCfg.Blockchains {
		healthy := p.FilterEndpoints(ctx, bc.RPCs, bc.Contract, bc.Topics, bc.StartBlock, bc.EndBlock)
		out.Blockchains = append(out.Blockchains, BlockchainEndpoints{
			Name:       bc.Name,
			Contract:   bc.Contract,
			Topics:     bc.Topics,
			StartBlock: bc.StartBlock,
			EndBlock:   bc.EndBlock,
			RPCs:       healthy,
		})
		logger.Info(ctx, "probed chain", zap.String("chain", bc.Name), zap.Int("healthy_endpoints", len(healthy)), zap.Int("candidates", len(bc.RPCs)))
	}
	return WriteConfigFile(outPath, out)
}
