// Package extractor implements the EVM Extractor (spec §4.5): given
// (bridge, chain, [start,end]), it divides the range into chunks, fills a
// task queue, and runs a worker pool that fetches logs, decodes them, hands
// them to the bridge Handler, then fetches and persists the enclosing
// transaction for every surviving event.
//
// Grounded on extractor/extractor.py's divide_block_ranges/work/worker
// structure, reimplemented as a channel + sync.WaitGroup pool per spec §9
// ("do not adopt a single-threaded cooperative model").
package extractor

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/chain"
	"xchaindata.backend/internal/metrics"
	"xchaindata.backend/internal/rpcpool"
	"xchaindata.backend/pkg/logger"
)

type chunk struct {
	contract string
	topics   []string
	start    uint64
	end      uint64
}

// NumThreads returns min(10, len(rpcsForChain)) * 2 (spec §4.5.a).
func NumThreads(rpcsForChain int) int {
	n := rpcsForChain
	if n > 10 {
		n = 10
	}
	if n < 1 {
		n = 1
	}
	return n * 2
}

// ChunkSize returns max(1, min((end-start)/numThreads, 1000)) (spec §4.5.b).
func ChunkSize(start, end uint64, numThreads int) uint64 {
	if numThreads < 1 {
		numThreads = 1
	}
	span := uint64(0)
	if end > start {
		span = end - start
	}
	size := span / uint64(numThreads)
	if size > 1000 {
		size = 1000
	}
	if size < 1 {
		size = 1
	}
	return size
}

// divideBlockRanges splits [start,end] into chunks of exactly chunkSize
// blocks each (spec §4.5.c, Boundary cases: end-start < num_threads clamps
// chunk_size to 1, producing exactly end-start+1 one-block chunks).
func divideBlockRanges(start, end, chunkSize uint64) [][2]uint64 {
	var out [][2]uint64
	for s := start; s <= end; s += chunkSize {
		e := s + chunkSize - 1
		if e > end {
			e = end
		}
		out = append(out, [2]uint64{s, e})
		if e == end {
			break
		}
	}
	return out
}

// Extractor coordinates one (bridge, chain, [start,end]) extraction run.
type Extractor struct {
	Pool       *rpcpool.Pool
	NumRPCs    int
	MaxThreads int
}

// New builds an Extractor bound to a pool and the number of endpoints
// configured for the target chain.
func New(pool *rpcpool.Pool, numRPCs, maxThreads int) *Extractor {
	return &Extractor{Pool: pool, NumRPCs: numRPCs, MaxThreads: maxThreads}
}

// Run extracts every BridgeContractGroup for (b, chainName) over
// [start,end], dispatching decoded events to decoder/handler and persisting
// surviving transactions (spec §4.5).
func (x *Extractor) Run(ctx context.Context, b bridge.Bridge, entry bridge.Entry, chainName string, chainSet chain.Set, start, end uint64) error {
	groups, err := entry.Handler.BridgeContractsAndTopics(chainName)
	if err != nil {
		return err
	}

	numThreads := NumThreads(x.NumRPCs)
	if x.MaxThreads > 0 && numThreads > x.MaxThreads {
		numThreads = x.MaxThreads
	}
	chunkSize := ChunkSize(start, end, numThreads)

	for _, group := range groups {
		for _, contract := range group.Contracts {
			ranges := divideBlockRanges(start, end, chunkSize)
			if err := x.runContract(ctx, b, entry, chainName, contract, group.Topics, ranges, numThreads); err != nil {
				return err
			}
		}
	}
	return nil
}

func (x *Extractor) runContract(ctx context.Context, b bridge.Bridge, entry bridge.Entry, chainName, contract string, topics []string, ranges [][2]uint64, numThreads int) error {
	queue := make(chan chunk, len(ranges))
	for _, r := range ranges {
		queue <- chunk{contract: contract, topics: topics, start: r[0], end: r[1]}
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < numThreads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			x.worker(ctx, b, entry, chainName, queue)
		}()
	}
	wg.Wait()
	return nil
}

func (x *Extractor) worker(ctx context.Context, b bridge.Bridge, entry bridge.Entry, chainName string, queue <-chan chunk) {
	for task := range queue {
		x.processChunk(ctx, b, entry, chainName, task)
	}
}

func (x *Extractor) processChunk(ctx context.Context, b bridge.Bridge, entry bridge.Entry, chainName string, task chunk) {
	fields := logger.RunContext(string(b), chainName, task.start, task.end)

	logs, err := x.Pool.GetLogsEmittedByContract(ctx, chainName, task.contract, task.topics, task.start, task.end)
	if err != nil {
		logger.Error(ctx, "get_logs failed", append(fields, zap.Error(err))...)
		return
	}
	if len(logs) == 0 {
		return
	}

	decoded := make([]bridge.RawLog, 0, len(logs))
	for _, l := range logs {
		fieldsMap, err := entry.Decoder.Decode(chainName, l)
		if err != nil {
			metrics.EventsDropped.WithLabelValues(string(b), "decode_error").Inc()
			logger.Warn(ctx, "decode failed", append(fields, zap.Error(err), zap.String("tx_hash", l.TransactionHash))...)
			continue
		}
		decoded = append(decoded, bridge.RawLog{
			TransactionHash: l.TransactionHash,
			BlockNumber:     l.BlockNumber,
			ContractAddress: l.Address,
			Topic0:          l.Topics[0],
			DecodedFields:   fieldsMap,
		})
	}
	if len(decoded) == 0 {
		return
	}

	included := entry.Handler.HandleEvents(ctx, chainName, task.start, task.end, task.contract, task.topics, decoded)
	metrics.EventsExtracted.WithLabelValues(string(b), chainName, "handled").Add(float64(len(included)))

	txRows := map[string]bridge.Transaction{}
	for _, ev := range included {
		exists, err := entry.Handler.DoesTransactionExist(ctx, ev.TransactionHash)
		if err != nil || exists {
			continue
		}
		if _, already := txRows[ev.TransactionHash]; already {
			continue
		}
		receipt, block, err := x.Pool.ProcessTransaction(ctx, chainName, ev.TransactionHash, ev.BlockNumber)
		if err != nil {
			logger.Warn(ctx, "process_transaction failed; raw event retained, tx row dropped", append(fields, zap.Error(err), zap.String("tx_hash", ev.TransactionHash))...)
			continue
		}
		tx, err := BuildTransaction(chainName, ev.TransactionHash, receipt, block)
		if err != nil {
			logger.Warn(ctx, "build transaction failed", append(fields, zap.Error(err))...)
			continue
		}
		txRows[ev.TransactionHash] = tx
	}

	if len(txRows) == 0 {
		return
	}
	rows := make([]bridge.Transaction, 0, len(txRows))
	for _, tx := range txRows {
		rows = append(rows, tx)
	}
	if err := entry.Handler.HandleTransactions(ctx, rows); err != nil {
		logger.Error(ctx, "handle_transactions failed", append(fields, zap.Error(err))...)
	}
}
