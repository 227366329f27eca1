package solana

import (
	"context"

	"go.uber.org/zap"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/metrics"
	"xchaindata.backend/pkg/logger"
)

// Extractor is the Solana Extractor variant (spec §4.6): it pages
// transaction signatures under one program id instead of scanning block
// ranges, and processes them with a single worker since Solana RPCs, not
// goroutine count, are the bottleneck.
type Extractor struct {
	Client  *Client
	Decoder InstructionDecoder
}

// New builds a Solana Extractor bound to one RPC client and instruction
// decoder.
func New(client *Client, decoder InstructionDecoder) *Extractor {
	return &Extractor{Client: client, Decoder: decoder}
}

// Run extracts every signature for bridge b's program id on chainName
// within [startSignature, endSignature] (both optional; empty means
// unbounded on that side), dispatching decoded transactions to the bridge's
// Solana handler (spec §4.6).
func (x *Extractor) Run(ctx context.Context, b bridge.Bridge, handler bridge.SolanaHandler, chainName, startSignature, endSignature string) error {
	programID := handler.SolanaBridgeProgramID()

	signatures, err := x.Client.GetSignaturesForAddress(ctx, programID, startSignature, 0)
	if err != nil {
		return err
	}
	if len(signatures) == 0 {
		logger.Warn(ctx, "no transaction signatures found in range",
			zap.String("bridge", string(b)), zap.String("chain", chainName), zap.String("program_id", programID))
		return nil
	}

	// Signatures come back newest-first from getSignaturesForAddress; walk
	// oldest-first so handler-side ordering assumptions hold.
	for i, j := 0, len(signatures)-1; i < j; i, j = i+1, j-1 {
		signatures[i], signatures[j] = signatures[j], signatures[i]
	}
	if endSignature != "" {
		for idx, sig := range signatures {
			if sig == endSignature {
				signatures = signatures[:idx+1]
				break
			}
		}
	}

	startSig, endSig := signatures[0], signatures[len(signatures)-1]
	fields := []zap.Field{
		zap.String("bridge", string(b)), zap.String("chain", chainName),
		zap.String("start_signature", startSig), zap.String("end_signature", endSig),
	}
	logger.Info(ctx, "processing Solana logs and transactions", fields...)

	decoded := make([]bridge.SolanaTransaction, 0, len(signatures))
	for _, sig := range signatures {
		exists, err := handler.DoesTransactionExistByHash(ctx, sig)
		if err != nil || exists {
			continue
		}
		tx, err := x.Client.GetParsedTransaction(ctx, sig, x.Decoder)
		if err != nil {
			logger.Warn(ctx, "get_parsed_transaction failed", append(fields, zap.Error(err), zap.String("signature", sig))...)
			metrics.EventsDropped.WithLabelValues(string(b), "rpc_failure").Inc()
			continue
		}
		decoded = append(decoded, tx)
	}
	if len(decoded) == 0 {
		return nil
	}

	included := handler.HandleSolanaEvents(ctx, chainName, startSig, endSig, decoded)
	metrics.EventsExtracted.WithLabelValues(string(b), chainName, "handled").Add(float64(len(included)))
	if len(included) == 0 {
		return nil
	}

	rows := make([]bridge.Transaction, 0, len(included))
	for _, tx := range included {
		rows = append(rows, bridge.Transaction{
			Blockchain:      chainName,
			TransactionHash: tx.Signature,
			BlockNumber:     tx.Slot,
			Timestamp:       tx.BlockTime,
			Status:          1,
			Fee:             itoa(tx.Fee),
		})
	}
	if err := handler.HandleTransactions(ctx, rows); err != nil {
		logger.Error(ctx, "handle_transactions failed", append(fields, zap.Error(err))...)
		return err
	}
	logger.Success(ctx, "finished processing Solana logs and transactions", fields...)
	return nil
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
