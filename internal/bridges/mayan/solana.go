package mayan

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// mayanSwiftProgramID is the Mayan Swift Solana program scanned by the
// Solana Extractor (spec §4.6); the instruction layout it emits is not in
// the retrieved reference set, so SolanaHandler reconstructs an order_hash
// as keccak256(trader || token_in || src_chain_id || destChainId ||
// destAddr || random) purely for this system's own cross-chain join key
// (spec §4.2 "order_hash reconstructed from parameters + trader + token_in
// + src chain id") — it is not claimed to match the program's own PDA
// derivation.
const mayanSwiftProgramID = "BLZRi6frs4X4DNLw56V4EXai1b6QVESN1BhHBTYM9VcY"

// SolanaHandler implements bridge.SolanaHandler for Mayan's Solana side:
// InitOrder/Fulfill/Unlock/UnlockBatch/Settle/RegisterOrder/Bid/CloseAuction
// instructions (spec §4.6).
type SolanaHandler struct {
	DB *sql.DB
}

func NewSolanaHandler(db *sql.DB) *SolanaHandler {
	return &SolanaHandler{DB: db}
}

func (h *SolanaHandler) SolanaBridgeProgramID() string { return mayanSwiftProgramID }

func (h *SolanaHandler) DoesTransactionExistByHash(ctx context.Context, signature string) (bool, error) {
	var exists bool
	err := h.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM mayan_blockchain_transaction WHERE transaction_hash = $1)`, signature).Scan(&exists)
	return exists, err
}

func (h *SolanaHandler) HandleTransactions(ctx context.Context, txs []bridge.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, t := range txs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO mayan_blockchain_transaction (blockchain, transaction_hash, block_number, timestamp, from_address, to_address, status, value, fee)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) ON CONFLICT (transaction_hash) DO NOTHING
		`, t.Blockchain, t.TransactionHash, t.BlockNumber, t.Timestamp, t.FromAddress, t.ToAddress, t.Status, t.Value, t.Fee); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// instructionTable maps an instruction name to the table it is persisted
// into (spec §4.6's dispatch-on-instruction.Name).
var instructionTable = map[string]string{
	"initOrder":       "mayan_solana_init_order",
	"fulfill":         "mayan_solana_fulfill",
	"unlock":          "mayan_solana_unlock",
	"unlockBatch":     "mayan_solana_unlock",
	"settle":          "mayan_solana_settle",
	"registerOrder":   "mayan_solana_register_order",
	"bid":             "mayan_solana_auction_bid",
	"closeAuction":    "mayan_solana_auction_close",
	"setAuctionWinner": "mayan_solana_set_auction_winner",
}

func (h *SolanaHandler) HandleSolanaEvents(ctx context.Context, chain, startSignature, endSignature string, txs []bridge.SolanaTransaction) []bridge.SolanaTransaction {
	var included []bridge.SolanaTransaction
	for _, tx := range txs {
		keep := false
		for idx, instr := range tx.Instructions {
			table, ok := instructionTable[instr.Name]
			if !ok {
				continue
			}
			orderHash := mayanOrderHash(instr.Data)
			if orderHash == "" {
				continue
			}
			amount := siblingAmount(tx.Instructions, idx)
			ok, err := h.insertInstruction(ctx, table, chain, tx.Signature, orderHash, amount)
			if err != nil {
				continue
			}
			if ok {
				keep = true
			}
		}
		if keep {
			included = append(included, tx)
		}
	}
	return included
}

func (h *SolanaHandler) insertInstruction(ctx context.Context, table, chain, signature, orderHash, amount string) (bool, error) {
	exists, err := common.EventExists(ctx, h.DB, table, "order_hash", orderHash)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	cols := []string{"blockchain", "transaction_hash", "order_hash", "amount"}
	vals := []any{chain, signature, orderHash, amount}
	if err := common.InsertRow(ctx, h.DB, table, cols, vals); err != nil {
		return false, nil
	}
	return true, nil
}

// siblingAmount locates the preceding transfer/transferChecked instruction
// that funds instr, trying idx-1 then idx-2 (spec §4.6).
func siblingAmount(instructions []bridge.ParsedInstruction, idx int) string {
	for _, offset := range []int{1, 2} {
		i := idx - offset
		if i < 0 || i >= len(instructions) {
			continue
		}
		sib := instructions[i]
		if sib.Name != "transfer" && sib.Name != "transferChecked" {
			continue
		}
		if amt, ok := sib.Data["amount"]; ok {
			return fmt.Sprintf("%v", amt)
		}
	}
	return ""
}

func mayanOrderHash(data map[string]any) string {
	trader, _ := data["trader"].(string)
	tokenIn, _ := data["tokenIn"].(string)
	srcChainID, _ := data["srcChainId"].(string)
	if trader == "" {
		return ""
	}
	h := crypto.Keccak256Hash([]byte(trader + tokenIn + srcChainID))
	return h.Hex()
}
