package bridge

import (
	"context"
	"database/sql"
)

// EVMLog is the raw JSON-RPC eth_getLogs record handed to a Decoder.
type EVMLog struct {
	Address         string
	Topics          []string
	Data            string
	BlockNumber     uint64
	TransactionHash string
	LogIndex        uint64
}

// Transaction is the per-bridge BlockchainTransaction row (spec §3).
// fee = gasUsed * effectiveGasPrice for EVM, the reported fee for Solana.
type Transaction struct {
	Blockchain      string
	TransactionHash string
	BlockNumber     uint64
	Timestamp       int64
	FromAddress     string
	ToAddress       string
	Status          uint64
	Value           string
	Fee             string
}

// Decoder turns a raw log into a structured field map, dispatching on
// log.Topics[0] (spec §4.3). Pure and stateless.
type Decoder interface {
	Decode(chain string, log EVMLog) (map[string]any, error)
}

// Handler owns writes to one bridge's raw tables (spec §4.4).
type Handler interface {
	// BridgeContractsAndTopics validates the bridge supports chain and
	// returns what to scan there.
	BridgeContractsAndTopics(chain string) ([]ContractGroup, error)

	// HandleEvents dispatches each event on its topic to a per-kind handler
	// and returns the events that survived (weren't dropped).
	HandleEvents(ctx context.Context, chain string, startBlock, endBlock uint64, contract string, topics []string, events []RawLog) []RawLog

	// HandleTransactions bulk-inserts transaction rows, retrying once on a
	// unique-constraint violation after rollback+rebind (spec §4.4, §9).
	HandleTransactions(ctx context.Context, txs []Transaction) error

	// DoesTransactionExist skips receipt-fetching for already-ingested txs.
	DoesTransactionExist(ctx context.Context, txHash string) (bool, error)
}

// Generator rebuilds one bridge's cross_chain_transaction table (spec §4.7).
type Generator interface {
	// Generate empties and repopulates the cross-chain table, returning the
	// [start_ts, end_ts] window (±86400s) derived from the transaction table,
	// or ok=false if no rows exist yet.
	Generate(ctx context.Context, db *sql.DB) (startTS, endTS int64, ok bool, err error)

	// UniquePairs returns every distinct (src_chain, src_contract, dst_chain,
	// dst_contract) tuple in the table Generate just repopulated, the input
	// to the Price Enricher's per-pair metadata/price population (spec §4.7
	// step 4). A bridge whose cross-chain table carries no token-contract
	// columns (Mayan) returns an empty slice.
	UniquePairs(ctx context.Context, db *sql.DB) ([]TokenPair, error)
}

// Entry is the {Decoder, Handler, Generator} bundle for one bridge.
type Entry struct {
	Decoder   Decoder
	Handler   Handler
	Generator Generator
}

var registry = map[Bridge]Entry{}

// Register installs the {Decoder, Handler, Generator} triple for a bridge.
// Called from each bridges/<name> package's init().
func Register(b Bridge, e Entry) {
	registry[b] = e
}

// Lookup returns the registered entry for a bridge.
func Lookup(b Bridge) (Entry, bool) {
	e, ok := registry[b]
	return e, ok
}

// ParsedInstruction is one decoded Solana instruction within a transaction,
// produced by the out-of-scope Solana instruction decoder (spec §1 Out of
// scope). Index is the instruction's position within the transaction, used
// by handlers to locate sibling instructions that carry an amount.
type ParsedInstruction struct {
	Index    int
	Name     string
	Accounts []string
	Data     map[string]any
}

// SolanaTransaction is one fetched-and-parsed Solana transaction (spec §4.6).
type SolanaTransaction struct {
	Signature    string
	Slot         uint64
	BlockTime    int64
	Fee          uint64
	Instructions []ParsedInstruction
}

// SolanaHandler owns writes for the Solana side of a bridge that operates on
// both EVM and Solana (currently only Mayan, spec §4.2).
type SolanaHandler interface {
	// SolanaBridgeProgramID is the program id whose signatures are scanned.
	SolanaBridgeProgramID() string

	DoesTransactionExistByHash(ctx context.Context, signature string) (bool, error)

	// HandleSolanaEvents walks each transaction's instruction list, dispatches
	// on instruction.Name, and returns the transactions that survived.
	HandleSolanaEvents(ctx context.Context, chain, startSignature, endSignature string, txs []SolanaTransaction) []SolanaTransaction

	HandleTransactions(ctx context.Context, txs []Transaction) error
}

var solanaRegistry = map[Bridge]SolanaHandler{}

// RegisterSolana installs the Solana-side handler for a bridge.
func RegisterSolana(b Bridge, h SolanaHandler) {
	solanaRegistry[b] = h
}

// LookupSolana returns the registered Solana handler for a bridge.
func LookupSolana(b Bridge) (SolanaHandler, bool) {
	h, ok := solanaRegistry[b]
	return h, ok
}
