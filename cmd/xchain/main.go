// Command xchain is the process entry point for the extraction/correlation
// engine (spec §6): `extract --bridge ... --start_ts ... --end_ts ...
// --blockchains ...` and `generate --bridge ...`, grounded on cmd/server's
// load-config/init-logger/open-db bootstrap sequence adapted from an HTTP
// server startup to a one-shot CLI run.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/ccip"
	"xchaindata.backend/internal/bridges/cow"
	"xchaindata.backend/internal/bridges/debridge"
	"xchaindata.backend/internal/bridges/eco"
	"xchaindata.backend/internal/bridges/fly"
	"xchaindata.backend/internal/bridges/mayan"
	"xchaindata.backend/internal/bridges/portal"
	"xchaindata.backend/internal/bridges/router"
	"xchaindata.backend/internal/bridges/synapse"
	"xchaindata.backend/internal/bridges/wormhole"
	"xchaindata.backend/internal/chain"
	"xchaindata.backend/internal/config"
	"xchaindata.backend/internal/extractor"
	"xchaindata.backend/internal/pricing"
	"xchaindata.backend/internal/rpcpool"
	solext "xchaindata.backend/internal/solana"
	"xchaindata.backend/internal/store"
	"xchaindata.backend/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: xchain <extract|generate> [flags]")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()
	logger.Init(cfg.Server.Env)
	ctx := context.Background()

	db, err := store.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	registerBridges(db)

	switch args[0] {
	case "extract":
		return runExtract(ctx, cfg, db, args[1:])
	case "generate":
		return runGenerate(ctx, cfg, db, args[1:])
	default:
		return fmt.Errorf("unknown subcommand %q (want extract or generate)", args[0])
	}
}

// registerBridges installs every bridge's {Decoder, Handler, Generator}
// triple into the compile-time registry (spec §9), mirroring each source
// package's own module-import-time registration.
func registerBridges(db *sql.DB) {
	ccip.Register(db)
	debridge.Register(db)
	cow.Register(db)
	mayan.Register(db)
	portal.Register(db)
	wormhole.Register(db)
	router.Register(db)
	synapse.Register(db)
	eco.Register(db)
	fly.Register(db)
}

func runExtract(ctx context.Context, cfg *config.Config, db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	bridgeName := fs.String("bridge", "", "bridge to extract (required)")
	startTS := fs.Int64("start_ts", 0, "unix start timestamp (required)")
	endTS := fs.Int64("end_ts", 0, "unix end timestamp (required)")
	blockchains := fs.String("blockchains", "", "space-separated chain names (required)")
	startSignature := fs.String("start_signature", "", "Solana start signature (required if solana is in --blockchains)")
	endSignature := fs.String("end_signature", "", "Solana end signature (required if solana is in --blockchains)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	b, ok := bridge.Parse(*bridgeName)
	if !ok {
		return fmt.Errorf("unknown --bridge %q", *bridgeName)
	}
	if *startTS == 0 || *endTS == 0 {
		return fmt.Errorf("--start_ts and --end_ts are required")
	}
	chains := strings.Fields(*blockchains)
	if len(chains) == 0 {
		return fmt.Errorf("--blockchains is required")
	}
	requiresSolana := false
	for _, c := range chains {
		if c == "solana" {
			requiresSolana = true
		}
	}
	if requiresSolana && (*startSignature == "" || *endSignature == "") {
		return fmt.Errorf("--start_signature and --end_signature are required when solana is in --blockchains")
	}

	entry, ok := bridge.Lookup(b)
	if !ok {
		return fmt.Errorf("bridge %s has no registered entry", b)
	}

	baseCfg, err := rpcpool.LoadConfigFile(cfg.RPC.BaseConfigPath)
	if err != nil {
		return fmt.Errorf("loading base rpc config: %w", err)
	}

	probePool := rpcpool.New(rpcpool.RingsFromConfig(baseCfg), cfg.RPC.RequestTimeout, cfg.RPC.InitialBackoff)
	probe := rpcpool.NewProbe(probePool)
	if err := probe.Run(ctx, baseCfg, cfg.RPC.ConfigPath); err != nil {
		return fmt.Errorf("probing endpoints: %w", err)
	}
	fileCfg, err := rpcpool.LoadConfigFile(cfg.RPC.ConfigPath)
	if err != nil {
		return fmt.Errorf("reloading probed rpc config: %w", err)
	}

	rings := rpcpool.RingsFromConfig(fileCfg)
	pool := rpcpool.New(rings, cfg.RPC.RequestTimeout, cfg.RPC.InitialBackoff)
	chainSet := chain.NewSet(chains)

	for _, chainName := range chains {
		if chainName == "solana" {
			if err := extractSolana(ctx, b, chainName, rings["solana"], *startSignature, *endSignature); err != nil {
				logger.Error(ctx, "solana extraction failed", zap.String("chain", chainName), zap.Error(err))
			}
			continue
		}
		startBlock, err := pool.BlockByTimestamp(ctx, chainName, uint64(*startTS))
		if err != nil {
			logger.Error(ctx, "resolving start block from timestamp failed", zap.String("chain", chainName), zap.Error(err))
			continue
		}
		endBlock, err := pool.BlockByTimestamp(ctx, chainName, uint64(*endTS))
		if err != nil {
			logger.Error(ctx, "resolving end block from timestamp failed", zap.String("chain", chainName), zap.Error(err))
			continue
		}

		numRPCs := len(rings[chainName])
		x := extractor.New(pool, numRPCs, cfg.RPC.MaxNumThreads)
		if err := x.Run(ctx, b, entry, chainName, chainSet, startBlock, endBlock); err != nil {
			logger.Error(ctx, "extraction failed", zap.String("bridge", string(b)), zap.String("chain", chainName), zap.Error(err))
		}
	}
	return nil
}

// extractSolana runs the Solana Extractor variant for bridges (currently
// only Mayan) that registered a Solana-side handler (spec §4.6).
func extractSolana(ctx context.Context, b bridge.Bridge, chainName string, rpcs []string, startSignature, endSignature string) error {
	handler, ok := bridge.LookupSolana(b)
	if !ok {
		return fmt.Errorf("bridge %s has no Solana handler", b)
	}
	if len(rpcs) == 0 {
		return fmt.Errorf("no configured RPC endpoints for chain %q", chainName)
	}
	client := solext.NewClient(rpcs[0], nil)
	x := solext.New(client, solext.DefaultInstructionDecoder)
	return x.Run(ctx, b, handler, chainName, startSignature, endSignature)
}

func runGenerate(ctx context.Context, cfg *config.Config, db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	bridgeName := fs.String("bridge", "", "bridge to correlate (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	b, ok := bridge.Parse(*bridgeName)
	if !ok {
		return fmt.Errorf("unknown --bridge %q", *bridgeName)
	}
	entry, ok := bridge.Lookup(b)
	if !ok {
		return fmt.Errorf("bridge %s has no registered entry", b)
	}

	startTS, endTS, ok, err := entry.Generator.Generate(ctx, db)
	if err != nil {
		return fmt.Errorf("generating cross-chain data for %s: %w", b, err)
	}
	if !ok {
		logger.Info(ctx, "no transactions to correlate yet", zap.String("bridge", string(b)))
		return nil
	}

	cfgProvider := cfg.Provider
	priceClient := pricing.NewClient(cfgProvider.APIKey, cfgProvider.MetadataURL, cfgProvider.PriceURL, cfgProvider.RequestTimeout)
	tokenRepo := store.NewTokenPriceRepo(db)
	enricher := pricing.NewEnricher(priceClient, tokenRepo, db)

	if err := enricher.PopulateNativeTokens(ctx, startTS, endTS); err != nil {
		logger.Error(ctx, "populating native tokens failed", zap.String("bridge", string(b)), zap.Error(err))
	}

	pairs, err := entry.Generator.UniquePairs(ctx, db)
	if err != nil {
		logger.Error(ctx, "listing unique token pairs failed", zap.String("bridge", string(b)), zap.Error(err))
	}
	for _, p := range pairs {
		if err := enricher.PopulateTokenInfo(ctx, p.SrcChain, p.DstChain, p.SrcContract, p.DstContract, startTS, endTS); err != nil {
			logger.Error(ctx, "populating token info failed", zap.String("bridge", string(b)),
				zap.String("src_chain", p.SrcChain), zap.String("src_contract", p.SrcContract),
				zap.String("dst_chain", p.DstChain), zap.String("dst_contract", p.DstContract), zap.Error(err))
		}
	}

	table := string(b) + "_cross_chain_transactions"
	if err := enricher.CalculateCctxUSDValues(ctx, table); err != nil {
		logger.Error(ctx, "calculating usd values failed", zap.String("bridge", string(b)), zap.Error(err))
	}
	if err := enricher.CalculateCctxNativeUSDValues(ctx, table); err != nil {
		logger.Error(ctx, "calculating native usd values failed", zap.String("bridge", string(b)), zap.Error(err))
	}
	if b == bridge.Mayan {
		if err := mayan.CalculateRefundFeeUSD(ctx, db); err != nil {
			logger.Error(ctx, "calculating mayan refund fee usd failed", zap.Error(err))
		}
		if err := mayan.FixSolanaFeeUSD(ctx, db); err != nil {
			logger.Error(ctx, "applying mayan solana fee usd fixup failed", zap.Error(err))
		}
	}

	logger.Info(ctx, "generation complete", zap.String("bridge", string(b)), zap.Int64("start_ts", startTS), zap.Int64("end_ts", endTS))
	return nil
}
