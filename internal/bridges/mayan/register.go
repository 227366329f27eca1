package mayan

import (
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Register installs Mayan's EVM {Decoder, Handler, Generator} triple and its
// Solana-side handler (spec §4.2, §4.6).
func Register(db *sql.DB) {
	bridge.Register(bridge.Mayan, bridge.Entry{
		Decoder:   common.DecoderFunc(Decode),
		Handler:   NewHandler(db),
		Generator: NewGenerator(db),
	})
	bridge.RegisterSolana(bridge.Mayan, NewSolanaHandler(db))
}
