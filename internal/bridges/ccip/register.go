package ccip

import (
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Register installs the CCIP {Decoder, Handler, Generator} triple into the
// bridge registry (spec §9 Design Notes, compile-time registry).
func Register(db *sql.DB) {
	bridge.Register(bridge.CCIP, bridge.Entry{
		Decoder:   common.DecoderFunc(Decode),
		Handler:   NewHandler(db),
		Generator: NewGenerator(db),
	})
}
