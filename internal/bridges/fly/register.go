package fly

import (
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Register installs the Fly/magpiecctpbridge {Decoder, Handler, Generator} triple.
func Register(db *sql.DB) {
	bridge.Register(bridge.Fly, bridge.Entry{
		Decoder:   common.DecoderFunc(Decode),
		Handler:   NewHandler(db),
		Generator: NewGenerator(db),
	})
}
