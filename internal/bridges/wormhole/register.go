package wormhole

import (
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Register installs the Wormhole Core Bridge {Decoder, Handler, Generator} triple.
func Register(db *sql.DB) {
	bridge.Register(bridge.Wormhole, bridge.Entry{
		Decoder:   common.DecoderFunc(Decode),
		Handler:   NewHandler(db),
		Generator: NewGenerator(db),
	})
}
