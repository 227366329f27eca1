package router

import (
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Register installs the Router Protocol {Decoder, Handler, Generator} triple.
func Register(db *sql.DB) {
	bridge.Register(bridge.Router, bridge.Entry{
		Decoder:   common.DecoderFunc(Decode),
		Handler:   NewHandler(db),
		Generator: NewGenerator(db),
	})
}
