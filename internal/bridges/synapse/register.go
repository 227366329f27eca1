package synapse

import (
	"database/sql"

	"xchaindata.backend/internal/bridge"
	"xchaindata.backend/internal/bridges/common"
)

// Register installs the Synapse {Decoder, Handler, Generator} triple.
func Register(db *sql.DB) {
	bridge.Register(bridge.Synapse, bridge.Entry{
		Decoder:   common.DecoderFunc(Decode),
		Handler:   NewHandler(db),
		Generator: NewGenerator(db),
	})
}
