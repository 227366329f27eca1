// Package store bootstraps the database connection and implements the
// shared token_metadata/token_price/native_token repositories the Price
// Enricher owns (spec §3 Ownership). Connection bootstrap follows the
// teacher's cmd/server/main.go pattern: gorm.Open is used only to obtain a
// pooled *sql.DB, and every query below is raw parameterized SQL, matching
// the teacher's internal/infrastructure/repositories style.
package store

import (
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"xchaindata.backend/internal/config"
)

// Open bootstraps a connection pool from a DatabaseConfig and returns the
// raw *sql.DB every repository in this codebase uses directly.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.URL(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{PrepareStmt: false})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return sqlDB, nil
}
