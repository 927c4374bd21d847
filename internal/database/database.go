package database

import (
	"fmt"

	"quiz-quest/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// NewSQLXDB opens and pings the reporting database named by the export
// config.
func NewSQLXDB(exportCfg config.ExportConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect(exportCfg.Driver, exportCfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", exportCfg.Driver, err)
	}

	// sqlite allows a single writer
	if exportCfg.Driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
