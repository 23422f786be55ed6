// Package storage picks the configured store implementation.
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	"hotel_booking/internal/storage/jsonfile"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

// Open returns the store selected by cfg.StoreDriver and a close func.
func Open(cfg shared.Config) (domain.Store, func() error, error) {
	switch cfg.StoreDriver {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db), db.Close, nil
	case "file", "":
		s, err := jsonfile.Open(cfg.DataFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("file", cfg.DataFile).Msg("using JSON file store")
		return s, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
