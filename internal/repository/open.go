// Package repository selects the run history backend.
package repository

import (
	"fmt"

	"docvet/internal/config"
	"docvet/internal/port"
	"docvet/internal/repository/noop"
	"docvet/internal/repository/postgres"
	"docvet/internal/repository/sqlite"
)

// Driver names accepted in store.driver.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open returns the RunRepository selected by cfg.Driver.
func Open(cfg *config.StoreConfig) (port.RunRepository, error) {
	switch cfg.Driver {
	case "", DriverNone:
		return noop.NewRunRepo(), nil
	case DriverSQLite:
		return sqlite.NewStore(cfg.SQLitePath)
	case DriverPostgres:
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, err
		}
		return postgres.NewRunRepo(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
