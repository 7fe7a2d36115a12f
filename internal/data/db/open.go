package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/danfirsten/Standup/internal/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver     string
	Postgres   PostgresConfig
	SQLitePath string
}

// Open connects to the configured driver.
func Open(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverPostgres:
		svc, err := NewPostgresService(log, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return svc.DB(), nil
	case DriverSQLite:
		svc, err := NewSQLiteService(log, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return svc.DB(), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
	}
}
