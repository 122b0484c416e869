package pg

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"

	_ "github.com/newrelic/go-agent/v3/integrations/nrpgx"
)

// Config describes how to reach the ledger database
type Config struct {
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	DbName             string `mapstructure:"db_name"`
	MaxOpenConnections int    `mapstructure:"max_open_connections"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections"`
}

// New opens a connection pool using username/password credentials. Queries
// are traced through the New Relic instrumented pgx driver.
func New(config *Config) (*sql.DB, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		config.User, config.Password, config.Host, config.Port, config.DbName,
	)

	db, err := sql.Open("nrpgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "error opening db connection pool")
	}

	if config.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(config.MaxOpenConnections)
	}
	if config.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(config.MaxIdleConnections)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "error connecting to db")
	}

	return db, nil
}
