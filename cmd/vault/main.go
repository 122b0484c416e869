package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-vault-program/pkg/app"
	pg "github.com/code-payments/code-vault-program/pkg/database/postgres"
	"github.com/code-payments/code-vault-program/pkg/ledger"
	memory_ledger "github.com/code-payments/code-vault-program/pkg/ledger/memory"
	postgres_ledger "github.com/code-payments/code-vault-program/pkg/ledger/postgres"
	"github.com/code-payments/code-vault-program/pkg/solana/runtime"
	"github.com/code-payments/code-vault-program/pkg/solana/vault"
)

const (
	memoryBackend   = "memory"
	postgresBackend = "postgres"
)

type ledgerConfig struct {
	Backend  string    `mapstructure:"backend"`
	Postgres pg.Config `mapstructure:"postgres"`
}

type appConfig struct {
	Ledger ledgerConfig `mapstructure:"ledger"`
}

type vaultApp struct {
	log *logrus.Entry

	db   *sql.DB
	cli  *cli
	stop func()
}

func (a *vaultApp) Init(config app.Config, _ *newrelic.Application) error {
	conf := appConfig{
		Ledger: ledgerConfig{
			Backend: memoryBackend,
		},
	}
	if err := mapstructure.Decode(config, &conf); err != nil {
		return errors.Wrap(err, "invalid app config")
	}

	var store ledger.Store
	switch conf.Ledger.Backend {
	case memoryBackend:
		store = memory_ledger.New()
	case postgresBackend:
		db, err := pg.New(&conf.Ledger.Postgres)
		if err != nil {
			return err
		}
		a.db = db
		store = postgres_ledger.New(db)
	default:
		return errors.Errorf("unsupported ledger backend %q", conf.Ledger.Backend)
	}

	a.log.WithField("backend", conf.Ledger.Backend).Debug("ledger initialized")

	bank := runtime.NewBank(
		store,
		runtime.WithEnvConfigs(),
		vault.NewProgram(vault.WithEnvConfigs()),
	)
	a.cli = newCLI(bank, store, os.Stdout)
	return nil
}

func (a *vaultApp) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.cli.runScript(ctx, os.Stdin)
	}
	return a.cli.run(ctx, args)
}

func (a *vaultApp) Stop() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

func main() {
	a := &vaultApp{
		log: logrus.StandardLogger().WithField("type", "cmd/vault"),
	}

	if err := app.Run(a); err != nil {
		a.log.WithError(err).Error("vault exited with error")
		os.Exit(1)
	}
}
