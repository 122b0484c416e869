package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/code-vault-program/pkg/database/query"
	"github.com/code-payments/code-vault-program/pkg/ledger"

	pgutil "github.com/code-payments/code-vault-program/pkg/database/postgres"
)

type store struct {
	db *sqlx.DB
}

// New returns a postgres backed ledger.Store
func New(db *sql.DB) ledger.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Get implements ledger.Store.Get
func (s *store) Get(ctx context.Context, address string) (*ledger.Record, error) {
	model, err := dbGetAccount(ctx, s.db, address)
	if err != nil {
		return nil, err
	}
	return fromAccountModel(model), nil
}

// Save implements ledger.Store.Save
func (s *store) Save(ctx context.Context, records ...*ledger.Record) error {
	models := make([]*accountModel, len(records))
	for i, record := range records {
		model, err := toAccountModel(record)
		if err != nil {
			return err
		}
		models[i] = model
	}

	err := pgutil.ExecuteRetryable(func() error {
		return pgutil.ExecuteInTx(ctx, s.db, sql.LevelRepeatableRead, func(tx *sqlx.Tx) error {
			for i, model := range models {
				if records[i].IsPurgeable() {
					if err := model.dbDeleteInTx(ctx, tx); err != nil {
						return err
					}
					continue
				}

				if err := model.dbUpsertInTx(ctx, tx); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	for i, model := range models {
		if records[i].IsPurgeable() {
			continue
		}
		fromAccountModel(model).CopyTo(records[i])
	}
	return nil
}

// Count implements ledger.Store.Count
func (s *store) Count(ctx context.Context) (uint64, error) {
	return dbGetCount(ctx, s.db)
}

// GetAllByOwner implements ledger.Store.GetAllByOwner
func (s *store) GetAllByOwner(ctx context.Context, owner string, opts ...query.Option) ([]*ledger.Record, error) {
	req, err := query.DefaultPaginationHandler(opts...)
	if err != nil {
		return nil, err
	}

	models, err := dbGetAllByOwner(ctx, s.db, owner, req.Cursor, req.Limit, req.SortBy)
	if err != nil {
		return nil, err
	}

	res := make([]*ledger.Record, len(models))
	for i, model := range models {
		res[i] = fromAccountModel(model)
	}
	return res, nil
}
