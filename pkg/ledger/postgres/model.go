package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/code-vault-program/pkg/ledger"

	pgutil "github.com/code-payments/code-vault-program/pkg/database/postgres"
	q "github.com/code-payments/code-vault-program/pkg/database/query"
)

const (
	accountTableName = "vault__core_ledgeraccount"
)

type accountModel struct {
	Id            sql.NullInt64 `db:"id"`
	Address       string        `db:"address"`
	Lamports      int64         `db:"lamports"`
	Owner         string        `db:"owner"`
	Data          []byte        `db:"data"`
	Executable    bool          `db:"executable"`
	LastUpdatedAt time.Time     `db:"last_updated_at"`
}

func toAccountModel(obj *ledger.Record) (*accountModel, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	data := obj.Data
	if data == nil {
		data = []byte{}
	}

	return &accountModel{
		Id:            sql.NullInt64{Int64: int64(obj.Id), Valid: obj.Id > 0},
		Address:       obj.Address,
		Lamports:      int64(obj.Lamports),
		Owner:         obj.Owner,
		Data:          data,
		Executable:    obj.Executable,
		LastUpdatedAt: time.Now().UTC(),
	}, nil
}

func fromAccountModel(obj *accountModel) *ledger.Record {
	return &ledger.Record{
		Id:            uint64(obj.Id.Int64),
		Address:       obj.Address,
		Lamports:      uint64(obj.Lamports),
		Owner:         obj.Owner,
		Data:          obj.Data,
		Executable:    obj.Executable,
		LastUpdatedAt: obj.LastUpdatedAt.UTC(),
	}
}

func (m *accountModel) dbUpsertInTx(ctx context.Context, tx *sqlx.Tx) error {
	query := `INSERT INTO ` + accountTableName + `
		(address, lamports, owner, data, executable, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (address)
		DO UPDATE
			SET lamports = $2, owner = $3, data = $4, executable = $5, last_updated_at = $6
			WHERE ` + accountTableName + `.address = $1
		RETURNING
			id, address, lamports, owner, data, executable, last_updated_at`

	return tx.QueryRowxContext(
		ctx,
		query,
		m.Address,
		m.Lamports,
		m.Owner,
		m.Data,
		m.Executable,
		m.LastUpdatedAt,
	).StructScan(m)
}

func (m *accountModel) dbDeleteInTx(ctx context.Context, tx *sqlx.Tx) error {
	query := `DELETE FROM ` + accountTableName + `
		WHERE address = $1`

	_, err := tx.ExecContext(ctx, query, m.Address)
	return err
}

func dbGetCount(ctx context.Context, db *sqlx.DB) (uint64, error) {
	var res uint64

	query := `SELECT COUNT(*) FROM ` + accountTableName
	err := db.GetContext(ctx, &res, query)
	if err != nil {
		return 0, err
	}

	return res, nil
}

func dbGetAccount(ctx context.Context, db *sqlx.DB, address string) (*accountModel, error) {
	res := &accountModel{}

	query := `SELECT
		id, address, lamports, owner, data, executable, last_updated_at
		FROM ` + accountTableName + `
		WHERE address = $1
		LIMIT 1`

	err := db.GetContext(ctx, res, query, address)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, ledger.ErrAccountNotFound)
	}
	return res, nil
}

func dbGetAllByOwner(ctx context.Context, db *sqlx.DB, owner string, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*accountModel, error) {
	res := []*accountModel{}

	query := `SELECT
		id, address, lamports, owner, data, executable, last_updated_at
		FROM ` + accountTableName + `
		WHERE (owner = $1)
	`

	opts := []interface{}{owner}
	query, opts = q.PaginateQuery(query, opts, cursor, limit, direction)

	err := db.SelectContext(ctx, &res, query, opts...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, ledger.ErrAccountNotFound)
	}

	if len(res) == 0 {
		return nil, ledger.ErrAccountNotFound
	}

	return res, nil
}
