// Package usql adds per statement timings to database/sql. Each query text
// gets its own child of the gocore "SQL" stat.
package usql

import (
	"context"
	"database/sql"
	"time"

	"github.com/ordishs/gocore"
)

var sqlStat = gocore.NewStat("SQL")

func track(query string, start time.Time) {
	sqlStat.NewStat(query).AddTime(start)
}

// DB is a *sql.DB whose statement methods are timed. Everything else is the
// embedded handle.
type DB struct {
	*sql.DB
}

func Open(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	return Wrap(db), nil
}

// Wrap adopts a handle opened elsewhere, such as one from sqlmock.
func Wrap(db *sql.DB) *DB {
	return &DB{DB: db}
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	defer track(query, gocore.CurrentTime())
	return db.DB.QueryContext(ctx, query, args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	defer track(query, gocore.CurrentTime())
	return db.DB.QueryRowContext(ctx, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	defer track(query, gocore.CurrentTime())
	return db.DB.ExecContext(ctx, query, args...)
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &Tx{Tx: tx}, nil
}

// Tx is the timed counterpart of *sql.Tx.
type Tx struct {
	*sql.Tx
}

func (tx *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	defer track(query, gocore.CurrentTime())
	return tx.Tx.ExecContext(ctx, query, args...)
}

func (tx *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	defer track(query, gocore.CurrentTime())
	return tx.Tx.QueryRowContext(ctx, query, args...)
}
