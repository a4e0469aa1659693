// Package sql keeps receipts in postgres or sqlite as one JSON document per
// transaction.
package sql

import (
	"context"
	"database/sql"
	"net/http"
	"net/url"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/bsv-blockchain/utxoledger/util"
	"github.com/bsv-blockchain/utxoledger/util/usql"
)

type Store struct {
	logger    ulogger.Logger
	db        *usql.DB
	engine    util.SQLEngine
	dbTimeout time.Duration
}

func New(ctx context.Context, logger ulogger.Logger, tSettings *settings.Settings, storeURL *url.URL) (*Store, error) {
	db, err := util.InitSQLDB(ctx, logger, storeURL, tSettings)
	if err != nil {
		return nil, err
	}

	engine := util.SQLEngine(storeURL.Scheme)

	blob := "BLOB"
	if engine == util.Postgres {
		blob = "BYTEA"
	}

	q := `
	CREATE TABLE IF NOT EXISTS receipts (
	 txid         ` + blob + ` PRIMARY KEY
	,block_height BIGINT NOT NULL
	,payload      TEXT   NOT NULL
	);`

	if _, err = db.ExecContext(ctx, q); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageUnavailableError("could not create receipts table", err)
	}

	if _, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_receipts_height ON receipts (block_height);`); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageUnavailableError("could not create receipts index", err)
	}

	return newStore(logger, db, engine, tSettings.UtxoStore.DBTimeout), nil
}

func newStore(logger ulogger.Logger, db *usql.DB, engine util.SQLEngine, dbTimeout time.Duration) *Store {
	if dbTimeout <= 0 {
		dbTimeout = 5 * time.Second
	}

	return &Store{logger: logger, db: db, engine: engine, dbTimeout: dbTimeout}
}

func (s *Store) Health(ctx context.Context, _ bool) (int, string, error) {
	details := "SQL engine is " + string(s.engine)

	var num int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&num); err != nil {
		return http.StatusServiceUnavailable, details, errors.NewStorageUnavailableError("receipt store not reachable", err)
	}

	return http.StatusOK, details, nil
}

func (s *Store) Append(ctx context.Context, receipts *model.TxReceipts) error {
	payload, err := receipts.Bytes()
	if err != nil {
		return errors.NewReceiptError("failed to encode receipts of %s", receipts.TxID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `INSERT INTO receipts (txid, block_height, payload) VALUES ($1, $2, $3)`,
		receipts.TxID[:], int64(receipts.BlockHeight), string(payload))
	if err != nil {
		if util.IsUniqueViolation(err) {
			return errors.NewTxAlreadyExistsError("receipts of %s already stored", receipts.TxID, err)
		}

		return errors.NewStorageError("failed to store receipts of %s", receipts.TxID, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, txid chainhash.Hash) (*model.TxReceipts, error) {
	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	var payload string

	if err := s.db.QueryRowContext(ctx, `SELECT payload FROM receipts WHERE txid = $1`, txid[:]).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("no receipts for %s", txid)
		}

		return nil, errors.NewStorageError("failed to read receipts of %s", txid, err)
	}

	receipts, err := model.NewTxReceiptsFromBytes([]byte(payload))
	if err != nil {
		return nil, errors.NewStorageError("corrupt receipts of %s", txid, err)
	}

	return receipts, nil
}

func (s *Store) Delete(ctx context.Context, txid chainhash.Hash) error {
	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM receipts WHERE txid = $1`, txid[:]); err != nil {
		return errors.NewStorageError("failed to delete receipts of %s", txid, err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
