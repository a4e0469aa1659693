// Package sql keeps the transaction history in postgres or sqlite.
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
	"github.com/bsv-blockchain/utxoledger/stores/chain"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/bsv-blockchain/utxoledger/util"
	"github.com/bsv-blockchain/utxoledger/util/usql"
)

type Store struct {
	logger    ulogger.Logger
	db        *usql.DB
	engine    util.SQLEngine
	dbTimeout time.Duration
	txIndex   bool
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
	CREATE TABLE IF NOT EXISTS transactions (
	 txid   ` + blob + ` PRIMARY KEY
	,height BIGINT NOT NULL
	,raw    ` + blob + ` NOT NULL
	);`

	if _, err = db.ExecContext(ctx, q); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageUnavailableError("could not create transactions table", err)
	}

	if !tSettings.ChainStore.TxIndex {
		logger.Warnf("[ChainStore] txindex is disabled, prior outputs will not resolve")
	}

	return newStore(logger, db, engine, tSettings.UtxoStore.DBTimeout, tSettings.ChainStore.TxIndex), nil
}

func newStore(logger ulogger.Logger, db *usql.DB, engine util.SQLEngine, dbTimeout time.Duration, txIndex bool) *Store {
	if dbTimeout <= 0 {
		dbTimeout = 5 * time.Second
	}

	return &Store{logger: logger, db: db, engine: engine, dbTimeout: dbTimeout, txIndex: txIndex}
}

func (s *Store) Health(ctx context.Context, _ bool) (int, string, error) {
	details := "SQL engine is " + string(s.engine)

	var num int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&num); err != nil {
		return http.StatusServiceUnavailable, details, errors.NewStorageUnavailableError("chain store not reachable", err)
	}

	return http.StatusOK, details, nil
}

func (s *Store) Put(ctx context.Context, tx *model.Transaction, height uint32) error {
	txid := tx.Hash()

	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `INSERT INTO transactions (txid, height, raw) VALUES ($1, $2, $3)`,
		txid[:], int64(height), tx.Bytes()); err != nil {
		if util.IsUniqueViolation(err) {
			return errors.NewTxAlreadyExistsError("tx %s already stored", txid, err)
		}

		return errors.NewStorageError("failed to store tx %s", txid, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, txid chainhash.Hash) error {
	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE txid = $1`, txid[:]); err != nil {
		return errors.NewStorageError("failed to delete tx %s", txid, err)
	}

	return nil
}

func (s *Store) Lookup(ctx context.Context, txid chainhash.Hash) (*model.Transaction, chain.LookupResult, error) {
	if !s.txIndex {
		return nil, chain.IndexDisabled, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	var raw []byte

	if err := s.db.QueryRowContext(ctx, `SELECT raw FROM transactions WHERE txid = $1`, txid[:]).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, chain.NotFound, nil
		}

		return nil, chain.NotFound, errors.NewStorageError("failed to read tx %s", txid, err)
	}

	tx, err := model.NewTransactionFromBytes(raw)
	if err != nil {
		return nil, chain.NotFound, errors.NewStorageError("failed to decode tx %s", txid, err)
	}

	return tx, chain.Found, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
