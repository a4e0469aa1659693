// Package sql stores the UTXO index in postgres or sqlite. One row per
// unspent output, keyed by (txid, idx).
package sql

import (
	"context"
	"database/sql"
	"net/http"
	"net/url"
	"time"

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
	initPrometheusMetrics()

	db, err := util.InitSQLDB(ctx, logger, storeURL, tSettings)
	if err != nil {
		return nil, err
	}

	engine := util.SQLEngine(storeURL.Scheme)

	if err = createSchema(ctx, db, engine); err != nil {
		_ = db.Close()
		return nil, err
	}

	return newStore(logger, db, engine, tSettings.UtxoStore.DBTimeout), nil
}

func newStore(logger ulogger.Logger, db *usql.DB, engine util.SQLEngine, dbTimeout time.Duration) *Store {
	initPrometheusMetrics()

	if dbTimeout <= 0 {
		dbTimeout = 5 * time.Second
	}

	return &Store{
		logger:    logger,
		db:        db,
		engine:    engine,
		dbTimeout: dbTimeout,
	}
}

func createSchema(ctx context.Context, db *usql.DB, engine util.SQLEngine) error {
	var q string

	switch engine {
	case util.Postgres:
		q = `
		CREATE TABLE IF NOT EXISTS utxos (
		 txid        BYTEA       NOT NULL
		,idx         INTEGER     NOT NULL
		,inserted_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		,PRIMARY KEY (txid, idx)
		);`
	case util.Sqlite, util.SqliteMemory:
		q = `
		CREATE TABLE IF NOT EXISTS utxos (
		 txid        BLOB    NOT NULL
		,idx         INTEGER NOT NULL
		,inserted_at TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP
		,PRIMARY KEY (txid, idx)
		);`
	default:
		return errors.NewConfigurationError("unknown database engine: %s", engine)
	}

	if _, err := db.ExecContext(ctx, q); err != nil {
		return errors.NewStorageUnavailableError("could not create utxos table", err)
	}

	return nil
}

func (s *Store) Health(ctx context.Context, _ bool) (int, string, error) {
	details := "SQL engine is " + string(s.engine)

	var num int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&num); err != nil {
		return http.StatusServiceUnavailable, details, errors.NewStorageUnavailableError("utxo store not reachable", err)
	}

	return http.StatusOK, details, nil
}

func (s *Store) Contains(ctx context.Context, key model.UtxoKey) (bool, error) {
	prometheusUtxoContains.Inc()

	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	var one int

	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM utxos WHERE txid = $1 AND idx = $2`, key.TxID[:], int(key.Index)).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, s.storageError("Contains", key, err)
	}

	return true, nil
}

func (s *Store) Insert(ctx context.Context, key model.UtxoKey) error {
	prometheusUtxoInsert.Inc()

	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `INSERT INTO utxos (txid, idx) VALUES ($1, $2)`, key.TxID[:], int(key.Index)); err != nil {
		if util.IsUniqueViolation(err) {
			return errors.NewUtxoExistsError("utxo %s already exists", key)
		}

		return s.storageError("Insert", key, err)
	}

	return nil
}

func (s *Store) Remove(ctx context.Context, key model.UtxoKey) error {
	prometheusUtxoRemove.Inc()

	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM utxos WHERE txid = $1 AND idx = $2`, key.TxID[:], int(key.Index))
	if err != nil {
		return s.storageError("Remove", key, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return s.storageError("Remove", key, err)
	}

	if rows == 0 {
		return errors.NewUtxoNotFoundError("utxo %s not found", key)
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) storageError(function string, key model.UtxoKey, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		prometheusUtxoErrors.WithLabelValues(function, "timeout").Inc()
		return errors.NewStorageUnavailableError("[%s] timeout on utxo %s", function, key, err)
	}

	prometheusUtxoErrors.WithLabelValues(function, "storage").Inc()

	return errors.NewStorageError("[%s] failed on utxo %s", function, key, err)
}
