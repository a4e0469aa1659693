// Package sql keeps accounts in postgres or sqlite. Balances are stored as a
// JSON object of symbol to amount.
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
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

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

	if err = createSchema(ctx, db, engine); err != nil {
		_ = db.Close()
		return nil, err
	}

	return newStore(logger, db, engine, tSettings.UtxoStore.DBTimeout), nil
}

func newStore(logger ulogger.Logger, db *usql.DB, engine util.SQLEngine, dbTimeout time.Duration) *Store {
	if dbTimeout <= 0 {
		dbTimeout = 5 * time.Second
	}

	return &Store{logger: logger, db: db, engine: engine, dbTimeout: dbTimeout}
}

func createSchema(ctx context.Context, db *usql.DB, engine util.SQLEngine) error {
	blob := "BLOB"
	if engine == util.Postgres {
		blob = "BYTEA"
	}

	q := `
	CREATE TABLE IF NOT EXISTS accounts (
	 keyid        ` + blob + ` PRIMARY KEY
	,regid        TEXT UNIQUE
	,owner_pubkey ` + blob + `
	,balances     TEXT NOT NULL
	);`

	if _, err := db.ExecContext(ctx, q); err != nil {
		return errors.NewStorageUnavailableError("could not create accounts table", err)
	}

	return nil
}

func (s *Store) Health(ctx context.Context, _ bool) (int, string, error) {
	details := "SQL engine is " + string(s.engine)

	var num int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&num); err != nil {
		return http.StatusServiceUnavailable, details, errors.NewStorageUnavailableError("account store not reachable", err)
	}

	return http.StatusOK, details, nil
}

const selectAccount = `SELECT keyid, regid, owner_pubkey, balances FROM accounts `

func (s *Store) Get(ctx context.Context, uid model.UserID) (*model.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	var row *sql.Row

	switch uid.Type() {
	case model.UserIDRegID:
		regID, _ := uid.RegID()
		row = s.db.QueryRowContext(ctx, selectAccount+`WHERE regid = $1`, regID.String())
	case model.UserIDKeyID:
		keyID, _ := uid.KeyID()
		row = s.db.QueryRowContext(ctx, selectAccount+`WHERE keyid = $1`, keyID[:])
	case model.UserIDPubKey:
		pubKey, _ := uid.PubKey()
		keyID := model.KeyIDFromPubKey(pubKey)
		row = s.db.QueryRowContext(ctx, selectAccount+`WHERE keyid = $1`, keyID[:])
	default:
		return nil, errors.NewAccountNotFoundError("account %s not found", uid)
	}

	var (
		keyID    []byte
		regID    sql.NullString
		pubKey   []byte
		balances string
	)

	if err := row.Scan(&keyID, &regID, &pubKey, &balances); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewAccountNotFoundError("account %s not found", uid)
		}

		return nil, errors.NewStorageError("failed to read account %s", uid, err)
	}

	acct := &model.Account{
		OwnerPubKey: pubKey,
		Balances:    make(map[string]uint64),
	}

	if len(keyID) != len(acct.KeyID) {
		return nil, errors.NewStorageError("account %s has a corrupt keyid", uid)
	}

	copy(acct.KeyID[:], keyID)

	if regID.Valid {
		r, err := model.NewRegIDFromString(regID.String)
		if err != nil {
			return nil, errors.NewStorageError("account %s has a corrupt regid", uid, err)
		}

		acct.RegID = r
	}

	if err := json.Unmarshal([]byte(balances), &acct.Balances); err != nil {
		return nil, errors.NewStorageError("account %s has corrupt balances", uid, err)
	}

	return acct, nil
}

func (s *Store) Save(ctx context.Context, acct *model.Account) error {
	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	balances, err := json.Marshal(acct.Balances)
	if err != nil {
		return errors.NewProcessingError("failed to encode balances of %s", acct.KeyID, err)
	}

	var regID sql.NullString
	if acct.IsRegistered() {
		regID = sql.NullString{String: acct.RegID.String(), Valid: true}
	}

	q := `
	INSERT INTO accounts (keyid, regid, owner_pubkey, balances)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (keyid) DO UPDATE SET
	 regid        = excluded.regid
	,owner_pubkey = excluded.owner_pubkey
	,balances     = excluded.balances`

	if _, err = s.db.ExecContext(ctx, q, acct.KeyID[:], regID, acct.OwnerPubKey, string(balances)); err != nil {
		if util.IsUniqueViolation(err) {
			return errors.NewAccountError("regid %s already bound to another account", acct.RegID, err)
		}

		return errors.NewStorageError("failed to save account %s", acct.KeyID, err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
