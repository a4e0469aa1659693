package sql

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/stores/chain"
	"github.com/bsv-blockchain/utxoledger/stores/chain/tests"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/bsv-blockchain/utxoledger/util"
	"github.com/bsv-blockchain/utxoledger/util/usql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSqliteMemoryStore(t *testing.T, txIndex bool) *Store {
	t.Helper()

	storeURL, err := url.Parse("sqlitememory:///chain")
	require.NoError(t, err)

	tSettings := &settings.Settings{}
	tSettings.ChainStore.TxIndex = txIndex

	s, err := New(context.Background(), ulogger.TestLogger{}, tSettings, storeURL)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSqliteMemory(t *testing.T) {
	t.Run("put lookup", func(t *testing.T) { tests.PutLookup(t, newSqliteMemoryStore(t, true)) })
	t.Run("index disabled", func(t *testing.T) { tests.IndexDisabled(t, newSqliteMemoryStore(t, false)) })
}

func TestLookupFaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	defer db.Close()

	s := newStore(ulogger.TestLogger{}, usql.Wrap(db), util.Postgres, time.Second, true)
	txid := tests.SampleTx().Hash()

	mock.ExpectQuery("SELECT raw FROM transactions").WillReturnError(errors.NewUnknownError("i/o timeout"))

	_, result, err := s.Lookup(context.Background(), txid)
	require.Error(t, err)
	assert.True(t, errors.IsStorageFault(err))
	assert.NotEqual(t, chain.Found, result)

	mock.ExpectQuery("SELECT raw FROM transactions").
		WillReturnRows(sqlmock.NewRows([]string{"raw"}).AddRow([]byte{0x01}))

	_, _, err = s.Lookup(context.Background(), txid)
	require.Error(t, err)
	assert.True(t, errors.IsStorageFault(err))

	require.NoError(t, mock.ExpectationsWereMet())
}
