package sql

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/stores/receipt/tests"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/bsv-blockchain/utxoledger/util"
	"github.com/bsv-blockchain/utxoledger/util/usql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSqliteMemoryStore(t *testing.T) *Store {
	t.Helper()

	storeURL, err := url.Parse("sqlitememory:///receipts")
	require.NoError(t, err)

	s, err := New(context.Background(), ulogger.TestLogger{}, &settings.Settings{}, storeURL)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSqliteMemory(t *testing.T) {
	t.Run("append get", func(t *testing.T) { tests.AppendGet(t, newSqliteMemoryStore(t)) })
	t.Run("append twice", func(t *testing.T) { tests.AppendTwice(t, newSqliteMemoryStore(t)) })
	t.Run("get delete", func(t *testing.T) { tests.GetDelete(t, newSqliteMemoryStore(t)) })
}

func TestCorruptPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	defer db.Close()

	s := newStore(ulogger.TestLogger{}, usql.Wrap(db), util.Postgres, time.Second)

	mock.ExpectQuery("SELECT payload FROM receipts").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(`{"txid":"zz"}`))

	_, err = s.Get(context.Background(), chainhash.Hash{})
	require.Error(t, err)
	assert.True(t, errors.IsStorageFault(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
