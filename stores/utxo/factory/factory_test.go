package factory

import (
	"context"
	"net/url"
	"testing"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/stores/utxo/bolt"
	utxologger "github.com/bsv-blockchain/utxoledger/stores/utxo/logger"
	"github.com/bsv-blockchain/utxoledger/stores/utxo/memory"
	"github.com/bsv-blockchain/utxoledger/stores/utxo/sql"
	"github.com/bsv-blockchain/utxoledger/stores/utxo/tests"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		check   func(t *testing.T, store interface{})
		wantErr bool
	}{
		{"memory", "memory://", func(t *testing.T, s interface{}) { assert.IsType(t, &memory.Memory{}, s) }, false},
		{"sqlitememory", "sqlitememory:///utxos", func(t *testing.T, s interface{}) { assert.IsType(t, &sql.Store{}, s) }, false},
		{"sqlite", "sqlite:///utxos", func(t *testing.T, s interface{}) { assert.IsType(t, &sql.Store{}, s) }, false},
		{"bolt", "bolt:///utxos", func(t *testing.T, s interface{}) { assert.IsType(t, &bolt.Store{}, s) }, false},
		{"logging", "memory://?logging=true", func(t *testing.T, s interface{}) { assert.IsType(t, &utxologger.Store{}, s) }, false},
		{"unknown", "aerospike://localhost:3000/test", nil, true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			storeURL, err := url.Parse(tt.url)
			require.NoError(t, err)

			store, err := NewStore(context.Background(), ulogger.TestLogger{}, &settings.Settings{DataFolder: t.TempDir()}, storeURL)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsConfigurationError(err))

				return
			}

			require.NoError(t, err)
			tt.check(t, store)

			tests.InsertContainsRemove(t, store)

			if c, ok := store.(interface{ Close() error }); ok {
				require.NoError(t, c.Close())
			}
		})
	}
}

func TestNewStore_FromSettings(t *testing.T) {
	storeURL, _ := url.Parse("memory://")
	tSettings := &settings.Settings{}
	tSettings.UtxoStore.StoreURL = storeURL

	store, err := NewStore(context.Background(), ulogger.TestLogger{}, tSettings, nil)
	require.NoError(t, err)
	assert.IsType(t, &memory.Memory{}, store)

	_, err = NewStore(context.Background(), ulogger.TestLogger{}, &settings.Settings{}, nil)
	require.Error(t, err)
}
