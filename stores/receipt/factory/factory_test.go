package factory

import (
	"context"
	"net/url"
	"testing"

	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/stores/receipt/memory"
	"github.com/bsv-blockchain/utxoledger/stores/receipt/sql"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	ctx := context.Background()
	memURL, _ := url.Parse("memory://")

	tSettings := &settings.Settings{}
	tSettings.ReceiptStore.StoreURL = memURL

	s, err := NewStore(ctx, ulogger.TestLogger{}, tSettings, nil)
	require.NoError(t, err)
	assert.IsType(t, &memory.Memory{}, s)

	sqlURL, _ := url.Parse("sqlitememory:///receipts")
	s, err = NewStore(ctx, ulogger.TestLogger{}, tSettings, sqlURL)
	require.NoError(t, err)
	assert.IsType(t, &sql.Store{}, s)

	badURL, _ := url.Parse("redis://localhost")
	_, err = NewStore(ctx, ulogger.TestLogger{}, tSettings, badURL)
	require.Error(t, err)
}
