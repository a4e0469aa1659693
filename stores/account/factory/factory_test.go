package factory

import (
	"context"
	"net/url"
	"testing"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/stores/account/memory"
	"github.com/bsv-blockchain/utxoledger/stores/account/sql"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	ctx := context.Background()
	tSettings := &settings.Settings{DataFolder: t.TempDir()}

	u, _ := url.Parse("memory://")
	s, err := NewStore(ctx, ulogger.TestLogger{}, tSettings, u)
	require.NoError(t, err)
	assert.IsType(t, &memory.Memory{}, s)

	u, _ = url.Parse("sqlitememory:///accounts")
	s, err = NewStore(ctx, ulogger.TestLogger{}, tSettings, u)
	require.NoError(t, err)
	assert.IsType(t, &sql.Store{}, s)

	u, _ = url.Parse("bolt:///accounts")
	_, err = NewStore(ctx, ulogger.TestLogger{}, tSettings, u)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))

	_, err = NewStore(ctx, ulogger.TestLogger{}, tSettings, nil)
	require.Error(t, err)
}
