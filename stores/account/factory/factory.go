package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/stores/account"
	"github.com/bsv-blockchain/utxoledger/stores/account/memory"
	"github.com/bsv-blockchain/utxoledger/stores/account/sql"
	"github.com/bsv-blockchain/utxoledger/ulogger"
)

// NewStore opens the account store at storeURL, defaulting to the
// accountstore setting. Schemes: memory, sqlite, sqlitememory, postgres.
func NewStore(ctx context.Context, logger ulogger.Logger, tSettings *settings.Settings, storeURL *url.URL) (account.Store, error) {
	if storeURL == nil {
		storeURL = tSettings.AccountStore.StoreURL
	}

	if storeURL == nil {
		return nil, errors.NewConfigurationError("no accountstore configured")
	}

	logger.Infof("[AccountStore] opening %s store %s", storeURL.Scheme, storeURL.Redacted())

	switch storeURL.Scheme {
	case "memory":
		return memory.New(), nil
	case "postgres", "sqlite", "sqlitememory":
		return sql.New(ctx, logger, tSettings, storeURL)
	}

	return nil, errors.NewConfigurationError("unknown accountstore scheme: %s", storeURL.Scheme)
}
