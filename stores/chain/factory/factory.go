package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/stores/chain"
	"github.com/bsv-blockchain/utxoledger/stores/chain/memory"
	"github.com/bsv-blockchain/utxoledger/stores/chain/sql"
	"github.com/bsv-blockchain/utxoledger/ulogger"
)

// NewStore opens the chain store at storeURL, defaulting to the chainstore
// setting. The txindex setting applies to every backend.
func NewStore(ctx context.Context, logger ulogger.Logger, tSettings *settings.Settings, storeURL *url.URL) (chain.Store, error) {
	if storeURL == nil {
		storeURL = tSettings.ChainStore.StoreURL
	}

	if storeURL == nil {
		return nil, errors.NewConfigurationError("no chainstore configured")
	}

	logger.Infof("[ChainStore] opening %s store %s txindex=%t", storeURL.Scheme, storeURL.Redacted(), tSettings.ChainStore.TxIndex)

	switch storeURL.Scheme {
	case "memory":
		return memory.New(tSettings.ChainStore.TxIndex), nil
	case "postgres", "sqlite", "sqlitememory":
		return sql.New(ctx, logger, tSettings, storeURL)
	}

	return nil, errors.NewConfigurationError("unknown chainstore scheme: %s", storeURL.Scheme)
}
