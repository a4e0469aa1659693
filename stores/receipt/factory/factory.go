package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/stores/receipt"
	"github.com/bsv-blockchain/utxoledger/stores/receipt/memory"
	"github.com/bsv-blockchain/utxoledger/stores/receipt/sql"
	"github.com/bsv-blockchain/utxoledger/ulogger"
)

// NewStore opens the receipt store at storeURL, defaulting to the
// receiptstore setting.
func NewStore(ctx context.Context, logger ulogger.Logger, tSettings *settings.Settings, storeURL *url.URL) (receipt.Store, error) {
	if storeURL == nil {
		storeURL = tSettings.ReceiptStore.StoreURL
	}

	if storeURL == nil {
		return nil, errors.NewConfigurationError("no receiptstore configured")
	}

	logger.Infof("[ReceiptStore] opening %s store %s", storeURL.Scheme, storeURL.Redacted())

	switch storeURL.Scheme {
	case "memory":
		return memory.New(), nil
	case "postgres", "sqlite", "sqlitememory":
		return sql.New(ctx, logger, tSettings, storeURL)
	}

	return nil, errors.NewConfigurationError("unknown receiptstore scheme: %s", storeURL.Scheme)
}
