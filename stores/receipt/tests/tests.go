// Package tests holds behaviour checks shared by every receipt.Store.
package tests

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/stores/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var txid, _ = chainhash.NewHashFromStr("a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90")

func sample() *model.TxReceipts {
	return &model.TxReceipts{
		TxID:        *txid,
		BlockHeight: 1200,
		Receipts: []*model.Receipt{{
			From:       model.NewRegIDUser(model.RegID{Height: 100, Index: 1}),
			To:         model.NullUserID,
			CoinSymbol: "WICC",
			Amount:     50,
			Code:       model.ReceiptTransferUtxoCoins,
		}},
	}
}

func AppendGet(t *testing.T, db receipt.Store) {
	ctx := context.Background()

	require.NoError(t, db.Append(ctx, sample()))

	got, err := db.Get(ctx, *txid)
	require.NoError(t, err)
	assert.Equal(t, *txid, got.TxID)
	assert.Equal(t, uint32(1200), got.BlockHeight)
	require.Len(t, got.Receipts, 1)
	assert.Equal(t, "100-1", got.Receipts[0].From.String())
	assert.True(t, got.Receipts[0].To.IsEmpty())
	assert.Equal(t, uint64(50), got.Receipts[0].Amount)
	assert.Equal(t, model.ReceiptTransferUtxoCoins, got.Receipts[0].Code)
}

func AppendTwice(t *testing.T, db receipt.Store) {
	ctx := context.Background()

	require.NoError(t, db.Append(ctx, sample()))

	err := db.Append(ctx, sample())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTxAlreadyExists))
}

func GetDelete(t *testing.T, db receipt.Store) {
	ctx := context.Background()

	_, err := db.Get(ctx, *txid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	require.NoError(t, db.Append(ctx, sample()))
	require.NoError(t, db.Delete(ctx, *txid))

	_, err = db.Get(ctx, *txid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	// deleting again is a no-op
	require.NoError(t, db.Delete(ctx, *txid))
}
