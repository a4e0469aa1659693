// Package tests holds behaviour checks shared by every chain.Store.
package tests

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/stores/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func SampleTx() *model.Transaction {
	return &model.Transaction{
		Version:     model.CurrentTxVersion,
		TxUID:       model.NewRegIDUser(model.RegID{Height: 100, Index: 1}),
		ValidHeight: 1000,
		CoinSymbol:  "WICC",
		FeeSymbol:   "WICC",
		Fees:        30,
		Outputs: []*model.Output{{
			Amount:     700,
			CoinSymbol: "WICC",
			Locks: []model.LockCondition{
				&model.SingleAddressLock{Owner: model.NewRegIDUser(model.RegID{Height: 200, Index: 3})},
				&model.ClaimLock{Height: 1500},
			},
		}},
		Memo: []byte("payroll"),
	}
}

// PutLookup needs a store with the tx index enabled.
func PutLookup(t *testing.T, db chain.Store) {
	ctx := context.Background()
	tx := SampleTx()
	txid := tx.Hash()

	_, result, err := db.Lookup(ctx, txid)
	require.NoError(t, err)
	assert.Equal(t, chain.NotFound, result)

	require.NoError(t, db.Put(ctx, tx, 1000))

	got, result, err := db.Lookup(ctx, txid)
	require.NoError(t, err)
	require.Equal(t, chain.Found, result)
	assert.Equal(t, txid, got.Hash())
	require.Len(t, got.Outputs, 1)
	assert.Equal(t, uint64(700), got.Outputs[0].Amount)
	assert.Len(t, got.Outputs[0].Locks, 2)

	err = db.Put(ctx, tx, 1001)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTxAlreadyExists))

	require.NoError(t, db.Delete(ctx, txid))

	_, result, err = db.Lookup(ctx, txid)
	require.NoError(t, err)
	assert.Equal(t, chain.NotFound, result)
}

// IndexDisabled needs a store with the tx index disabled.
func IndexDisabled(t *testing.T, db chain.Store) {
	ctx := context.Background()
	tx := SampleTx()

	require.NoError(t, db.Put(ctx, tx, 1000))

	got, result, err := db.Lookup(ctx, tx.Hash())
	require.NoError(t, err)
	assert.Equal(t, chain.IndexDisabled, result)
	assert.Nil(t, got)
}
