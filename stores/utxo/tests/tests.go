// Package tests holds behaviour checks shared by every utxo.Store
// implementation. Each backend's _test.go calls these with a fresh store.
package tests

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/stores/utxo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	TxID1, _ = chainhash.NewHashFromStr("5e3bc5947f48cec766090aa17f309fd16259de029dcef5d306b514848c9687c7")
	TxID2, _ = chainhash.NewHashFromStr("663bc5947f48cec766090aa17f309fd16259de029dcef5d306b514848c9687c8")

	Key0 = model.UtxoKey{TxID: *TxID1, Index: 0}
	Key1 = model.UtxoKey{TxID: *TxID1, Index: 1}
	Key2 = model.UtxoKey{TxID: *TxID2, Index: 0}
)

func InsertContainsRemove(t *testing.T, db utxo.Store) {
	ctx := context.Background()

	found, err := db.Contains(ctx, Key0)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.Insert(ctx, Key0))
	require.NoError(t, db.Insert(ctx, Key1))

	for _, key := range []model.UtxoKey{Key0, Key1} {
		found, err = db.Contains(ctx, key)
		require.NoError(t, err)
		assert.True(t, found, key.String())
	}

	// same txid, other index and other txid, same index are distinct keys
	found, err = db.Contains(ctx, Key2)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.Remove(ctx, Key0))

	found, err = db.Contains(ctx, Key0)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = db.Contains(ctx, Key1)
	require.NoError(t, err)
	assert.True(t, found)
}

func InsertExisting(t *testing.T, db utxo.Store) {
	ctx := context.Background()

	require.NoError(t, db.Insert(ctx, Key0))

	err := db.Insert(ctx, Key0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUtxoExists))
}

func RemoveAbsent(t *testing.T, db utxo.Store) {
	ctx := context.Background()

	err := db.Remove(ctx, Key2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUtxoNotFound))

	require.NoError(t, db.Insert(ctx, Key2))
	require.NoError(t, db.Remove(ctx, Key2))

	err = db.Remove(ctx, Key2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUtxoNotFound))
}

// ConcurrentRemove checks that exactly one of many racing removals of the
// same key wins.
func ConcurrentRemove(t *testing.T, db utxo.Store) {
	ctx := context.Background()

	require.NoError(t, db.Insert(ctx, Key1))

	const workers = 8

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		removed  int
		notFound int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := db.Remove(ctx, Key1)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				removed++
			case errors.Is(err, errors.ErrUtxoNotFound):
				notFound++
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, removed)
	assert.Equal(t, workers-1, notFound)
}

func Health(t *testing.T, db utxo.Store) {
	status, msg, err := db.Health(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, msg)
}
