// Package utxo defines the UTXO index: the set of transaction outputs that
// exist and have not yet been spent.
//
// The index only tracks presence. Output contents (amount, symbol, locking
// conditions) are read from the creating transaction through the chain
// store, so a key in the index is all the spend path needs.
package utxo

import (
	"context"

	"github.com/bsv-blockchain/utxoledger/model"
)

// Store is implemented by memory, sql and bolt.
//
// Insert of a key that is already present fails with ERR_UTXO_EXISTS.
// Remove of a key that is absent fails with ERR_UTXO_NOT_FOUND. Any other
// failure is a storage fault (ERR_STORAGE_*) and says nothing about the key.
type Store interface {
	Contains(ctx context.Context, key model.UtxoKey) (bool, error)
	Insert(ctx context.Context, key model.UtxoKey) error
	Remove(ctx context.Context, key model.UtxoKey) error
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
}
