// Package chain is the transaction history the ledger resolves prior
// outputs from. Lookups only work while the transaction index is enabled.
package chain

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/model"
)

type LookupResult int

const (
	NotFound LookupResult = iota
	Found
	IndexDisabled
)

func (r LookupResult) String() string {
	switch r {
	case Found:
		return "found"
	case IndexDisabled:
		return "index-disabled"
	default:
		return "not-found"
	}
}

type Store interface {
	// Put records an executed transaction at height. A txid already present
	// fails with ERR_TX_ALREADY_EXISTS.
	Put(ctx context.Context, tx *model.Transaction, height uint32) error
	// Delete removes txid, used to undo a failed execution.
	Delete(ctx context.Context, txid chainhash.Hash) error
	// Lookup returns the transaction only with Found. An error means the
	// history could not be read or decoded, never that txid is unknown.
	Lookup(ctx context.Context, txid chainhash.Hash) (*model.Transaction, LookupResult, error)
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
}
