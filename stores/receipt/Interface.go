// Package receipt stores the transfer receipts produced by executed
// transactions, one set per txid.
package receipt

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/model"
)

type Store interface {
	// Append records the receipts of one transaction. A second Append for
	// the same txid fails with ERR_TX_ALREADY_EXISTS.
	Append(ctx context.Context, receipts *model.TxReceipts) error
	// Get fails with ERR_NOT_FOUND when nothing was appended for txid.
	Get(ctx context.Context, txid chainhash.Hash) (*model.TxReceipts, error)
	// Delete removes the receipts of txid, used to undo a failed execution.
	Delete(ctx context.Context, txid chainhash.Hash) error
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
}
