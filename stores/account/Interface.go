// Package account is the account ledger: free balances per coin symbol,
// addressed by RegID, KeyID or public key.
package account

import (
	"context"

	"github.com/bsv-blockchain/utxoledger/model"
)

// Store returns copies. Changes to an account are only visible to other
// readers after Save.
type Store interface {
	// Get fails with ERR_ACCOUNT_NOT_FOUND when no account matches uid.
	Get(ctx context.Context, uid model.UserID) (*model.Account, error)
	// Save inserts or replaces the account keyed by its KeyID. A RegID
	// already bound to another KeyID is an ERR_ACCOUNT_ERROR.
	Save(ctx context.Context, acct *model.Account) error
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
}
