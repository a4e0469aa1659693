package ledger

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/ulogger"
)

type undoAction struct {
	name string
	fn   func(ctx context.Context) error
}

// journal records how to undo each mutation of one execution. Rollback
// replays it newest first.
type journal struct {
	logger  ulogger.Logger
	txid    chainhash.Hash
	actions []undoAction
}

func newJournal(logger ulogger.Logger, txid chainhash.Hash) *journal {
	return &journal{logger: logger, txid: txid}
}

func (j *journal) add(name string, fn func(ctx context.Context) error) {
	j.actions = append(j.actions, undoAction{name: name, fn: fn})
}

func (j *journal) len() int {
	return len(j.actions)
}

// rollback runs every undo action even when some fail and ignores
// cancellation of ctx, a half applied execution is worse than a slow one.
func (j *journal) rollback(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	var errs []error

	for i := len(j.actions) - 1; i >= 0; i-- {
		a := j.actions[i]
		if err := a.fn(ctx); err != nil {
			j.logger.Errorf("[Ledger][%s] rollback step %q failed: %v", j.txid, a.name, err)
			errs = append(errs, err)
		}
	}

	j.actions = nil

	if len(errs) > 0 {
		return errors.NewProcessingError("[Ledger][%s] rollback incomplete", j.txid, errors.Join(errs...))
	}

	return nil
}
