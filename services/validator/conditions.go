package validator

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
)

// Direction says which side of a transfer a lock condition is checked for.
// On an output the lock is being created, on an input it is being satisfied.
type Direction uint8

const (
	InputDirection Direction = iota
	OutputDirection
)

func (d Direction) String() string {
	if d == OutputDirection {
		return "output"
	}

	return "input"
}

// EvalContext is what the evaluator knows about the spending transaction.
type EvalContext struct {
	Height uint32
	TxHash chainhash.Hash
	// Spender is the sender account, when known. It lets an owner identity
	// given as KeyID or public key match a sender identified by RegID.
	Spender *model.Account
}

// Evaluator checks one lock condition at a time. It holds no state besides
// the verifier used for multi-sign locks and is safe for concurrent use.
type Evaluator struct {
	verifier SignatureVerifier
}

func NewEvaluator(verifier SignatureVerifier) *Evaluator {
	if verifier == nil {
		verifier = Secp256k1Verifier{}
	}

	return &Evaluator{verifier: verifier}
}

// Evaluate returns nil when cond is satisfied and a reject error carrying the
// reason otherwise. priorOwner is the sender of the transaction that created
// the output, currentOwner the sender of the spending transaction.
func (e *Evaluator) Evaluate(dir Direction, ec EvalContext, priorOwner, currentOwner model.UserID,
	unlocks []model.UnlockCondition, cond model.LockCondition) error {
	switch c := cond.(type) {
	case *model.SingleAddressLock:
		return e.singleAddress(dir, ec, currentOwner, c)
	case *model.MultiSignAddressLock:
		return e.multiSign(dir, ec, unlocks, c)
	case *model.PasswordHashLock:
		return e.passwordHash(dir, currentOwner, unlocks, c)
	case *model.ClaimLock:
		return e.claim(dir, ec, c)
	case *model.ReclaimLock:
		return e.reclaim(dir, ec, priorOwner, currentOwner, c)
	case nil:
		return errors.NewRejectError(errors.ReasonCondTypeErr, "nil %s condition", dir)
	default:
		return errors.NewRejectError(errors.ReasonCondTypeErr, "unsupported %s condition %s", dir, cond.CondType())
	}
}

// EvaluateAll evaluates every lock in order and stops at the first reject.
func (e *Evaluator) EvaluateAll(dir Direction, ec EvalContext, priorOwner, currentOwner model.UserID,
	unlocks []model.UnlockCondition, locks []model.LockCondition) error {
	for _, cond := range locks {
		if err := e.Evaluate(dir, ec, priorOwner, currentOwner, unlocks, cond); err != nil {
			return err
		}
	}

	return nil
}

func sameOwner(ec EvalContext, owner, current model.UserID) bool {
	if owner.IsEmpty() {
		return false
	}

	if owner.Equal(current) {
		return true
	}

	return ec.Spender != nil && ec.Spender.Owns(owner)
}

func (e *Evaluator) singleAddress(dir Direction, ec EvalContext, current model.UserID, c *model.SingleAddressLock) error {
	if dir == OutputDirection {
		if c.Owner.IsEmpty() {
			return errors.NewRejectError(errors.ReasonUIDEmpty, "single address lock without owner")
		}

		return nil
	}

	if !sameOwner(ec, c.Owner, current) {
		return errors.NewRejectError(errors.ReasonUIDMismatch, "output owned by %s, spender is %s", c.Owner, current)
	}

	return nil
}

func (e *Evaluator) multiSign(dir Direction, ec EvalContext, unlocks []model.UnlockCondition, c *model.MultiSignAddressLock) error {
	if len(c.PubKeys) == 0 {
		return errors.NewRejectError(errors.ReasonUIDEmpty, "multi-sign lock without keys")
	}

	if c.Threshold == 0 || int(c.Threshold) > len(c.PubKeys) {
		return errors.NewRejectError(errors.ReasonMultiSignThresholdErr, "multi-sign threshold %d of %d keys", c.Threshold, len(c.PubKeys))
	}

	if dir == OutputDirection {
		for _, k := range c.PubKeys {
			if !ValidPubKey(k) {
				return errors.NewRejectError(errors.ReasonBadPublicKey, "multi-sign lock has invalid key %x", k)
			}
		}

		return nil
	}

	var sigs [][]byte

	found := false

	for _, u := range unlocks {
		if m, ok := u.(*model.MultiSignUnlock); ok {
			found = true

			sigs = append(sigs, m.Signatures...)
		}
	}

	if !found {
		return errors.NewRejectError(errors.ReasonCondMissing, "no multi-sign unlock supplied")
	}

	// each key counts once however many signatures it has
	seen := make(map[string]struct{}, len(c.PubKeys))
	signed := 0

	for _, k := range c.PubKeys {
		if _, dup := seen[string(k)]; dup {
			continue
		}

		seen[string(k)] = struct{}{}

		for _, sig := range sigs {
			if e.verifier.Verify(k, ec.TxHash[:], sig) {
				signed++
				break
			}
		}
	}

	if signed < int(c.Threshold) {
		return errors.NewRejectError(errors.ReasonMultiSignNotMet, "%d of %d required signatures", signed, c.Threshold)
	}

	return nil
}

func (e *Evaluator) passwordHash(dir Direction, current model.UserID, unlocks []model.UnlockCondition, c *model.PasswordHashLock) error {
	if dir == OutputDirection {
		if c.Hash.IsEqual(&chainhash.Hash{}) {
			return errors.NewRejectError(errors.ReasonEmptyHashLock, "password hash lock with zero hash")
		}

		return nil
	}

	found := false

	for _, u := range unlocks {
		p, ok := u.(*model.PasswordUnlock)
		if !ok {
			continue
		}

		found = true

		if model.PasswordHash(p.Secret, current) == c.Hash {
			return nil
		}
	}

	if !found {
		return errors.NewRejectError(errors.ReasonCondMissing, "no password unlock supplied")
	}

	return errors.NewRejectError(errors.ReasonSecretMismatch, "secret does not match hash lock for %s", current)
}

func (e *Evaluator) claim(dir Direction, ec EvalContext, c *model.ClaimLock) error {
	if dir == OutputDirection {
		if c.Height == 0 {
			return errors.NewRejectError(errors.ReasonClaimLockEmpty, "claim lock at height 0")
		}

		return nil
	}

	if ec.Height <= c.Height {
		return errors.NewRejectError(errors.ReasonTooEarlyToClaim, "claimable after %d, height is %d", c.Height, ec.Height)
	}

	return nil
}

// reclaim only constrains the original sender. Anyone else passes.
func (e *Evaluator) reclaim(dir Direction, ec EvalContext, prior, current model.UserID, c *model.ReclaimLock) error {
	if dir == OutputDirection {
		if c.Height == 0 {
			return errors.NewRejectError(errors.ReasonReclaimLockEmpty, "reclaim lock at height 0")
		}

		return nil
	}

	if !sameOwner(ec, prior, current) {
		return nil
	}

	if c.Height == 0 || ec.Height <= c.Height {
		return errors.NewRejectError(errors.ReasonTooEarlyToReclaim, "reclaimable after %d, height is %d", c.Height, ec.Height)
	}

	return nil
}
