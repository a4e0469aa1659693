package model

import (
	"math/bits"

	"github.com/bsv-blockchain/utxoledger/errors"
)

type BalanceOp uint8

const (
	AddFree BalanceOp = iota + 1
	SubFree
)

// Account is the account-model side of the ledger. Only free balances are
// modelled, keyed by coin symbol.
type Account struct {
	KeyID       KeyID
	RegID       RegID
	OwnerPubKey []byte
	Balances    map[string]uint64
}

func NewAccount(keyID KeyID) *Account {
	return &Account{
		KeyID:    keyID,
		Balances: make(map[string]uint64),
	}
}

// IsRegistered reports whether the account has an on-chain RegID.
func (a *Account) IsRegistered() bool {
	return !a.RegID.IsEmpty()
}

func (a *Account) FreeBalance(symbol string) uint64 {
	return a.Balances[symbol]
}

// OperateBalance adds or subtracts amount from the free balance of symbol.
// It fails without side effects on overflow or insufficient funds.
func (a *Account) OperateBalance(symbol string, op BalanceOp, amount uint64) error {
	if a.Balances == nil {
		a.Balances = make(map[string]uint64)
	}

	current := a.Balances[symbol]

	switch op {
	case AddFree:
		sum, carry := bits.Add64(current, amount, 0)
		if carry != 0 {
			return errors.NewAccountError("%s balance overflow adding %d to %d", symbol, amount, current)
		}

		a.Balances[symbol] = sum
	case SubFree:
		if current < amount {
			return errors.NewAccountError("%s balance %d insufficient for %d", symbol, current, amount)
		}

		a.Balances[symbol] = current - amount
	default:
		return errors.NewInvalidArgumentError("unknown balance op %d", op)
	}

	return nil
}

// Owns reports whether uid refers to this account.
func (a *Account) Owns(uid UserID) bool {
	switch uid.Type() {
	case UserIDRegID:
		r, _ := uid.RegID()
		return a.IsRegistered() && r == a.RegID
	case UserIDKeyID:
		k, _ := uid.KeyID()
		return k == a.KeyID
	case UserIDPubKey:
		p, _ := uid.PubKey()
		return KeyIDFromPubKey(p) == a.KeyID
	}

	return false
}

func (a *Account) Clone() *Account {
	c := &Account{
		KeyID:       a.KeyID,
		RegID:       a.RegID,
		OwnerPubKey: append([]byte(nil), a.OwnerPubKey...),
		Balances:    make(map[string]uint64, len(a.Balances)),
	}

	for k, v := range a.Balances {
		c.Balances[k] = v
	}

	return c
}
