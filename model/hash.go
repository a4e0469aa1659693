package model

import (
	"strconv"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// Hash is double SHA-256, used for transaction ids and hash locks.
func Hash(b []byte) chainhash.Hash {
	return chainhash.DoubleHashH(b)
}

// PasswordHash is the value a PasswordHashLock stores for secret and the
// identity that will spend it.
func PasswordHash(secret string, spender UserID) chainhash.Hash {
	return Hash([]byte(secret + spender.String()))
}

// UtxoKey identifies one output of one transaction in the UTXO index.
type UtxoKey struct {
	TxID  chainhash.Hash
	Index uint16
}

func (k UtxoKey) String() string {
	return k.TxID.String() + ":" + strconv.Itoa(int(k.Index))
}
