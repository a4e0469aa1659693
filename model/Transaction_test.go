package model

import (
	"bytes"
	"sync"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/go-wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testPubKey = bytes.Repeat([]byte{0x02}, 33)
	testPrevID = chainhash.DoubleHashH([]byte("prev"))
)

func newTestTx() *Transaction {
	return &Transaction{
		Version:         CurrentTxVersion,
		TxUID:           NewRegIDUser(RegID{Height: 100, Index: 2}),
		ValidHeight:     1000,
		CoinSymbol:      "WICC",
		FeeSymbol:       "WICC",
		Fees:            50,
		PriorUtxoSecret: "",
		Inputs: []*Input{
			{
				PrevTxID:     testPrevID,
				PrevOutIndex: 1,
				Unlocks: []UnlockCondition{
					&PasswordUnlock{Secret: "open sesame"},
					&MultiSignUnlock{Signatures: [][]byte{{0x30, 0x01}, {0x30, 0x02}}},
				},
			},
		},
		Outputs: []*Output{
			{
				Amount:     300,
				CoinSymbol: "WICC",
				Locks: []LockCondition{
					&SingleAddressLock{Owner: NewPubKeyUser(testPubKey)},
					&ClaimLock{Height: 1200},
				},
			},
			{
				Amount:     100,
				CoinSymbol: "WICC",
				Locks: []LockCondition{
					&MultiSignAddressLock{Threshold: 2, PubKeys: [][]byte{testPubKey, testPubKey}},
					&PasswordHashLock{Hash: PasswordHash("s", NewKeyIDUser(KeyID{1}))},
					&ReclaimLock{Height: 5000},
				},
			},
		},
		Memo:      []byte("hello"),
		Signature: []byte{0x30, 0x44},
	}
}

func TestTransaction_RoundTrip(t *testing.T) {
	tx := newTestTx()

	decoded, err := NewTransactionFromBytes(tx.Bytes())
	require.NoError(t, err)

	assert.Equal(t, tx.Hash(), decoded.Hash())
	assert.Equal(t, tx.Bytes(), decoded.Bytes())
	assert.True(t, tx.TxUID.Equal(decoded.TxUID))
	assert.Equal(t, tx.Memo, decoded.Memo)
	assert.Equal(t, tx.Signature, decoded.Signature)

	require.Len(t, decoded.Inputs, 1)
	require.Len(t, decoded.Inputs[0].Unlocks, 2)
	assert.Equal(t, "open sesame", decoded.Inputs[0].Unlocks[0].(*PasswordUnlock).Secret)
	assert.Len(t, decoded.Inputs[0].Unlocks[1].(*MultiSignUnlock).Signatures, 2)

	require.Len(t, decoded.Outputs, 2)
	assert.Equal(t, uint32(1200), decoded.Outputs[0].Locks[1].(*ClaimLock).Height)
	assert.Equal(t, uint8(2), decoded.Outputs[1].Locks[0].(*MultiSignAddressLock).Threshold)
	assert.Equal(t, uint32(5000), decoded.Outputs[1].Locks[2].(*ReclaimLock).Height)
}

func TestTransaction_HashExcludesSignatures(t *testing.T) {
	tx := newTestTx()
	h := tx.Hash()

	other := newTestTx()
	other.Signature = []byte{0x30, 0x45, 0x01}
	other.Inputs[0].Unlocks[1] = &MultiSignUnlock{Signatures: [][]byte{{0x99}}}
	assert.Equal(t, h, other.Hash())

	changed := newTestTx()
	changed.Inputs[0].Unlocks[0] = &PasswordUnlock{Secret: "other"}
	assert.NotEqual(t, h, changed.Hash())

	changed = newTestTx()
	changed.Fees = 51
	assert.NotEqual(t, h, changed.Hash())
}

func TestTransaction_HashConcurrent(t *testing.T) {
	tx, err := NewTransactionFromBytes(newTestTx().Bytes())
	require.NoError(t, err)

	want := newTestTx().Hash()

	var wg sync.WaitGroup

	hashes := make([]chainhash.Hash, 8)

	for i := range hashes {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			hashes[i] = tx.Hash()
		}(i)
	}

	wg.Wait()

	for _, h := range hashes {
		assert.Equal(t, want, h)
	}
}

func TestTransaction_UnknownConditionSurvivesDecode(t *testing.T) {
	tx := newTestTx()
	tx.Outputs[0].Locks = append(tx.Outputs[0].Locks, &UnknownLock{Tag: 42, Payload: []byte{1, 2, 3}})

	decoded, err := NewTransactionFromBytes(tx.Bytes())
	require.NoError(t, err)

	unknown, ok := decoded.Outputs[0].Locks[2].(*UnknownLock)
	require.True(t, ok)
	assert.Equal(t, CondType(42), unknown.CondType())
	assert.Equal(t, []byte{1, 2, 3}, unknown.Payload)
}

func TestTransaction_DecodeErrors(t *testing.T) {
	_, err := NewTransactionFromBytes(nil)
	require.Error(t, err)

	_, err = NewTransactionFromBytes([]byte{0x01})
	require.Error(t, err)

	b := newTestTx().Bytes()
	_, err = NewTransactionFromBytes(b[:len(b)-3])
	require.Error(t, err)
}

func TestTransaction_DecodeRejectsWideFields(t *testing.T) {
	tx := newTestTx()

	t.Run("version", func(t *testing.T) {
		buf := bytes.NewBuffer([]byte{byte(UtxoTransferTx)})
		require.NoError(t, wire.WriteVarInt(buf, 0, 1<<32+1))

		_, err := NewTransactionFromBytes(buf.Bytes())
		require.ErrorContains(t, err, "version")
	})

	t.Run("valid height", func(t *testing.T) {
		buf := bytes.NewBuffer([]byte{byte(UtxoTransferTx)})
		require.NoError(t, wire.WriteVarInt(buf, 0, uint64(CurrentTxVersion)))
		require.NoError(t, tx.TxUID.write(buf))
		require.NoError(t, wire.WriteVarInt(buf, 0, 1<<32+1000))

		_, err := NewTransactionFromBytes(buf.Bytes())
		require.ErrorContains(t, err, "valid height")
	})
}

func TestTransaction_JSON(t *testing.T) {
	tx := newTestTx()

	j := tx.ToJSON()
	assert.Equal(t, "UTXO_TRANSFER_TX", j.TxType)
	assert.Equal(t, tx.Hash().String(), j.Hash)
	assert.Equal(t, "100-2", j.TxUID)
	assert.Equal(t, uint64(50), j.Fees)
	assert.Equal(t, "hello", j.Memo)
	require.Len(t, j.Utxo.Vouts, 2)
	assert.Equal(t, "P2SA", j.Utxo.Vouts[0].Conds[0].CondType)

	b, err := tx.MarshalJSON()
	require.NoError(t, err)

	for _, field := range []string{"txtype", "hash", "ver", "tx_uid", "fee_symbol", "fees", "valid_height", "prior_utxo_txid", "prior_utxo_secret", "utxo", "memo"} {
		assert.Contains(t, string(b), `"`+field+`"`)
	}

	assert.Contains(t, tx.String(), "txType=UTXO_TRANSFER_TX")
	assert.Contains(t, tx.String(), "llFees=50")
}

func TestPasswordHash(t *testing.T) {
	uid := NewRegIDUser(RegID{Height: 7, Index: 1})

	assert.Equal(t, Hash([]byte("secret7-1")), PasswordHash("secret", uid))
	assert.NotEqual(t, PasswordHash("secret", uid), PasswordHash("secret", NewRegIDUser(RegID{Height: 7, Index: 2})))
}
