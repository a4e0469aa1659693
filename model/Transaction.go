package model

import (
	"bytes"
	"io"
	"sync/atomic"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/go-wire"
	"github.com/bsv-blockchain/utxoledger/errors"
)

type TxType uint8

const (
	UtxoTransferTx TxType = 0x0d
)

func (t TxType) String() string {
	if t == UtxoTransferTx {
		return "UTXO_TRANSFER_TX"
	}

	return "UNKNOWN_TX"
}

const (
	CurrentTxVersion uint32 = 1

	MaxInputs     = 100
	MaxOutputs    = 100
	MaxMemoLength = 256
)

// Input spends output PrevOutIndex of PrevTxID.
type Input struct {
	PrevTxID     chainhash.Hash
	PrevOutIndex uint16
	Unlocks      []UnlockCondition
}

type Output struct {
	Amount     uint64
	CoinSymbol string
	Locks      []LockCondition
}

// Transaction is the conditional UTXO transfer. Once hashed it must not be
// modified, the hash is cached.
type Transaction struct {
	Version         uint32
	TxUID           UserID
	ValidHeight     uint32
	CoinSymbol      string
	FeeSymbol       string
	Fees            uint64
	PriorUtxoTxID   chainhash.Hash
	PriorUtxoSecret string
	Inputs          []*Input
	Outputs         []*Output
	Memo            []byte
	Signature       []byte

	hash atomic.Pointer[chainhash.Hash]
}

func (tx *Transaction) TxType() TxType {
	return UtxoTransferTx
}

// Hash is the transaction id and also the message the sender signs. The
// sender signature and multi-sign unlock signatures are not part of it.
func (tx *Transaction) Hash() chainhash.Hash {
	if h := tx.hash.Load(); h != nil {
		return *h
	}

	buf := bytes.NewBuffer(nil)
	_ = tx.write(buf, true)

	h := Hash(buf.Bytes())
	tx.hash.Store(&h)

	return h
}

// Bytes is the full serialized form including signatures.
func (tx *Transaction) Bytes() []byte {
	buf := bytes.NewBuffer(nil)
	_ = tx.write(buf, false)

	return buf.Bytes()
}

func (tx *Transaction) write(w io.Writer, forHash bool) error {
	if _, err := w.Write([]byte{byte(tx.TxType())}); err != nil {
		return err
	}

	if err := wire.WriteVarInt(w, 0, uint64(tx.Version)); err != nil {
		return err
	}

	if err := tx.TxUID.write(w); err != nil {
		return err
	}

	if err := wire.WriteVarInt(w, 0, uint64(tx.ValidHeight)); err != nil {
		return err
	}

	if err := wire.WriteVarString(w, 0, tx.CoinSymbol); err != nil {
		return err
	}

	if err := wire.WriteVarString(w, 0, tx.FeeSymbol); err != nil {
		return err
	}

	if err := wire.WriteVarInt(w, 0, tx.Fees); err != nil {
		return err
	}

	if _, err := w.Write(tx.PriorUtxoTxID[:]); err != nil {
		return err
	}

	if err := wire.WriteVarString(w, 0, tx.PriorUtxoSecret); err != nil {
		return err
	}

	if err := wire.WriteVarInt(w, 0, uint64(len(tx.Inputs))); err != nil {
		return err
	}

	for _, in := range tx.Inputs {
		if _, err := w.Write(in.PrevTxID[:]); err != nil {
			return err
		}

		if err := wire.WriteVarInt(w, 0, uint64(in.PrevOutIndex)); err != nil {
			return err
		}

		if err := wire.WriteVarInt(w, 0, uint64(len(in.Unlocks))); err != nil {
			return err
		}

		for _, c := range in.Unlocks {
			if err := writeCondition(w, c.CondType(), c.payload(forHash)); err != nil {
				return err
			}
		}
	}

	if err := wire.WriteVarInt(w, 0, uint64(len(tx.Outputs))); err != nil {
		return err
	}

	for _, out := range tx.Outputs {
		if err := wire.WriteVarInt(w, 0, out.Amount); err != nil {
			return err
		}

		if err := wire.WriteVarString(w, 0, out.CoinSymbol); err != nil {
			return err
		}

		if err := wire.WriteVarInt(w, 0, uint64(len(out.Locks))); err != nil {
			return err
		}

		for _, c := range out.Locks {
			if err := writeCondition(w, c.CondType(), c.payload()); err != nil {
				return err
			}
		}
	}

	if err := wire.WriteVarBytes(w, 0, tx.Memo); err != nil {
		return err
	}

	if forHash {
		return nil
	}

	return wire.WriteVarBytes(w, 0, tx.Signature)
}

func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	return NewTransactionFromReader(bytes.NewReader(b))
}

func NewTransactionFromReader(r io.Reader) (*Transaction, error) {
	tx := &Transaction{}

	var txType [1]byte
	if _, err := io.ReadFull(r, txType[:]); err != nil {
		return nil, errors.NewProcessingError("error reading tx type", err)
	}

	if TxType(txType[0]) != UtxoTransferTx {
		return nil, errors.NewProcessingError("unexpected tx type %d", txType[0])
	}

	version, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.NewProcessingError("error reading version", err)
	}

	if tx.Version, err = safeconversion.Uint64ToUint32(version); err != nil {
		return nil, errors.NewProcessingError("version %d out of range", version, err)
	}

	if tx.TxUID, err = readUserID(r); err != nil {
		return nil, errors.NewProcessingError("error reading tx uid", err)
	}

	validHeight, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.NewProcessingError("error reading valid height", err)
	}

	if tx.ValidHeight, err = safeconversion.Uint64ToUint32(validHeight); err != nil {
		return nil, errors.NewProcessingError("valid height %d out of range", validHeight, err)
	}

	if tx.CoinSymbol, err = wire.ReadVarString(r, 0); err != nil {
		return nil, errors.NewProcessingError("error reading coin symbol", err)
	}

	if tx.FeeSymbol, err = wire.ReadVarString(r, 0); err != nil {
		return nil, errors.NewProcessingError("error reading fee symbol", err)
	}

	if tx.Fees, err = wire.ReadVarInt(r, 0); err != nil {
		return nil, errors.NewProcessingError("error reading fees", err)
	}

	if _, err = io.ReadFull(r, tx.PriorUtxoTxID[:]); err != nil {
		return nil, errors.NewProcessingError("error reading prior utxo txid", err)
	}

	if tx.PriorUtxoSecret, err = wire.ReadVarString(r, 0); err != nil {
		return nil, errors.NewProcessingError("error reading prior utxo secret", err)
	}

	if tx.Inputs, err = readInputs(r); err != nil {
		return nil, err
	}

	if tx.Outputs, err = readOutputs(r); err != nil {
		return nil, err
	}

	if tx.Memo, err = wire.ReadVarBytes(r, 0, MaxMemoLength*4, "memo"); err != nil {
		return nil, errors.NewProcessingError("error reading memo", err)
	}

	if tx.Signature, err = wire.ReadVarBytes(r, 0, 80, "signature"); err != nil {
		return nil, errors.NewProcessingError("error reading signature", err)
	}

	return tx, nil
}

// counts are bounded above the consensus limits so that oversized
// transactions still decode and get rejected with a proper reason
func readInputs(r io.Reader) ([]*Input, error) {
	n, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.NewProcessingError("error reading input count", err)
	}

	if n > 10*MaxInputs {
		return nil, errors.NewProcessingError("input count %d too large", n)
	}

	inputs := make([]*Input, 0, n)

	for i := uint64(0); i < n; i++ {
		in := &Input{}

		if _, err = io.ReadFull(r, in.PrevTxID[:]); err != nil {
			return nil, errors.NewProcessingError("error reading input %d", i, err)
		}

		index, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, errors.NewProcessingError("error reading input %d index", i, err)
		}

		if index > 0xffff {
			return nil, errors.NewProcessingError("input %d index %d out of range", i, index)
		}

		in.PrevOutIndex = uint16(index)

		conds, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, errors.NewProcessingError("error reading input %d conditions", i, err)
		}

		for j := uint64(0); j < conds; j++ {
			tag, payload, err := readCondition(r)
			if err != nil {
				return nil, errors.NewProcessingError("error reading input %d condition %d", i, j, err)
			}

			c, err := decodeUnlock(tag, payload)
			if err != nil {
				return nil, err
			}

			in.Unlocks = append(in.Unlocks, c)
		}

		inputs = append(inputs, in)
	}

	return inputs, nil
}

func readOutputs(r io.Reader) ([]*Output, error) {
	n, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, errors.NewProcessingError("error reading output count", err)
	}

	if n > 10*MaxOutputs {
		return nil, errors.NewProcessingError("output count %d too large", n)
	}

	outputs := make([]*Output, 0, n)

	for i := uint64(0); i < n; i++ {
		out := &Output{}

		if out.Amount, err = wire.ReadVarInt(r, 0); err != nil {
			return nil, errors.NewProcessingError("error reading output %d amount", i, err)
		}

		if out.CoinSymbol, err = wire.ReadVarString(r, 0); err != nil {
			return nil, errors.NewProcessingError("error reading output %d symbol", i, err)
		}

		conds, err := wire.ReadVarInt(r, 0)
		if err != nil {
			return nil, errors.NewProcessingError("error reading output %d conditions", i, err)
		}

		for j := uint64(0); j < conds; j++ {
			tag, payload, err := readCondition(r)
			if err != nil {
				return nil, errors.NewProcessingError("error reading output %d condition %d", i, j, err)
			}

			c, err := decodeLock(tag, payload)
			if err != nil {
				return nil, err
			}

			out.Locks = append(out.Locks, c)
		}

		outputs = append(outputs, out)
	}

	return outputs, nil
}
