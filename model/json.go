package model

import (
	"encoding/hex"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type condJSON struct {
	CondType string `json:"cond_type"`
	Cond     string `json:"cond"`
}

type inputJSON struct {
	PrevUtxoTxID     string     `json:"prev_utxo_txid"`
	PrevUtxoOutIndex uint16     `json:"prev_utxo_out_index"`
	Conds            []condJSON `json:"conds"`
}

type outputJSON struct {
	CoinAmount uint64     `json:"coin_amount"`
	CoinSymbol string     `json:"coin_symbol"`
	Conds      []condJSON `json:"conds"`
}

type utxoJSON struct {
	Vins  []inputJSON  `json:"vins"`
	Vouts []outputJSON `json:"vouts"`
}

// TxJSON is the structured dump exposed to RPC and CLI clients.
type TxJSON struct {
	TxType          string   `json:"txtype"`
	Hash            string   `json:"hash"`
	Version         uint32   `json:"ver"`
	TxUID           string   `json:"tx_uid"`
	CoinSymbol      string   `json:"coin_symbol"`
	FeeSymbol       string   `json:"fee_symbol"`
	Fees            uint64   `json:"fees"`
	ValidHeight     uint32   `json:"valid_height"`
	PriorUtxoTxID   string   `json:"prior_utxo_txid"`
	PriorUtxoSecret string   `json:"prior_utxo_secret"`
	Utxo            utxoJSON `json:"utxo"`
	Memo            string   `json:"memo"`
}

func (tx *Transaction) ToJSON() *TxJSON {
	h := tx.Hash()

	j := &TxJSON{
		TxType:          tx.TxType().String(),
		Hash:            h.String(),
		Version:         tx.Version,
		TxUID:           tx.TxUID.String(),
		CoinSymbol:      tx.CoinSymbol,
		FeeSymbol:       tx.FeeSymbol,
		Fees:            tx.Fees,
		ValidHeight:     tx.ValidHeight,
		PriorUtxoTxID:   tx.PriorUtxoTxID.String(),
		PriorUtxoSecret: tx.PriorUtxoSecret,
		Memo:            string(tx.Memo),
		Utxo: utxoJSON{
			Vins:  make([]inputJSON, 0, len(tx.Inputs)),
			Vouts: make([]outputJSON, 0, len(tx.Outputs)),
		},
	}

	for _, in := range tx.Inputs {
		ij := inputJSON{
			PrevUtxoTxID:     in.PrevTxID.String(),
			PrevUtxoOutIndex: in.PrevOutIndex,
			Conds:            make([]condJSON, 0, len(in.Unlocks)),
		}

		for _, c := range in.Unlocks {
			ij.Conds = append(ij.Conds, condJSON{CondType: c.CondType().String(), Cond: c.String()})
		}

		j.Utxo.Vins = append(j.Utxo.Vins, ij)
	}

	for _, out := range tx.Outputs {
		oj := outputJSON{
			CoinAmount: out.Amount,
			CoinSymbol: out.CoinSymbol,
			Conds:      make([]condJSON, 0, len(out.Locks)),
		}

		for _, c := range out.Locks {
			oj.Conds = append(oj.Conds, condJSON{CondType: c.CondType().String(), Cond: c.String()})
		}

		j.Utxo.Vouts = append(j.Utxo.Vouts, oj)
	}

	return j
}

func (tx *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(tx.ToJSON())
}

func (tx *Transaction) String() string {
	h := tx.Hash()

	parts := make([]string, 0, len(tx.Inputs)+len(tx.Outputs))

	for _, in := range tx.Inputs {
		parts = append(parts, fmt.Sprintf("vin(%s:%d)", in.PrevTxID, in.PrevOutIndex))
	}

	for _, out := range tx.Outputs {
		locks := make([]string, 0, len(out.Locks))
		for _, c := range out.Locks {
			locks = append(locks, c.String())
		}

		parts = append(parts, fmt.Sprintf("vout(%d %s [%s])", out.Amount, out.CoinSymbol, strings.Join(locks, ", ")))
	}

	return fmt.Sprintf("txType=%s, hash=%s, ver=%d, txUid=%s, fee_symbol=%s, llFees=%d, "+
		"valid_height=%d, priorUtxoTxId=%s, priorUtxoSecret=%s, utxo=[%s], memo=%s",
		tx.TxType(), h, tx.Version, tx.TxUID, tx.FeeSymbol, tx.Fees,
		tx.ValidHeight, tx.PriorUtxoTxID, tx.PriorUtxoSecret, strings.Join(parts, ", "), hex.EncodeToString(tx.Memo))
}
