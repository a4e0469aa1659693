package model

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
)

type ReceiptCode uint16

const (
	ReceiptTransferUtxoCoins ReceiptCode = 308
)

func (c ReceiptCode) String() string {
	if c == ReceiptTransferUtxoCoins {
		return "TRANSFER_UTXO_COINS"
	}

	return "UNKNOWN"
}

// Receipt records one value transfer produced by executing a transaction.
type Receipt struct {
	From       UserID      `json:"from"`
	To         UserID      `json:"to"`
	CoinSymbol string      `json:"coin_symbol"`
	Amount     uint64      `json:"amount"`
	Code       ReceiptCode `json:"code"`
}

// TxReceipts groups the receipts of one executed transaction.
type TxReceipts struct {
	TxID        chainhash.Hash
	BlockHeight uint32
	Receipts    []*Receipt
}

type txReceiptsJSON struct {
	TxID        string     `json:"txid"`
	BlockHeight uint32     `json:"block_height"`
	Receipts    []*Receipt `json:"receipts"`
}

func (r *TxReceipts) Bytes() ([]byte, error) {
	return json.Marshal(&txReceiptsJSON{
		TxID:        r.TxID.String(),
		BlockHeight: r.BlockHeight,
		Receipts:    r.Receipts,
	})
}

func NewTxReceiptsFromBytes(b []byte) (*TxReceipts, error) {
	var j txReceiptsJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return nil, errors.NewProcessingError("invalid receipts payload", err)
	}

	txID, err := chainhash.NewHashFromStr(j.TxID)
	if err != nil {
		return nil, errors.NewProcessingError("invalid receipts txid %s", j.TxID, err)
	}

	return &TxReceipts{TxID: *txID, BlockHeight: j.BlockHeight, Receipts: j.Receipts}, nil
}
