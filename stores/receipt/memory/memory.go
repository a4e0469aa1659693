package memory

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
)

// Memory keeps the encoded form so callers can never alias stored receipts.
type Memory struct {
	mu       sync.RWMutex
	receipts map[chainhash.Hash][]byte
}

func New() *Memory {
	return &Memory{receipts: make(map[chainhash.Hash][]byte)}
}

func (m *Memory) Health(_ context.Context, _ bool) (int, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return http.StatusOK, fmt.Sprintf("Memory receipt store available, %d txs", len(m.receipts)), nil
}

func (m *Memory) Append(_ context.Context, receipts *model.TxReceipts) error {
	b, err := receipts.Bytes()
	if err != nil {
		return errors.NewReceiptError("failed to encode receipts of %s", receipts.TxID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.receipts[receipts.TxID]; ok {
		return errors.NewTxAlreadyExistsError("receipts of %s already stored", receipts.TxID)
	}

	m.receipts[receipts.TxID] = b

	return nil
}

func (m *Memory) Get(_ context.Context, txid chainhash.Hash) (*model.TxReceipts, error) {
	m.mu.RLock()
	b, ok := m.receipts[txid]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.NewNotFoundError("no receipts for %s", txid)
	}

	return model.NewTxReceiptsFromBytes(b)
}

func (m *Memory) Delete(_ context.Context, txid chainhash.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.receipts, txid)

	return nil
}
