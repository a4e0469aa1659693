package memory

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/stores/chain"
)

type record struct {
	height uint32
	raw    []byte
}

// Memory keeps the serialized form and decodes on every lookup, like a disk
// backed store would.
type Memory struct {
	mu      sync.RWMutex
	txs     map[chainhash.Hash]record
	txIndex bool
}

func New(txIndex bool) *Memory {
	return &Memory{
		txs:     make(map[chainhash.Hash]record),
		txIndex: txIndex,
	}
}

func (m *Memory) Health(_ context.Context, _ bool) (int, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return http.StatusOK, fmt.Sprintf("Memory chain store available, %d txs, txindex=%t", len(m.txs), m.txIndex), nil
}

func (m *Memory) Put(_ context.Context, tx *model.Transaction, height uint32) error {
	txid := tx.Hash()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.txs[txid]; ok {
		return errors.NewTxAlreadyExistsError("tx %s already stored", txid)
	}

	m.txs[txid] = record{height: height, raw: tx.Bytes()}

	return nil
}

func (m *Memory) Delete(_ context.Context, txid chainhash.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.txs, txid)

	return nil
}

func (m *Memory) Lookup(_ context.Context, txid chainhash.Hash) (*model.Transaction, chain.LookupResult, error) {
	if !m.txIndex {
		return nil, chain.IndexDisabled, nil
	}

	m.mu.RLock()
	rec, ok := m.txs[txid]
	m.mu.RUnlock()

	if !ok {
		return nil, chain.NotFound, nil
	}

	tx, err := model.NewTransactionFromBytes(rec.raw)
	if err != nil {
		return nil, chain.NotFound, errors.NewStorageError("failed to decode tx %s", txid, err)
	}

	return tx, chain.Found, nil
}

// PutRaw stores bytes under txid without decoding them. Tests use it to plant
// corrupt history.
func (m *Memory) PutRaw(txid chainhash.Hash, height uint32, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.txs[txid] = record{height: height, raw: raw}
}
