package memory

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/dolthub/swiss"
)

const initialCapacity = 1024

type Memory struct {
	logger ulogger.Logger
	mu     sync.RWMutex
	m      *swiss.Map[model.UtxoKey, struct{}]
}

func New(logger ulogger.Logger) *Memory {
	return &Memory{
		logger: logger,
		// swiss uses a lot less memory than a builtin map at this size
		m: swiss.NewMap[model.UtxoKey, struct{}](initialCapacity),
	}
}

func (m *Memory) Health(_ context.Context, _ bool) (int, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return http.StatusOK, fmt.Sprintf("Memory UTXO store available, %d utxos", m.m.Count()), nil
}

func (m *Memory) Contains(_ context.Context, key model.UtxoKey) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.m.Has(key), nil
}

func (m *Memory) Insert(_ context.Context, key model.UtxoKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.m.Has(key) {
		return errors.NewUtxoExistsError("utxo %s already exists", key)
	}

	m.m.Put(key, struct{}{})

	return nil
}

func (m *Memory) Remove(_ context.Context, key model.UtxoKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.m.Delete(key) {
		return errors.NewUtxoNotFoundError("utxo %s not found", key)
	}

	return nil
}
