// Package logger decorates a utxo.Store with one debug line per call,
// enabled with logging=true on the store URL.
package logger

import (
	"context"
	"io"
	"time"

	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/stores/utxo"
	"github.com/bsv-blockchain/utxoledger/ulogger"
)

type Store struct {
	logger ulogger.Logger
	store  utxo.Store
}

func New(logger ulogger.Logger, store utxo.Store) utxo.Store {
	return &Store{
		logger: logger,
		store:  store,
	}
}

func (s *Store) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	return s.store.Health(ctx, checkLiveness)
}

func (s *Store) Contains(ctx context.Context, key model.UtxoKey) (bool, error) {
	start := time.Now()
	found, err := s.store.Contains(ctx, key)
	s.logger.Debugf("[UtxoStore][logger][Contains] key %s found %t err %v (%s)", key, found, err, time.Since(start))

	return found, err
}

func (s *Store) Insert(ctx context.Context, key model.UtxoKey) error {
	start := time.Now()
	err := s.store.Insert(ctx, key)
	s.logger.Debugf("[UtxoStore][logger][Insert] key %s err %v (%s)", key, err, time.Since(start))

	return err
}

func (s *Store) Remove(ctx context.Context, key model.UtxoKey) error {
	start := time.Now()
	err := s.store.Remove(ctx, key)
	s.logger.Debugf("[UtxoStore][logger][Remove] key %s err %v (%s)", key, err, time.Since(start))

	return err
}

// Close closes the wrapped store when it holds resources.
func (s *Store) Close() error {
	if c, ok := s.store.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
