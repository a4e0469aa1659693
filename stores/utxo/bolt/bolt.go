// Package bolt keeps the UTXO index in a single bbolt file. Keys are the
// 32 byte txid followed by the big-endian output index.
package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	bolt "go.etcd.io/bbolt"
)

var bucketUtxos = []byte("utxos")

const keySize = 32 + 2

type Store struct {
	logger ulogger.Logger
	db     *bolt.DB
	path   string
}

// New opens <DataFolder>/<url path>.bolt, e.g. bolt:///utxos.
func New(logger ulogger.Logger, tSettings *settings.Settings, storeURL *url.URL) (*Store, error) {
	name := storeURL.Path
	if len(name) > 1 {
		name = name[1:]
	} else {
		name = "utxos"
	}

	if err := os.MkdirAll(tSettings.DataFolder, 0o755); err != nil {
		return nil, errors.NewStorageUnavailableError("failed to create data folder %s", tSettings.DataFolder, err)
	}

	path := filepath.Join(tSettings.DataFolder, name+".bolt")

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.NewStorageUnavailableError("open bbolt %s", path, err)
	}

	if err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketUtxos)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageUnavailableError("create bucket %s", string(bucketUtxos), err)
	}

	logger.Infof("Using bbolt utxo store: %s", path)

	return &Store{
		logger: logger,
		db:     db,
		path:   path,
	}, nil
}

func encodeKey(key model.UtxoKey) []byte {
	b := make([]byte, keySize)
	copy(b, key.TxID[:])
	binary.BigEndian.PutUint16(b[32:], key.Index)

	return b
}

func (s *Store) Health(_ context.Context, _ bool) (int, string, error) {
	var n int

	if err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketUtxos).Stats().KeyN
		return nil
	}); err != nil {
		return http.StatusServiceUnavailable, s.path, errors.NewStorageUnavailableError("bbolt not readable", err)
	}

	return http.StatusOK, fmt.Sprintf("bbolt %s, %d utxos", s.path, n), nil
}

func (s *Store) Contains(ctx context.Context, key model.UtxoKey) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.NewContextCanceledError("contains %s", key, err)
	}

	var found bool

	if err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketUtxos).Get(encodeKey(key)) != nil
		return nil
	}); err != nil {
		return false, errors.NewStorageError("contains %s", key, err)
	}

	return found, nil
}

func (s *Store) Insert(ctx context.Context, key model.UtxoKey) error {
	if err := ctx.Err(); err != nil {
		return errors.NewContextCanceledError("insert %s", key, err)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUtxos)
		k := encodeKey(key)

		if b.Get(k) != nil {
			return errors.NewUtxoExistsError("utxo %s already exists", key)
		}

		return b.Put(k, []byte{})
	})

	return s.wrap("insert", key, err)
}

func (s *Store) Remove(ctx context.Context, key model.UtxoKey) error {
	if err := ctx.Err(); err != nil {
		return errors.NewContextCanceledError("remove %s", key, err)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUtxos)
		k := encodeKey(key)

		if b.Get(k) == nil {
			return errors.NewUtxoNotFoundError("utxo %s not found", key)
		}

		return b.Delete(k)
	})

	return s.wrap("remove", key, err)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// wrap passes coded errors through and turns bbolt failures into storage
// errors.
func (s *Store) wrap(op string, key model.UtxoKey, err error) error {
	if err == nil {
		return nil
	}

	var uErr *errors.Error
	if errors.As(err, &uErr) {
		return uErr
	}

	return errors.NewStorageError("%s %s", op, key, err)
}
