package validator

import (
	"context"
	"sync"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/stores/chain"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/jellydator/ttlcache/v3"
	"github.com/ordishs/gocore"
	"golang.org/x/sync/errgroup"
)

var resolverStat = gocore.NewStat("resolver")

// Resolver reads prior transactions from the chain store. Only found
// transactions are cached, a miss or a fault is asked again next time.
type Resolver struct {
	logger      ulogger.Logger
	store       chain.Store
	cache       *ttlcache.Cache[chainhash.Hash, *model.Transaction]
	concurrency int
	stopOnce    sync.Once
}

// Resolution is the outcome for one txid of ResolveAll.
type Resolution struct {
	Tx  *model.Transaction
	Err error
}

// NewResolver starts the cache expiry loop, call Stop when done. A ttl of 0
// disables caching.
func NewResolver(logger ulogger.Logger, store chain.Store, ttl time.Duration, size int, concurrency int) *Resolver {
	initPrometheusMetrics()

	if concurrency < 1 {
		concurrency = 1
	}

	r := &Resolver{
		logger:      logger,
		store:       store,
		concurrency: concurrency,
	}

	if ttl > 0 {
		opts := []ttlcache.Option[chainhash.Hash, *model.Transaction]{
			ttlcache.WithTTL[chainhash.Hash, *model.Transaction](ttl),
			ttlcache.WithDisableTouchOnHit[chainhash.Hash, *model.Transaction](),
		}

		if size > 0 {
			opts = append(opts, ttlcache.WithCapacity[chainhash.Hash, *model.Transaction](uint64(size)))
		}

		r.cache = ttlcache.New[chainhash.Hash, *model.Transaction](opts...)

		go r.cache.Start()
	}

	return r
}

func (r *Resolver) Stop() {
	r.stopOnce.Do(func() {
		if r.cache != nil {
			r.cache.Stop()
		}
	})
}

// Resolve returns the prior transaction txid. An unknown txid is a
// failed-to-load-prev-utxo-err reject. A disabled index or a read fault is
// ERR_STORAGE_UNAVAILABLE.
func (r *Resolver) Resolve(ctx context.Context, txid chainhash.Hash) (*model.Transaction, error) {
	if r.cache != nil {
		if item := r.cache.Get(txid); item != nil {
			prometheusResolverCacheHit.Inc()
			return item.Value(), nil
		}
	}

	prometheusResolverCacheMiss.Inc()

	start := gocore.CurrentTime()
	tx, result, err := r.store.Lookup(ctx, txid)

	resolverStat.NewStat("Lookup").AddTime(start)
	prometheusResolverLookup.Observe(time.Since(start).Seconds())

	if err != nil {
		r.logger.Warnf("[Resolver] lookup of %s failed: %v", txid, err)
		return nil, errors.NewStorageUnavailableError("failed to read prior tx %s", txid, err)
	}

	switch result {
	case chain.Found:
		if r.cache != nil {
			r.cache.Set(txid, tx, ttlcache.DefaultTTL)
		}

		return tx, nil
	case chain.IndexDisabled:
		return nil, errors.NewStorageUnavailableError("transaction index disabled, cannot resolve prior tx %s", txid)
	default:
		return nil, errors.NewRejectError(errors.ReasonPrevUtxoNotFound, "prior tx %s not found", txid)
	}
}

// Executed reports whether txid is already in the chain store. With the index
// disabled there is no way to tell and it reports false.
func (r *Resolver) Executed(ctx context.Context, txid chainhash.Hash) (bool, error) {
	if r.cache != nil && r.cache.Has(txid) {
		return true, nil
	}

	_, result, err := r.store.Lookup(ctx, txid)
	if err != nil {
		return false, errors.NewStorageUnavailableError("failed to look up %s", txid, err)
	}

	return result == chain.Found, nil
}

// ResolveOutput returns output key.Index of the prior transaction together
// with the transaction itself.
func (r *Resolver) ResolveOutput(ctx context.Context, key model.UtxoKey) (*model.Output, *model.Transaction, error) {
	tx, err := r.Resolve(ctx, key.TxID)
	if err != nil {
		return nil, nil, err
	}

	output, err := outputAt(tx, key)
	if err != nil {
		return nil, nil, err
	}

	return output, tx, nil
}

func outputAt(tx *model.Transaction, key model.UtxoKey) (*model.Output, error) {
	if int(key.Index) >= len(tx.Outputs) {
		return nil, errors.NewRejectError(errors.ReasonPrevUtxoIndexOOR, "prior tx %s has %d outputs, index %d", key.TxID, len(tx.Outputs), key.Index)
	}

	return tx.Outputs[key.Index], nil
}

// ResolveAll looks up every distinct txid concurrently. Failures are returned
// per txid rather than aborting the batch, so the caller can report them in
// input order.
func (r *Resolver) ResolveAll(ctx context.Context, txids []chainhash.Hash) map[chainhash.Hash]Resolution {
	results := make(map[chainhash.Hash]Resolution, len(txids))
	seen := make(map[chainhash.Hash]struct{}, len(txids))

	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, txid := range txids {
		if _, ok := seen[txid]; ok {
			continue
		}

		seen[txid] = struct{}{}

		g.Go(func() error {
			tx, err := r.Resolve(gCtx, txid)

			mu.Lock()
			results[txid] = Resolution{Tx: tx, Err: err}
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	return results
}

// Forget drops txid from the cache. Called when an executed transaction is
// rolled back out of the chain store.
func (r *Resolver) Forget(txid chainhash.Hash) {
	if r.cache != nil {
		r.cache.Delete(txid)
	}
}
