// Package ledger executes conditional UTXO transfers. All mutations of the
// account, UTXO, receipt and chain stores happen under one write lock and are
// rolled back together when any step fails.
package ledger

import (
	"context"
	"io"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/services/validator"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/stores/account"
	accountfactory "github.com/bsv-blockchain/utxoledger/stores/account/factory"
	"github.com/bsv-blockchain/utxoledger/stores/chain"
	chainfactory "github.com/bsv-blockchain/utxoledger/stores/chain/factory"
	"github.com/bsv-blockchain/utxoledger/stores/receipt"
	receiptfactory "github.com/bsv-blockchain/utxoledger/stores/receipt/factory"
	"github.com/bsv-blockchain/utxoledger/stores/utxo"
	utxofactory "github.com/bsv-blockchain/utxoledger/stores/utxo/factory"
	"github.com/bsv-blockchain/utxoledger/tracing"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/bsv-blockchain/utxoledger/util/health"
	"github.com/bsv-blockchain/utxoledger/util/kafka"
	"github.com/ordishs/gocore"
)

// ExecContext places a transaction in the chain. TxIndex is its position in
// the block and becomes part of a newly assigned RegID.
type ExecContext struct {
	Height  uint32
	TxIndex uint16
}

type Stores struct {
	Accounts account.Store
	Utxos    utxo.Store
	Receipts receipt.Store
	Chain    chain.Store
}

type Ledger struct {
	mu        sync.RWMutex
	logger    ulogger.Logger
	settings  *settings.Settings
	stores    Stores
	resolver  *validator.Resolver
	validator *validator.Validator
	publisher *ReceiptPublisher
	stats     *gocore.Stat
}

// New wires a ledger over stores. publisher may be nil.
func New(logger ulogger.Logger, tSettings *settings.Settings, stores Stores, publisher *ReceiptPublisher) *Ledger {
	initPrometheusMetrics()

	vs := tSettings.Validator
	resolver := validator.NewResolver(logger, stores.Chain, vs.ResolverCacheTTL, vs.ResolverCacheSize, vs.ResolverConcurrency)

	return &Ledger{
		logger:    logger,
		settings:  tSettings,
		stores:    stores,
		resolver:  resolver,
		validator: validator.New(logger, tSettings, stores.Accounts, resolver),
		publisher: publisher,
		stats:     gocore.NewStat("ledger"),
	}
}

// NewFromSettings opens every store from its configured URL and connects the
// receipt publisher when kafka_receiptsConfig is set.
func NewFromSettings(ctx context.Context, logger ulogger.Logger, tSettings *settings.Settings) (*Ledger, error) {
	var (
		stores Stores
		err    error
	)

	if stores.Accounts, err = accountfactory.NewStore(ctx, logger, tSettings, tSettings.AccountStore.StoreURL); err != nil {
		return nil, err
	}

	if stores.Utxos, err = utxofactory.NewStore(ctx, logger, tSettings, tSettings.UtxoStore.StoreURL); err != nil {
		return nil, err
	}

	if stores.Receipts, err = receiptfactory.NewStore(ctx, logger, tSettings, tSettings.ReceiptStore.StoreURL); err != nil {
		return nil, err
	}

	if stores.Chain, err = chainfactory.NewStore(ctx, logger, tSettings, tSettings.ChainStore.StoreURL); err != nil {
		return nil, err
	}

	var publisher *ReceiptPublisher

	if tSettings.Kafka.ReceiptsURL != nil {
		topic, err := kafka.ParseTopicURL(tSettings.Kafka.ReceiptsURL)
		if err != nil {
			return nil, err
		}

		producer, err := kafka.Dial(topic)
		if err != nil {
			return nil, err
		}

		publisher = NewReceiptPublisher(logger, tSettings, producer)

		logger.Infof("[Ledger] publishing receipts to kafka topic %s at %v", topic.Topic, topic.Brokers)
	}

	return New(logger, tSettings, stores, publisher), nil
}

// Close stops the resolver cache and closes the publisher and every store
// that holds a connection or file.
func (l *Ledger) Close() error {
	l.resolver.Stop()

	var errs []error

	if l.publisher != nil {
		if err := l.publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	for _, s := range []any{l.stores.Accounts, l.stores.Utxos, l.stores.Receipts, l.stores.Chain} {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func (l *Ledger) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	if checkLiveness {
		return health.CheckAll(ctx, checkLiveness, nil)
	}

	return health.CheckAll(ctx, checkLiveness, []health.Check{
		{Name: "AccountStore", Check: l.stores.Accounts.Health},
		{Name: "UtxoStore", Check: l.stores.Utxos.Health},
		{Name: "ReceiptStore", Check: l.stores.Receipts.Health},
		{Name: "ChainStore", Check: l.stores.Chain.Health},
	})
}

// Validate runs admission checks against a consistent snapshot. Validations
// run concurrently with each other but never alongside an execution.
func (l *Ledger) Validate(ctx context.Context, tx *model.Transaction, height uint32, opts ...validator.Option) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.validator.Validate(ctx, tx, height, opts...)
}

// Execute applies a transaction that has already been validated at
// ec.Height. It re-checks what can have changed since: spent outputs and the
// sender balance.
func (l *Ledger) Execute(ctx context.Context, tx *model.Transaction, ec ExecContext) (*model.Receipt, error) {
	return l.run(ctx, tx, ec, false, nil)
}

// Submit validates and executes under one write lock.
func (l *Ledger) Submit(ctx context.Context, tx *model.Transaction, ec ExecContext, opts ...validator.Option) (*model.Receipt, error) {
	return l.run(ctx, tx, ec, true, opts)
}

func (l *Ledger) run(ctx context.Context, tx *model.Transaction, ec ExecContext, validate bool, opts []validator.Option) (*model.Receipt, error) {
	if tx == nil {
		return nil, errors.NewInvalidArgumentError("nil transaction")
	}

	receipts, err := l.commit(ctx, tx, ec, validate, opts)
	if err != nil {
		return nil, err
	}

	l.publish(ctx, receipts)

	return receipts.Receipts[0], nil
}

func (l *Ledger) commit(ctx context.Context, tx *model.Transaction, ec ExecContext, validate bool, opts []validator.Option) (*model.TxReceipts, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if validate {
		if err := l.validator.Validate(ctx, tx, ec.Height, opts...); err != nil {
			return nil, err
		}
	}

	return l.execute(ctx, tx, ec)
}

// publish never fails the caller, the receipts are already committed.
func (l *Ledger) publish(ctx context.Context, receipts *model.TxReceipts) {
	if l.publisher == nil {
		return
	}

	if err := l.publisher.Publish(ctx, receipts); err != nil {
		prometheusPublishErrors.Inc()
		l.logger.Errorf("[Ledger][%s] failed to publish receipts: %v", receipts.TxID, err)
	}
}

// Credit adds amount to the free balance of the account owned by pubKey,
// creating the account when it does not exist yet.
func (l *Ledger) Credit(ctx context.Context, pubKey []byte, symbol string, amount uint64) (*model.Account, error) {
	if !validator.ValidPubKey(pubKey) {
		return nil, errors.NewInvalidArgumentError("invalid public key %x", pubKey)
	}

	if !l.settings.ChainCfgParams.IsCoinSymbol(symbol) {
		return nil, errors.NewInvalidArgumentError("unknown coin symbol %q", symbol)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acct, err := l.stores.Accounts.Get(ctx, model.NewPubKeyUser(pubKey))

	switch {
	case errors.Is(err, errors.ErrAccountNotFound):
		acct = model.NewAccount(model.KeyIDFromPubKey(pubKey))
		acct.OwnerPubKey = pubKey
	case err != nil:
		return nil, err
	}

	if err = acct.OperateBalance(symbol, model.AddFree, amount); err != nil {
		return nil, err
	}

	if err = l.stores.Accounts.Save(ctx, acct); err != nil {
		return nil, err
	}

	return acct, nil
}

func (l *Ledger) Account(ctx context.Context, uid model.UserID) (*model.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.stores.Accounts.Get(ctx, uid)
}

func (l *Ledger) IsUnspent(ctx context.Context, key model.UtxoKey) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.stores.Utxos.Contains(ctx, key)
}

func (l *Ledger) Receipts(ctx context.Context, txid chainhash.Hash) (*model.TxReceipts, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.stores.Receipts.Get(ctx, txid)
}

// Transaction returns an executed transaction by id.
func (l *Ledger) Transaction(ctx context.Context, txid chainhash.Hash) (*model.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tx, result, err := l.stores.Chain.Lookup(ctx, txid)
	if err != nil {
		return nil, err
	}

	switch result {
	case chain.Found:
		return tx, nil
	case chain.IndexDisabled:
		return nil, errors.NewStorageUnavailableError("transaction index disabled")
	default:
		return nil, errors.NewNotFoundError("transaction %s not found", txid)
	}
}

func (l *Ledger) execute(ctx context.Context, tx *model.Transaction, ec ExecContext) (receipts *model.TxReceipts, err error) {
	txid := tx.Hash()

	// once started an execution runs to commit or full rollback
	ctx = context.WithoutCancel(ctx)

	ctx, _, endSpan := tracing.StartTracing(ctx, "Ledger:Execute",
		tracing.WithParentStat(l.stats),
		tracing.WithHistogram(prometheusExecuteTransaction),
		tracing.WithTag("txid", txid.String()),
	)

	j := newJournal(l.logger, txid)

	defer func() {
		if err != nil {
			if reason := errors.RejectReason(err); reason != "" {
				prometheusRejected.WithLabelValues(reason).Inc()
			}

			if j.len() > 0 {
				prometheusRollbacks.Inc()

				if rbErr := j.rollback(ctx); rbErr != nil {
					err = errors.Join(err, rbErr)
				}
			}
		}

		endSpan(err)
	}()

	sender, before, err := l.loadSender(ctx, tx, ec)
	if err != nil {
		return nil, err
	}

	totalIn, err := l.spendInputs(ctx, j, tx)
	if err != nil {
		return nil, err
	}

	totalOut, err := l.createOutputs(ctx, j, tx, txid)
	if err != nil {
		return nil, err
	}

	free := sender.FreeBalance(tx.CoinSymbol)
	if !validator.Covers(free, totalIn, totalOut, tx.Fees) {
		return nil, errors.NewRejectError(errors.ReasonInsufficientFund,
			"free %d + inputs %d < outputs %d + fee %d", free, totalIn, totalOut, tx.Fees)
	}

	negative, magnitude, err := netDiff(totalIn, totalOut, tx.Fees)
	if err != nil {
		return nil, err
	}

	if err = l.settle(ctx, j, tx, sender, before, negative, magnitude); err != nil {
		return nil, err
	}

	receipts = &model.TxReceipts{
		TxID:        txid,
		BlockHeight: ec.Height,
		Receipts: []*model.Receipt{{
			From:       tx.TxUID,
			To:         recipient(tx.Outputs),
			CoinSymbol: tx.CoinSymbol,
			Amount:     magnitude,
			Code:       model.ReceiptTransferUtxoCoins,
		}},
	}

	if err = l.stores.Receipts.Append(ctx, receipts); err != nil {
		if errors.Is(err, errors.ErrTxAlreadyExists) {
			return nil, errors.NewRejectError(errors.ReasonTxExecuted, "receipts of %s already stored", txid, err)
		}

		return nil, errors.NewStorageError("failed to append receipts for %s", txid, err)
	}

	j.add("delete receipts", func(ctx context.Context) error {
		return l.stores.Receipts.Delete(ctx, txid)
	})

	if err = l.stores.Chain.Put(ctx, tx, ec.Height); err != nil {
		if errors.Is(err, errors.ErrTxAlreadyExists) {
			return nil, errors.NewRejectError(errors.ReasonTxExecuted, "%s already in chain store", txid, err)
		}

		return nil, errors.NewStorageError("failed to record %s in chain store", txid, err)
	}

	prometheusExecuted.Inc()

	if l.settings.Validator.VerboseDebug {
		l.logger.Debugf("[Ledger][%s] executed at %d.%d: in %d out %d fee %d", txid, ec.Height, ec.TxIndex, totalIn, totalOut, tx.Fees)
	}

	return receipts, nil
}

// loadSender re-reads the sender and binds a RegID to it on first use. The
// binding is saved together with the balance change in settle. The second
// account is the stored state, used to undo the save.
func (l *Ledger) loadSender(ctx context.Context, tx *model.Transaction, ec ExecContext) (*model.Account, *model.Account, error) {
	sender, err := l.stores.Accounts.Get(ctx, tx.TxUID)
	if err != nil {
		if errors.Is(err, errors.ErrAccountNotFound) {
			return nil, nil, errors.NewRejectError(errors.ReasonBadReadAccountDB, "sender %s has no account", tx.TxUID)
		}

		return nil, nil, errors.NewStorageError("failed to read sender account %s", tx.TxUID, err)
	}

	before := sender.Clone()

	if !sender.IsRegistered() {
		sender.RegID = model.RegID{Height: ec.Height, Index: ec.TxIndex}

		if pk, ok := tx.TxUID.PubKey(); ok && len(sender.OwnerPubKey) == 0 {
			sender.OwnerPubKey = pk
		}
	}

	return sender, before, nil
}

func (l *Ledger) spendInputs(ctx context.Context, j *journal, tx *model.Transaction) (uint64, error) {
	var totalIn uint64

	for i, in := range tx.Inputs {
		key := model.UtxoKey{TxID: in.PrevTxID, Index: in.PrevOutIndex}

		unspent, err := l.stores.Utxos.Contains(ctx, key)
		if err != nil {
			return 0, errors.NewStorageError("failed to look up utxo %s", key, err)
		}

		if !unspent {
			return 0, errors.NewRejectError(errors.ReasonDoubleSpend, "input %d spends %s which is not unspent", i, key)
		}

		out, _, err := l.resolver.ResolveOutput(ctx, key)
		if err != nil {
			return 0, err
		}

		if err = l.stores.Utxos.Remove(ctx, key); err != nil {
			if errors.Is(err, errors.ErrUtxoNotFound) {
				return 0, errors.NewRejectError(errors.ReasonDoubleSpend, "input %d spends %s which is not unspent", i, key)
			}

			return 0, errors.NewStorageError("failed to remove utxo %s", key, err)
		}

		j.add("reinsert "+key.String(), func(ctx context.Context) error {
			return l.stores.Utxos.Insert(ctx, key)
		})

		if totalIn, err = validator.SumAmounts(totalIn, out.Amount); err != nil {
			return 0, err
		}
	}

	return totalIn, nil
}

func (l *Ledger) createOutputs(ctx context.Context, j *journal, tx *model.Transaction, txid chainhash.Hash) (uint64, error) {
	var totalOut uint64

	for i, out := range tx.Outputs {
		key := model.UtxoKey{TxID: txid, Index: uint16(i)} //nolint:gosec // at most MaxOutputs

		if err := l.stores.Utxos.Insert(ctx, key); err != nil {
			if errors.Is(err, errors.ErrUtxoExists) {
				return 0, errors.NewRejectError(errors.ReasonSetUtxo, "output %s already exists", key)
			}

			return 0, errors.NewStorageError("failed to insert utxo %s", key, err)
		}

		j.add("remove "+key.String(), func(ctx context.Context) error {
			return l.stores.Utxos.Remove(ctx, key)
		})

		var err error
		if totalOut, err = validator.SumAmounts(totalOut, out.Amount); err != nil {
			return 0, err
		}
	}

	return totalOut, nil
}

// settle applies the net difference to the sender's free balance and saves
// the account.
func (l *Ledger) settle(ctx context.Context, j *journal, tx *model.Transaction, sender, before *model.Account, negative bool, magnitude uint64) error {
	var err error

	if magnitude > 0 {
		op := model.AddFree
		if negative {
			op = model.SubFree
		}

		if err = sender.OperateBalance(tx.CoinSymbol, op, magnitude); err != nil {
			return errors.NewRejectError(errors.ReasonInsufficientFund, "cannot settle %d %s", magnitude, tx.CoinSymbol, err)
		}
	}

	if err = l.stores.Accounts.Save(ctx, sender); err != nil {
		return errors.NewStorageError("failed to save sender account %s", tx.TxUID, err)
	}

	j.add("restore sender account", func(ctx context.Context) error {
		return l.stores.Accounts.Save(ctx, before)
	})

	return nil
}

// recipient is the one SingleAddress owner shared by every output. Outputs
// without such a lock, or owned by different identities, give the null
// identity.
func recipient(outputs []*model.Output) model.UserID {
	owner := model.NullUserID

	for i, out := range outputs {
		var o model.UserID

		for _, c := range out.Locks {
			s, ok := c.(*model.SingleAddressLock)
			if !ok {
				continue
			}

			if !o.IsEmpty() && !o.Equal(s.Owner) {
				return model.NullUserID
			}

			o = s.Owner
		}

		if o.IsEmpty() {
			return model.NullUserID
		}

		if i > 0 && !owner.Equal(o) {
			return model.NullUserID
		}

		owner = o
	}

	return owner
}
