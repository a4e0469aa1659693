// Package validator decides whether a conditional UTXO transfer may be
// executed at a given height. It reads accounts and chain history but never
// changes them.
package validator

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/chaincfg"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/stores/account"
	"github.com/bsv-blockchain/utxoledger/tracing"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/bsv-blockchain/utxoledger/util/health"
	"github.com/ordishs/gocore"
)

type Interface interface {
	Health(ctx context.Context, checkLiveness bool) (int, string, error)
	Validate(ctx context.Context, tx *model.Transaction, height uint32, opts ...Option) error
}

// Result is what a successful validation learned about the transaction.
type Result struct {
	Sender      *model.Account
	TotalIn     uint64
	TotalOut    uint64
	RequiredFee uint64
}

type Validator struct {
	logger    ulogger.Logger
	settings  *settings.Settings
	params    *chaincfg.Params
	accounts  account.Store
	resolver  *Resolver
	evaluator *Evaluator
	verifier  SignatureVerifier
	stats     *gocore.Stat
}

func New(logger ulogger.Logger, tSettings *settings.Settings, accounts account.Store, resolver *Resolver) *Validator {
	initPrometheusMetrics()

	verifier := Secp256k1Verifier{}

	return &Validator{
		logger:    logger,
		settings:  tSettings,
		params:    tSettings.ChainCfgParams,
		accounts:  accounts,
		resolver:  resolver,
		evaluator: NewEvaluator(verifier),
		verifier:  verifier,
		stats:     gocore.NewStat("validator"),
	}
}

func (v *Validator) Resolver() *Resolver {
	return v.resolver
}

func (v *Validator) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	if checkLiveness {
		return health.CheckAll(ctx, checkLiveness, nil)
	}

	return health.CheckAll(ctx, checkLiveness, []health.Check{
		{Name: "AccountStore", Check: v.accounts.Health},
		{Name: "ChainStore", Check: v.resolver.store.Health},
	})
}

// Validate returns nil when tx may be executed at height. A rejection carries
// its reason, see errors.RejectReason. Any other error is a storage or
// configuration fault and says nothing about the transaction.
func (v *Validator) Validate(ctx context.Context, tx *model.Transaction, height uint32, opts ...Option) error {
	_, err := v.Check(ctx, tx, height, opts...)
	return err
}

// Check is Validate returning the totals it computed.
func (v *Validator) Check(ctx context.Context, tx *model.Transaction, height uint32, opts ...Option) (result *Result, err error) {
	if tx == nil {
		return nil, errors.NewInvalidArgumentError("nil transaction")
	}

	options := ProcessOptions(opts...)
	txid := tx.Hash()

	ctx, _, endSpan := tracing.StartTracing(ctx, "Validator:Validate",
		tracing.WithParentStat(v.stats),
		tracing.WithHistogram(prometheusValidateTransaction),
		tracing.WithTag("txid", txid.String()),
	)

	defer func() {
		if reason := errors.RejectReason(err); reason != "" {
			prometheusInvalidTransactions.WithLabelValues(reason).Inc()

			if v.settings.Validator.VerboseDebug {
				v.logger.Debugf("[Validate][%s] rejected at height %d: %v", txid, height, err)
			}
		} else if err != nil {
			v.logger.Errorf("[Validate][%s] failed at height %d: %v", txid, height, err)
		}

		endSpan(err)
	}()

	return v.check(ctx, tx, txid, height, options)
}

func (v *Validator) check(ctx context.Context, tx *model.Transaction, txid chainhash.Hash, height uint32, options *Options) (*Result, error) {
	if err := v.checkHeader(tx, height); err != nil {
		return nil, err
	}

	if err := v.checkStructure(tx); err != nil {
		return nil, err
	}

	sender, err := v.accounts.Get(ctx, tx.TxUID)
	if err != nil {
		if errors.Is(err, errors.ErrAccountNotFound) {
			return nil, errors.NewRejectError(errors.ReasonBadGetAccount, "sender %s has no account", tx.TxUID)
		}

		return nil, errors.NewStorageError("failed to read sender account %s", tx.TxUID, err)
	}

	if err = checkCounts(tx); err != nil {
		return nil, err
	}

	// a missing rule is a deployment fault, logged by Check
	unitFee, err := v.params.MinUnitFee(tx.TxType(), height, tx.FeeSymbol)
	if err != nil {
		return nil, err
	}

	required, err := RequiredFee(len(tx.Inputs), len(tx.Outputs), unitFee)
	if err != nil {
		return nil, err
	}

	if tx.Fees < required {
		return nil, errors.NewRejectError(errors.ReasonFeeTooSmall, "fee %d below required %d", tx.Fees, required)
	}

	ec := EvalContext{Height: height, TxHash: txid, Spender: sender}

	totalIn, err := v.checkInputs(ctx, tx, ec, options)
	if err != nil {
		return nil, err
	}

	totalOut, err := v.checkOutputs(tx, ec)
	if err != nil {
		return nil, err
	}

	free := sender.FreeBalance(tx.CoinSymbol)
	if !Covers(free, totalIn, totalOut, tx.Fees) {
		return nil, errors.NewRejectError(errors.ReasonInsufficientCoin,
			"free %d + inputs %d < outputs %d + fee %d", free, totalIn, totalOut, tx.Fees)
	}

	if !options.skipSignatureCheck {
		if err = v.checkSignature(tx, txid, sender); err != nil {
			return nil, err
		}
	}

	// a replay with spent inputs already failed above as a double spend
	executed, err := v.resolver.Executed(ctx, txid)
	if err != nil {
		return nil, err
	}

	if executed {
		return nil, errors.NewRejectError(errors.ReasonTxExecuted, "%s already executed", txid)
	}

	return &Result{
		Sender:      sender,
		TotalIn:     totalIn,
		TotalOut:    totalOut,
		RequiredFee: required,
	}, nil
}

func (v *Validator) checkHeader(tx *model.Transaction, height uint32) error {
	if tx.Version != model.CurrentTxVersion {
		return errors.NewRejectError(errors.ReasonBadTxVersion, "unsupported version %d", tx.Version)
	}

	if height < v.params.UtxoActivationHeight {
		return errors.NewRejectError(errors.ReasonTxNotActivated,
			"%s not active before %d, height is %d", tx.TxType(), v.params.UtxoActivationHeight, height)
	}

	window := v.settings.Validator.ValidHeightWindow
	if window == 0 {
		return nil
	}

	var distance uint32
	if height > tx.ValidHeight {
		distance = height - tx.ValidHeight
	} else {
		distance = tx.ValidHeight - height
	}

	if distance > window {
		return errors.NewRejectError(errors.ReasonInvalidHeight,
			"valid height %d too far from %d (window %d)", tx.ValidHeight, height, window)
	}

	return nil
}

func (v *Validator) checkStructure(tx *model.Transaction) error {
	if len(tx.Memo) > model.MaxMemoLength {
		return errors.NewRejectError(errors.ReasonMemoTooLarge, "memo is %d bytes, max %d", len(tx.Memo), model.MaxMemoLength)
	}

	switch tx.TxUID.Type() {
	case model.UserIDRegID:
		if r, _ := tx.TxUID.RegID(); r.IsEmpty() {
			return errors.NewRejectError(errors.ReasonBadTxUIDType, "empty sender regid")
		}
	case model.UserIDPubKey:
		if pk, _ := tx.TxUID.PubKey(); !ValidPubKey(pk) {
			return errors.NewRejectError(errors.ReasonBadPublicKey, "sender public key %x is invalid", pk)
		}
	default:
		return errors.NewRejectError(errors.ReasonBadTxUIDType, "sender must be a regid or public key, got %s", tx.TxUID.Type())
	}

	if !v.params.IsCoinSymbol(tx.CoinSymbol) {
		return errors.NewRejectError(errors.ReasonBadCoinSymbol, "unknown coin symbol %q", tx.CoinSymbol)
	}

	if tx.FeeSymbol != tx.CoinSymbol {
		return errors.NewRejectError(errors.ReasonFeeSymbolMismatch, "fee symbol %q differs from coin symbol %q", tx.FeeSymbol, tx.CoinSymbol)
	}

	for i, out := range tx.Outputs {
		if out.CoinSymbol != tx.CoinSymbol {
			return errors.NewRejectError(errors.ReasonCoinSymbolMismatch, "output %d is %q, tx is %q", i, out.CoinSymbol, tx.CoinSymbol)
		}
	}

	return nil
}

func checkCounts(tx *model.Transaction) error {
	if len(tx.Inputs) == 0 && len(tx.Outputs) == 0 {
		return errors.NewRejectError(errors.ReasonUtxoEmpty, "no inputs and no outputs")
	}

	if len(tx.Inputs) > model.MaxInputs {
		return errors.NewRejectError(errors.ReasonVinsTooLarge, "%d inputs, max %d", len(tx.Inputs), model.MaxInputs)
	}

	if len(tx.Outputs) > model.MaxOutputs {
		return errors.NewRejectError(errors.ReasonVoutsTooLarge, "%d outputs, max %d", len(tx.Outputs), model.MaxOutputs)
	}

	return nil
}

func (v *Validator) checkInputs(ctx context.Context, tx *model.Transaction, ec EvalContext, options *Options) (uint64, error) {
	var prefetched map[chainhash.Hash]Resolution

	if !options.skipPrefetch && len(tx.Inputs) > 1 {
		txids := make([]chainhash.Hash, 0, len(tx.Inputs))
		for _, in := range tx.Inputs {
			txids = append(txids, in.PrevTxID)
		}

		prefetched = v.resolver.ResolveAll(ctx, txids)
	}

	var totalIn uint64

	spent := make(map[model.UtxoKey]struct{}, len(tx.Inputs))

	for i, in := range tx.Inputs {
		key := model.UtxoKey{TxID: in.PrevTxID, Index: in.PrevOutIndex}

		if _, dup := spent[key]; dup {
			return 0, errors.NewRejectError(errors.ReasonDoubleSpend, "input %d spends %s again", i, key)
		}

		spent[key] = struct{}{}

		prior, err := v.priorTx(ctx, prefetched, key.TxID)
		if err != nil {
			return 0, err
		}

		out, err := outputAt(prior, key)
		if err != nil {
			return 0, err
		}

		if out.CoinSymbol != tx.CoinSymbol {
			return 0, errors.NewRejectError(errors.ReasonCoinSymbolMismatch, "input %d spends %q, tx is %q", i, out.CoinSymbol, tx.CoinSymbol)
		}

		if err = v.evaluator.EvaluateAll(InputDirection, ec, prior.TxUID, tx.TxUID, in.Unlocks, out.Locks); err != nil {
			return 0, err
		}

		if totalIn, err = SumAmounts(totalIn, out.Amount); err != nil {
			return 0, err
		}
	}

	return totalIn, nil
}

func (v *Validator) priorTx(ctx context.Context, prefetched map[chainhash.Hash]Resolution, txid chainhash.Hash) (*model.Transaction, error) {
	if res, ok := prefetched[txid]; ok {
		return res.Tx, res.Err
	}

	return v.resolver.Resolve(ctx, txid)
}

func (v *Validator) checkOutputs(tx *model.Transaction, ec EvalContext) (uint64, error) {
	var (
		totalOut uint64
		err      error
	)

	for i, out := range tx.Outputs {
		if out.Amount == 0 {
			return 0, errors.NewRejectError(errors.ReasonZeroOutputAmount, "output %d has zero amount", i)
		}

		if err = v.evaluator.EvaluateAll(OutputDirection, ec, tx.TxUID, tx.TxUID, nil, out.Locks); err != nil {
			return 0, err
		}

		if totalOut, err = SumAmounts(totalOut, out.Amount); err != nil {
			return 0, err
		}
	}

	return totalOut, nil
}

// SenderPubKey is the key the sender signs with: the declared public key, or
// the owner key recorded on the account.
func SenderPubKey(tx *model.Transaction, sender *model.Account) ([]byte, error) {
	if pk, ok := tx.TxUID.PubKey(); ok {
		return pk, nil
	}

	if len(sender.OwnerPubKey) == 0 {
		return nil, errors.NewRejectError(errors.ReasonBadPublicKey, "account %s has no owner public key", tx.TxUID)
	}

	return sender.OwnerPubKey, nil
}

func (v *Validator) checkSignature(tx *model.Transaction, txid chainhash.Hash, sender *model.Account) error {
	pubKey, err := SenderPubKey(tx, sender)
	if err != nil {
		return err
	}

	if !v.verifier.Verify(pubKey, txid[:], tx.Signature) {
		return errors.NewRejectError(errors.ReasonBadSignature, "signature does not verify against %x", pubKey)
	}

	return nil
}
