package ledger

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/services/validator"
	"github.com/bsv-blockchain/utxoledger/settings"
	accountmemory "github.com/bsv-blockchain/utxoledger/stores/account/memory"
	chainmemory "github.com/bsv-blockchain/utxoledger/stores/chain/memory"
	"github.com/bsv-blockchain/utxoledger/stores/receipt"
	receiptmemory "github.com/bsv-blockchain/utxoledger/stores/receipt/memory"
	utxomemory "github.com/bsv-blockchain/utxoledger/stores/utxo/memory"
	"github.com/bsv-blockchain/utxoledger/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const height = uint32(100)

type fixture struct {
	ctx      context.Context
	settings *settings.Settings
	ledger   *Ledger

	sender *testutil.Wallet
	alice  *testutil.Wallet
	// prior pays 500 to sender and 200 to alice
	prior *model.Transaction

	fundIndex uint16
}

func newFixture(t *testing.T, wrap ...func(*Stores)) *fixture {
	setup := testutil.NewCommonTestSetup(t)

	stores := Stores{
		Accounts: accountmemory.New(),
		Utxos:    utxomemory.New(setup.Logger),
		Receipts: receiptmemory.New(),
		Chain:    chainmemory.New(true),
	}

	for _, fn := range wrap {
		fn(&stores)
	}

	f := &fixture{
		ctx:      setup.Ctx,
		settings: setup.Settings,
		ledger:   New(setup.Logger, setup.Settings, stores, nil),
		sender:   testutil.NewWallet(t),
		alice:    testutil.NewWallet(t),
	}

	t.Cleanup(func() { _ = f.ledger.Close() })

	_, err := f.ledger.Credit(f.ctx, f.sender.PubKey, testutil.Symbol, 1000)
	require.NoError(t, err)

	_, err = f.ledger.Credit(f.ctx, f.alice.PubKey, testutil.Symbol, 10_000)
	require.NoError(t, err)

	f.prior = f.fund(t,
		testutil.Output(500, testutil.OwnedBy(f.sender.UID())),
		testutil.Output(200, testutil.OwnedBy(f.alice.UID())),
	)

	return f
}

// fund has alice create outputs from her account balance at height 10.
func (f *fixture) fund(t *testing.T, outputs ...*model.Output) *model.Transaction {
	tx := f.alice.Sign(t, testutil.NewTx(f.alice.UID(), 10, 30, nil, outputs))

	_, err := f.ledger.Submit(f.ctx, tx, ExecContext{Height: 10, TxIndex: f.fundIndex})
	require.NoError(t, err)

	f.fundIndex++

	return tx
}

// spend is the reference transfer: prior:0 (500) into outputs of 300 and 100
// with a fee of 50.
func (f *fixture) spend(t *testing.T, fee uint64) *model.Transaction {
	return f.sender.Sign(t, testutil.NewTx(f.sender.UID(), height, fee,
		[]*model.Input{testutil.Input(f.prior, 0)},
		[]*model.Output{
			testutil.Output(300, testutil.OwnedBy(f.alice.UID())),
			testutil.Output(100, testutil.OwnedBy(f.sender.UID())),
		}))
}

func (f *fixture) balance(t *testing.T, w *testutil.Wallet) uint64 {
	acct, err := f.ledger.Account(f.ctx, w.UID())
	require.NoError(t, err)

	return acct.FreeBalance(testutil.Symbol)
}

func (f *fixture) unspent(t *testing.T, tx *model.Transaction, index uint16) bool {
	ok, err := f.ledger.IsUnspent(f.ctx, model.UtxoKey{TxID: tx.Hash(), Index: index})
	require.NoError(t, err)

	return ok
}

func assertReason(t *testing.T, err error, reason string) {
	t.Helper()

	if reason == "" {
		require.NoError(t, err)
		return
	}

	require.Error(t, err)
	assert.Equal(t, reason, errors.RejectReason(err), err.Error())
}

func TestSubmit_ReferenceTransfer(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, uint64(9270), f.balance(t, f.alice))

	tx := f.spend(t, 50)

	r, err := f.ledger.Submit(f.ctx, tx, ExecContext{Height: height, TxIndex: 1})
	require.NoError(t, err)

	assert.Equal(t, uint64(1050), f.balance(t, f.sender))
	assert.Equal(t, uint64(9270), f.balance(t, f.alice))

	assert.False(t, f.unspent(t, f.prior, 0))
	assert.True(t, f.unspent(t, f.prior, 1))
	assert.True(t, f.unspent(t, tx, 0))
	assert.True(t, f.unspent(t, tx, 1))

	assert.Equal(t, tx.TxUID, r.From)
	assert.True(t, r.To.IsEmpty(), "outputs have different owners")
	assert.Equal(t, uint64(50), r.Amount)
	assert.Equal(t, model.ReceiptTransferUtxoCoins, r.Code)

	stored, err := f.ledger.Receipts(f.ctx, tx.Hash())
	require.NoError(t, err)
	assert.Equal(t, height, stored.BlockHeight)
	require.Len(t, stored.Receipts, 1)
	assert.Equal(t, *r, *stored.Receipts[0])

	got, err := f.ledger.Transaction(f.ctx, tx.Hash())
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), got.Hash())

	acct, err := f.ledger.Account(f.ctx, f.sender.UID())
	require.NoError(t, err)
	assert.Equal(t, model.RegID{Height: height, Index: 1}, acct.RegID)
}

func TestSubmit_FundingReceipt(t *testing.T) {
	f := newFixture(t)

	tx := f.fund(t, testutil.Output(40, testutil.OwnedBy(f.sender.UID())), testutil.Output(60, testutil.OwnedBy(f.sender.UID())))

	stored, err := f.ledger.Receipts(f.ctx, tx.Hash())
	require.NoError(t, err)

	r := stored.Receipts[0]
	assert.True(t, r.To.Equal(f.sender.UID()))
	assert.Equal(t, uint64(130), r.Amount)

	acct, err := f.ledger.Account(f.ctx, f.alice.UID())
	require.NoError(t, err)
	assert.Equal(t, model.RegID{Height: 10, Index: 0}, acct.RegID, "kept from the first funding")
}

func TestSubmit_DoubleSpend(t *testing.T) {
	f := newFixture(t)

	tx := f.spend(t, 50)
	_, err := f.ledger.Submit(f.ctx, tx, ExecContext{Height: height, TxIndex: 1})
	require.NoError(t, err)

	_, err = f.ledger.Submit(f.ctx, tx, ExecContext{Height: height + 1})
	assertReason(t, err, errors.ReasonDoubleSpend)

	_, err = f.ledger.Submit(f.ctx, f.spend(t, 60), ExecContext{Height: height + 1})
	assertReason(t, err, errors.ReasonDoubleSpend)

	assert.Equal(t, uint64(1050), f.balance(t, f.sender))
}

func TestSubmit_ReplayAfterSpend(t *testing.T) {
	f := newFixture(t)

	fund := f.fund(t, testutil.Output(500, testutil.OwnedBy(f.sender.UID())))

	spend := f.sender.Sign(t, testutil.NewTx(f.sender.UID(), height, 50,
		[]*model.Input{testutil.Input(fund, 0)},
		[]*model.Output{testutil.Output(400, testutil.OwnedBy(f.alice.UID()))}))

	_, err := f.ledger.Submit(f.ctx, spend, ExecContext{Height: height, TxIndex: 1})
	require.NoError(t, err)

	aliceBefore := f.balance(t, f.alice)

	err = f.ledger.Validate(f.ctx, fund, 10)
	assertReason(t, err, errors.ReasonTxExecuted)

	_, err = f.ledger.Submit(f.ctx, fund, ExecContext{Height: 10, TxIndex: 9})
	assertReason(t, err, errors.ReasonTxExecuted)

	// without validation the stores refuse the second execution
	_, err = f.ledger.Execute(f.ctx, fund, ExecContext{Height: 10, TxIndex: 9})
	assertReason(t, err, errors.ReasonTxExecuted)
	assert.False(t, errors.IsStorageFault(err))

	assert.Equal(t, aliceBefore, f.balance(t, f.alice))
	assert.False(t, f.unspent(t, fund, 0))
}

func TestSubmit_ClaimLockBoundary(t *testing.T) {
	f := newFixture(t)

	locked := f.fund(t, testutil.Output(500, testutil.OwnedBy(f.sender.UID()), &model.ClaimLock{Height: height}))

	build := func(h uint32) *model.Transaction {
		return f.sender.Sign(t, testutil.NewTx(f.sender.UID(), h, 50,
			[]*model.Input{testutil.Input(locked, 0)},
			[]*model.Output{testutil.Output(400, testutil.OwnedBy(f.sender.UID()))}))
	}

	_, err := f.ledger.Submit(f.ctx, build(height), ExecContext{Height: height})
	assertReason(t, err, errors.ReasonTooEarlyToClaim)
	assert.True(t, f.unspent(t, locked, 0))

	_, err = f.ledger.Submit(f.ctx, build(height+1), ExecContext{Height: height + 1})
	require.NoError(t, err)
	assert.False(t, f.unspent(t, locked, 0))
	assert.Equal(t, uint64(1050), f.balance(t, f.sender))
}

func TestSubmit_ReclaimLock(t *testing.T) {
	f := newFixture(t)

	locked := f.fund(t,
		testutil.Output(500, &model.ReclaimLock{Height: height}),
		testutil.Output(500, &model.ReclaimLock{Height: height}),
	)

	byAlice := func(index uint16, h uint32) *model.Transaction {
		return f.alice.Sign(t, testutil.NewTx(f.alice.UID(), h, 30,
			[]*model.Input{testutil.Input(locked, index)},
			[]*model.Output{testutil.Output(450, testutil.OwnedBy(f.alice.UID()))}))
	}

	_, err := f.ledger.Submit(f.ctx, byAlice(0, height), ExecContext{Height: height})
	assertReason(t, err, errors.ReasonTooEarlyToReclaim)

	bySender := f.sender.Sign(t, testutil.NewTx(f.sender.UID(), height, 30,
		[]*model.Input{testutil.Input(locked, 0)},
		[]*model.Output{testutil.Output(450, testutil.OwnedBy(f.sender.UID()))}))

	_, err = f.ledger.Submit(f.ctx, bySender, ExecContext{Height: height})
	require.NoError(t, err, "only the creator is gated")

	_, err = f.ledger.Submit(f.ctx, byAlice(1, height+1), ExecContext{Height: height + 1})
	require.NoError(t, err)
}

func TestSubmit_Counts(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Submit(f.ctx, f.sender.Sign(t, testutil.NewTx(f.sender.UID(), height, 50, nil, nil)), ExecContext{Height: height})
	assertReason(t, err, errors.ReasonUtxoEmpty)

	outputs := make([]*model.Output, model.MaxOutputs+1)
	for i := range outputs {
		outputs[i] = testutil.Output(1, testutil.OwnedBy(f.alice.UID()))
	}

	_, err = f.ledger.Submit(f.ctx, f.sender.Sign(t, testutil.NewTx(f.sender.UID(), height, 500, nil, outputs)), ExecContext{Height: height})
	assertReason(t, err, errors.ReasonVoutsTooLarge)

	inputs := make([]*model.Input, model.MaxInputs+1)
	for i := range inputs {
		inputs[i] = testutil.Input(f.prior, 0)
	}

	_, err = f.ledger.Submit(f.ctx, f.sender.Sign(t, testutil.NewTx(f.sender.UID(), height, 5000, inputs, nil)), ExecContext{Height: height})
	assertReason(t, err, errors.ReasonVinsTooLarge)

	assert.Equal(t, uint64(1000), f.balance(t, f.sender))
}

func TestSubmit_Conservation(t *testing.T) {
	f := newFixture(t)

	total := func(txs ...*model.Transaction) uint64 {
		sum := f.balance(t, f.sender) + f.balance(t, f.alice)

		for _, tx := range txs {
			for i, out := range tx.Outputs {
				if f.unspent(t, tx, uint16(i)) {
					sum += out.Amount
				}
			}
		}

		return sum
	}

	tx := f.spend(t, 50)
	before := total(f.prior, tx)

	_, err := f.ledger.Submit(f.ctx, tx, ExecContext{Height: height, TxIndex: 1})
	require.NoError(t, err)

	assert.Equal(t, before-tx.Fees, total(f.prior, tx))
}

func TestExecute_RechecksBalance(t *testing.T) {
	f := newFixture(t)

	// validated nowhere, the execution itself must refuse it
	tx := f.spend(t, 5000)

	_, err := f.ledger.Execute(f.ctx, tx, ExecContext{Height: height})
	assertReason(t, err, errors.ReasonInsufficientFund)

	assert.True(t, f.unspent(t, f.prior, 0))
	assert.False(t, f.unspent(t, tx, 0))
	assert.False(t, f.unspent(t, tx, 1))
	assert.Equal(t, uint64(1000), f.balance(t, f.sender))
}

func TestExecute_MissingAccount(t *testing.T) {
	f := newFixture(t)
	stranger := testutil.NewWallet(t)

	tx := stranger.Sign(t, testutil.NewTx(stranger.UID(), height, 50,
		[]*model.Input{testutil.Input(f.prior, 0)},
		[]*model.Output{testutil.Output(400, testutil.OwnedBy(stranger.UID()))}))

	_, err := f.ledger.Execute(f.ctx, tx, ExecContext{Height: height})
	assertReason(t, err, errors.ReasonBadReadAccountDB)
	assert.True(t, f.unspent(t, f.prior, 0))
}

func TestExecute_NilTransaction(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Execute(f.ctx, nil, ExecContext{Height: height})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

type failingReceipts struct {
	receipt.Store
}

func (failingReceipts) Append(context.Context, *model.TxReceipts) error {
	return errors.NewStorageUnavailableError("receipt store offline")
}

type failingChain struct {
	*chainmemory.Memory
	fail atomic.Bool
}

func (c *failingChain) Put(ctx context.Context, tx *model.Transaction, h uint32) error {
	if c.fail.Load() {
		return errors.NewStorageUnavailableError("chain store offline")
	}

	return c.Memory.Put(ctx, tx, h)
}

func TestExecute_RollsBack(t *testing.T) {
	t.Run("receipt store fails", func(t *testing.T) {
		f := newFixture(t)

		// swap after funding so the fixture itself can execute
		f.ledger.stores.Receipts = failingReceipts{Store: f.ledger.stores.Receipts}

		tx := f.spend(t, 50)

		_, err := f.ledger.Submit(f.ctx, tx, ExecContext{Height: height, TxIndex: 1})
		require.Error(t, err)
		assert.False(t, errors.IsReject(err))
		assert.True(t, errors.Is(err, errors.ErrStorageError))

		assert.True(t, f.unspent(t, f.prior, 0))
		assert.False(t, f.unspent(t, tx, 0))
		assert.Equal(t, uint64(1000), f.balance(t, f.sender))

		acct, err := f.ledger.Account(f.ctx, f.sender.UID())
		require.NoError(t, err)
		assert.False(t, acct.IsRegistered())
	})

	t.Run("chain store fails", func(t *testing.T) {
		var chain *failingChain

		f := newFixture(t, func(s *Stores) {
			chain = &failingChain{Memory: s.Chain.(*chainmemory.Memory)}
			s.Chain = chain
		})

		chain.fail.Store(true)

		tx := f.spend(t, 50)

		_, err := f.ledger.Submit(f.ctx, tx, ExecContext{Height: height, TxIndex: 1})
		require.Error(t, err)

		_, err = f.ledger.Receipts(f.ctx, tx.Hash())
		assert.True(t, errors.Is(err, errors.ErrNotFound))

		assert.True(t, f.unspent(t, f.prior, 0))
		assert.Equal(t, uint64(1000), f.balance(t, f.sender))

		chain.fail.Store(false)

		_, err = f.ledger.Submit(f.ctx, tx, ExecContext{Height: height, TxIndex: 1})
		require.NoError(t, err)
		assert.Equal(t, uint64(1050), f.balance(t, f.sender))
	})
}

func TestSubmit_ConcurrentDoubleSpend(t *testing.T) {
	f := newFixture(t)

	const n = 8

	txs := make([]*model.Transaction, n)
	for i := range txs {
		txs[i] = f.spend(t, uint64(50+i))
	}

	var (
		wg         sync.WaitGroup
		ok, double atomic.Int32
	)

	for i, tx := range txs {
		wg.Add(1)

		go func(i int, tx *model.Transaction) {
			defer wg.Done()

			_, err := f.ledger.Submit(f.ctx, tx, ExecContext{Height: height, TxIndex: uint16(i + 1)})

			switch {
			case err == nil:
				ok.Add(1)
			case errors.RejectReason(err) == errors.ReasonDoubleSpend:
				double.Add(1)
			}
		}(i, tx)
	}

	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(n-1), double.Load())
	assert.False(t, f.unspent(t, f.prior, 0))
}

func TestValidate_DoesNotMutate(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.ledger.Validate(f.ctx, f.spend(t, 50), height))
	require.NoError(t, f.ledger.Validate(f.ctx, f.spend(t, 50), height, validator.WithSkipPrefetch(true)))

	assert.True(t, f.unspent(t, f.prior, 0))
	assert.Equal(t, uint64(1000), f.balance(t, f.sender))
}

func TestValidate_ConcurrentOnOneTransaction(t *testing.T) {
	f := newFixture(t)

	// decoded, so the hash is not cached yet
	tx, err := model.NewTransactionFromBytes(f.spend(t, 50).Bytes())
	require.NoError(t, err)

	var wg sync.WaitGroup

	errs := make([]error, 8)

	for i := range errs {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			errs[i] = f.ledger.Validate(f.ctx, tx, height)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestCredit(t *testing.T) {
	f := newFixture(t)

	acct, err := f.ledger.Credit(f.ctx, f.sender.PubKey, testutil.Symbol, 25)
	require.NoError(t, err)
	assert.Equal(t, uint64(1025), acct.FreeBalance(testutil.Symbol))

	_, err = f.ledger.Credit(f.ctx, f.sender.PubKey, "BTC", 1)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	_, err = f.ledger.Credit(f.ctx, []byte{0x02, 0x01}, testutil.Symbol, 1)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestTransaction_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Transaction(f.ctx, chainhash.Hash{1})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	status, msg, err := f.ledger.Health(f.ctx, true)
	testutil.AssertHealthResponse(t, status, msg, err, http.StatusOK, false)

	status, msg, err = f.ledger.Health(f.ctx, false)
	testutil.AssertHealthResponse(t, status, msg, err, http.StatusOK, false)
}

func TestRecipient(t *testing.T) {
	a, b := testutil.NewWallet(t).UID(), testutil.NewWallet(t).UID()

	tests := []struct {
		name    string
		outputs []*model.Output
		want    model.UserID
	}{
		{"none", nil, model.NullUserID},
		{"single owner", []*model.Output{testutil.Output(1, testutil.OwnedBy(a)), testutil.Output(2, testutil.OwnedBy(a))}, a},
		{"two owners", []*model.Output{testutil.Output(1, testutil.OwnedBy(a)), testutil.Output(2, testutil.OwnedBy(b))}, model.NullUserID},
		{"unowned output", []*model.Output{testutil.Output(1, testutil.OwnedBy(a)), testutil.Output(2, &model.ClaimLock{Height: 1})}, model.NullUserID},
		{"conflicting locks", []*model.Output{testutil.Output(1, testutil.OwnedBy(a), testutil.OwnedBy(b))}, model.NullUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(recipient(tt.outputs)))
		})
	}
}
