// Package testutil builds the settings, keys and transactions that service
// tests share.
package testutil

import (
	"context"
	"net/url"
	"testing"
	"time"

	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/utxoledger/chaincfg"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/settings"
	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/stretchr/testify/require"
)

const Symbol = "WICC"

// CommonTestSetup provides the standard test context used across services
type CommonTestSetup struct {
	Ctx      context.Context
	Logger   ulogger.Logger
	Settings *settings.Settings
}

func NewCommonTestSetup(t *testing.T) *CommonTestSetup {
	return &CommonTestSetup{
		Ctx:      context.Background(),
		Logger:   ulogger.NewVerboseTestLogger(t),
		Settings: CreateBaseTestSettings(),
	}
}

// CreateBaseTestSettings returns regtest settings with every store in
// memory, independent of any settings.conf.
func CreateBaseTestSettings() *settings.Settings {
	memoryURL, _ := url.Parse("memory://")
	params := chaincfg.RegressionNetParams

	return &settings.Settings{
		ClientName:     "utxoledger-test",
		DataFolder:     "data",
		Network:        params.Name,
		ChainCfgParams: &params,
		UtxoStore: settings.UtxoStoreSettings{
			StoreURL:  memoryURL,
			DBTimeout: 5 * time.Second,
		},
		AccountStore: settings.AccountStoreSettings{StoreURL: memoryURL},
		ReceiptStore: settings.ReceiptStoreSettings{StoreURL: memoryURL},
		ChainStore:   settings.ChainStoreSettings{StoreURL: memoryURL, TxIndex: true},
		Validator: settings.ValidatorSettings{
			ValidHeightWindow:   params.ValidHeightWindow,
			ResolverCacheTTL:    time.Minute,
			ResolverCacheSize:   100,
			ResolverConcurrency: 4,
		},
	}
}

// Wallet is a secp256k1 key pair with the identities derived from it.
type Wallet struct {
	PrivKey *bec.PrivateKey
	PubKey  []byte
	KeyID   model.KeyID
}

func NewWallet(t *testing.T) *Wallet {
	priv, err := bec.NewPrivateKey()
	require.NoError(t, err)

	pub := priv.PubKey().Compressed()

	return &Wallet{
		PrivKey: priv,
		PubKey:  pub,
		KeyID:   model.KeyIDFromPubKey(pub),
	}
}

func (w *Wallet) UID() model.UserID {
	return model.NewPubKeyUser(w.PubKey)
}

// Account returns an unregistered account for w holding balance of Symbol.
func (w *Wallet) Account(balance uint64) *model.Account {
	acct := model.NewAccount(w.KeyID)
	acct.OwnerPubKey = w.PubKey
	acct.Balances[Symbol] = balance

	return acct
}

// SignHash returns a DER signature over h.
func (w *Wallet) SignHash(t *testing.T, h [32]byte) []byte {
	sig, err := w.PrivKey.Sign(h[:])
	require.NoError(t, err)

	return sig.Serialize()
}

// Sign sets the sender signature. tx must not change afterwards.
func (w *Wallet) Sign(t *testing.T, tx *model.Transaction) *model.Transaction {
	tx.Signature = w.SignHash(t, tx.Hash())
	return tx
}

// NewTx is an unsigned transfer from sender in Symbol at validHeight.
func NewTx(sender model.UserID, validHeight uint32, fees uint64, inputs []*model.Input, outputs []*model.Output) *model.Transaction {
	return &model.Transaction{
		Version:     model.CurrentTxVersion,
		TxUID:       sender,
		ValidHeight: validHeight,
		CoinSymbol:  Symbol,
		FeeSymbol:   Symbol,
		Fees:        fees,
		Inputs:      inputs,
		Outputs:     outputs,
	}
}

// Output locks amount of Symbol with locks.
func Output(amount uint64, locks ...model.LockCondition) *model.Output {
	return &model.Output{Amount: amount, CoinSymbol: Symbol, Locks: locks}
}

func OwnedBy(owner model.UserID) model.LockCondition {
	return &model.SingleAddressLock{Owner: owner}
}

func Input(prev *model.Transaction, index uint16, unlocks ...model.UnlockCondition) *model.Input {
	return &model.Input{PrevTxID: prev.Hash(), PrevOutIndex: index, Unlocks: unlocks}
}

// AssertHealthResponse checks a health call returned expectStatus.
func AssertHealthResponse(t *testing.T, status int, msg string, err error, expectStatus int, expectErr bool) {
	if expectErr {
		require.Error(t, err)
	} else {
		require.NoError(t, err)
	}

	require.Equal(t, expectStatus, status, msg)
}
