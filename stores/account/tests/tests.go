// Package tests holds behaviour checks shared by every account.Store.
package tests

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/stores/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	PubKey1 = []byte{0x02, 0x79, 0xbe, 0x66, 0x7e, 0xf9, 0xdc, 0xbb, 0xac, 0x55, 0xa0, 0x62, 0x95, 0xce, 0x87, 0x0b, 0x07,
		0x02, 0x9b, 0xfc, 0xdb, 0x2d, 0xce, 0x28, 0xd9, 0x59, 0xf2, 0x81, 0x5b, 0x16, 0xf8, 0x17, 0x98}
	PubKey2 = []byte{0x03, 0xc6, 0x04, 0x7f, 0x94, 0x41, 0xed, 0x7d, 0x6d, 0x30, 0x45, 0x40, 0x6e, 0x95, 0xc0, 0x7c, 0xd8,
		0x5c, 0x77, 0x8e, 0x4b, 0x8c, 0xef, 0x3c, 0xa7, 0xab, 0xac, 0x09, 0xb9, 0x5c, 0x70, 0x9e, 0xe5}
)

func newAccount(pubKey []byte, regID model.RegID, wicc uint64) *model.Account {
	acct := model.NewAccount(model.KeyIDFromPubKey(pubKey))
	acct.RegID = regID
	acct.OwnerPubKey = pubKey
	acct.Balances["WICC"] = wicc

	return acct
}

func SaveGet(t *testing.T, db account.Store) {
	ctx := context.Background()
	acct := newAccount(PubKey1, model.RegID{Height: 10, Index: 2}, 1000)

	require.NoError(t, db.Save(ctx, acct))

	lookups := []model.UserID{
		model.NewRegIDUser(model.RegID{Height: 10, Index: 2}),
		model.NewKeyIDUser(acct.KeyID),
		model.NewPubKeyUser(PubKey1),
	}

	for _, uid := range lookups {
		got, err := db.Get(ctx, uid)
		require.NoError(t, err, uid.Type().String())
		assert.Equal(t, acct.KeyID, got.KeyID)
		assert.Equal(t, acct.RegID, got.RegID)
		assert.Equal(t, PubKey1, got.OwnerPubKey)
		assert.Equal(t, uint64(1000), got.FreeBalance("WICC"))
	}
}

func NotFound(t *testing.T, db account.Store) {
	ctx := context.Background()

	for _, uid := range []model.UserID{
		model.NewRegIDUser(model.RegID{Height: 99, Index: 1}),
		model.NewPubKeyUser(PubKey2),
		model.NullUserID,
	} {
		_, err := db.Get(ctx, uid)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrAccountNotFound), uid.Type().String())
	}
}

// ReturnsCopies checks that changes to a fetched account stay private until
// Save.
func ReturnsCopies(t *testing.T, db account.Store) {
	ctx := context.Background()
	acct := newAccount(PubKey1, model.RegID{}, 500)

	require.NoError(t, db.Save(ctx, acct))

	acct.Balances["WICC"] = 1

	got, err := db.Get(ctx, model.NewPubKeyUser(PubKey1))
	require.NoError(t, err)
	assert.Equal(t, uint64(500), got.FreeBalance("WICC"))

	require.NoError(t, got.OperateBalance("WICC", model.SubFree, 200))

	again, err := db.Get(ctx, model.NewPubKeyUser(PubKey1))
	require.NoError(t, err)
	assert.Equal(t, uint64(500), again.FreeBalance("WICC"))

	require.NoError(t, db.Save(ctx, got))

	again, err = db.Get(ctx, model.NewPubKeyUser(PubKey1))
	require.NoError(t, err)
	assert.Equal(t, uint64(300), again.FreeBalance("WICC"))
}

func RegisterLater(t *testing.T, db account.Store) {
	ctx := context.Background()
	acct := newAccount(PubKey2, model.RegID{}, 0)

	require.NoError(t, db.Save(ctx, acct))

	_, err := db.Get(ctx, model.NewRegIDUser(model.RegID{Height: 7, Index: 3}))
	require.Error(t, err)

	acct.RegID = model.RegID{Height: 7, Index: 3}
	require.NoError(t, db.Save(ctx, acct))

	got, err := db.Get(ctx, model.NewRegIDUser(model.RegID{Height: 7, Index: 3}))
	require.NoError(t, err)
	assert.Equal(t, acct.KeyID, got.KeyID)
}

func RegIDConflict(t *testing.T, db account.Store) {
	ctx := context.Background()
	regID := model.RegID{Height: 5, Index: 1}

	require.NoError(t, db.Save(ctx, newAccount(PubKey1, regID, 1)))

	err := db.Save(ctx, newAccount(PubKey2, regID, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAccountError))
}
