package main

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/bsv-blockchain/utxoledger/model"
	"github.com/bsv-blockchain/utxoledger/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer

	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	err := app.Run(append([]string{progname}, args...))

	return out.String(), err
}

func TestKeygen(t *testing.T) {
	out, err := run(t, "keygen")
	require.NoError(t, err)

	var keys map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &keys))

	pub, err := hex.DecodeString(keys["public_key"])
	require.NoError(t, err)
	assert.Len(t, pub, 33)
	assert.Equal(t, model.KeyIDFromPubKey(pub).String(), keys["keyid"])
	assert.Len(t, keys["private_key"], 64)
}

func TestHashlock(t *testing.T) {
	w := testutil.NewWallet(t)

	out, err := run(t, "hashlock", "--secret", "s3cret", "--spender", hex.EncodeToString(w.PubKey))
	require.NoError(t, err)

	want := model.PasswordHash("s3cret", w.UID())
	assert.Equal(t, want.String(), strings.TrimSpace(out))

	_, err = run(t, "hashlock", "--secret", "s3cret", "--spender", "")
	require.Error(t, err)
}

func TestSubmit_RejectsBadHex(t *testing.T) {
	_, err := run(t, "submit", "--tx", "zz", "--height", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not hex")
}
