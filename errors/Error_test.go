package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WrapsTrailingError(t *testing.T) {
	err := New(ERR_STORAGE_ERROR, "failed at %d of %s", 3, "utxos")
	assert.Equal(t, "failed at 3 of utxos", err.Message())
	assert.Nil(t, err.Unwrap())

	inner := fmt.Errorf("disk full")
	err = New(ERR_STORAGE_ERROR, "failed at %d", 3, inner)
	assert.Equal(t, "failed at 3", err.Message())
	assert.Equal(t, inner, err.Unwrap())
	assert.Equal(t, "STORAGE_ERROR: failed at 3: disk full", err.Error())
}

func TestErrorIs_MatchesCodeAnywhereInChain(t *testing.T) {
	spent := New(ERR_TX_INVALID_DOUBLE_SPEND, "spent")
	resolve := New(ERR_INVALID_ARGUMENT, "resolve %s", "abc", spent)
	outer := New(ERR_SERVICE_ERROR, "submit", resolve)

	assert.True(t, errors.Is(outer, ErrTxInvalidDoubleSpend))
	assert.True(t, errors.Is(outer, ErrInvalidArgument))
	assert.True(t, errors.Is(fmt.Errorf("cli: %w", outer), ErrServiceError))
	assert.False(t, errors.Is(outer, ErrUtxoNotFound))
	assert.False(t, errors.Is(spent, ErrServiceError))
	assert.False(t, errors.Is(outer, fmt.Errorf("plain")))
}

func TestErrorAs(t *testing.T) {
	err := New(ERR_STORAGE_UNAVAILABLE, "tx index disabled")

	var tErr *Error
	require.True(t, As(fmt.Errorf("lookup: %w", err), &tErr))
	assert.Equal(t, ERR_STORAGE_UNAVAILABLE, tErr.Code())
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "UTXO_EXISTS", ERR_UTXO_EXISTS.String())
	assert.Equal(t, "ERR(12345)", ERR(12345).String())
}

func TestRejectError(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		code   ERR
	}{
		{"condition", ReasonUIDMismatch, ERR_TX_INVALID},
		{"double spend", ReasonDoubleSpend, ERR_TX_INVALID_DOUBLE_SPEND},
		{"signature", ReasonBadSignature, ERR_TX_INVALID_SIGNATURE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRejectError(tt.reason, "input %d rejected", 2)
			require.True(t, IsReject(err))
			assert.Equal(t, tt.reason, RejectReason(err))
			assert.Contains(t, err.Error(), "reason="+tt.reason)

			var tErr *Error
			require.True(t, As(err, &tErr))
			assert.Equal(t, tt.code, tErr.Code())

			outer := New(ERR_PROCESSING, "execute failed", err)
			assert.Equal(t, tt.reason, RejectReason(outer))
		})
	}

	assert.Equal(t, "", RejectReason(nil))
	assert.Equal(t, "", RejectReason(NewStorageError("boom")))
	assert.False(t, IsReject(fmt.Errorf("plain")))
}

func TestJoin_KeepsReasonAndCodes(t *testing.T) {
	reject := NewRejectError(ReasonInsufficientFund, "short by 10")
	rollback := NewStorageError("undo failed")

	err := Join(reject, rollback)
	assert.Equal(t, ReasonInsufficientFund, RejectReason(err))
	assert.True(t, Is(err, ErrStorageError))
	assert.True(t, Is(err, ErrTxInvalid))

	assert.Nil(t, Join(nil, nil))
}
