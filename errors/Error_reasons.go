package errors

// Reject reasons. These strings are part of the external interface.
const (
	// condition evaluation
	ReasonUIDMismatch           = "uid-mismatch"
	ReasonUIDEmpty              = "uid-empty"
	ReasonSecretMismatch        = "secret-mismatch"
	ReasonCondMissing           = "cond-missing"
	ReasonTooEarlyToClaim       = "too-early-to-claim"
	ReasonTooEarlyToReclaim     = "too-early-to-reclaim"
	ReasonCondTypeErr           = "cond-type-err"
	ReasonEmptyHashLock         = "empty-hash-lock-err"
	ReasonClaimLockEmpty        = "claim-lock-empty-err"
	ReasonReclaimLockEmpty      = "reclaim-lock-empty-err"
	ReasonMultiSignThresholdErr = "multisign-threshold-err"
	ReasonMultiSignNotMet       = "multisign-threshold-not-met"

	// structure
	ReasonBadTxVersion       = "bad-tx-version"
	ReasonInvalidHeight      = "tx-invalid-height"
	ReasonMemoTooLarge       = "memo-size-toolarge"
	ReasonBadTxUIDType       = "bad-tx-uid-type"
	ReasonBadPublicKey       = "bad-publickey"
	ReasonBadCoinSymbol      = "bad-coin-symbol"
	ReasonFeeSymbolMismatch  = "fee-symbol-mismatch"
	ReasonCoinSymbolMismatch = "coin-symbol-mismatch"
	ReasonBadGetAccount      = "bad-getaccount"
	ReasonUtxoEmpty          = "utxo-empty-err"
	ReasonVinsTooLarge       = "vins-size-too-large"
	ReasonVoutsTooLarge      = "vouts-size-too-large"
	ReasonFeeTooSmall        = "bad-tx-fee-toosmall"
	ReasonTxNotActivated     = "tx-type-not-activated"

	// inputs and outputs
	ReasonPrevUtxoNotFound = "failed-to-load-prev-utxo-err"
	ReasonPrevUtxoIndexOOR = "prev-utxo-index-OOR-err"
	ReasonZeroOutputAmount = "zero-output-amount-err"
	ReasonInsufficientCoin = "insufficient-account-coin-amount"
	ReasonBadSignature     = "bad-signature"
	ReasonTxExecuted       = "tx-already-executed"

	// execution
	ReasonDoubleSpend      = "double-spend-prev-utxo-err"
	ReasonSetUtxo          = "set-utxo-err"
	ReasonInsufficientFund = "insufficient-fund-utxo"
	ReasonBadReadAccountDB = "bad-read-accountdb"
	ReasonAmountOverflow   = "amount-overflow"
)
