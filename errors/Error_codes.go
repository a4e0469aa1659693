package errors

import "strconv"

// ERR classifies a failure. Codes are grouped per subsystem in blocks of ten
// so a range check tells storage faults from transaction problems.
type ERR int32

const (
	ERR_UNKNOWN          ERR = 0
	ERR_INVALID_ARGUMENT ERR = 1
	ERR_NOT_FOUND        ERR = 3
	ERR_PROCESSING       ERR = 4
	ERR_CONFIGURATION    ERR = 5
	ERR_CONTEXT_CANCELED ERR = 7

	// consensus rejections and transaction bookkeeping
	ERR_TX_INVALID              ERR = 31
	ERR_TX_INVALID_DOUBLE_SPEND ERR = 32
	ERR_TX_ALREADY_EXISTS       ERR = 33
	ERR_TX_INVALID_SIGNATURE    ERR = 34

	ERR_SERVICE_UNAVAILABLE ERR = 50
	ERR_SERVICE_ERROR       ERR = 52

	ERR_STORAGE_UNAVAILABLE ERR = 60
	ERR_STORAGE_ERROR       ERR = 62

	ERR_UTXO_NOT_FOUND ERR = 70
	ERR_UTXO_EXISTS    ERR = 71

	ERR_KAFKA_ERROR ERR = 80

	ERR_ACCOUNT_NOT_FOUND ERR = 90
	ERR_ACCOUNT_ERROR     ERR = 91

	ERR_RECEIPT_ERROR ERR = 100
)

const (
	storageRangeStart ERR = 60
	storageRangeEnd   ERR = 69
)

var errNames = map[ERR]string{
	ERR_UNKNOWN:                 "UNKNOWN",
	ERR_INVALID_ARGUMENT:        "INVALID_ARGUMENT",
	ERR_NOT_FOUND:               "NOT_FOUND",
	ERR_PROCESSING:              "PROCESSING",
	ERR_CONFIGURATION:           "CONFIGURATION",
	ERR_CONTEXT_CANCELED:        "CONTEXT_CANCELED",
	ERR_TX_INVALID:              "TX_INVALID",
	ERR_TX_INVALID_DOUBLE_SPEND: "TX_INVALID_DOUBLE_SPEND",
	ERR_TX_ALREADY_EXISTS:       "TX_ALREADY_EXISTS",
	ERR_TX_INVALID_SIGNATURE:    "TX_INVALID_SIGNATURE",
	ERR_SERVICE_UNAVAILABLE:     "SERVICE_UNAVAILABLE",
	ERR_SERVICE_ERROR:           "SERVICE_ERROR",
	ERR_STORAGE_UNAVAILABLE:     "STORAGE_UNAVAILABLE",
	ERR_STORAGE_ERROR:           "STORAGE_ERROR",
	ERR_UTXO_NOT_FOUND:          "UTXO_NOT_FOUND",
	ERR_UTXO_EXISTS:             "UTXO_EXISTS",
	ERR_KAFKA_ERROR:             "KAFKA_ERROR",
	ERR_ACCOUNT_NOT_FOUND:       "ACCOUNT_NOT_FOUND",
	ERR_ACCOUNT_ERROR:           "ACCOUNT_ERROR",
	ERR_RECEIPT_ERROR:           "RECEIPT_ERROR",
}

func (x ERR) String() string {
	if name, ok := errNames[x]; ok {
		return name
	}

	return "ERR(" + strconv.Itoa(int(x)) + ")"
}
