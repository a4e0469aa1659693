package errors

// Sentinels for matching with Is. Only the code is compared.
var (
	ErrUnknown              = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument      = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound             = New(ERR_NOT_FOUND, "not found")
	ErrProcessing           = New(ERR_PROCESSING, "processing failed")
	ErrConfiguration        = New(ERR_CONFIGURATION, "bad configuration")
	ErrContextCanceled      = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrTxInvalid            = New(ERR_TX_INVALID, "tx rejected")
	ErrTxInvalidDoubleSpend = New(ERR_TX_INVALID_DOUBLE_SPEND, "tx spends a spent output")
	ErrTxAlreadyExists      = New(ERR_TX_ALREADY_EXISTS, "tx already recorded")
	ErrTxInvalidSignature   = New(ERR_TX_INVALID_SIGNATURE, "tx signature invalid")
	ErrServiceUnavailable   = New(ERR_SERVICE_UNAVAILABLE, "service unavailable")
	ErrServiceError         = New(ERR_SERVICE_ERROR, "service failed")
	ErrStorageUnavailable   = New(ERR_STORAGE_UNAVAILABLE, "storage unavailable")
	ErrStorageError         = New(ERR_STORAGE_ERROR, "storage failed")
	ErrUtxoNotFound         = New(ERR_UTXO_NOT_FOUND, "utxo not in index")
	ErrUtxoExists           = New(ERR_UTXO_EXISTS, "utxo already in index")
	ErrKafkaError           = New(ERR_KAFKA_ERROR, "kafka publish failed")
	ErrAccountNotFound      = New(ERR_ACCOUNT_NOT_FOUND, "account not found")
	ErrAccountError         = New(ERR_ACCOUNT_ERROR, "account store failed")
	ErrReceiptError         = New(ERR_RECEIPT_ERROR, "receipt store failed")
)

func NewUnknownError(message string, params ...any) error {
	return New(ERR_UNKNOWN, message, params...)
}

func NewInvalidArgumentError(message string, params ...any) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}

func NewNotFoundError(message string, params ...any) error {
	return New(ERR_NOT_FOUND, message, params...)
}

func NewProcessingError(message string, params ...any) error {
	return New(ERR_PROCESSING, message, params...)
}

func NewConfigurationError(message string, params ...any) error {
	return New(ERR_CONFIGURATION, message, params...)
}

func NewContextCanceledError(message string, params ...any) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}

func NewTxAlreadyExistsError(message string, params ...any) error {
	return New(ERR_TX_ALREADY_EXISTS, message, params...)
}

func NewServiceUnavailableError(message string, params ...any) error {
	return New(ERR_SERVICE_UNAVAILABLE, message, params...)
}

func NewServiceError(message string, params ...any) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}

func NewStorageUnavailableError(message string, params ...any) error {
	return New(ERR_STORAGE_UNAVAILABLE, message, params...)
}

func NewStorageError(message string, params ...any) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}

func NewUtxoNotFoundError(message string, params ...any) error {
	return New(ERR_UTXO_NOT_FOUND, message, params...)
}

func NewUtxoExistsError(message string, params ...any) error {
	return New(ERR_UTXO_EXISTS, message, params...)
}

func NewKafkaError(message string, params ...any) error {
	return New(ERR_KAFKA_ERROR, message, params...)
}

func NewAccountNotFoundError(message string, params ...any) error {
	return New(ERR_ACCOUNT_NOT_FOUND, message, params...)
}

func NewAccountError(message string, params ...any) error {
	return New(ERR_ACCOUNT_ERROR, message, params...)
}

func NewReceiptError(message string, params ...any) error {
	return New(ERR_RECEIPT_ERROR, message, params...)
}
