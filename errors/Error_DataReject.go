package errors

// RejectData is attached to every consensus rejection. Reason is one of the
// Reason* identifiers which clients match on.
type RejectData struct {
	Reason string
}

func (r *RejectData) Error() string {
	return "reason=" + r.Reason
}

// NewRejectError builds a consensus rejection. Double spends and bad
// signatures get their own codes so Is can single them out.
func NewRejectError(reason string, message string, params ...any) error {
	var code ERR

	switch reason {
	case ReasonDoubleSpend:
		code = ERR_TX_INVALID_DOUBLE_SPEND
	case ReasonBadSignature:
		code = ERR_TX_INVALID_SIGNATURE
	case ReasonTxExecuted:
		code = ERR_TX_ALREADY_EXISTS
	default:
		code = ERR_TX_INVALID
	}

	return New(code, message, params...).WithData(&RejectData{Reason: reason})
}

// RejectReason finds the first reject reason in err, including errors
// combined with Join. It is empty for faults.
func RejectReason(err error) string {
	var data *RejectData
	if err == nil || !As(err, &data) {
		return ""
	}

	return data.Reason
}

func IsReject(err error) bool {
	return RejectReason(err) != ""
}
