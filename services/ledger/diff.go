package ledger

import (
	"math/bits"

	"github.com/bsv-blockchain/utxoledger/errors"
)

// netDiff returns totalIn - totalOut - fee as a sign and a magnitude. The
// subtraction is done in 128 bits so no input combination can wrap.
func netDiff(totalIn, totalOut, fee uint64) (negative bool, magnitude uint64, err error) {
	outLo, outHi := bits.Add64(totalOut, fee, 0)

	if outHi == 0 && totalIn >= outLo {
		return false, totalIn - outLo, nil
	}

	lo, borrow := bits.Sub64(outLo, totalIn, 0)
	hi, _ := bits.Sub64(outHi, 0, borrow)

	if hi != 0 {
		return true, 0, errors.NewRejectError(errors.ReasonAmountOverflow, "outflow %d+%d-%d does not fit 64 bits", totalOut, fee, totalIn)
	}

	return true, lo, nil
}
