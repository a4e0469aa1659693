package validator

import (
	"math/bits"

	"github.com/bsv-blockchain/utxoledger/errors"
)

// SumAmounts adds amounts, rejecting with amount-overflow when the total does
// not fit in 64 bits.
func SumAmounts(total, amount uint64) (uint64, error) {
	sum, carry := bits.Add64(total, amount, 0)
	if carry != 0 {
		return 0, errors.NewRejectError(errors.ReasonAmountOverflow, "amount overflow adding %d to %d", amount, total)
	}

	return sum, nil
}

// Covers reports whether free+totalIn >= totalOut+fee, computed in 65 bits so
// that neither side can wrap.
func Covers(free, totalIn, totalOut, fee uint64) bool {
	loIn, hiIn := bits.Add64(free, totalIn, 0)
	loOut, hiOut := bits.Add64(totalOut, fee, 0)

	if hiIn != hiOut {
		return hiIn > hiOut
	}

	return loIn >= loOut
}

// RequiredFee is (2*inputs + outputs) * unitFee. Inputs weigh double as they
// cost a lookup and a removal.
func RequiredFee(inputs, outputs int, unitFee uint64) (uint64, error) {
	units := uint64(2*inputs + outputs) //nolint:gosec // bounded by MaxInputs and MaxOutputs

	hi, lo := bits.Mul64(units, unitFee)
	if hi != 0 {
		return 0, errors.NewConfigurationError("fee overflow for %d units at %d", units, unitFee)
	}

	return lo, nil
}
