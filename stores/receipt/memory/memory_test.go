package memory

import (
	"testing"

	"github.com/bsv-blockchain/utxoledger/stores/receipt/tests"
)

func TestMemory(t *testing.T) {
	t.Run("append get", func(t *testing.T) { tests.AppendGet(t, New()) })
	t.Run("append twice", func(t *testing.T) { tests.AppendTwice(t, New()) })
	t.Run("get delete", func(t *testing.T) { tests.GetDelete(t, New()) })
}
