package memory

import (
	"testing"

	"github.com/bsv-blockchain/utxoledger/stores/utxo/tests"
	"github.com/bsv-blockchain/utxoledger/ulogger"
)

func TestMemory(t *testing.T) {
	t.Run("insert contains remove", func(t *testing.T) {
		tests.InsertContainsRemove(t, New(ulogger.TestLogger{}))
	})

	t.Run("insert existing", func(t *testing.T) {
		tests.InsertExisting(t, New(ulogger.TestLogger{}))
	})

	t.Run("remove absent", func(t *testing.T) {
		tests.RemoveAbsent(t, New(ulogger.TestLogger{}))
	})

	t.Run("concurrent remove", func(t *testing.T) {
		tests.ConcurrentRemove(t, New(ulogger.TestLogger{}))
	})

	t.Run("health", func(t *testing.T) {
		tests.Health(t, New(ulogger.TestLogger{}))
	})
}
