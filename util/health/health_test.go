package health

import (
	"context"
	"net/http"
	"testing"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okCheck(name string) Check {
	return Check{Name: name, Check: func(context.Context, bool) (int, string, error) {
		return http.StatusOK, name + " ok", nil
	}}
}

func TestCheckAll(t *testing.T) {
	tests := []struct {
		name   string
		checks []Check
		want   int
	}{
		{"no checks", nil, http.StatusOK},
		{"all ok", []Check{okCheck("utxostore"), okCheck("accountstore")}, http.StatusOK},
		{"one failing status", []Check{okCheck("utxostore"), {Name: "kafka", Check: func(context.Context, bool) (int, string, error) {
			return http.StatusServiceUnavailable, "no brokers", nil
		}}}, http.StatusServiceUnavailable},
		{"one error", []Check{{Name: "chainstore", Check: func(context.Context, bool) (int, string, error) {
			return http.StatusOK, "", errors.NewStorageUnavailableError("closed")
		}}}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg, err := CheckAll(context.Background(), false, tt.checks)
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)

			var report Report
			require.NoError(t, json.Unmarshal([]byte(msg), &report))
			assert.Equal(t, tt.want, report.Status)
			assert.Len(t, report.Dependencies, len(tt.checks))
		})
	}
}

func TestCheckAll_ReportsErrorText(t *testing.T) {
	_, msg, err := CheckAll(context.Background(), true, []Check{{Name: "receiptstore", Check: func(context.Context, bool) (int, string, error) {
		return http.StatusServiceUnavailable, "", errors.NewStorageUnavailableError("db gone")
	}}})
	require.NoError(t, err)
	assert.Contains(t, msg, "db gone")
	assert.Contains(t, msg, `"resource":"receiptstore"`)
}
