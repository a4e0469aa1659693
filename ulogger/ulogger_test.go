package ulogger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bsv-blockchain/utxoledger/ulogger"
	"github.com/ordishs/gocore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.NewZeroLogger("ledger", ulogger.WithWriter(&buf), ulogger.WithPretty(false), ulogger.WithLevel("DEBUG"))
	logger.Debugf("executing %s", "abcd")

	line := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "ledger", line["service"])
	assert.Equal(t, "executing abcd", line["message"])
}

func TestZeroLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected int
	}{
		{"DEBUG", int(gocore.DEBUG)},
		{"info", int(gocore.INFO)},
		{"WARN", int(gocore.WARN)},
		{"ERROR", int(gocore.ERROR)},
		{"nonsense", int(gocore.INFO)},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer

			logger := ulogger.NewZeroLogger("x", ulogger.WithWriter(&buf), ulogger.WithLevel(tt.level))
			assert.Equal(t, tt.expected, logger.LogLevel())
		})
	}
}

func TestZeroLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.NewZeroLogger("x", ulogger.WithWriter(&buf), ulogger.WithPretty(false), ulogger.WithLevel("WARN"))
	logger.Infof("hidden")
	logger.Warnf("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestZeroLogger_PrettyAndChild(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.NewZeroLogger("parent", ulogger.WithWriter(&buf))
	child := logger.New("child")
	child.Infof("hello")

	out := buf.String()
	assert.Contains(t, out, "child")
	assert.Contains(t, out, "hello")
	assert.True(t, strings.Contains(out, "INFO"))
}

func TestNew_SelectsImplementation(t *testing.T) {
	_, isZero := ulogger.New("a").(*ulogger.ZeroLogger)
	assert.True(t, isZero)

	_, isGocore := ulogger.New("a", ulogger.WithLoggerType("gocore")).(*ulogger.GoCoreLogger)
	assert.True(t, isGocore)
}

func TestGoCoreLogger_Level(t *testing.T) {
	logger := ulogger.NewGoCoreLogger("gc", ulogger.WithLevel("warn"))
	assert.Equal(t, int(gocore.WARN), logger.LogLevel())
	assert.Equal(t, int(gocore.WARN), logger.New("gc2").LogLevel())
}

func TestZeroLogger_ChildInheritsLevel(t *testing.T) {
	var buf bytes.Buffer

	parent := ulogger.NewZeroLogger("parent", ulogger.WithWriter(&buf), ulogger.WithPretty(false), ulogger.WithLevel("ERROR"))
	child := parent.New("child")
	child.Warnf("dropped")
	child.Errorf("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"service":"child"`)
}

func TestFileLogger(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "ledger.log")

	logger := ulogger.New("ledger", ulogger.WithLoggerType("file"), ulogger.WithFile(filename, 1, 1))
	logger.Errorf("disk %s", "event")

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "disk event")
}
