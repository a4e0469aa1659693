package ulogger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseTestLogger(t *testing.T) {
	logger := NewVerboseTestLogger(t)
	assert.Equal(t, 0, logger.LogLevel())

	child := logger.New("ledger")
	assert.NotSame(t, logger, child)

	logger.SetLogLevel("debug")
	child.Debugf("debug %s", "line")
	child.Infof("info %d", 1)
	child.Warnf("warn")
	child.Errorf("error %v", true)
}

func TestVerboseTestLogger_Concurrent(t *testing.T) {
	logger := NewVerboseTestLogger(t)

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			logger.Infof("goroutine %d", i)
		}(i)
	}

	wg.Wait()
}
