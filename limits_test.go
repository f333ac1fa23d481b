package segwire

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLimiterCharge(t *testing.T) {
	l := NewReadLimiter(10)
	require.NoError(t, l.Charge(4))
	require.NoError(t, l.Charge(6))
	assert.Equal(t, uint64(0), l.Remaining())

	err := l.Charge(1)
	require.ErrorIs(t, err, ErrResourceExhausted)
	assert.Equal(t, uint64(0), l.Remaining())

	l.Reset()
	assert.Equal(t, uint64(10), l.Remaining())
	// a failed charge takes nothing
	require.Error(t, l.Charge(11))
	assert.Equal(t, uint64(10), l.Remaining())
}

func TestReadLimiterConcurrent(t *testing.T) {
	l := NewReadLimiter(1000)
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if l.Charge(1) != nil {
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(0), l.Remaining())
	assert.Equal(t, 1000, failed)
}
