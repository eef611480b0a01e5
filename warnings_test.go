package guardango

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarningLedger_Escalation(t *testing.T) {
	wl := NewWarningLedger(3)

	assert.Equal(t, WarnResult{Count: 1, Escalated: false}, wl.Warn(7))
	assert.Equal(t, WarnResult{Count: 2, Escalated: false}, wl.Warn(7))
	assert.Equal(t, WarnResult{Count: 3, Escalated: true}, wl.Warn(7))

	// Counts keep growing past the limit.
	assert.Equal(t, WarnResult{Count: 4, Escalated: true}, wl.Warn(7))
	assert.Equal(t, 4, wl.Query(7))
	assert.Equal(t, 3, wl.Limit())
}

func TestWarningLedger_QueryUnknown(t *testing.T) {
	wl := NewWarningLedger(3)

	assert.Equal(t, 0, wl.Query(99))
}

func TestWarningLedger_ConcurrentWarn(t *testing.T) {
	wl := NewWarningLedger(3)

	var wg sync.WaitGroup
	for i := 0; i < 1000; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wl.Warn(7)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, wl.Query(7))
	assert.Equal(t, 0, wl.Query(8))
}
