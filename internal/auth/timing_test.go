package auth_test

import (
	"testing"
	"time"

	"github.com/BradenHooton/bastion/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestTimingDelay_WaitFrom_OnDenial(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   50,
		RandomDelayMs: 25,
	})

	startTime := time.Now()
	timing.WaitFrom(startTime, false)

	elapsed := time.Since(startTime)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, 150*time.Millisecond)
}

func TestTimingDelay_WaitFrom_OnAllow_NoDelay(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   50,
		RandomDelayMs: 25,
	})

	startTime := time.Now()
	timing.WaitFrom(startTime, true)

	assert.Less(t, time.Since(startTime), 10*time.Millisecond)
}

func TestTimingDelay_WaitFrom_AccountsForElapsed(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs: 40,
	})

	// Pretend the attempt already took longer than the target
	startTime := time.Now().Add(-100 * time.Millisecond)

	before := time.Now()
	timing.WaitFrom(startTime, false)

	assert.Less(t, time.Since(before), 10*time.Millisecond)
}
