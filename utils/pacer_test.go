package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSetNoDuplicates(t *testing.T) {
	s := NewIDSet()

	assert.True(t, s.Add("123"), "first Add should return true")
	assert.False(t, s.Add("123"), "second Add of same id should return false")
	assert.True(t, s.Add("456"))
	assert.Equal(t, 2, s.Size())
}

func TestPacerSpacesCalls(t *testing.T) {
	interval := 50 * time.Millisecond
	p := NewPacer(interval)
	ctx := context.Background()

	var timestamps []time.Time
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Wait(ctx))
		timestamps = append(timestamps, time.Now())
	}

	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		// rate.Limiter reserves with sub-millisecond precision; allow a little slack.
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond, "gap between call %d and %d", i-1, i)
	}
}

func TestPacerZeroIntervalNeverBlocks(t *testing.T) {
	p := NewPacer(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestPacerHonoursCancellation(t *testing.T) {
	p := NewPacer(time.Hour)
	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.Wait(ctx))
}
