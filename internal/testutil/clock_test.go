package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClock_Advances(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	c := NewDeterministicClock(start, time.Minute)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Minute), c.Now())
	assert.Equal(t, start.Add(2*time.Minute), c.Now())
	assert.Equal(t, int64(3), c.Calls())
}

func TestDeterministicClock_Defaults(t *testing.T) {
	c := NewDeterministicClock(time.Time{}, 0)

	assert.Equal(t, DefaultEpoch, c.Now())
	assert.Equal(t, DefaultEpoch.Add(time.Second), c.Now())
}

func TestDeterministicClock_Reset(t *testing.T) {
	c := NewDeterministicClock(time.Time{}, time.Second)
	c.Now()
	c.Now()

	c.Reset()

	assert.Equal(t, DefaultEpoch, c.Now())
	assert.Equal(t, int64(1), c.Calls())
}

func TestDeterministicClock_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	c := NewDeterministicClock(time.Date(2026, 1, 1, 9, 0, 0, 0, loc), time.Second)

	assert.Equal(t, DefaultEpoch, c.Now())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	c := NewDeterministicClock(time.Time{}, time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Now()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), c.Calls())
}
