package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRateLimiter_Allow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(3, time.Minute, clock.Now)

	for i := 0; i < 3; i++ {
		_, ok := rl.Allow("1.2.3.4")
		assert.True(t, ok, "request %d", i)
	}
	wait, ok := rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, wait)

	_, ok = rl.Allow("5.6.7.8")
	assert.True(t, ok, "clients have separate buckets")

	clock.Advance(40 * time.Second)
	wait, ok = rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 20*time.Second, wait)

	clock.Advance(20 * time.Second)
	_, ok = rl.Allow("1.2.3.4")
	assert.True(t, ok)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(1, time.Minute, clock.Now)

	rl.Allow("a")
	clock.Advance(30 * time.Minute)
	rl.Allow("b")
	assert.Equal(t, 2, rl.clientCount())

	clock.Advance(45 * time.Minute)
	rl.cleanup()
	assert.Equal(t, 1, rl.clientCount())
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
