package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuardLocksAtThreshold(t *testing.T) {
	assert := assert.New(t)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	g := NewLoginGuard(5, 15*time.Minute, 0, nil)
	for i := 1; i < 5; i++ {
		assert.False(g.Fail(now))
		assert.False(g.Locked(now))
		assert.Equal(i, g.Failures())
	}
	assert.True(g.Fail(now))
	assert.True(g.Locked(now))
	assert.True(g.Locked(now.Add(14 * time.Minute)))
	assert.False(g.Locked(now.Add(15 * time.Minute)))
	assert.Equal(now.Add(15*time.Minute), *g.LockedUntil())
}

func TestGuardResetClearsBoth(t *testing.T) {
	assert := assert.New(t)
	until := time.Now().Add(time.Hour)
	g := NewLoginGuard(5, time.Minute, 7, &until)
	assert.True(g.Locked(time.Now()))
	g.Reset()
	assert.False(g.Locked(time.Now()))
	assert.Equal(0, g.Failures())
	assert.Nil(g.LockedUntil())
}

func TestGuardDefaults(t *testing.T) {
	assert := assert.New(t)
	now := time.Now()
	g := NewLoginGuard(0, 0, 4, nil)
	assert.True(g.Fail(now))
	assert.Equal(now.Add(15*time.Minute), *g.LockedUntil())
}

func TestGuardRelocksAfterExpiredLock(t *testing.T) {
	assert := assert.New(t)
	now := time.Now()
	expired := now.Add(-time.Minute)
	g := NewLoginGuard(5, 15*time.Minute, 5, &expired)
	assert.False(g.Locked(now))
	assert.True(g.Fail(now))
	assert.True(g.Locked(now))
}

func TestGuardTakesOverStoredCount(t *testing.T) {
	assert := assert.New(t)
	now := time.Now()
	g := NewLoginGuard(5, time.Minute, 0, nil)
	assert.False(g.Counted(3, now))
	assert.Equal(3, g.Failures())
	assert.True(g.Counted(9, now))
	assert.Equal(now.Add(time.Minute), *g.LockedUntil())

	// a lock set by a parallel failure is kept as is
	until := now.Add(10 * time.Second)
	held := NewLoginGuard(5, time.Minute, 6, &until)
	assert.False(held.Counted(7, now))
	assert.Equal(until, *held.LockedUntil())
}
