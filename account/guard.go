package account

import "time"

const (
	defaultLockoutThreshold = 5
	defaultLockoutDuration  = 15 * time.Minute
)

// LoginGuard tracks consecutive password failures of a single account.
// It holds no shared state, the caller loads it from and saves it to the account row.
type LoginGuard struct {
	threshold   int
	duration    time.Duration
	failures    int
	lockedUntil *time.Time
}

// NewLoginGuard restores the guard from persisted state,
// non positive settings fall back to 5 failures and 15 minutes
func NewLoginGuard(threshold int, duration time.Duration, failures int, lockedUntil *time.Time) *LoginGuard {
	if threshold <= 0 {
		threshold = defaultLockoutThreshold
	}
	if duration <= 0 {
		duration = defaultLockoutDuration
	}
	return &LoginGuard{
		threshold:   threshold,
		duration:    duration,
		failures:    failures,
		lockedUntil: lockedUntil,
	}
}

// Locked reports whether the lockout is still in effect at now
func (g *LoginGuard) Locked(now time.Time) bool {
	return g.lockedUntil != nil && now.Before(*g.lockedUntil)
}

// Fail records a wrong password and returns true if this failure locked the account
func (g *LoginGuard) Fail(now time.Time) bool {
	return g.Counted(g.failures+1, now)
}

// Counted takes over a failure count that was already persisted,
// it locks and returns true when the threshold is reached and no lock is in effect
func (g *LoginGuard) Counted(failures int, now time.Time) bool {
	g.failures = failures
	if g.failures < g.threshold || g.Locked(now) {
		return false
	}
	until := now.Add(g.duration)
	g.lockedUntil = &until
	return true
}

// Reset clears counter and lock together
func (g *LoginGuard) Reset() {
	g.failures = 0
	g.lockedUntil = nil
}

func (g *LoginGuard) Failures() int {
	return g.failures
}

func (g *LoginGuard) LockedUntil() *time.Time {
	return g.lockedUntil
}
