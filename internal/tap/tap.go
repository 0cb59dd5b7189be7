// Package tap owns the system-wide input hook: it feeds every qualifying
// mouse-button edge to a handler, applies the handler's verdict, and
// recovers on its own when the host disables the hook.
package tap

import (
	"time"

	"github.com/clickchord/clickchord/internal/event"
	"github.com/clickchord/clickchord/internal/mapping"
)

// Handler returns the verdict for one button edge. It runs inside the host's
// tap callback and must never block; the host enforces a latency budget and
// disables the tap when it is exceeded.
type Handler func(button int, down bool) event.Decision

// Interceptor is the system-wide mouse hook.
type Interceptor interface {
	// Start installs the hook. It is idempotent and returns false, never
	// panicking, when the host denies hook creation (e.g. the accessibility
	// capability is missing). Acquiring the capability is the caller's job.
	Start() bool
	// Stop tears the hook down. Idempotent; safe before any Start; no
	// callback runs after it returns.
	Stop()
}

// ChordFunc receives the key chord grabbed during learn mode. escape is set
// when the dedicated cancel key was pressed instead of a chord.
type ChordFunc func(keyCode int, mods mapping.Modifiers, escape bool)

// KeyCapture grabs the next key chord system-wide, swallowing it so it does
// not reach the frontmost application. One chord per Start.
type KeyCapture interface {
	Start(fn ChordFunc) bool
	Stop()
}

// userInputRearmInterval throttles recovery from user-input disables: some
// host configurations otherwise produce a disable/enable thrash loop.
const userInputRearmInterval = 2 * time.Second

// rearmPolicy decides whether to re-enable the tap after a host-issued
// disable notification. Timeout disables re-arm unconditionally every time;
// user-input disables re-arm at most once per rolling interval, measured
// between attempts. The clock is a field so tests can pin it.
type rearmPolicy struct {
	minInterval time.Duration
	now         func() time.Time
	lastAttempt time.Time
}

func newRearmPolicy() rearmPolicy {
	return rearmPolicy{minInterval: userInputRearmInterval, now: time.Now}
}

func (p *rearmPolicy) shouldRearm(reason event.DisableReason) bool {
	if reason == event.DisabledByTimeout {
		return true
	}
	t := p.now()
	if !p.lastAttempt.IsZero() && t.Sub(p.lastAttempt) < p.minInterval {
		return false
	}
	p.lastAttempt = t
	return true
}
