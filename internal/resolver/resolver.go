// Package resolver decides, for every intercepted button edge, whether the
// event is swallowed and whether a shortcut is synthesized.
package resolver

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/clickchord/clickchord/internal/event"
	"github.com/clickchord/clickchord/internal/learn"
	"github.com/clickchord/clickchord/internal/mapping"
	"github.com/clickchord/clickchord/internal/synth"
)

// LearnDelegate is notified when an active learn session captures its
// button. The call is made off the tap callback path.
type LearnDelegate interface {
	ButtonCaptured(button int)
}

// Resolver applies the per-event policy. HandleButton is invoked from the
// host's tap callback; the tray mutates the flags and the store from its own
// goroutines, so all state is mutex-guarded. The callback path takes only a
// short in-memory critical section and never blocks.
type Resolver struct {
	mu    sync.Mutex
	store *mapping.Store
	synth synth.Synthesizer
	log   zerolog.Logger

	enabled          bool
	suppressOriginal bool

	session  *learn.Session
	delegate LearnDelegate

	// pendingUp is the button whose down edge armed (or tried to arm) a
	// learn session; its up edge is swallowed too, even if the session was
	// cancelled in between, so the click never half-leaks.
	pendingUp int
}

func New(store *mapping.Store, syn synth.Synthesizer, log zerolog.Logger) *Resolver {
	return &Resolver{
		store:     store,
		synth:     syn,
		log:       log,
		enabled:   true,
		pendingUp: -1,
	}
}

// HandleButton returns the verdict for one button edge. Policy order:
// reserved buttons pass; an awaiting learn session captures the down edge
// (and its matching up edge) and swallows it; a disabled resolver passes
// everything; otherwise a store hit synthesizes on the down edge and both
// edges follow the suppress flag, evaluated per edge.
func (r *Resolver) HandleButton(button int, down bool) event.Decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	if button < event.MinMappable {
		return event.PassThrough
	}

	if !down && button == r.pendingUp {
		r.pendingUp = -1
		return event.Suppress
	}

	if down && r.session != nil && r.session.State() == learn.AwaitingButton {
		if r.session.FeedButton(button) {
			r.pendingUp = button
			if d := r.delegate; d != nil {
				// Notify outside the tap's latency budget.
				go d.ButtonCaptured(button)
			}
			r.log.Debug().Int("button", button).Msg("Learn session captured button")
			return event.Suppress
		}
	}

	if !r.enabled {
		return event.PassThrough
	}

	m, ok := r.store.Lookup(button)
	if !ok {
		return event.PassThrough
	}
	if down {
		r.synth.Emit(m.KeyCode, m.Modifiers)
	}
	if r.suppressOriginal {
		return event.Suppress
	}
	return event.PassThrough
}

// StartLearn begins a capture attempt, replacing any finished session. An
// attempt already in flight is left alone.
func (r *Resolver) StartLearn(d LearnDelegate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session != nil && !r.session.Done() {
		return
	}
	r.session = learn.NewSession()
	r.session.Start()
	r.delegate = d
	r.log.Info().Msg("Learn session started")
}

// CancelLearn aborts the active session, if any.
func (r *Resolver) CancelLearn() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil || r.session.Done() {
		return
	}
	r.session.Cancel()
	r.log.Info().Msg("Learn session cancelled")
}

// CompleteLearn delivers the key chord to the active session and returns the
// candidate mapping. The caller commits it, resolving any button conflict.
func (r *Resolver) CompleteLearn(keyCode int, mods mapping.Modifiers) (mapping.ButtonMapping, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return mapping.ButtonMapping{}, false
	}
	m, ok := r.session.FeedChord(keyCode, mods)
	if ok {
		r.log.Info().Int("button", m.Button).Str("shortcut", m.Display()).Msg("Learn session completed")
	}
	return m, ok
}

// Learning reports whether a capture attempt is in flight.
func (r *Resolver) Learning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil && !r.session.Done()
}

// AwaitingShortcut reports whether the active session has its button and is
// waiting on the chord.
func (r *Resolver) AwaitingShortcut() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil && r.session.State() == learn.AwaitingShortcut
}

func (r *Resolver) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = enabled
}

func (r *Resolver) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// ToggleEnabled flips the enable flag and returns the new value.
func (r *Resolver) ToggleEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = !r.enabled
	return r.enabled
}

func (r *Resolver) SetSuppressOriginal(suppress bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppressOriginal = suppress
}

func (r *Resolver) SuppressOriginal() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.suppressOriginal
}
