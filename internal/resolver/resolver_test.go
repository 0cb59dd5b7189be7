package resolver

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clickchord/clickchord/internal/event"
	"github.com/clickchord/clickchord/internal/mapping"
)

type emitCall struct {
	keyCode int
	mods    mapping.Modifiers
}

type mockSynth struct {
	mu    sync.Mutex
	calls []emitCall
}

func (m *mockSynth) Emit(keyCode int, mods mapping.Modifiers) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, emitCall{keyCode, mods})
}

func (m *mockSynth) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockDelegate struct {
	captured chan int
}

func newMockDelegate() *mockDelegate {
	return &mockDelegate{captured: make(chan int, 1)}
}

func (d *mockDelegate) ButtonCaptured(button int) {
	d.captured <- button
}

func (d *mockDelegate) wait(t *testing.T) int {
	t.Helper()
	select {
	case b := <-d.captured:
		return b
	case <-time.After(time.Second):
		t.Fatal("delegate was not notified of the captured button")
		return -1
	}
}

func newResolver(t *testing.T, ms ...mapping.ButtonMapping) (*Resolver, *mockSynth, *mapping.Store) {
	t.Helper()
	store := mapping.NewStore()
	for _, m := range ms {
		if err := store.Add(m, false); err != nil {
			t.Fatalf("seed mapping: %v", err)
		}
	}
	syn := &mockSynth{}
	return New(store, syn, zerolog.Nop()), syn, store
}

func TestReservedButtonsNeverMatch(t *testing.T) {
	r, syn, _ := newResolver(t, mapping.ButtonMapping{ID: "m", Button: 4, KeyCode: 40})
	r.SetSuppressOriginal(true)

	for _, button := range []int{0, 1} {
		for _, down := range []bool{true, false} {
			if got := r.HandleButton(button, down); got != event.PassThrough {
				t.Errorf("HandleButton(%d, %v) = %v, want pass-through", button, down, got)
			}
		}
	}
	if syn.count() != 0 {
		t.Errorf("synthesized %d keystrokes for reserved buttons, want 0", syn.count())
	}
}

func TestSwallowSymmetry(t *testing.T) {
	r, syn, _ := newResolver(t, mapping.ButtonMapping{ID: "m", Button: 4, KeyCode: 40, Modifiers: mapping.ModCommand})

	r.SetSuppressOriginal(true)
	if got := r.HandleButton(4, true); got != event.Suppress {
		t.Errorf("down edge = %v, want suppress", got)
	}
	if got := r.HandleButton(4, false); got != event.Suppress {
		t.Errorf("up edge = %v, want suppress", got)
	}
	if syn.count() != 1 {
		t.Errorf("emit count = %d, want 1 (down edge only)", syn.count())
	}

	r.SetSuppressOriginal(false)
	if got := r.HandleButton(4, true); got != event.PassThrough {
		t.Errorf("down edge = %v, want pass-through", got)
	}
	if got := r.HandleButton(4, false); got != event.PassThrough {
		t.Errorf("up edge = %v, want pass-through", got)
	}
	if syn.count() != 2 {
		t.Errorf("emit count = %d, want 2", syn.count())
	}

	// Unmapped buttons pass through under both settings.
	for _, suppress := range []bool{true, false} {
		r.SetSuppressOriginal(suppress)
		for _, down := range []bool{true, false} {
			if got := r.HandleButton(7, down); got != event.PassThrough {
				t.Errorf("unmapped button (suppress=%v, down=%v) = %v, want pass-through", suppress, down, got)
			}
		}
	}
}

func TestDisabledPassesEverything(t *testing.T) {
	r, syn, _ := newResolver(t, mapping.ButtonMapping{ID: "m", Button: 4, KeyCode: 40})
	r.SetSuppressOriginal(true)
	r.SetEnabled(false)

	for _, down := range []bool{true, false} {
		if got := r.HandleButton(4, down); got != event.PassThrough {
			t.Errorf("disabled HandleButton(4, %v) = %v, want pass-through", down, got)
		}
	}
	if syn.count() != 0 {
		t.Errorf("disabled resolver synthesized %d keystrokes", syn.count())
	}
}

func TestSuppressFlagEvaluatedPerEdge(t *testing.T) {
	r, _, _ := newResolver(t, mapping.ButtonMapping{ID: "m", Button: 4, KeyCode: 40})

	r.SetSuppressOriginal(true)
	if got := r.HandleButton(4, true); got != event.Suppress {
		t.Fatalf("down edge = %v, want suppress", got)
	}
	// The flag flips mid-press; the up edge follows the new value.
	r.SetSuppressOriginal(false)
	if got := r.HandleButton(4, false); got != event.PassThrough {
		t.Errorf("up edge after toggle = %v, want pass-through", got)
	}
}

func TestLearnCapturesAndSwallows(t *testing.T) {
	r, syn, _ := newResolver(t, mapping.ButtonMapping{ID: "m", Button: 5, KeyCode: 11})
	d := newMockDelegate()
	r.StartLearn(d)

	if got := r.HandleButton(5, true); got != event.Suppress {
		t.Fatalf("down edge during learn = %v, want suppress", got)
	}
	if b := d.wait(t); b != 5 {
		t.Errorf("delegate button = %d, want 5", b)
	}
	if !r.AwaitingShortcut() {
		t.Error("session did not advance to awaiting-shortcut")
	}
	// The captured button is never resolved against the store, even though a
	// mapping for it exists.
	if syn.count() != 0 {
		t.Errorf("learn capture synthesized %d keystrokes", syn.count())
	}
	if got := r.HandleButton(5, false); got != event.Suppress {
		t.Errorf("up edge of captured button = %v, want suppress", got)
	}

	m, ok := r.CompleteLearn(40, mapping.ModCommand|mapping.ModShift)
	if !ok {
		t.Fatal("CompleteLearn rejected the chord")
	}
	if m.Button != 5 || m.KeyCode != 40 || m.Modifiers != mapping.ModCommand|mapping.ModShift {
		t.Errorf("candidate = %+v, want button 5, keycode 40, ⇧⌘", m)
	}
	if r.Learning() {
		t.Error("resolver still learning after completion")
	}
}

func TestLearnRunsEvenWhileDisabled(t *testing.T) {
	r, _, _ := newResolver(t)
	r.SetEnabled(false)
	d := newMockDelegate()
	r.StartLearn(d)

	if got := r.HandleButton(4, true); got != event.Suppress {
		t.Errorf("capture while disabled = %v, want suppress", got)
	}
	if b := d.wait(t); b != 4 {
		t.Errorf("delegate button = %d, want 4", b)
	}
}

func TestCancelledSessionStillSwallowsUpEdge(t *testing.T) {
	r, _, _ := newResolver(t)
	r.StartLearn(newMockDelegate())

	if got := r.HandleButton(5, true); got != event.Suppress {
		t.Fatalf("down edge = %v, want suppress", got)
	}
	r.CancelLearn()

	// The up edge of the click that armed the session is swallowed anyway,
	// so no application sees half of it.
	if got := r.HandleButton(5, false); got != event.Suppress {
		t.Errorf("up edge after cancel = %v, want suppress", got)
	}
	// Only once, though.
	if got := r.HandleButton(5, false); got != event.PassThrough {
		t.Errorf("second up edge = %v, want pass-through", got)
	}
}

func TestStartLearnWhileLearningIsNoop(t *testing.T) {
	r, _, _ := newResolver(t)
	d := newMockDelegate()
	r.StartLearn(d)
	r.HandleButton(6, true)
	d.wait(t)

	// A second start must not discard the in-flight session.
	r.StartLearn(newMockDelegate())
	if !r.AwaitingShortcut() {
		t.Error("in-flight session was replaced by StartLearn")
	}
	if m, ok := r.CompleteLearn(40, 0); !ok || m.Button != 6 {
		t.Errorf("CompleteLearn = %+v,%v, want candidate for button 6", m, ok)
	}
}

func TestCompleteLearnWithoutSession(t *testing.T) {
	r, _, _ := newResolver(t)
	if _, ok := r.CompleteLearn(40, 0); ok {
		t.Error("CompleteLearn succeeded with no session")
	}
}
