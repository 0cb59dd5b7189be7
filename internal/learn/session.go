// Package learn implements the interactive two-step capture flow that
// produces a new button mapping: press a mouse button, then press a key
// chord. A Session is single-use; a new one is created per attempt.
package learn

import (
	"github.com/clickchord/clickchord/internal/event"
	"github.com/clickchord/clickchord/internal/mapping"
)

// State is the session's position in the capture flow.
type State int

const (
	Idle State = iota
	AwaitingButton
	AwaitingShortcut
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingButton:
		return "awaiting-button"
	case AwaitingShortcut:
		return "awaiting-shortcut"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Session captures one candidate mapping. It never touches the store itself;
// the caller commits the candidate after resolving conflicts.
type Session struct {
	state          State
	capturedButton int
}

func NewSession() *Session {
	return &Session{state: Idle, capturedButton: -1}
}

func (s *Session) State() State {
	return s.state
}

// Done reports whether the session reached a terminal state.
func (s *Session) Done() bool {
	return s.state == Completed || s.state == Cancelled
}

// CapturedButton returns the button recorded in the first step, if any.
func (s *Session) CapturedButton() (int, bool) {
	if s.capturedButton < 0 {
		return 0, false
	}
	return s.capturedButton, true
}

// Start moves a fresh session to AwaitingButton. It has no effect on a
// session that already left Idle.
func (s *Session) Start() {
	if s.state == Idle {
		s.state = AwaitingButton
	}
}

// Cancel terminates the session from any non-terminal state. No candidate is
// emitted.
func (s *Session) Cancel() {
	if !s.Done() {
		s.state = Cancelled
	}
}

// FeedButton offers a button-down to the session. It is accepted only while
// AwaitingButton and only for mappable buttons; anything else is ignored.
func (s *Session) FeedButton(button int) bool {
	if s.state != AwaitingButton || button < event.MinMappable {
		return false
	}
	s.capturedButton = button
	s.state = AwaitingShortcut
	return true
}

// FeedChord offers the key chord and, if the session is AwaitingShortcut,
// completes it and returns the candidate mapping. Input in any other state
// is ignored.
func (s *Session) FeedChord(keyCode int, mods mapping.Modifiers) (mapping.ButtonMapping, bool) {
	if s.state != AwaitingShortcut {
		return mapping.ButtonMapping{}, false
	}
	s.state = Completed
	return mapping.ButtonMapping{
		ID:        mapping.NewID(),
		Button:    s.capturedButton,
		KeyCode:   keyCode,
		Modifiers: mods,
	}, true
}
