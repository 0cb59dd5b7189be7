package mapping

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/clickchord/clickchord/internal/event"
)

// Modifiers is a bitset of the modifier keys held with a shortcut.
type Modifiers uint8

const (
	ModControl Modifiers = 1 << iota
	ModOption
	ModShift
	ModCommand
)

// Has reports whether every bit in m2 is set in m.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// String renders the mask with the usual macOS glyphs, in the conventional
// control-option-shift-command order.
func (m Modifiers) String() string {
	var b strings.Builder
	if m.Has(ModControl) {
		b.WriteString("⌃")
	}
	if m.Has(ModOption) {
		b.WriteString("⌥")
	}
	if m.Has(ModShift) {
		b.WriteString("⇧")
	}
	if m.Has(ModCommand) {
		b.WriteString("⌘")
	}
	return b.String()
}

// ButtonMapping binds one extra mouse button to one keyboard shortcut.
type ButtonMapping struct {
	ID        string
	Button    int
	KeyCode   int
	Modifiers Modifiers
}

// Display renders the shortcut half of the mapping, e.g. "⌘⇧K".
func (m ButtonMapping) Display() string {
	return m.Modifiers.String() + KeyName(m.KeyCode)
}

// NewID returns a fresh opaque mapping identifier.
func NewID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// DuplicateButtonError reports an Add that collides with an existing mapping.
type DuplicateButtonError struct {
	Button int
}

func (e *DuplicateButtonError) Error() string {
	return fmt.Sprintf("button %d already has a mapping", e.Button)
}

// ErrReservedButton rejects mappings for the primary/secondary click.
var ErrReservedButton = fmt.Errorf("buttons 0 and 1 are reserved and cannot be mapped")

// Store holds the active mappings in insertion order and enforces the
// one-mapping-per-button invariant. Safe for concurrent use: the tap callback
// reads it while tray handlers mutate it.
type Store struct {
	mu      sync.RWMutex
	entries []ButtonMapping
}

func NewStore() *Store {
	return &Store{}
}

// Add appends m, or with replace set swaps it in for the existing mapping on
// the same button as one atomic step. Without replace a collision fails with
// *DuplicateButtonError and leaves the store untouched.
func (s *Store) Add(m ButtonMapping, replace bool) error {
	if m.Button < event.MinMappable {
		return ErrReservedButton
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.entries {
		if existing.Button != m.Button {
			continue
		}
		if !replace {
			return &DuplicateButtonError{Button: m.Button}
		}
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		break
	}
	s.entries = append(s.entries, m)
	return nil
}

// Remove deletes the mapping with the given id, reporting whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.entries {
		if m.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup finds the mapping for a button. Uniqueness guarantees at most one.
func (s *Store) Lookup(button int) (ButtonMapping, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.entries {
		if m.Button == button {
			return m, true
		}
	}
	return ButtonMapping{}, false
}

// Mappings returns a snapshot in insertion order.
func (s *Store) Mappings() []ButtonMapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ButtonMapping, len(s.entries))
	copy(out, s.entries)
	return out
}

// Load replaces the contents with ms, dropping reserved buttons and keeping
// the first entry when two records target the same button. Entries without
// an id are assigned one.
func (s *Store) Load(ms []ButtonMapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
	seen := make(map[int]bool, len(ms))
	for _, m := range ms {
		if m.Button < event.MinMappable || seen[m.Button] {
			continue
		}
		if m.ID == "" {
			m.ID = NewID()
		}
		seen[m.Button] = true
		s.entries = append(s.entries, m)
	}
}

// Len reports the number of mappings.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
