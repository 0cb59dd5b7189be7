package mapping

import (
	"errors"
	"testing"
)

func TestAddDuplicateFails(t *testing.T) {
	s := NewStore()
	first := ButtonMapping{ID: NewID(), Button: 4, KeyCode: 40, Modifiers: ModCommand}
	if err := s.Add(first, false); err != nil {
		t.Fatalf("first add: %v", err)
	}

	second := ButtonMapping{ID: NewID(), Button: 4, KeyCode: 11, Modifiers: ModShift}
	err := s.Add(second, false)

	var dup *DuplicateButtonError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateButtonError, got %v", err)
	}
	if dup.Button != 4 {
		t.Errorf("conflict button = %d, want 4", dup.Button)
	}
	if s.Len() != 1 {
		t.Errorf("store changed on failed add: len = %d, want 1", s.Len())
	}
	if got, _ := s.Lookup(4); got != first {
		t.Errorf("store changed on failed add: %+v, want %+v", got, first)
	}
}

func TestAddReplace(t *testing.T) {
	s := NewStore()
	if err := s.Add(ButtonMapping{ID: NewID(), Button: 4, KeyCode: 40}, false); err != nil {
		t.Fatalf("first add: %v", err)
	}

	replacement := ButtonMapping{ID: NewID(), Button: 4, KeyCode: 11, Modifiers: ModOption}
	if err := s.Add(replacement, true); err != nil {
		t.Fatalf("replace add: %v", err)
	}

	if s.Len() != 1 {
		t.Fatalf("len = %d, want exactly one entry for button 4", s.Len())
	}
	if got, _ := s.Lookup(4); got != replacement {
		t.Errorf("Lookup(4) = %+v, want %+v", got, replacement)
	}
}

func TestAddRejectsReservedButtons(t *testing.T) {
	s := NewStore()
	for _, button := range []int{0, 1} {
		err := s.Add(ButtonMapping{ID: NewID(), Button: button, KeyCode: 40}, false)
		if !errors.Is(err, ErrReservedButton) {
			t.Errorf("Add(button=%d) = %v, want ErrReservedButton", button, err)
		}
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}

func TestInsertionOrder(t *testing.T) {
	s := NewStore()
	for _, button := range []int{4, 2, 5} {
		m := ButtonMapping{ID: NewID(), Button: button, KeyCode: 40}
		if err := s.Add(m, false); err != nil {
			t.Fatalf("add button %d: %v", button, err)
		}
	}

	ms := s.Mappings()
	want := []int{4, 2, 5}
	for i, m := range ms {
		if m.Button != want[i] {
			t.Fatalf("order = %v at index %d, want buttons %v", m.Button, i, want)
		}
	}

	if !s.Remove(ms[1].ID) {
		t.Fatal("Remove returned false for existing mapping")
	}
	ms = s.Mappings()
	if len(ms) != 2 || ms[0].Button != 4 || ms[1].Button != 5 {
		t.Errorf("order after remove = %+v, want buttons [4 5]", ms)
	}
}

func TestRemoveMissing(t *testing.T) {
	s := NewStore()
	if s.Remove("nope") {
		t.Error("Remove of unknown id returned true")
	}
}

func TestLoadSkipsInvalidRecords(t *testing.T) {
	s := NewStore()
	s.Load([]ButtonMapping{
		{ID: "a", Button: 1, KeyCode: 40},  // reserved
		{ID: "b", Button: 4, KeyCode: 40},  // kept
		{ID: "c", Button: 4, KeyCode: 11},  // duplicate, first wins
		{Button: 5, KeyCode: 12},           // missing id, assigned one
	})

	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if got, _ := s.Lookup(4); got.ID != "b" {
		t.Errorf("Lookup(4).ID = %q, want first record to win", got.ID)
	}
	if got, _ := s.Lookup(5); got.ID == "" {
		t.Error("record without id was not assigned one")
	}
}

func TestDisplay(t *testing.T) {
	m := ButtonMapping{Button: 4, KeyCode: 40, Modifiers: ModCommand | ModShift}
	if got := m.Display(); got != "⇧⌘K" {
		t.Errorf("Display() = %q, want ⇧⌘K", got)
	}

	all := ModControl | ModOption | ModShift | ModCommand
	if got := all.String(); got != "⌃⌥⇧⌘" {
		t.Errorf("Modifiers.String() = %q, want ⌃⌥⇧⌘", got)
	}

	if got := KeyName(999); got != "key(999)" {
		t.Errorf("KeyName(999) = %q, want numeric fallback", got)
	}
}
