package hotkey

import "testing"

func TestParseAccel(t *testing.T) {
	mods, key, err := ParseAccel("ctrl+alt+b")
	if err != nil {
		t.Fatalf("ParseAccel: %v", err)
	}
	if len(mods) != 2 {
		t.Errorf("modifiers = %d, want 2", len(mods))
	}
	if key != keyMap["b"] {
		t.Errorf("key = %v, want %v", key, keyMap["b"])
	}
}

func TestParseAccelBareKey(t *testing.T) {
	mods, key, err := ParseAccel("f5")
	if err != nil {
		t.Fatalf("ParseAccel: %v", err)
	}
	if len(mods) != 0 {
		t.Errorf("modifiers = %d, want 0", len(mods))
	}
	if key != keyMap["f5"] {
		t.Errorf("key = %v, want f5", key)
	}
}

func TestParseAccelErrors(t *testing.T) {
	if _, _, err := ParseAccel("hyper+b"); err == nil {
		t.Error("unknown modifier accepted")
	}
	if _, _, err := ParseAccel("ctrl+banana"); err == nil {
		t.Error("unknown key accepted")
	}
}
