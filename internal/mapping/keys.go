package mapping

import "fmt"

// keyNames maps macOS virtual key codes (layout-independent positions on the
// ANSI layout) to display names.
var keyNames = map[int]string{
	0: "A", 1: "S", 2: "D", 3: "F", 4: "H", 5: "G",
	6: "Z", 7: "X", 8: "C", 9: "V", 11: "B",
	12: "Q", 13: "W", 14: "E", 15: "R", 16: "Y", 17: "T",
	18: "1", 19: "2", 20: "3", 21: "4", 22: "6", 23: "5",
	24: "=", 25: "9", 26: "7", 27: "-", 28: "8", 29: "0",
	30: "]", 31: "O", 32: "U", 33: "[", 34: "I", 35: "P",
	36: "Return", 37: "L", 38: "J", 39: "'", 40: "K", 41: ";",
	42: "\\", 43: ",", 44: "/", 45: "N", 46: "M", 47: ".",
	48: "Tab", 49: "Space", 50: "`", 51: "Delete", 53: "Esc",
	96: "F5", 97: "F6", 98: "F7", 99: "F3", 100: "F8", 101: "F9",
	103: "F11", 109: "F10", 111: "F12", 105: "F13", 107: "F14", 113: "F15",
	114: "Help", 115: "Home", 116: "PageUp", 117: "FwdDelete",
	118: "F4", 119: "End", 120: "F2", 121: "PageDown", 122: "F1",
	123: "←", 124: "→", 125: "↓", 126: "↑",
}

// KeyCodeEscape is the virtual key code for the Escape key, which cancels a
// learn session.
const KeyCodeEscape = 53

// KeyName returns a human-readable name for a virtual key code, falling back
// to the numeric code for keys outside the table.
func KeyName(keyCode int) string {
	if name, ok := keyNames[keyCode]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", keyCode)
}
