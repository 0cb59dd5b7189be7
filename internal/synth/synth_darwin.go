//go:build darwin

package synth

/*
#cgo LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

// Post a key-down/key-up pair at the HID system state level so other
// event taps and applications see it as hardware input.
static void emitKeystroke(int keyCode, uint64_t flags) {
    CGEventSourceRef source = CGEventSourceCreate(kCGEventSourceStateHIDSystemState);

    CGEventRef down = CGEventCreateKeyboardEvent(source, (CGKeyCode)keyCode, true);
    CGEventSetFlags(down, (CGEventFlags)flags);
    CGEventRef up = CGEventCreateKeyboardEvent(source, (CGKeyCode)keyCode, false);
    CGEventSetFlags(up, (CGEventFlags)flags);

    CGEventPost(kCGHIDEventTap, down);
    CGEventPost(kCGHIDEventTap, up);

    CFRelease(down);
    CFRelease(up);
    if (source) CFRelease(source);
}
*/
import "C"

import (
	"github.com/clickchord/clickchord/internal/mapping"
)

// platformEmit injects the chord via CGEvent.
func platformEmit(keyCode int, mods mapping.Modifiers) {
	C.emitKeystroke(C.int(keyCode), C.uint64_t(eventFlags(mods)))
}

// eventFlags translates the mapping mask to CGEventFlags.
func eventFlags(mods mapping.Modifiers) uint64 {
	var flags uint64
	if mods.Has(mapping.ModControl) {
		flags |= uint64(C.kCGEventFlagMaskControl)
	}
	if mods.Has(mapping.ModOption) {
		flags |= uint64(C.kCGEventFlagMaskAlternate)
	}
	if mods.Has(mapping.ModShift) {
		flags |= uint64(C.kCGEventFlagMaskShift)
	}
	if mods.Has(mapping.ModCommand) {
		flags |= uint64(C.kCGEventFlagMaskCommand)
	}
	return flags
}
