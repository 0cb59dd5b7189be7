//go:build darwin

package tap

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>

// Forward declarations for the Go callbacks.
extern CGEventRef goMouseTapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *info);
extern CGEventRef goKeyTapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *info);

// Tap "other" mouse buttons only: the primary and secondary click never
// reach us, which keeps the callback off the hot path of normal clicking.
static CFMachPortRef createMouseTap(void) {
    CGEventMask mask = CGEventMaskBit(kCGEventOtherMouseDown) | CGEventMaskBit(kCGEventOtherMouseUp);
    return CGEventTapCreate(kCGSessionEventTap, kCGHeadInsertEventTap,
        kCGEventTapOptionDefault, mask, goMouseTapCallback, NULL);
}

static CFMachPortRef createKeyTap(void) {
    CGEventMask mask = CGEventMaskBit(kCGEventKeyDown);
    return CGEventTapCreate(kCGSessionEventTap, kCGHeadInsertEventTap,
        kCGEventTapOptionDefault, mask, goKeyTapCallback, NULL);
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/clickchord/clickchord/internal/event"
	"github.com/clickchord/clickchord/internal/mapping"
)

// Exported cgo callbacks cannot carry a Go closure, so the current tap is
// registered package-wide.
var (
	activeMouseTap  *mouseTap
	activeKeyTap    *keyCapture
	activeCallbacks sync.Mutex
)

type mouseTap struct {
	mu      sync.Mutex
	handler Handler
	log     zerolog.Logger
	policy  rearmPolicy
	port    C.CFMachPortRef
	source  C.CFRunLoopSourceRef
	started bool
}

// New creates the macOS event-tap interceptor. The tap is added to the main
// run loop, which systray keeps running for the life of the process.
func New(h Handler, log zerolog.Logger) Interceptor {
	return &mouseTap{handler: h, log: log, policy: newRearmPolicy()}
}

func (t *mouseTap) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return true
	}

	activeCallbacks.Lock()
	activeMouseTap = t
	activeCallbacks.Unlock()

	port := C.createMouseTap()
	if port == nil {
		activeCallbacks.Lock()
		activeMouseTap = nil
		activeCallbacks.Unlock()
		t.log.Warn().Msg("Event tap creation denied; accessibility permission missing?")
		return false
	}

	t.port = port
	t.source = C.CFMachPortCreateRunLoopSource(C.kCFAllocatorDefault, port, 0)
	C.CFRunLoopAddSource(C.CFRunLoopGetMain(), t.source, C.kCFRunLoopCommonModes)
	C.CGEventTapEnable(port, true)
	t.started = true
	t.log.Info().Msg("Event tap installed")
	return true
}

func (t *mouseTap) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return
	}

	C.CGEventTapEnable(t.port, false)
	C.CFRunLoopRemoveSource(C.CFRunLoopGetMain(), t.source, C.kCFRunLoopCommonModes)
	C.CFRelease(C.CFTypeRef(t.source))
	C.CFRelease(C.CFTypeRef(t.port))
	t.port = nil
	t.source = nil
	t.started = false

	activeCallbacks.Lock()
	activeMouseTap = nil
	activeCallbacks.Unlock()
	t.log.Info().Msg("Event tap removed")
}

// handleDisable re-arms the tap per the recovery policy. Re-arming after a
// timeout restores function but not the root cause: the handler has to stay
// fast. It runs on the tap callback, which never holds t.mu, so taking the
// lock here orders it against Stop releasing the port.
func (t *mouseTap) handleDisable(reason event.DisableReason) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		// Stop already released the port; nothing left to re-arm.
		return
	}
	if t.policy.shouldRearm(reason) {
		C.CGEventTapEnable(t.port, true)
		t.log.Warn().Stringer("reason", reason).Msg("Event tap disabled by host; re-armed")
		return
	}
	t.log.Debug().Stringer("reason", reason).Msg("Event tap disable ignored (rate limited)")
}

//export goMouseTapCallback
func goMouseTapCallback(proxy C.CGEventTapProxy, typ C.CGEventType, ev C.CGEventRef, info unsafe.Pointer) C.CGEventRef {
	activeCallbacks.Lock()
	t := activeMouseTap
	activeCallbacks.Unlock()
	if t == nil {
		return ev
	}

	switch typ {
	case C.kCGEventTapDisabledByTimeout:
		t.handleDisable(event.DisabledByTimeout)
	case C.kCGEventTapDisabledByUserInput:
		t.handleDisable(event.DisabledByUserInput)
	case C.kCGEventOtherMouseDown, C.kCGEventOtherMouseUp:
		button := int(C.CGEventGetIntegerValueField(ev, C.kCGMouseEventButtonNumber))
		down := typ == C.kCGEventOtherMouseDown
		if t.handler(button, down) == event.Suppress {
			return nil
		}
	}
	return ev
}

type keyCapture struct {
	mu       sync.Mutex
	log      zerolog.Logger
	fn       ChordFunc
	consumed bool
	port     C.CFMachPortRef
	source   C.CFRunLoopSourceRef
	started  bool
}

// NewKeyCapture creates the one-shot learn-mode chord grabber.
func NewKeyCapture(log zerolog.Logger) KeyCapture {
	return &keyCapture{log: log}
}

func (k *keyCapture) Start(fn ChordFunc) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.started {
		k.fn = fn
		k.consumed = false
		return true
	}

	activeCallbacks.Lock()
	activeKeyTap = k
	activeCallbacks.Unlock()

	port := C.createKeyTap()
	if port == nil {
		activeCallbacks.Lock()
		activeKeyTap = nil
		activeCallbacks.Unlock()
		k.log.Warn().Msg("Keyboard tap creation denied")
		return false
	}

	k.port = port
	k.source = C.CFMachPortCreateRunLoopSource(C.kCFAllocatorDefault, port, 0)
	C.CFRunLoopAddSource(C.CFRunLoopGetMain(), k.source, C.kCFRunLoopCommonModes)
	C.CGEventTapEnable(port, true)
	k.fn = fn
	k.consumed = false
	k.started = true
	return true
}

func (k *keyCapture) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.started {
		return
	}

	C.CGEventTapEnable(k.port, false)
	C.CFRunLoopRemoveSource(C.CFRunLoopGetMain(), k.source, C.kCFRunLoopCommonModes)
	C.CFRelease(C.CFTypeRef(k.source))
	C.CFRelease(C.CFTypeRef(k.port))
	k.port = nil
	k.source = nil
	k.started = false
	k.fn = nil

	activeCallbacks.Lock()
	activeKeyTap = nil
	activeCallbacks.Unlock()
}

//export goKeyTapCallback
func goKeyTapCallback(proxy C.CGEventTapProxy, typ C.CGEventType, ev C.CGEventRef, info unsafe.Pointer) C.CGEventRef {
	activeCallbacks.Lock()
	k := activeKeyTap
	activeCallbacks.Unlock()
	if k == nil {
		return ev
	}

	switch typ {
	case C.kCGEventTapDisabledByTimeout, C.kCGEventTapDisabledByUserInput:
		// Short-lived capture tap: always re-arm, unless Stop already
		// released the port.
		k.mu.Lock()
		if k.started {
			C.CGEventTapEnable(k.port, true)
		}
		k.mu.Unlock()
		return ev
	case C.kCGEventKeyDown:
		k.mu.Lock()
		fn := k.fn
		done := k.consumed
		if !done {
			k.consumed = true
		}
		k.mu.Unlock()
		if done || fn == nil {
			return ev
		}

		keyCode := int(C.CGEventGetIntegerValueField(ev, C.kCGKeyboardEventKeycode))
		mods := modifiersFromFlags(uint64(C.CGEventGetFlags(ev)))
		fn(keyCode, mods, keyCode == mapping.KeyCodeEscape)
		// Swallow the chord; it belongs to the mapping, not the frontmost app.
		return nil
	}
	return ev
}

func modifiersFromFlags(flags uint64) mapping.Modifiers {
	var mods mapping.Modifiers
	if flags&uint64(C.kCGEventFlagMaskControl) != 0 {
		mods |= mapping.ModControl
	}
	if flags&uint64(C.kCGEventFlagMaskAlternate) != 0 {
		mods |= mapping.ModOption
	}
	if flags&uint64(C.kCGEventFlagMaskShift) != 0 {
		mods |= mapping.ModShift
	}
	if flags&uint64(C.kCGEventFlagMaskCommand) != 0 {
		mods |= mapping.ModCommand
	}
	return mods
}
