//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>

int checkAccessibilityPermission() {
    return AXIsProcessTrusted() ? 1 : 0;
}

int promptAccessibilityPermission() {
    NSDictionary *options = @{(__bridge id)kAXTrustedCheckOptionPrompt: @YES};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}
*/
import "C"

// CheckAccessibility reports whether the process holds the accessibility
// capability the event tap needs, without prompting.
func CheckAccessibility() bool {
	return int(C.checkAccessibilityPermission()) == 1
}

// PromptAccessibility checks the capability and shows the system prompt
// pointing at System Settings → Privacy & Security → Accessibility when it
// is missing.
func PromptAccessibility() bool {
	return int(C.promptAccessibilityPermission()) == 1
}
