//go:build !darwin

package permissions

// No capability gate outside macOS; the tap itself reports availability.

func CheckAccessibility() bool {
	return true
}

func PromptAccessibility() bool {
	return true
}
