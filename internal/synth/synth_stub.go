//go:build !darwin

package synth

import "github.com/clickchord/clickchord/internal/mapping"

// platformEmit is a no-op where no low-level injection point is wired up.
func platformEmit(keyCode int, mods mapping.Modifiers) {}
