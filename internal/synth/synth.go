package synth

import (
	"github.com/rs/zerolog"

	"github.com/clickchord/clickchord/internal/mapping"
)

// Synthesizer emits a synthetic key press (down then up) with a modifier
// mask, indistinguishable from physical input to downstream observers.
type Synthesizer interface {
	// Emit posts the key-down/key-up pair. It silently has no effect when
	// the host denies the injection capability; verifying the capability is
	// the caller's job.
	Emit(keyCode int, mods mapping.Modifiers)
}

type hidSynth struct {
	log zerolog.Logger
}

// New creates the platform keystroke synthesizer.
func New(log zerolog.Logger) Synthesizer {
	return &hidSynth{log: log}
}

// Emit posts through the lowest-level injection point the host provides
// (see synth_darwin.go, synth_stub.go). Both edges carry the same mask; an
// asymmetric pair risks a stuck modifier in the receiving application.
func (s *hidSynth) Emit(keyCode int, mods mapping.Modifiers) {
	platformEmit(keyCode, mods)
	s.log.Debug().Int("key_code", keyCode).Str("modifiers", mods.String()).Msg("Synthesized keystroke")
}
