//go:build !darwin

package tap

import (
	"sync"

	"github.com/rs/zerolog"
)

// No system-wide tap with suppression is wired up on this platform; Start
// reports the capability as unavailable, matching a denied hook.

type stubTap struct {
	mu      sync.Mutex
	log     zerolog.Logger
	started bool
}

func New(h Handler, log zerolog.Logger) Interceptor {
	return &stubTap{log: log}
}

func (t *stubTap) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		t.log.Warn().Msg("Event tap not supported on this platform")
	}
	return false
}

func (t *stubTap) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started = false
}

type stubKeyCapture struct {
	log zerolog.Logger
}

func NewKeyCapture(log zerolog.Logger) KeyCapture {
	return &stubKeyCapture{log: log}
}

func (k *stubKeyCapture) Start(fn ChordFunc) bool {
	k.log.Warn().Msg("Keyboard capture not supported on this platform")
	return false
}

func (k *stubKeyCapture) Stop() {}
