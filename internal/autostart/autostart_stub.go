//go:build !darwin

package autostart

type noop struct{}

// New returns a no-op manager where login-item registration is not wired up.
func New() Manager {
	return &noop{}
}

func (n *noop) IsEnabled() bool {
	return false
}

func (n *noop) Enable() error {
	return nil
}

func (n *noop) Disable() error {
	return nil
}
