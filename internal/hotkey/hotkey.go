package hotkey

import (
	"fmt"
	"strings"
	"sync"

	"golang.design/x/hotkey"
)

// Manager defines the interface for global hotkey management
type Manager interface {
	Register(accel string, callback func(pressed bool)) error
	Unregister(accel string) error
	Close() error
}

type registration struct {
	hk   *hotkey.Hotkey
	done chan struct{}
}

type manager struct {
	mu   sync.Mutex
	regs map[string]*registration
}

// New creates a new global hotkey manager
func New() (Manager, error) {
	return &manager{regs: make(map[string]*registration)}, nil
}

func (m *manager) Register(accel string, callback func(pressed bool)) error {
	mods, key, err := ParseAccel(accel)
	if err != nil {
		return err
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register %q: %w", accel, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-hk.Keydown():
				callback(true)
			case <-hk.Keyup():
				callback(false)
			}
		}
	}()

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.regs[accel]; ok {
		close(old.done)
		old.hk.Unregister()
	}
	m.regs[accel] = &registration{hk: hk, done: done}
	return nil
}

func (m *manager) Unregister(accel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.regs[accel]
	if !ok {
		return nil
	}
	close(reg.done)
	delete(m.regs, accel)
	return reg.hk.Unregister()
}

func (m *manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for accel, reg := range m.regs {
		close(reg.done)
		reg.hk.Unregister()
		delete(m.regs, accel)
	}
	return nil
}

// ParseAccel splits an accelerator like "ctrl+alt+b" into modifiers and a
// key. Modifier names are platform-mapped (see modifiers_*.go).
func ParseAccel(accel string) ([]hotkey.Modifier, hotkey.Key, error) {
	parts := strings.Split(accel, "+")
	if len(parts) == 0 {
		return nil, 0, fmt.Errorf("empty accelerator")
	}

	var mods []hotkey.Modifier
	for _, name := range parts[:len(parts)-1] {
		name = strings.TrimSpace(strings.ToLower(name))
		mod, ok := modMap[name]
		if !ok {
			return nil, 0, fmt.Errorf("unknown modifier %q (available: ctrl, shift, alt, super)", name)
		}
		mods = append(mods, mod)
	}

	keyName := strings.TrimSpace(strings.ToLower(parts[len(parts)-1]))
	key, ok := keyMap[keyName]
	if !ok {
		return nil, 0, fmt.Errorf("unknown key %q", keyName)
	}
	return mods, key, nil
}
