package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clickchord/clickchord/internal/autostart"
	"github.com/clickchord/clickchord/internal/config"
	"github.com/clickchord/clickchord/internal/mapping"
	"github.com/clickchord/clickchord/internal/permissions"
	"github.com/clickchord/clickchord/internal/resolver"
	"github.com/clickchord/clickchord/internal/tap"
)

// tapRetryInterval paces attempts to install the event tap while the
// accessibility permission is still pending.
const tapRetryInterval = 3 * time.Second

// UI is the presentation layer's side of the conversation (e.g., the tray).
type UI interface {
	LearnStarted()
	LearnAwaitingShortcut(button int)
	LearnFinished()
	// ResolveConflict decides whether candidate replaces existing when both
	// target the same button.
	ResolveConflict(existing, candidate mapping.ButtonMapping) bool
	TapStateChanged(running bool)
}

type Config struct {
	Store      *mapping.Store
	Resolver   *resolver.Resolver
	Tap        tap.Interceptor
	KeyCapture tap.KeyCapture
	Autostart  autostart.Manager
	Config     *config.Config
	Logger     zerolog.Logger
	UI         UI // Optional - can be nil, set later via SetUI
}

// App wires the tap, resolver, store and presentation together and owns the
// learn lifecycle. All mutating entry points are mutex-marshaled; the tap
// callback itself goes through the resolver and never enters App.
type App struct {
	store  *mapping.Store
	res    *resolver.Resolver
	tap    tap.Interceptor
	keycap tap.KeyCapture
	auto   autostart.Manager
	cfg    *config.Config
	log    zerolog.Logger

	mu         sync.Mutex
	ui         UI
	tapRunning bool
	retryStop  chan struct{}
}

func New(cfg Config) *App {
	return &App{
		store:  cfg.Store,
		res:    cfg.Resolver,
		tap:    cfg.Tap,
		keycap: cfg.KeyCapture,
		auto:   cfg.Autostart,
		cfg:    cfg.Config,
		log:    cfg.Logger,
		ui:     cfg.UI,
	}
}

// SetUI sets the presentation reference (for circular dependency resolution)
func (a *App) SetUI(ui UI) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ui = ui
}

func (a *App) getUI() UI {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ui
}

// Start installs the event tap. When the host denies it (accessibility not
// yet granted), the system prompt is raised and installation is retried in
// the background until it sticks.
func (a *App) Start() {
	if a.tryStartTap() {
		return
	}

	a.log.Warn().Msg("Event tap denied; waiting for accessibility permission")
	permissions.PromptAccessibility()

	a.mu.Lock()
	if a.retryStop != nil {
		a.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	a.retryStop = stop
	a.mu.Unlock()

	go func() {
		ticker := time.NewTicker(tapRetryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !permissions.CheckAccessibility() {
					continue
				}
				if a.tryStartTap() {
					return
				}
			}
		}
	}()
}

func (a *App) tryStartTap() bool {
	if !a.tap.Start() {
		return false
	}
	a.mu.Lock()
	a.tapRunning = true
	ui := a.ui
	a.mu.Unlock()
	a.log.Info().Msg("Remapping active")
	if ui != nil {
		ui.TapStateChanged(true)
	}
	return true
}

// TapRunning reports whether the hook is installed.
func (a *App) TapRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tapRunning
}

// Shutdown tears the hooks down deterministically and persists state.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if a.retryStop != nil {
		close(a.retryStop)
		a.retryStop = nil
	}
	a.tapRunning = false
	a.mu.Unlock()

	a.keycap.Stop()
	a.tap.Stop()
	return a.persist()
}

// StartLearn begins the interactive capture flow: the next extra-button
// press is swallowed and recorded, then the next key chord completes the
// mapping.
func (a *App) StartLearn() {
	if a.res.Learning() {
		return
	}
	a.res.StartLearn(a)
	if ui := a.getUI(); ui != nil {
		ui.LearnStarted()
	}
}

// CancelLearn aborts the capture flow.
func (a *App) CancelLearn() {
	a.res.CancelLearn()
	a.keycap.Stop()
	if ui := a.getUI(); ui != nil {
		ui.LearnFinished()
	}
}

// ButtonCaptured implements resolver.LearnDelegate: the session has its
// button, so arm the one-shot chord grabber.
func (a *App) ButtonCaptured(button int) {
	if ui := a.getUI(); ui != nil {
		ui.LearnAwaitingShortcut(button)
	}
	if !a.keycap.Start(a.onChord) {
		a.log.Warn().Msg("Keyboard capture unavailable; learn session aborted")
		a.CancelLearn()
	}
}

// onChord runs inside the keyboard tap callback; the heavy part moves to its
// own goroutine so the callback returns within the host's budget.
func (a *App) onChord(keyCode int, mods mapping.Modifiers, escape bool) {
	go a.finishLearn(keyCode, mods, escape)
}

func (a *App) finishLearn(keyCode int, mods mapping.Modifiers, escape bool) {
	a.keycap.Stop()

	ui := a.getUI()
	defer func() {
		if ui != nil {
			ui.LearnFinished()
		}
	}()

	if escape {
		a.res.CancelLearn()
		return
	}

	candidate, ok := a.res.CompleteLearn(keyCode, mods)
	if !ok {
		return
	}

	err := a.store.Add(candidate, false)
	var dup *mapping.DuplicateButtonError
	if errors.As(err, &dup) {
		existing, _ := a.store.Lookup(candidate.Button)
		replace := true
		if ui != nil {
			replace = ui.ResolveConflict(existing, candidate)
		}
		if !replace {
			a.log.Info().Int("button", candidate.Button).Msg("Mapping abandoned; button already mapped")
			return
		}
		err = a.store.Add(candidate, true)
	}
	if err != nil {
		a.log.Error().Err(err).Msg("Failed to store mapping")
		return
	}

	a.log.Info().Int("button", candidate.Button).Str("shortcut", candidate.Display()).Msg("Mapping added")
	if err := a.persist(); err != nil {
		a.log.Error().Err(err).Msg("Failed to save config")
	}
}

// Learning reports whether a capture attempt is in flight.
func (a *App) Learning() bool {
	return a.res.Learning()
}

func (a *App) Mappings() []mapping.ButtonMapping {
	return a.store.Mappings()
}

// RemoveMapping deletes a mapping by id and persists.
func (a *App) RemoveMapping(id string) {
	if !a.store.Remove(id) {
		return
	}
	if err := a.persist(); err != nil {
		a.log.Error().Err(err).Msg("Failed to save config")
	}
}

func (a *App) Enabled() bool {
	return a.res.Enabled()
}

func (a *App) SetEnabled(enabled bool) {
	a.res.SetEnabled(enabled)
	if err := a.persist(); err != nil {
		a.log.Error().Err(err).Msg("Failed to save config")
	}
}

// OnToggleHotkey handles the global enable/disable chord.
func (a *App) OnToggleHotkey(pressed bool) {
	if !pressed {
		return
	}
	enabled := a.res.ToggleEnabled()
	a.log.Info().Bool("enabled", enabled).Msg("Remapping toggled by hotkey")
	if err := a.persist(); err != nil {
		a.log.Error().Err(err).Msg("Failed to save config")
	}
	if ui := a.getUI(); ui != nil {
		ui.TapStateChanged(a.TapRunning())
	}
}

func (a *App) SuppressOriginal() bool {
	return a.res.SuppressOriginal()
}

func (a *App) SetSuppressOriginal(suppress bool) {
	a.res.SetSuppressOriginal(suppress)
	if err := a.persist(); err != nil {
		a.log.Error().Err(err).Msg("Failed to save config")
	}
}

func (a *App) RunAtLogin() bool {
	return a.auto.IsEnabled()
}

func (a *App) SetRunAtLogin(enable bool) error {
	var err error
	if enable {
		err = a.auto.Enable()
	} else {
		err = a.auto.Disable()
	}
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.cfg.RunAtLogin = enable
	a.mu.Unlock()
	return a.persist()
}

// Diagnostics renders the current state as text for bug reports.
func (a *App) Diagnostics(version, commit string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "clickchord %s (%s)\n", version, commit)
	fmt.Fprintf(&b, "remapping enabled: %v\n", a.Enabled())
	fmt.Fprintf(&b, "suppress original: %v\n", a.SuppressOriginal())
	fmt.Fprintf(&b, "tap running: %v\n", a.TapRunning())
	for _, m := range a.store.Mappings() {
		fmt.Fprintf(&b, "button %d -> %s\n", m.Button, m.Display())
	}
	return b.String()
}

// persist snapshots the store and flags into the config file.
func (a *App) persist() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.Enabled = a.res.Enabled()
	a.cfg.SuppressOriginal = a.res.SuppressOriginal()
	a.cfg.SetMappings(a.store.Mappings())
	return a.cfg.Save()
}
