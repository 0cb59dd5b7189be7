package tray

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/clickchord/clickchord/internal/app"
	"github.com/clickchord/clickchord/internal/event"
	"github.com/clickchord/clickchord/internal/logging"
	"github.com/clickchord/clickchord/internal/mapping"
)

type UI struct {
	app     *app.App
	version string
	commit  string
	log     zerolog.Logger

	// Menu items
	mEnabled    *systray.MenuItem
	mSuppress   *systray.MenuItem
	mLearn      *systray.MenuItem
	mMappings   *systray.MenuItem
	mRunAtLogin *systray.MenuItem

	mu           sync.Mutex
	mappingItems map[string]*systray.MenuItem
}

func New(application *app.App, version, commit string, log zerolog.Logger) *UI {
	return &UI{
		app:          application,
		version:      version,
		commit:       commit,
		log:          log,
		mappingItems: make(map[string]*systray.MenuItem),
	}
}

// SetApp sets the app reference (for circular dependency resolution)
func (u *UI) SetApp(application *app.App) {
	u.app = application
}

func (u *UI) Run(ctx context.Context) error {
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	u.updateTitle()
	systray.SetTooltip("Mouse buttons to keyboard shortcuts")

	u.mLearn = systray.AddMenuItem("Add Mapping…", "Press a mouse button, then a key chord; Esc cancels")
	u.mMappings = systray.AddMenuItem("Mappings", "Click a mapping to remove it")
	systray.AddSeparator()

	u.mEnabled = systray.AddMenuItemCheckbox("Remapping Enabled", "Resolve extra buttons to shortcuts", u.app.Enabled())
	u.mSuppress = systray.AddMenuItemCheckbox("Swallow Original Click", "Hide the mapped button from other apps", u.app.SuppressOriginal())
	u.mRunAtLogin = systray.AddMenuItemCheckbox("Run at Login", "Start on system boot", u.app.RunAtLogin())

	systray.AddSeparator()
	mDiag := systray.AddMenuItem("Copy Diagnostics", "Copy state and mappings to the clipboard")
	mLogs := systray.AddMenuItem("Open Logs", "View application logs")
	mAbout := systray.AddMenuItem("About", "About clickchord")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	for _, m := range u.app.Mappings() {
		u.addMappingItem(m)
	}

	// Event loop
	go u.handleEvents(mDiag, mLogs, mAbout, mQuit)
}

func (u *UI) handleEvents(mDiag, mLogs, mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mLearn.ClickedCh:
			u.toggleLearn()
		case <-u.mEnabled.ClickedCh:
			u.toggleEnabled()
		case <-u.mSuppress.ClickedCh:
			u.toggleSuppress()
		case <-u.mRunAtLogin.ClickedCh:
			u.toggleRunAtLogin()
		case <-mDiag.ClickedCh:
			u.copyDiagnostics()
		case <-mLogs.ClickedCh:
			u.openLogs()
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

// app.UI implementation — called by the core when learn state changes.

func (u *UI) LearnStarted() {
	u.mLearn.SetTitle("Learning: press a mouse button… (click to cancel)")
}

func (u *UI) LearnAwaitingShortcut(button int) {
	u.mLearn.SetTitle(fmt.Sprintf("Learning: press keys for %s… (Esc cancels)", buttonLabel(button)))
}

func (u *UI) LearnFinished() {
	u.mLearn.SetTitle("Add Mapping…")
	u.refreshMappings()
}

// ResolveConflict replaces the existing mapping; the tray has no modal
// surface to ask with, so the overwrite is logged instead.
func (u *UI) ResolveConflict(existing, candidate mapping.ButtonMapping) bool {
	u.log.Info().
		Str("existing", existing.Display()).
		Str("replacement", candidate.Display()).
		Msgf("Replacing mapping for %s", buttonLabel(candidate.Button))
	return true
}

func (u *UI) TapStateChanged(running bool) {
	u.updateTitle()
}

func (u *UI) toggleLearn() {
	if u.app.Learning() {
		u.app.CancelLearn()
		return
	}
	u.app.StartLearn()
}

func (u *UI) toggleEnabled() {
	enabled := !u.app.Enabled()
	u.app.SetEnabled(enabled)
	if enabled {
		u.mEnabled.Check()
	} else {
		u.mEnabled.Uncheck()
	}
	u.updateTitle()
	u.log.Info().Bool("enabled", enabled).Msg("Changed remapping state")
}

func (u *UI) toggleSuppress() {
	suppress := !u.app.SuppressOriginal()
	u.app.SetSuppressOriginal(suppress)
	if suppress {
		u.mSuppress.Check()
	} else {
		u.mSuppress.Uncheck()
	}
	u.log.Info().Bool("suppress", suppress).Msg("Changed original-click suppression")
}

func (u *UI) toggleRunAtLogin() {
	enable := !u.app.RunAtLogin()
	if err := u.app.SetRunAtLogin(enable); err != nil {
		u.log.Error().Err(err).Msg("Failed to change login item")
		return
	}
	if enable {
		u.mRunAtLogin.Check()
		u.log.Info().Msg("Enabled run at login")
	} else {
		u.mRunAtLogin.Uncheck()
		u.log.Info().Msg("Disabled run at login")
	}
}

// refreshMappings reconciles the submenu with the store. systray cannot
// delete items, so stale entries are hidden.
func (u *UI) refreshMappings() {
	u.mu.Lock()
	defer u.mu.Unlock()

	current := make(map[string]mapping.ButtonMapping)
	for _, m := range u.app.Mappings() {
		current[m.ID] = m
	}
	for id, item := range u.mappingItems {
		if _, ok := current[id]; !ok {
			item.Hide()
			delete(u.mappingItems, id)
		}
	}
	for id, m := range current {
		if _, ok := u.mappingItems[id]; !ok {
			u.addMappingItemLocked(id, m)
		}
	}
}

func (u *UI) addMappingItem(m mapping.ButtonMapping) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.addMappingItemLocked(m.ID, m)
}

func (u *UI) addMappingItemLocked(id string, m mapping.ButtonMapping) {
	item := u.mMappings.AddSubMenuItem(mappingLabel(m), "Click to remove this mapping")
	u.mappingItems[id] = item

	go func(mappingID string, menuItem *systray.MenuItem) {
		for range menuItem.ClickedCh {
			u.app.RemoveMapping(mappingID)
			u.log.Info().Str("mapping", mappingLabel(m)).Msg("Removed mapping")
			u.refreshMappings()
		}
	}(id, item)
}

func (u *UI) copyDiagnostics() {
	if err := clipboard.WriteAll(u.app.Diagnostics(u.version, u.commit)); err != nil {
		u.log.Error().Err(err).Msg("Failed to copy diagnostics")
		return
	}
	u.log.Info().Msg("Diagnostics copied to clipboard")
}

func (u *UI) openLogs() {
	cmd := "xdg-open"
	if runtime.GOOS == "darwin" {
		cmd = "open"
	}
	if err := exec.Command(cmd, logging.LogPath()).Start(); err != nil {
		u.log.Error().Err(err).Msg("Failed to open log file")
	}
}

func (u *UI) showAbout() {
	fmt.Printf("clickchord %s (%s)\nMouse buttons to keyboard shortcuts\n", u.version, u.commit)
}

func (u *UI) onExit() {
	// Cleanup
}

// updateTitle reflects the remap state in the tray title.
func (u *UI) updateTitle() {
	if u.app.Enabled() && u.app.TapRunning() {
		systray.SetTitle("🖱 🟢")
		return
	}
	systray.SetTitle("🖱 ⚪️")
}

// buttonLabel names a button the way users see it in pointer settings.
func buttonLabel(button int) string {
	switch button {
	case event.ButtonPrimary:
		return "Left Button"
	case event.ButtonSecondary:
		return "Right Button"
	case event.ButtonMiddle:
		return "Middle Button"
	}
	return fmt.Sprintf("Button %d", button)
}

// mappingLabel renders one mapping menu entry, e.g. "Button 4 → ⇧⌘K".
func mappingLabel(m mapping.ButtonMapping) string {
	return fmt.Sprintf("%s → %s", buttonLabel(m.Button), m.Display())
}
