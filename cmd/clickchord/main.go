package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clickchord/clickchord/internal/app"
	"github.com/clickchord/clickchord/internal/autostart"
	"github.com/clickchord/clickchord/internal/config"
	"github.com/clickchord/clickchord/internal/hotkey"
	"github.com/clickchord/clickchord/internal/logging"
	"github.com/clickchord/clickchord/internal/mapping"
	"github.com/clickchord/clickchord/internal/resolver"
	"github.com/clickchord/clickchord/internal/synth"
	"github.com/clickchord/clickchord/internal/tap"
	"github.com/clickchord/clickchord/internal/tray"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// Load config from XDG/Library/AppData; an unparseable file falls back
	// to defaults rather than taking the remapper down
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
		bootLog := logging.New()
		bootLog.Warn().Err(err).Msg("Config unreadable; starting with defaults")
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mapping store, loaded from the persisted records
	store := mapping.NewStore()
	store.Load(cfg.ToMappings())

	// Keystroke synthesizer
	syn := synth.New(log)

	// Resolution policy
	res := resolver.New(store, syn, log)
	res.SetEnabled(cfg.Enabled)
	res.SetSuppressOriginal(cfg.SuppressOriginal)

	// System-wide event tap and the learn-mode chord grabber
	eventTap := tap.New(res.HandleButton, log)
	keyCapture := tap.NewKeyCapture(log)

	application := app.New(app.Config{
		Store:      store,
		Resolver:   res,
		Tap:        eventTap,
		KeyCapture: keyCapture,
		Autostart:  autostart.New(),
		Config:     cfg,
		Logger:     log,
	})

	trayUI := tray.New(application, Version, Commit, log)
	application.SetUI(trayUI)

	// Global enable/disable hotkey
	hkManager, err := hotkey.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize hotkeys")
	}
	defer hkManager.Close()
	if cfg.ToggleHotkey != "" {
		if err := hkManager.Register(cfg.ToggleHotkey, application.OnToggleHotkey); err != nil {
			log.Warn().Err(err).Str("hotkey", cfg.ToggleHotkey).Msg("Toggle hotkey not registered")
		}
	}

	// Install the tap; prompts for accessibility and retries when denied
	application.Start()

	log.Info().Str("version", Version).Msg("clickchord starting...")

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		if err := application.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Shutdown error")
		}
		os.Exit(0)
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Tray error")
	}
}
