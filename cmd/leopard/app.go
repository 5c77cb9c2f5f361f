package main

import (
	"io"
	"log/slog"

	audioimpl "github.com/foxseedlab/leopard/external/audio"
	configloader "github.com/foxseedlab/leopard/external/config"
	"github.com/foxseedlab/leopard/external/native"
	repositoryimpl "github.com/foxseedlab/leopard/external/repository"
	transcriberimpl "github.com/foxseedlab/leopard/external/transcriber"
	webhookimpl "github.com/foxseedlab/leopard/external/webhook"
	"github.com/foxseedlab/leopard/internal/config"
	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/transcription"
	"github.com/samber/do/v2"
)

// app holds the flags shared by every command. Non-empty flags override the
// environment.
type app struct {
	verbose     bool
	accessKey   string
	libraryPath string
	modelPath   string
	resourceDir string

	loader engine.Loader
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := configloader.Load()
	if err != nil {
		return nil, err
	}
	a.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) applyOverrides(cfg *config.Config) {
	if a.accessKey != "" {
		cfg.LeopardAccessKey = a.accessKey
	}
	if a.libraryPath != "" {
		cfg.LeopardLibraryPath = a.libraryPath
	}
	if a.modelPath != "" {
		cfg.LeopardModelPath = a.modelPath
	}
	if a.resourceDir != "" {
		cfg.LeopardResourceDir = a.resourceDir
	}
}

// logLevel is Warn for one-shot commands so stderr stays quiet, Info for
// long-running ones or with --verbose, and Debug in development.
func logLevel(cfg *config.Config, verbose, longRunning bool) slog.Level {
	switch {
	case cfg.IsDevelopment():
		return slog.LevelDebug
	case verbose || longRunning:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func initLogger(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

// setupDI wires every dependency. A nil loader selects the native library
// loader.
func setupDI(cfg *config.Config, loader engine.Loader) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	if loader != nil {
		do.ProvideValue(injector, loader)
	} else {
		native.RegisterDI(injector)
	}
	transcriberimpl.RegisterDI(injector)
	audioimpl.RegisterDI(injector)
	repositoryimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	transcription.RegisterDI(injector)

	return injector
}

func shutdown(injector do.Injector) {
	if report := injector.Shutdown(); !report.Succeed {
		slog.Warn("failed to shut down dependencies", "error", report.Error())
	}
}

// newService loads configuration, configures logging and resolves the
// transcription service. The returned cleanup releases the engine handle and
// the database pool; it is nil when err is not.
func (a *app) newService(stderr io.Writer, longRunning bool) (*transcription.Service, *config.Config, func(), error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	initLogger(stderr, logLevel(cfg, a.verbose, longRunning))
	slog.Info("configuration loaded", "env", cfg.Env, "engine", cfg.Engine)

	injector := setupDI(cfg, a.loader)
	svc, err := do.Invoke[*transcription.Service](injector)
	if err != nil {
		shutdown(injector)
		return nil, nil, nil, err
	}
	return svc, cfg, func() { shutdown(injector) }, nil
}
