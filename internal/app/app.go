package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/astroprint/astrodeck/internal/astroprint"
	"github.com/astroprint/astrodeck/internal/config"
	"github.com/astroprint/astrodeck/internal/events"
	"github.com/astroprint/astrodeck/internal/logging"
	"github.com/astroprint/astrodeck/internal/prefs"
	"github.com/astroprint/astrodeck/internal/state"
	"github.com/astroprint/astrodeck/internal/ui"
)

// Options configure astrodeck.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses ~/.config/astrodeck/prefs.toml
	PollEvery  time.Duration // zero uses the config's poll interval
	Debug      bool
	// Console receives human-readable logs in addition to the log file.
	// It must stay nil while the TUI owns the terminal.
	Console io.Writer
}

// Env is the loaded configuration with a logger and plugin client built
// from it. Close releases the log file.
type Env struct {
	Config config.Config
	Logger zerolog.Logger
	Client *astroprint.Client

	logs *logging.Result
}

// Setup loads the config and builds the logger and plugin client.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logs := logging.New(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile, Console: opts.Console})
	if logs.FallbackUsed {
		cfg.LogFile = ""
	}
	logger := logs.Logger
	if logs.FallbackUsed {
		logger.Warn().Str("reason", logs.FallbackReason).Msg("log file unavailable")
	}

	client, err := astroprint.NewClient(cfg.OctoPrintURL, cfg.APIKey)
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("init plugin client: %w", err)
	}
	client = client.WithLogger(logging.Component(logger, "client"))

	return &Env{Config: cfg, Logger: logger, Client: client, logs: logs}, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	return e.logs.Close()
}

// Run boots the TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	opts.Console = nil
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		env.Logger.Warn().Err(err).Msg("load prefs")
	}

	env.Logger.Info().
		Str("octoprint", env.Config.OctoPrintURL).
		Dur("poll", env.Config.PollInterval).
		Msg("astrodeck starting")

	store := &state.Store{}
	poller := NewPoller(store, env.Client, env.Config.PollInterval, logging.Component(env.Logger, "poller"))

	// Populate the store before the UI draws its first frame.
	_ = poller.Refresh(ctx)
	poller.Start(ctx)

	listener := events.NewListener(env.Client.BaseURL(), env.Client, logging.Component(env.Logger, "events"))

	return ui.Run(ui.Options{
		Context:   ctx,
		API:       env.Client,
		Store:     store,
		Config:    env.Config,
		Events:    listener,
		Logger:    logging.Component(env.Logger, "ui"),
		PollTick:  ui.DefaultUIInterval,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
}
