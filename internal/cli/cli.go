package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tickergrid/pkg/config"
	apperr "github.com/matzehuels/tickergrid/pkg/errors"
	"github.com/matzehuels/tickergrid/pkg/state"
	"github.com/matzehuels/tickergrid/pkg/workspace"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tickergrid"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// status receives transient progress lines such as spinners.
	status io.Writer

	// Flags shared by every command.
	configPath string
	backend    string
	session    string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Configuration and Storage
// =============================================================================

// config loads the configuration once, applying the --backend flag last.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}

	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadExplicit(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	if c.backend != "" {
		cfg.Storage.Backend = c.backend
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	c.Logger.Debug("loaded config", "backend", cfg.Storage.Backend, "addr", cfg.Server.Addr)
	c.cfg = &cfg
	return cfg, nil
}

// openBackend opens the configured state backend, showing a spinner for
// backends that dial out.
func (c *CLI) openBackend(ctx context.Context) (state.Backend, config.Config, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, cfg, err
	}

	remote := cfg.Storage.Backend == config.BackendRedis || cfg.Storage.Backend == config.BackendMongo
	var spin *spinner
	if remote {
		spin = startSpinner(ctx, c.status, fmt.Sprintf("Connecting to %s...", cfg.Storage.Backend))
	}
	prog := newProgress(c.Logger)
	b, err := state.Open(ctx, cfg.Storage)
	if spin != nil {
		spin.stop()
	}
	if err != nil {
		return nil, cfg, err
	}
	if remote {
		prog.done(fmt.Sprintf("Connected to %s", cfg.Storage.Backend))
	}
	return b, cfg, nil
}

// managerOptions converts the persistence settings to workspace options.
func (c *CLI) managerOptions(cfg config.Config) []workspace.Option {
	return []workspace.Option{
		workspace.WithLogger(c.Logger),
		workspace.WithDebounce(cfg.Persist.Debounce.Duration),
		workspace.WithSaveTimeout(cfg.Persist.Timeout.Duration),
	}
}

// openWorkspace opens the backend and hydrates the workspace of the
// --session flag. The returned close function flushes pending writes and
// closes the backend.
func (c *CLI) openWorkspace(ctx context.Context) (*workspace.Workspace, state.Backend, func(), error) {
	b, cfg, err := c.openBackend(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	mgr := workspace.NewManager(b, state.KeyerFor(cfg.Storage), c.managerOptions(cfg)...)
	ws, err := mgr.Get(ctx, c.session)
	if err == nil && !ws.Hydrated() {
		// Commands never run on defaults in place of unreadable stored state.
		if herr := ws.Hydrate(ctx); herr != nil {
			mgr.Close(ctx)
			err = apperr.Wrap(apperr.ErrCodeStorage, herr,
				"could not load %s from the %s backend (remove it with 'tickergrid state clear')", ws.Key(), b.Name())
		}
	}
	if err != nil {
		_ = b.Close()
		return nil, nil, nil, err
	}
	closeFn := func() {
		mgr.Close(context.WithoutCancel(ctx))
		if err := b.Close(); err != nil {
			c.Logger.Warn("close backend", "error", err)
		}
	}
	return ws, b, closeFn, nil
}

// stateKey returns the storage key of the --session workspace.
func (c *CLI) stateKey(cfg config.Config) (string, error) {
	if c.session != "" && !state.ValidSessionID(c.session) {
		return "", apperr.New(apperr.ErrCodeInvalidSession, "invalid session id %q", c.session)
	}
	return state.KeyerFor(cfg.Storage).StateKey(c.session), nil
}
