package cmd

import (
	"context"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aussie/rolectl/internal/cache"
	"github.com/aussie/rolectl/internal/config"
	"github.com/aussie/rolectl/internal/logging"
	"github.com/aussie/rolectl/internal/output"
	"github.com/aussie/rolectl/internal/registry"
	"github.com/aussie/rolectl/internal/role"
	"github.com/aussie/rolectl/internal/store/file"
	"github.com/aussie/rolectl/internal/store/memory"
	"github.com/aussie/rolectl/internal/store/postgres"
	"github.com/aussie/rolectl/internal/store/sqlite"
)

// validRoleIDPattern matches alphanumeric characters, hyphens, underscores, and dots
var validRoleIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

func validateRoleID(id string) error {
	if !validRoleIDPattern.MatchString(id) {
		return fmt.Errorf("invalid role ID format: must contain only alphanumeric characters, hyphens, underscores, and dots")
	}
	return nil
}

// session holds everything a role command needs for one invocation.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   role.Store
	manager *role.Manager
}

var current *session

// openSession loads config and wires the store, registry, notifier and
// invalidator into a role manager.
func openSession(cmd *cobra.Command) (*session, error) {
	closeSession()

	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded",
		zap.String("driver", cfg.Store.Driver.String()),
		zap.String("path", cfg.Store.Path),
		zap.String("format", cfg.Output.Format))

	store, err := openStore(cmd.Context(), cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	if cfg.Store.Driver == config.DriverMemory {
		logger.Warn("memory store is discarded when the command exits; changes will not persist")
	}

	opts := []role.Option{
		role.WithLogger(logger),
		role.WithNotifier(&output.Notifier{W: cmd.ErrOrStderr()}),
	}

	if cfg.Permissions.Enabled() {
		reg, err := loadRegistry(cfg.Permissions)
		if err != nil {
			store.Close()
			return nil, err
		}
		logger.Debug("permission registry loaded", zap.Int("permissions", reg.Len()))
		opts = append(opts, role.WithRegistry(reg))
	}

	switch {
	case cfg.Cache.RebuildCommand != "":
		opts = append(opts, role.WithInvalidator(cache.NewCommand(cfg.Cache.RebuildCommand, logger)))
	case verbose:
		opts = append(opts, role.WithInvalidator(&cache.Log{Logger: logger}))
	}

	current = &session{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		manager: role.NewManager(store, opts...),
	}
	return current, nil
}

func closeSession() {
	if current == nil {
		return
	}
	if err := current.store.Close(); err != nil {
		current.logger.Warn("failed to close store", zap.Error(err))
	}
	_ = current.logger.Sync()
	current = nil
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if err := applyStoreFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.ExpandPaths()
}

// applyStoreFlags overrides cfg with the store flags, fills driver defaults
// and validates the result. A configured path belongs to the configured
// driver, so switching drivers drops it.
func applyStoreFlags(cfg *config.Config) error {
	if storeName != "" && config.Driver(storeName) != cfg.Store.Driver {
		cfg.Store.Driver = config.Driver(storeName)
		cfg.Store.Path = ""
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	cfg.ApplyDefaults()
	return cfg.Validate()
}

// loadRegistry merges inline permission names with the declared files.
func loadRegistry(pc config.PermissionsConfig) (*registry.Registry, error) {
	reg := registry.Static(pc.Names...)
	if len(pc.Files) > 0 {
		loaded, err := registry.LoadFiles(pc.Files...)
		if err != nil {
			return nil, err
		}
		reg.Merge(loaded)
	}
	return reg, nil
}

func openStore(ctx context.Context, sc config.StoreConfig) (role.Store, error) {
	switch sc.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverFile:
		return file.New(sc.Path), nil
	case config.DriverSQLite:
		return sqlite.Open(ctx, sc.Path)
	case config.DriverPostgres:
		return postgres.Open(ctx, sc.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}

// resolveFormat picks the flag value over the configured default.
func resolveFormat(flag string, cfg *config.Config) (output.Format, error) {
	if flag == "" {
		flag = cfg.Output.Format
	}
	return output.ParseFormat(flag)
}
