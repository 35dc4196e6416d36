package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wilbur182/marquee/internal/config"
	"github.com/wilbur182/marquee/internal/features"
	"github.com/wilbur182/marquee/internal/flagstore"
	"github.com/wilbur182/marquee/internal/logging"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
	debug      bool
	enable     []string
	disable    []string

	// presentation only
	style  string
	static bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "marquee [deck]",
		Short: "Present markdown slides in the terminal",
		Long: `marquee shows every markdown file in a directory as a slide.

Slides may carry front matter: title, order, lang (marks a code slide) and
flag (hides the slide unless that feature flag is enabled). Gated content is
never shown when output is not an interactive terminal.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.configPath != "" {
				config.SetConfigPath(opts.configPath)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresentation(cmd, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to config file (default ~/.config/marquee/config.json)")
	pf.BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	pf.StringSliceVar(&opts.enable, "enable", nil, "force feature flags on for this run")
	pf.StringSliceVar(&opts.disable, "disable", nil, "force feature flags off for this run")

	f := cmd.Flags()
	f.StringVar(&opts.style, "style", "", "start in this style: light, dark or white")
	f.BoolVar(&opts.static, "static", false, "print slides as plain text instead of starting the UI")

	cmd.AddCommand(
		newFlagsCommand(opts),
		newStyleCommand(),
		newVersionCommand(),
	)
	return cmd
}

// env is the process-wide state shared by commands.
type env struct {
	cfg       *config.Config
	logger    *slog.Logger
	closeLog  func() error
	store     *flagstore.Store
	storePath string // resolved flag store path, empty without a store
	manager   *features.Manager
}

// setup loads config, builds the logger and opens the flag store. tui routes
// logs to the rotating log file.
func setup(opts *rootOptions, tui bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closeLog := logging.New(cfg.Logging, logging.Options{TUI: tui, Debug: opts.debug})
	e := &env{cfg: cfg, logger: logger, closeLog: closeLog}

	managerOpts := []features.ManagerOption{features.WithLogger(logger)}
	if path := cfg.Features.Store.Path; path != "" {
		e.storePath = resolveStorePath(path)
		store, err := flagstore.Open(cfg.Features.Store.Driver, e.storePath)
		if err != nil {
			_ = closeLog()
			return nil, err
		}
		e.store = store
		managerOpts = append(managerOpts, features.WithStore(store))
	}

	e.manager = features.NewManager(cfg, managerOpts...)
	for _, name := range opts.enable {
		e.manager.SetOverride(strings.TrimSpace(name), true)
	}
	for _, name := range opts.disable {
		e.manager.SetOverride(strings.TrimSpace(name), false)
	}

	logger.Debug("config loaded",
		"path", config.ConfigPath(),
		"style", cfg.UI.Carousel.Style,
		"flagStore", cfg.Features.Store.Path,
	)
	return e, nil
}

// Close releases the flag store and log file.
func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close flag store", "err", err)
	}
	_ = e.closeLog()
}

// resolveStorePath makes relative store paths relative to the config dir.
func resolveStorePath(path string) string {
	if path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return filepath.Join(config.ConfigDir(), path)
}
