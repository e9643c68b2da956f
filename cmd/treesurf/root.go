package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vidyasagar/treesurf/internal/app"
	"github.com/vidyasagar/treesurf/internal/logging"
	"github.com/vidyasagar/treesurf/internal/storage"
	"github.com/vidyasagar/treesurf/internal/theme"
)

var (
	cfgFile   string
	themeName string
	logFile   string
	logLevel  string
	logFormat string

	startBookmark int64
)

var rootCmd = &cobra.Command{
	Use:   "treesurf [url]",
	Short: "A terminal web browser with tree-shaped history",
	Long: `treesurf is a keyboard-driven terminal web browser. Its history is a tree:
going back and then following a different link starts a new branch instead
of discarding the old one, and any node can be revisited from the tree panel.`,
	Example: `  treesurf                          # open the home page
  treesurf https://example.com      # open a URL
  treesurf golang.org               # auto-adds https://
  treesurf "how to use goroutines"   # search
  treesurf --theme nord
  treesurf -b 3                     # open bookmark 3`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBrowser,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: $XDG_CONFIG_HOME/treesurf/config.yml)")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "color theme ("+strings.Join(theme.List(), ", ")+")")
	rootCmd.Flags().Int64VarP(&startBookmark, "bookmark", "b", 0, "open the bookmark with this number (see treesurf bookmarks)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
}

// configPath returns --config or the default config location.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return storage.ConfigPath()
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command, path string) (*storage.Config, error) {
	cfg, err := storage.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.Theme = themeName
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	return cfg, cfg.Validate()
}

// openDB opens the database in the data directory.
func openDB() (*storage.DB, error) {
	dir, err := storage.DataDir()
	if err != nil {
		return nil, err
	}
	return storage.OpenDB(dir)
}

func runBrowser(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, path)
	if err != nil {
		return err
	}

	if cfg.LogFile != "" {
		if err := logging.Init(logging.Config{
			FilePath:   cfg.LogFile,
			Level:      logging.ParseLevel(cfg.LogLevel),
			Format:     logging.ParseFormat(cfg.LogFormat),
			MaxBackups: 3,
		}); err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer logging.Shutdown()
	}

	if cfg.Theme != "" && !theme.Set(cfg.Theme) {
		return fmt.Errorf("unknown theme %q (available: %s)", cfg.Theme, strings.Join(theme.List(), ", "))
	}

	opts := app.Options{Config: cfg, ConfigPath: path}
	if len(args) > 0 {
		opts.StartURL = args[0]
	}

	// Bookmarks and the visit log are optional; the browser runs without them.
	db, err := openDB()
	if err != nil {
		if startBookmark != 0 {
			return fmt.Errorf("opening bookmark %d: %w", startBookmark, err)
		}
		logging.Warn("database unavailable", "error", err)
	} else {
		defer db.Close()
		logging.Info("database opened", "path", db.Path())
		opts.Bookmarks = storage.NewBookmarkStore(db)
		opts.Visits = storage.NewVisitLog(db)
	}

	if startBookmark != 0 {
		if len(args) > 0 {
			return fmt.Errorf("--bookmark and a URL argument are exclusive")
		}
		b, err := opts.Bookmarks.Get(cmd.Context(), startBookmark)
		if err != nil {
			return err
		}
		opts.StartURL = b.URL
	}

	logging.Info("starting", "version", Version, "start_url", opts.StartURL, "theme", theme.Current.Name)

	p := tea.NewProgram(app.New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		logging.Error("program exited", "error", err)
		return err
	}
	return nil
}
