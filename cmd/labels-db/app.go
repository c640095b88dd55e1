package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/labelsdb/internal/config"
	"github.com/provide-io/labelsdb/pkg/imaging"
	"github.com/provide-io/labelsdb/pkg/labelsdb"
	"github.com/provide-io/labelsdb/pkg/labelsdb/dbfile"
	"github.com/provide-io/labelsdb/pkg/logging"
	"github.com/provide-io/labelsdb/pkg/romnames"
	"github.com/spf13/cobra"
)

var errNoDatabase = errors.New("no database given (use --db)")

// app carries the global flags and the state resolved from them
type app struct {
	dbPath     string
	logLevel   string
	configPath string
	namesPath  string
	resampler  string

	cfg    *config.Config
	logger hclog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "labels-db",
		Short: "Inspect and edit labels databases",
		Long: `Inspect and edit labels databases: flat files of 74x86 cartridge
thumbnails indexed by 32-bit signature.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.dbPath, "db", "", "Path to the labels database")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&a.configPath, "config", "", "Path to config.toml (default: per-user config directory)")
	pf.StringVar(&a.namesPath, "names", "", "Path to the signature name table (CSV)")
	pf.StringVar(&a.resampler, "resampler", "", "Image resampler for non 74x86 input")

	root.AddCommand(
		a.newInfoCmd(),
		a.newListCmd(),
		a.newNewCmd(),
		a.newAddCmd(),
		a.newRemoveCmd(),
		a.newExtractCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
		a.newSearchCmd(),
		newVersionCmd(),
	)
	return root
}

// setup layers flags over the environment, the config file and defaults
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, source := logging.ResolveLevel(a.logLevel, cfg.LogLevel)
	a.logger = logging.NewLogger("labels-db", level, cmd.ErrOrStderr())
	a.logger.Debug("Log level configured", "level", level, "source", source)

	if a.namesPath == "" {
		a.namesPath = cfg.Names
	}
	if a.resampler == "" {
		a.resampler = cfg.Resampler
	}
	return nil
}

func (a *app) database() (string, error) {
	if a.dbPath == "" {
		return "", errNoDatabase
	}
	return config.ExpandPath(a.dbPath)
}

func (a *app) open() (*labelsdb.Repository, error) {
	path, err := a.database()
	if err != nil {
		return nil, err
	}
	c, err := dbfile.Load(path, a.logger)
	if err != nil {
		return nil, err
	}
	return labelsdb.NewRepository(c), nil
}

// edit runs fn against the database under the edit lock. The file is only
// rewritten when fn succeeds and reports a change.
func (a *app) edit(fn func(repo *labelsdb.Repository) (bool, error)) error {
	path, err := a.database()
	if err != nil {
		return err
	}

	lock, err := dbfile.Acquire(path, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			a.logger.Warn("Failed to release lock", "error", err)
		}
	}()

	c, err := dbfile.Load(path, a.logger)
	if err != nil {
		return err
	}
	repo := labelsdb.NewRepository(c)

	changed, err := fn(repo)
	if err != nil {
		return err
	}
	if !changed {
		a.logger.Debug("No changes, database left as is")
		return nil
	}
	return dbfile.Save(path, repo.Container(), a.logger)
}

func (a *app) getResampler() (imaging.Resampler, error) {
	return imaging.GetResampler(a.resampler)
}

// names loads the name table. It returns nil when none is configured.
func (a *app) names() (*romnames.Table, error) {
	if a.namesPath == "" {
		return nil, nil
	}
	path, err := config.ExpandPath(a.namesPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening name table: %w", err)
	}
	defer f.Close()

	table, err := romnames.ParseCSV(f)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("📇 Loaded name table", "path", path, "names", table.Len())
	return table, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
