// Package cli implements the halfbaked command-line interface. Every command
// that changes a schedule loads the stored arguments, rebuilds the Bake,
// applies one change and saves the arguments back.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orieldave/half-baked/internal/paths"
	"github.com/orieldave/half-baked/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds global flag values and the state PersistentPreRunE prepares for
// subcommands.
type app struct {
	configDir string
	dataDir   string
	bakeID    string
	jsonMode  bool
	verbose   bool

	cfg      *viper.Viper
	logger   *slog.Logger
	defaults types.FermentDefaults
	now      func() time.Time
}

// NewRootCmd creates the top-level "halfbaked" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:   "halfbaked",
		Short: "Plan bread fermentation schedules",
		Long: "halfbaked keeps a multi-stage fermentation schedule. Change the time,\n" +
			"temperature or inoculation of a stage and the other quantities are\n" +
			"recomputed while every stage stays chained back to back.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&a.bakeID, "bake", "", "bake ID to work on (default: most recently saved)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newNewCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newDiscardCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "halfbaked:", err)
		os.Exit(exitCode(err))
	}
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.cfg = cfg

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.GetString(cfgKeyLogLevel), a.verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	a.defaults = fermentDefaults(cfg)

	a.logger.Debug("config loaded", "config_dir", configDir, "config_file", cfg.ConfigFileUsed())
	return nil
}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// sysError marks err as a system failure (exit code 2).
func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// exitCode maps err to a process exit code. Errors not marked as system
// failures are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// storeError keeps lookup failures as user errors and marks everything else
// the store returns as a system failure.
func storeError(err error) error {
	if errors.Is(err, types.ErrBakeNotFound) || errors.Is(err, types.ErrInvalidID) {
		return err
	}
	return sysError(err)
}

// newLogger returns a text logger on w at level, or at debug when verbose.
func newLogger(w io.Writer, level string, verbose bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log_level %q: %w", level, err)
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
