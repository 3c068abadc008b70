package main

import (
	"context"
	"os"
	"syscall"
	"time"

	"desktop-cleaner/internal/config"
	"desktop-cleaner/internal/errors"
	"desktop-cleaner/internal/log"
	"desktop-cleaner/internal/sweep"
	"desktop-cleaner/internal/trash"
	"desktop-cleaner/internal/watch"

	"github.com/spf13/cobra"
)

// deps are the OS collaborators the commands use, swappable in tests.
type deps struct {
	newTrasher func(dir string) (trash.Trasher, error)
	signals    []os.Signal
}

func defaultDeps() deps {
	return deps{
		newTrasher: trash.New,
		signals:    []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
}

type flags struct {
	interval int
	homeDir  string
	dryRun   bool
	keep     []string
	watch    bool
	trashDir string
	logFile  string
	debug    bool
}

// newRootCmd builds the command tree. The root command runs the sweep loop.
func newRootCmd(d deps) *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:     "desktop-cleaner",
		Short:   "Moves files from the Desktop to the trash bin",
		Long:    `desktop-cleaner periodically moves everything on your Desktop to the trash, except hidden entries, symlinks and files whose extension is allow-listed (desktop, exe, lnk, url by default).`,
		Version: version,
		Args:    cobra.NoArgs,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, f)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(f)
			if err != nil {
				return err
			}
			return runLoop(cmd.Context(), d, cfg)
		},
	}

	// -h belongs to --home-dir; help keeps its long form only.
	rootCmd.PersistentFlags().Bool("help", false, "help for desktop-cleaner")

	rootCmd.PersistentFlags().IntVarP(&f.interval, "interval", "i", int(config.DefaultInterval/time.Second), "Interval in seconds between sweeps")
	rootCmd.PersistentFlags().StringVarP(&f.homeDir, "home-dir", "h", "", "Home directory containing the Desktop to clean (default is the current user's home)")
	rootCmd.PersistentFlags().BoolVarP(&f.dryRun, "dry-run", "d", false, "Show what would be moved without touching any file")
	rootCmd.PersistentFlags().StringSliceVarP(&f.keep, "keep", "k", nil, "Additional file extensions to keep (repeatable, comma separated, wildcards allowed)")
	rootCmd.PersistentFlags().StringVar(&f.trashDir, "trash-dir", "", "Move entries into this directory (freedesktop layout, same filesystem as the Desktop) instead of the system trash")
	rootCmd.PersistentFlags().StringVar(&f.logFile, "log-file", "", "Also write logs to this file (rotated)")
	rootCmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Also sweep shortly after something appears on the Desktop")

	rootCmd.AddCommand(newSweepCmd(d, f))

	return rootCmd
}

func setupLogging(cmd *cobra.Command, f *flags) error {
	opts := []log.Option{log.WithOutput(cmd.ErrOrStderr())}
	if f.logFile != "" {
		opts = append(opts, log.WithFile(f.logFile))
	}
	log.Configure(opts...)
	log.SetDebug(f.debug)
	return nil
}

// buildConfig turns flags into the immutable configuration. An unresolvable
// home directory is a FatalStartupError.
func buildConfig(f *flags) (config.Config, error) {
	target, err := config.ResolveTarget(f.homeDir)
	if err != nil {
		return config.Config{}, err
	}

	return config.New(
		config.WithTargetDir(target),
		config.WithInterval(time.Duration(f.interval)*time.Second),
		config.WithDryRun(f.dryRun),
		config.WithExtraExtensions(f.keep),
		config.WithWatch(f.watch),
		config.WithTrashDir(f.trashDir),
		config.WithLogFile(f.logFile),
		config.WithDebug(f.debug),
	)
}

func newSweeper(d deps, cfg config.Config) (*sweep.Sweeper, error) {
	trasher, err := d.newTrasher(cfg.TrashDir)
	if err != nil {
		return nil, errors.NewFatalStartupError("trash is not available", err)
	}
	return sweep.New(trasher), nil
}

// runLoop sweeps until parent is done or a signal arrives. A signal is
// reported as a *signalExit so main can exit with the conventional status.
func runLoop(parent context.Context, d deps, cfg config.Config) error {
	ctx, shutdown, stop := notifyShutdown(parent, d.signals)
	defer stop()

	sweeper, err := newSweeper(d, cfg)
	if err != nil {
		return err
	}

	log.LogWithFields(
		log.F("directory", cfg.TargetDir),
		log.F("interval", cfg.Interval.String()),
		log.F("dry_run", cfg.DryRun),
		log.F("safe_extensions", cfg.SafeExtensions),
		log.F("watch", cfg.Watch),
		log.F("trash_dir", cfg.TrashDir),
	).Info("Starting desktop cleaner")
	log.Debug("Directories are always eligible and relocation is live unless --dry-run is given")
	if cfg.DryRun {
		log.Info("Running in DRY-RUN mode: nothing will be moved")
	}

	if err := watch.NewDaemon(cfg, sweeper).Run(ctx); err != nil {
		return err
	}
	return shutdown.err()
}
