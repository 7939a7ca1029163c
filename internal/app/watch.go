package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catlaunch/internal/output"
	"github.com/blackwell-systems/catlaunch/internal/settings"
	"github.com/blackwell-systems/catlaunch/internal/store"
	"github.com/blackwell-systems/catlaunch/internal/watcher"
)

var (
	watchDaemon      bool
	watchDaemonChild bool
	watchPIDFile     string
	watchLogFile     string
	watchStop        bool
	watchInterval    time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Keep the selected font and color theme applied to every variant",
		Long: `Watch each variant's config directory and restore fonts.json and
base_colors.json when the game or another tool changes or deletes them.

Watch modes:
  • Foreground (default): Run in current terminal with Ctrl+C to stop
  • Daemon: Run as background process
  • Stop: Stop a running daemon

Changes are coalesced and re-applied once per interval.`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  catlaunch watch

  # Run as background daemon
  catlaunch watch --daemon

  # Stop running daemon
  catlaunch watch --stop`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as background daemon")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: <data-dir>/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: <data-dir>/watch.log)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop running daemon")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", watcher.DefaultInterval, "how often pending changes are re-applied")

	watchCmd.Flags().MarkHidden("daemon-child")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchPIDFile == "" {
		watchPIDFile = filepath.Join(cfg.DataDir, "watch.pid")
	}
	if watchLogFile == "" {
		watchLogFile = filepath.Join(cfg.DataDir, "watch.log")
	}

	if watchStop {
		return stopWatchDaemon(cmd)
	}
	if watchDaemon {
		return startWatchDaemon(cmd)
	}

	return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
		l := userLayout()
		syncer := settings.NewSyncer(l, settings.NewRepository(st, nil))
		w, err := watcher.New(l, syncer, watchInterval)
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}

		if watchDaemonChild {
			// stdout and stderr go to the log file here.
			return watcher.Run(ctx, w, watchPIDFile)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Watching variant config directories (press Ctrl+C to stop)...")
		if err := watcher.Run(ctx, w, ""); err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Watcher stopped")
		return nil
	})
}

func stopWatchDaemon(cmd *cobra.Command) error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		fmt.Fprintln(cmd.OutOrStdout(), "Daemon is not running")
		return nil
	}

	spinner := output.NewSpinner("Stopping daemon")
	spinner.SetWriter(cmd.OutOrStdout())
	spinner.Start()
	if err := watcher.StopDaemon(watchPIDFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon stopped")
	return nil
}

func startWatchDaemon(cmd *cobra.Command) error {
	spinner := output.NewSpinner("Starting daemon")
	spinner.SetWriter(cmd.OutOrStdout())
	spinner.Start()
	childArgs := []string{
		"--pid-file", watchPIDFile,
		"--data-dir", cfg.DataDir,
		"--db", cfg.DBPath,
		"--log-level", cfg.LogLevel,
		"--interval", watchInterval.String(),
	}
	if err := watcher.StartDaemon(watchPIDFile, watchLogFile, childArgs...); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon started")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nSettings watcher started\n")
	fmt.Fprintf(out, "  PID file: %s\n", watchPIDFile)
	fmt.Fprintf(out, "  Log file: %s\n", watchLogFile)
	fmt.Fprintf(out, "\nTo stop: catlaunch watch --stop\n")
	return nil
}
