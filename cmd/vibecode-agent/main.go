// Command vibecode-agent is the agent runtime's CLI entrypoint (spec.md
// §2). Grounded on cmd/wt/main.go's root-command-plus-RunE-subcommands
// shape and its login command's signal.NotifyContext pattern for a
// cleanly cancellable long-running operation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vibecode/agent/internal/agentctl"
	"github.com/vibecode/agent/internal/config"
	"github.com/vibecode/agent/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "vibecode-agent",
		Short: "remote execution agent for the vibecode coordination server",
	}
	// --minimized has no effect on the core; it exists only so a UI
	// front-end autostarting this binary can pass it through untouched
	// (spec.md §6).
	root.PersistentFlags().Bool("minimized", false, "start without showing the UI (no-op for the core)")

	root.AddCommand(runCmd(), statusCmd(), logsCmd(), settingsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newController() (*agentctl.Controller, error) {
	if err := logger.Init("info", ""); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	dir, err := config.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return agentctl.New(config.NewStore(dir), version, nil)
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "run the agent until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := newController()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctl.Start(ctx)
			logger.Info("vibecode-agent started", "version", version)

			<-ctx.Done()
			logger.Info("shutting down")
			ctl.Disconnect()
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "print current connection status and a fresh metrics sample",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := newController()
			if err != nil {
				return err
			}
			metrics := ctl.GetMetrics()
			fmt.Printf("status:  %s\n", ctl.GetStatus())
			fmt.Printf("cpu:     %.1f%%\n", metrics.CPUPercent)
			fmt.Printf("memory:  %.1f%% (%.0f/%.0f MB)\n", metrics.MemoryPercent, metrics.MemoryUsedMB, metrics.MemoryTotalMB)
			fmt.Printf("active:  %d\n", metrics.ActiveCommands)
			fmt.Printf("queued:  %d\n", metrics.QueuedTasks)
			return nil
		},
	}
}

func logsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "print the in-memory log ring",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := newController()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tLEVEL\tMESSAGE")
			for _, entry := range ctl.GetLogs() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Timestamp, entry.Level, entry.Message)
			}
			return w.Flush()
		},
	}
}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "view or update persisted agent settings",
	}
	cmd.AddCommand(settingsGetCmd(), settingsSetCmd())
	return cmd
}

func settingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "print the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := newController()
			if err != nil {
				return err
			}
			s := ctl.GetSettings()
			fmt.Printf("serverUrl:             %s\n", s.ServerURL)
			fmt.Printf("workingDirectory:      %s\n", s.WorkingDirectory)
			fmt.Printf("maxConcurrentCommands: %d\n", s.MaxConcurrentCommands)
			fmt.Printf("autoStartOnLogin:      %t\n", s.AutoStartOnLogin)
			fmt.Printf("autoConnectOnLaunch:   %t\n", s.AutoConnectOnLaunch)
			return nil
		},
	}
}

func settingsSetCmd() *cobra.Command {
	var serverURL, workingDir string
	var maxConcurrent int
	var autoStart, autoConnect bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "update and persist one or more settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := newController()
			if err != nil {
				return err
			}
			s := ctl.GetSettings()
			if cmd.Flags().Changed("server-url") {
				s.ServerURL = serverURL
			}
			if cmd.Flags().Changed("working-dir") {
				s.WorkingDirectory = workingDir
			}
			if cmd.Flags().Changed("max-concurrent") {
				s.MaxConcurrentCommands = maxConcurrent
			}
			if cmd.Flags().Changed("auto-start") {
				s.AutoStartOnLogin = autoStart
			}
			if cmd.Flags().Changed("auto-connect") {
				s.AutoConnectOnLaunch = autoConnect
			}
			return ctl.UpdateSettings(s)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server-url", "", "transport URL of the coordination server")
	cmd.Flags().StringVar(&workingDir, "working-dir", "", "default working directory for tools")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "max simultaneously executing tools")
	cmd.Flags().BoolVar(&autoStart, "auto-start", false, "start on login")
	cmd.Flags().BoolVar(&autoConnect, "auto-connect", false, "auto-connect on launch")
	return cmd
}
