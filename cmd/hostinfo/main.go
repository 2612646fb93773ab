package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/axondata/go-hostinfo"
	"github.com/axondata/go-hostinfo/internal/config"
	"github.com/axondata/go-hostinfo/internal/logging"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

var (
	cfgFile    string
	outputFile string
	format     string
	userScope  bool
)

// app holds what every subcommand needs; it is filled in by PersistentPreRunE
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	builder *hostinfo.InfoBuilder
}

var current app

var rootCmd = &cobra.Command{
	Use:   "hostinfo",
	Short: "Report host uptime, memory and systemd unit status",
	Long: `hostinfo runs the host's diagnostic commands (uptime, free, systemctl)
and prints their parsed output as JSON or YAML. It never changes unit state.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var uptimeCmd = &cobra.Command{
	Use:   "uptime",
	Short: "Print uptime and load averages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info, err := current.builder.Uptime(cmd.Context())
		if err != nil {
			return err
		}
		return writeReport(info)
	},
}

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Print physical memory and swap usage in bytes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info, err := current.builder.Memory(cmd.Context())
		if err != nil {
			return err
		}
		return writeReport(info)
	},
}

var unitCmd = &cobra.Command{
	Use:   "unit NAME",
	Short: "Print the status of a service or timer unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := current.builder.UnitInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeReport(newUnitReport(info))
	},
}

var unitsCmd = &cobra.Command{
	Use:   "units NAME...",
	Short: "Print the status of several units, looked up concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := hostinfo.NewManager(current.builder,
			hostinfo.WithConcurrency(current.cfg.Concurrency),
			hostinfo.WithTimeout(current.cfg.UnitTimeout),
		)
		infos, lookupErr := mgr.UnitInfos(cmd.Context(), args...)

		reports := make(map[string]unitReport, len(infos))
		for name, info := range infos {
			reports[name] = newUnitReport(info)
		}
		if err := writeReport(reports); err != nil {
			return err
		}
		return lookupErr
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch NAME",
	Short: "Print a unit's status again whenever its unit file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		lib := hostinfo.GetVersion()
		fmt.Fprintf(cmd.OutOrStdout(), "hostinfo %s (commit: %s, built: %s, library %s for %s)\n",
			version, commitHash, buildDate, lib.Version, lib.Manager)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./hostinfo.yaml)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format: json or yaml")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write the report to a file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&userScope, "user", false, "query the user service manager")

	rootCmd.AddCommand(uptimeCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(unitCmd)
	rootCmd.AddCommand(unitsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if current.logger != nil {
		_ = current.logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// CLI flag overrides.
	if format != "" {
		cfg.OutputFormat = format
	}
	if cmd.Flags().Changed("user") {
		cfg.UserScope = userScope
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded",
		zap.String("systemctl", cfg.SystemctlPath),
		zap.Bool("user_scope", cfg.UserScope),
		zap.Duration("command_timeout", cfg.CommandTimeout),
	)

	runner := hostinfo.NewExecRunner(
		hostinfo.WithCommandTimeout(cfg.CommandTimeout),
		hostinfo.WithLogger(logger.Named("exec")),
	)
	query := hostinfo.NewSystemctl(runner,
		hostinfo.WithSystemctlPath(cfg.SystemctlPath),
		hostinfo.WithUserScope(cfg.UserScope),
	)

	current = app{
		cfg:     cfg,
		logger:  logger,
		builder: hostinfo.NewInfoBuilder(query, runner),
	}
	return nil
}

// exitCode distinguishes lookups of units that cannot be reported from
// failures of the host commands themselves.
func exitCode(err error) int {
	switch {
	case errors.Is(err, hostinfo.ErrUnknownUnit), errors.Is(err, hostinfo.ErrUnsupportedUnitType):
		return 2
	case errors.Is(err, hostinfo.ErrParse):
		return 3
	default:
		return 1
	}
}
