package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/config"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/logging"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/mcp"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/sizing"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	service *sizing.Service
)

var rootCmd = &cobra.Command{
	Use:   "mvo-sim",
	Short: "MVO-Sim sizes headcount for a sub-function with Monte Carlo simulation",
	Long: `Computes a deterministic baseline headcount, simulates the uncertainty in workload and
capacity, and recommends the Minimum Viable Organisation (MVO) that meets the deadline at the
chosen confidence level. Without a subcommand it serves the same tools over MCP stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Error().Err(err).Msg("Failed to load configuration")
			return err
		}

		cat, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load work type catalog")
			return err
		}

		service = sizing.NewService(cat, nil, sizing.Options{
			Iterations:      cfg.Iterations,
			ConfidenceLevel: cfg.ConfidenceLevel,
			Workers:         cfg.Workers,
			Seed:            cfg.Seed,
			AcceptableRisk:  cfg.AcceptableRisk,
		})

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("catalog", cat.Version()).
			Msg("MVO-Sim starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		server := mcp.NewServer(service, cfg.EnableMermaidCharts, Version)
		return server.Start(ctx)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(simulateCmd, baselineCmd, catalogCmd, schemaCmd)
}
