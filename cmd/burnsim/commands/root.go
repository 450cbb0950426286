package commands

import (
	"fmt"

	"burnsim/internal/config"
	"burnsim/internal/forecast"
	"burnsim/internal/intervention"
	"burnsim/internal/logging"
	"burnsim/internal/mcp"
	"burnsim/internal/scoring"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	forecaster *forecast.Forecaster
)

var rootCmd = &cobra.Command{
	Use:   "burnsim",
	Short: "burnsim projects burnout risk trajectories under what-if interventions",
	Long: `A Monte-Carlo simulator that projects a person's or a team's burnout risk day by day
and compares intervention scenarios. Without a subcommand it serves the simulator as MCP tools over stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		if err := logging.Init(logging.Options{Verbose: verbose, Dir: cfg.LogDir}); err != nil {
			return err
		}
		for _, path := range cfg.EnvFiles {
			log.Debug().Str("path", path).Msg("Loaded configuration file")
		}

		forecaster = forecast.New(intervention.NewRegistry(), scoring.Default, cfg.Defaults())

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("burnsim starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(&mcp.Config{
			Name:       "burnsim",
			Version:    Version,
			DataPath:   cfg.DataPath,
			Forecaster: forecaster,
		})
		if err != nil {
			return err
		}
		return server.Run(cmd.Context())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(newSimulateCmd(), newInterventionsCmd())
}
