package main

import (
	"fmt"

	"geeksounds/internal/config"

	"github.com/spf13/cobra"
)

// flags override the matching environment variables when set.
type flags struct {
	envFile string
	port    int
	players []string
	seed    uint64
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "geeksounds",
		Short: "Run the Geek Sounds game service",
		Long: `Serve the sound-guessing game: the HTTP API under /api/game, the
websocket screen channel at /api/game/ws and the optional static front-end.
Configuration comes from GAME_* environment variables.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "file with KEY=VALUE pairs loaded before the environment is read")
	cmd.Flags().IntVar(&f.port, "port", 0, "listen port (overrides GAME_SERVICE_PORT)")
	cmd.Flags().StringSliceVar(&f.players, "players", nil, "comma-separated roster in turn order (overrides GAME_PLAYERS)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed, 0 for a random one (overrides GAME_RANDOM_SEED)")
	return cmd
}

func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	if err := config.LoadFile(f.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("port") {
		cfg.ServicePort = f.port
	}
	if cmd.Flags().Changed("players") {
		cfg.Players = f.players
	}
	if cmd.Flags().Changed("seed") {
		cfg.RandomSeed = f.seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
