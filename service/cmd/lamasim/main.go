package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nmnhut-it/lama-card-game/service/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
	seed     uint64
)

var rootCmd = &cobra.Command{
	Use:   "lamasim",
	Short: "L.A.M.A. table runner and self-play simulator",
	Long: `lamasim runs L.A.M.A. games between automated players.

Settings come from LAMA_* environment variables and an optional .env file;
flags override both.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load before the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "logLevel", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "base seed (0 uses LAMA_SEED or the clock)")
	rootCmd.AddCommand(simCmd, watchCmd)
}

// loadConfig applies the persistent flags on top of the file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	if cmd.Flags().Changed("logLevel") {
		lvl, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return config.Config{}, nil, err
		}
		cfg.LogLevel = lvl
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	log := cfg.NewLogger()
	log.WithFields(logrus.Fields{
		"mode":  cfg.Mode.String(),
		"seed":  cfg.Seed,
		"redis": cfg.RedisAddr,
	}).Debug("configuration loaded")
	return cfg, log, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Error("lamasim failed")
		stop()
		os.Exit(1)
	}
}
