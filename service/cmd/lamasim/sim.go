package main

import (
	"fmt"
	"time"

	"github.com/nmnhut-it/lama-card-game/service/internal/sim"
	"github.com/spf13/cobra"
)

var (
	simGames     int
	simWorkers   int
	simMaxRounds int
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Play many automated games and check the rules after every move",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("games") {
			cfg.SimGames = simGames
		}
		if cmd.Flags().Changed("workers") {
			cfg.SimWorkers = simWorkers
		}
		if cmd.Flags().Changed("maxRounds") {
			cfg.SimMaxRounds = simMaxRounds
		}
		base := cfg.Seed
		if base == 0 {
			base = uint64(time.Now().UnixNano())
		}

		start := time.Now()
		rep, err := sim.Run(cmd.Context(), sim.Options{
			Games:            cfg.SimGames,
			Workers:          cfg.SimWorkers,
			Seed:             base,
			Rules:            cfg.Rules,
			MaxRoundsPerGame: cfg.SimMaxRounds,
			Logger:           log,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "games %d  seeds %d..%d  %s\n", rep.Games, base, base+uint64(rep.Games)-1, time.Since(start).Round(time.Millisecond))
		fmt.Fprintf(out, "rounds %d (avg %.2f)  hand-empty %d  all-quit %d  turns %d\n",
			rep.Rounds, rep.AverageRounds(), rep.HandEmptyRounds, rep.AllQuitRounds, rep.Turns)
		for seat, wins := range rep.Wins {
			fmt.Fprintf(out, "seat %d  wins %d (%.1f%%)\n", seat, wins, 100*float64(wins)/float64(rep.Games))
		}
		return nil
	},
}

func init() {
	simCmd.Flags().IntVar(&simGames, "games", 0, "number of games (default LAMA_SIM_GAMES)")
	simCmd.Flags().IntVar(&simWorkers, "workers", 0, "games played concurrently (default LAMA_SIM_WORKERS)")
	simCmd.Flags().IntVar(&simMaxRounds, "maxRounds", 0, "abort a game after this many rounds (default LAMA_SIM_MAX_ROUNDS)")
}
