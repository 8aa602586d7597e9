package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nmnhut-it/lama-card-game/service/internal/game"
	"github.com/nmnhut-it/lama-card-game/service/internal/history"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var watchDelay time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Play one table of automated seats and print every public event as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("delay") {
			cfg.AIThinkDelay = watchDelay
		}

		var rec history.Recorder = history.LogRecorder{Log: log}
		if cfg.RedisAddr != "" {
			redisRec, closeFn, err := history.DialRedis(cmd.Context(), cfg.RedisAddr)
			if err != nil {
				return fmt.Errorf("connect history store: %w", err)
			}
			defer closeFn()
			rec = redisRec
			log.WithField("addr", cfg.RedisAddr).Info("recording actions to redis")
		}

		g := game.NewLamaGame(game.Options{
			Mode:         cfg.Mode,
			Seed:         cfg.Seed,
			Rules:        cfg.Rules,
			AIThinkDelay: cfg.AIThinkDelay,
			Logger:       log,
			Recorder:     rec,
		})
		defer g.Stop()

		enc := json.NewEncoder(cmd.OutOrStdout())
		roundDone := make(chan struct{}, 1)
		g.BroadcastFn = func(ev game.GameEvent) {
			if err := enc.Encode(ev); err != nil {
				log.WithError(err).Warn("failed writing event")
			}
			if ev.Type == game.EventGameRoundEnd {
				roundDone <- struct{}{}
			}
		}
		g.OnGameEnd = func(gameID uuid.UUID, winners []uuid.UUID, scores map[uuid.UUID]int) {
			log.WithFields(logrus.Fields{"game_id": gameID, "winners": winners}).Info("table finished")
		}

		for i := 0; i < int(cfg.Rules.PlayerCount); i++ {
			if _, err := g.AddPlayer(fmt.Sprintf("Bot %d", i+1), true); err != nil {
				return err
			}
		}
		if err := g.Start(); err != nil {
			return err
		}
		for {
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-roundDone:
			}
			g.Mu.Lock()
			over := g.GameOver
			g.Mu.Unlock()
			if over {
				return nil
			}
			if err := g.NextRound(); err != nil {
				return err
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDelay, "delay", 0, "pause before each automated move (default LAMA_AI_THINK_DELAY_MS)")
}
