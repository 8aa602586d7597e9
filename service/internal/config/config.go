// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	engine "github.com/nmnhut-it/lama-card-game/engine"
	"github.com/sirupsen/logrus"
)

// Environment variable names read by Load.
const (
	EnvMode         = "LAMA_MODE"
	EnvSeed         = "LAMA_SEED"
	EnvAIThinkDelay = "LAMA_AI_THINK_DELAY_MS"
	EnvLogLevel     = "LAMA_LOG_LEVEL"
	EnvLogFormat    = "LAMA_LOG_FORMAT"
	EnvRedisAddr    = "LAMA_REDIS_ADDR"
	EnvSimGames     = "LAMA_SIM_GAMES"
	EnvSimWorkers   = "LAMA_SIM_WORKERS"
	EnvSimMaxRounds = "LAMA_SIM_MAX_ROUNDS"
)

// Config holds service settings. Rules always start from engine.DefaultHouseRules.
type Config struct {
	Mode         engine.GameMode
	Seed         uint64        // 0 means seed from the clock
	AIThinkDelay time.Duration // pause before each automated turn
	LogLevel     logrus.Level
	LogFormat    string // "text" or "json"
	RedisAddr    string // empty disables the Redis action history

	SimGames     int
	SimWorkers   int
	SimMaxRounds int

	Rules engine.HouseRules
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Mode:         engine.ModeLocal,
		AIThinkDelay: 800 * time.Millisecond,
		LogLevel:     logrus.InfoLevel,
		LogFormat:    "text",
		SimGames:     100,
		SimWorkers:   4,
		SimMaxRounds: 200,
		Rules:        engine.DefaultHouseRules(),
	}
}

// Load reads an optional .env file from the working directory and then the
// LAMA_* environment variables on top of Default. Variables already set in
// the environment win over the file.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvMode); ok {
		m, err := engine.ParseGameMode(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvMode, err)
		}
		cfg.Mode = m
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	if v, ok := lookup(EnvAIThinkDelay); ok && v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return Config{}, fmt.Errorf("config: %s: invalid delay %q", EnvAIThinkDelay, v)
		}
		cfg.AIThinkDelay = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		f := strings.ToLower(v)
		if f != "text" && f != "json" {
			return Config{}, fmt.Errorf("config: %s: unknown format %q", EnvLogFormat, v)
		}
		cfg.LogFormat = f
	}
	if v, ok := lookup(EnvRedisAddr); ok {
		cfg.RedisAddr = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvSimGames, &cfg.SimGames},
		{EnvSimWorkers, &cfg.SimWorkers},
		{EnvSimMaxRounds, &cfg.SimMaxRounds},
	}
	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: %s: want a positive integer, got %q", e.name, v)
		}
		*e.dst = n
	}
	return cfg, nil
}

// NewLogger returns a logrus logger using the configured level and format.
func (c Config) NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
