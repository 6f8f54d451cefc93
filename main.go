package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"blackjack/experiments"
	"blackjack/meta"
	"blackjack/server"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	mode     string
	rounds   int
	tables   int
	budget   time.Duration
	addr     string
	url      string
	dir      string
	seed     uint64
	logLevel string
}

func main() {
	_ = godotenv.Load() // A missing .env is fine

	cfg := parseConfig()
	setupLogger(cfg.logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Str("mode", cfg.mode).Msg("run failed")
	}
}

func run(ctx context.Context, cfg config) error {
	opts := experiments.Options{Dir: cfg.dir, Tables: cfg.tables, Rounds: cfg.rounds, Seed: cfg.seed}

	switch cfg.mode {
	case "server":
		return server.New(cfg.budget).ListenAndServe(ctx, cfg.addr)
	case "remote":
		return report(experiments.RunRemoteExperiment(ctx, opts, cfg.url, cfg.budget))
	case "budget":
		return report(experiments.RunTimeBudgetExperiment(ctx, opts))
	case "baseline":
		return report(experiments.RunBaselineExperiment(ctx, opts))
	case "all":
		if err := report(experiments.RunTimeBudgetExperiment(ctx, opts)); err != nil {
			return err
		}
		return report(experiments.RunBaselineExperiment(ctx, opts))
	default:
		return fmt.Errorf("unknown mode %q", cfg.mode)
	}
}

func report(outcomes []experiments.Outcome, err error) error {
	if err != nil {
		return err
	}
	for _, o := range outcomes {
		fmt.Printf("agent %d %-10s %s\n", o.Config.ID, o.Config.Agent, o.Results)
	}
	return nil
}

// parseConfig reads flags, with defaults taken from the environment and then
// from meta.
func parseConfig() config {
	var cfg config
	flag.StringVar(&cfg.mode, "mode", "budget", "One of budget, baseline, all, server or remote")
	flag.IntVar(&cfg.rounds, "rounds", envInt("BLACKJACK_ROUNDS", meta.ROUNDS), "Rounds per table")
	flag.IntVar(&cfg.tables, "tables", envInt("BLACKJACK_TABLES", meta.TABLES), "Tables played concurrently")
	flag.DurationVar(&cfg.budget, "budget", envDuration("BLACKJACK_BUDGET", meta.BUDGET), "Search time per decision of the server and remote players")
	flag.StringVar(&cfg.addr, "addr", envString("BLACKJACK_ADDR", meta.ADDR), "Server listen address")
	flag.StringVar(&cfg.url, "url", envString("BLACKJACK_URL", "http://localhost"+meta.ADDR), "Decision server used by remote mode")
	flag.StringVar(&cfg.dir, "dir", meta.RESULTS_DIR, "Directory for experiment results")
	flag.Uint64Var(&cfg.seed, "seed", uint64(time.Now().UnixNano()), "Seed for the first table")
	flag.StringVar(&cfg.logLevel, "log-level", envString("LOG_LEVEL", "info"), "Log level")
	flag.Parse()
	return cfg
}

func setupLogger(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid integer")
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid duration")
		return fallback
	}
	return d
}
