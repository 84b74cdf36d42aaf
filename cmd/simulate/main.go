// Command simulate plays bot-only Tractor rounds and reports aggregate
// statistics. Settings come from flags, falling back to SIM_* variables in
// the environment or a .env file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"tractor/internal/bot"
	"tractor/internal/config"
	"tractor/internal/domain"
	"tractor/internal/gamelog"
	"tractor/internal/sim"
)

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func main() {
	_ = godotenv.Load()

	var (
		seed      = flag.Int64("seed", int64(atoiDef(os.Getenv("SIM_SEED"), 1)), "random seed")
		rounds    = flag.Int("rounds", atoiDef(os.Getenv("SIM_ROUNDS"), 100), "rounds to play")
		levels    = flag.String("levels", getenv("SIM_LEVELS", "standard,standard,standard,standard"), "comma separated bot level per seat")
		trumpRank = flag.String("trump-rank", getenv("SIM_TRUMP_RANK", "2"), "trump rank for every round")
		declare   = flag.Bool("declare", getenv("SIM_DECLARE", "true") == "true", "let bots declare trump")
		cfgPath   = flag.String("config", getenv("SIM_CONFIG", ""), "engine config JSON for AI tuning")
		logPath   = flag.String("log", getenv("SIM_LOG", ""), "write the JSONL game log to this file")
		verbose   = flag.Bool("v", false, "debug logging to stderr")
	)
	flag.Parse()

	if err := run(*seed, *rounds, *levels, *trumpRank, *declare, *cfgPath, *logPath, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}

func run(seed int64, rounds int, levels, trumpRank string, declare bool, cfgPath, logPath string, verbose bool) error {
	opts := sim.Options{Declare: declare}

	names := strings.Split(levels, ",")
	if len(names) != domain.NumSeats {
		return fmt.Errorf("need %d levels, got %d", domain.NumSeats, len(names))
	}
	for i, name := range names {
		level, err := bot.ParseBotLevel(name)
		if err != nil {
			return err
		}
		opts.Levels[i] = level
	}

	rank, err := domain.ParseRank(trumpRank)
	if err != nil {
		return err
	}
	if !rank.IsStandard() {
		return fmt.Errorf("trump rank must be 2..A, got %s", trumpRank)
	}
	opts.TrumpRank = rank

	cfg := config.Default()
	if cfgPath != "" {
		if err := config.Load(cfgPath); err != nil {
			return err
		}
		cfg = config.Get()
	}
	opts.AI = cfg.AI

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts.Logger = gamelog.NewJSONLogger(os.Stderr, level)

	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return fmt.Errorf("open game log: %w", err)
		}
		defer f.Close()
		opts.Recorder = gamelog.NewRecorder(f, cfg.AppVersion)
	}

	stats, err := sim.RunRounds(seed, rounds, opts)
	if err != nil {
		return err
	}
	printStats(os.Stdout, stats, opts)
	return nil
}

func printStats(w io.Writer, s sim.Stats, opts sim.Options) {
	fmt.Fprintf(w, "rounds:               %d\n", s.Rounds)
	fmt.Fprintf(w, "levels:               %v\n", opts.Levels)
	fmt.Fprintf(w, "trump rank:           %s\n", opts.TrumpRank)
	fmt.Fprintf(w, "attacker win rate:    %.3f\n", s.AttackerWinRate())
	fmt.Fprintf(w, "attacker wins A / B:  %d / %d\n", s.AttackerWinsByTeam[domain.TeamA], s.AttackerWinsByTeam[domain.TeamB])
	fmt.Fprintf(w, "avg attacking points: %.1f\n", s.AvgAttackingPoints())
	fmt.Fprintf(w, "kitty points scored:  %d\n", s.TotalKittyPoints)
	fmt.Fprintf(w, "rounds with a bid:    %d\n", s.Declared)
	fmt.Fprintf(w, "avg tricks per round: %.1f\n", s.AvgTricks())
	fmt.Fprint(w, "trick wins by position:")
	for i, n := range s.WinsByPosition {
		fmt.Fprintf(w, " %d:%d", i+1, n)
	}
	fmt.Fprintln(w)
}
