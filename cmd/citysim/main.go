// Command citysim runs a deterministic demo city simulation: it
// generates a world, advances it a configurable number of days, prints a
// daily summary, and records a per-day hash to the regression ledger so
// the run can be compared against another for determinism drift.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/talgya/citysim/internal/regression"
	"github.com/talgya/citysim/internal/report"
	"github.com/talgya/citysim/internal/simulate"
	"github.com/talgya/citysim/internal/worldgen"
	"github.com/talgya/citysim/internal/worldhash"
)

func main() {
	useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	seed := envInt64OrDefault("CITYSIM_SEED", 1)
	days := envIntOrDefault("CITYSIM_DAYS", 30)
	dbPath := envOrDefault("CITYSIM_DB", "data/citysim.db")
	detail := envOrDefault("CITYSIM_DETAIL", "") != ""

	slog.Info("citysim starting", "seed", seed, "days", days, "db", dbPath)

	os.MkdirAll("data", 0o755)
	ledger, err := regression.Open(dbPath)
	if err != nil {
		slog.Error("failed to open regression ledger", "error", err)
		os.Exit(1)
	}
	defer ledger.Close()

	cfg := worldgen.DefaultGenConfig()
	cfg.Seed = seed
	w, err := worldgen.Generate(cfg)
	if err != nil {
		slog.Error("world generation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("world generated", "width", w.Width, "height", w.Height)

	runID := regression.NewRun()
	sim := simulate.NewSimulator(simulate.DefaultSimConfig())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	stop := make(chan struct{})
	go func() {
		sig := <-sigCh
		slog.Info("received signal, stopping after current day", "signal", sig)
		close(stop)
	}()

	for day := 0; day < days; day++ {
		select {
		case <-stop:
			days = day
		default:
		}
		if day >= days {
			break
		}

		sim.StepOnce(w)

		hash := worldhash.Hash(w, true)
		if err := ledger.RecordHash(runID, w.Stats.Day, hash, "citysim"); err != nil {
			slog.Error("failed to record hash", "error", err)
		}

		line := report.DailySummary(w.Stats)
		if useColor {
			fmt.Printf("\x1b[36m%s\x1b[0m\n", line)
		} else {
			fmt.Println(line)
		}
		if detail {
			fmt.Print(report.Detail(w.Stats))
		}
	}

	slog.Info("citysim finished", "run_id", runID, "days_run", w.Stats.Day)
	fmt.Printf("\nRun %s complete after %d days.\n", runID, w.Stats.Day)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envInt64OrDefault(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}
