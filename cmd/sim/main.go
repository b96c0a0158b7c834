package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper-gym/internal/config"
	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/simulate"
)

var (
	log = logrus.New()

	params     mines.Params
	runs       int
	percentile float64
	seed       int64
	workers    int
	rewards    bool
	logFile    string
)

func init() {
	flag.IntVar(&params.Rows, "rows", 5, "number of rows")
	flag.IntVar(&params.Cols, "cols", 5, "number of columns")
	flag.IntVar(&params.MineCount, "mines", 3, "number of mines")
	flag.IntVar(&runs, "runs", 200_000, "number of simulated games")
	flag.Float64Var(&percentile, "percentile", 99, "percentile to report, e.g. 99 for the top 1%")
	flag.Int64Var(&seed, "seed", 42, "random seed")
	flag.IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "number of parallel workers")
	flag.BoolVar(&rewards, "rewards", false, "also print the reward table for the board")
	flag.StringVar(&logFile, "log-file", "", "also write JSON logs to this rotated file")
}

func setupLogging() {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if logFile == "" {
		return
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      logLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		log.Fatal("unable to open log file: ", err)
	}
	log.AddHook(hook)
}

func printRewards(p mines.Params) {
	fmt.Printf("\nBoard: %dx%d with %d mines\n", p.Rows, p.Cols, p.MineCount)
	fmt.Printf("Expected random cells: %.1f\n", mines.ExpectedRandom(p))
	for _, row := range simulate.RewardTable(p) {
		fmt.Printf("  %-15s (%3d cells) -> %.3f\n", row.Label, row.CellsRevealed, row.Reward.Reward)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flag.Parse()
	setupLogging()

	log.WithFields(logrus.Fields{
		"board":   params.String(),
		"runs":    runs,
		"seed":    seed,
		"workers": workers,
	}).Debug("starting simulation")

	start := time.Now()
	results, err := simulate.Simulate(ctx, params, runs, seed, workers)
	if err != nil {
		log.Fatal("simulation failed: ", err)
	}
	log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Info("simulation done")

	threshold, err := simulate.PercentileThreshold(results, percentile)
	if err != nil {
		log.Fatal(err)
	}
	summary, err := simulate.Summarize(results)
	if err != nil {
		log.Fatal(err)
	}

	safe := params.SafeCells()
	fmt.Printf("Board: %dx%d, mines: %d (safe cells: %d)\n", params.Rows, params.Cols, params.MineCount, safe)
	fmt.Printf("Runs: %d, seed: %d\n", runs, seed)
	fmt.Printf("P%g threshold (safe cells revealed): %d (out of %d)\n", percentile, threshold, safe)
	fmt.Printf("Mean: %.3f, StdDev: %.3f, Min: %d, Max: %d\n", summary.Mean, summary.StdDev, summary.Min, summary.Max)
	fmt.Printf("Expected random (single clicks): %.3f\n", mines.ExpectedRandom(params))

	if rewards {
		printRewards(params)
	}
}
