package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skirmish-sim/skirmish/sim"
	"github.com/skirmish-sim/skirmish/sim/calibration"
)

var (
	// Calibration flags
	lowerBound   int    // First faction A power tried
	maxDoublings int    // Doublings before giving up
	acceptExpr   string // Acceptance expression

	// Sweep flags
	sweepFrom    int
	sweepTo      int
	sweepWorkers int
)

// solveCmd prints the default score and the calibrated score, one per line
var solveCmd = &cobra.Command{
	Use:   "solve <map>",
	Short: "Print the outcome score and the score at the minimal flawless power",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, arena := calibrationSetup(cmd, args[0])
		ans, err := calibration.Solve(arena, s.Calibration)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ans.Default.Score)
		fmt.Fprintln(cmd.OutOrStdout(), ans.Calibrated.Score)
	},
}

// calibrateCmd searches the minimal faction A power and reports how it got there
var calibrateCmd = &cobra.Command{
	Use:   "calibrate <map>",
	Short: "Find the minimal faction A attack power satisfying the acceptance condition",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, arena := calibrationSetup(cmd, args[0])
		searcher, err := calibration.NewSearcher(arena, s.Calibration, nil)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		res, err := searcher.Search()
		var monotonicity *calibration.MonotonicityError
		if err != nil && !errors.As(err, &monotonicity) {
			logrus.Fatalf("Calibration failed: %v", err)
		}
		if perr := printJSON(cmd.OutOrStdout(), res); perr != nil {
			logrus.Fatalf("%v", perr)
		}
		if monotonicity != nil {
			logrus.Fatalf("Calibration result is unreliable: %v", monotonicity)
		}
	},
}

// sweepCmd simulates a whole power range and checks it for monotonicity
var sweepCmd = &cobra.Command{
	Use:   "sweep <map>",
	Short: "Simulate a range of faction A powers concurrently",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, arena := calibrationSetup(cmd, args[0])
		searcher, err := calibration.NewSearcher(arena, s.Calibration, nil)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		trials, err := searcher.Sweep(ctx, sweepFrom, sweepTo, sweepWorkers)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%6s %8s %6s %6s %6s %8s %10s\n", "power", "accepted", "winner", "rounds", "hp", "score", "survivorsA")
		for _, t := range trials {
			fmt.Fprintf(w, "%6d %8v %6s %6d %6d %8d %10d\n", t.Power, t.Accepted, t.Outcome.Winner,
				t.Outcome.Rounds, t.Outcome.RemainingHP, t.Outcome.Score, t.Outcome.Survivors[sim.FactionA])
		}
		violations := calibration.CheckMonotonicity(trials)
		if len(violations) == 0 {
			fmt.Fprintln(w, "monotonic")
			return
		}
		for _, v := range violations {
			fmt.Fprintln(w, v)
		}
	},
}

// calibrationSetup resolves settings, applies calibration flags and loads the map.
func calibrationSetup(cmd *cobra.Command, path string) (settings, *sim.Arena) {
	s, err := resolveSettings(cmd)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	applyCalibrationFlags(cmd, &s.Calibration)
	arena, err := loadArena(path, s.Arena)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	return s, arena
}

func applyCalibrationFlags(cmd *cobra.Command, cfg *calibration.Config) {
	flags := cmd.Flags()
	if flags.Changed("lower-bound") {
		cfg.LowerBound = lowerBound
	}
	if flags.Changed("max-doublings") {
		cfg.MaxDoublings = maxDoublings
	}
	if flags.Changed("accept") {
		cfg.Accept = acceptExpr
	}
}

func registerCalibrationFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&lowerBound, "lower-bound", calibration.DefaultLowerBound, "First faction A attack power tried")
	cmd.Flags().IntVar(&maxDoublings, "max-doublings", calibration.DefaultMaxDoublings, "Doublings of the upper bound before giving up")
	cmd.Flags().StringVar(&acceptExpr, "accept", calibration.DefaultAcceptance, "Acceptance expression over the trial outcome")
}

func init() {
	for _, c := range []*cobra.Command{solveCmd, calibrateCmd, sweepCmd} {
		registerCalibrationFlags(c)
		rootCmd.AddCommand(c)
	}

	sweepCmd.Flags().IntVar(&sweepFrom, "from", 1, "Lowest power simulated")
	sweepCmd.Flags().IntVar(&sweepTo, "to", 40, "Highest power simulated")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", runtime.NumCPU(), "Concurrent simulations")
}
