package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skirmish-sim/skirmish/sim"
	"github.com/skirmish-sim/skirmish/sim/trace"
)

var (
	// Scenario flags shared by every command
	logLevel         string // Log verbosity level
	defaultsFilePath string // Path to defaults.yaml
	hitPoints        int    // Starting hit points for both factions
	powerA           int    // Faction A attack power
	powerB           int    // Faction B attack power
	markerA          string // Faction A map character
	markerB          string // Faction B map character
	maxRounds        int    // Safety bound on completed rounds

	// run flags
	traceLevel string // Decision trace verbosity
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "skirmish",
	Short: "Deterministic turn-based grid combat simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd simulates one map at the configured attack powers
var runCmd = &cobra.Command{
	Use:   "run <map>",
	Short: "Simulate combat on a map and print the outcome",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSettings(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if cmd.Flags().Changed("trace") {
			if err := setTraceLevel(&s.Engine, traceLevel); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		arena, err := loadArena(args[0], s.Arena)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		simulator, err := sim.NewSimulator(arena, s.Engine)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Starting run %s: %d vs %d combatants, power A=%d B=%d",
			simulator.ID, arena.Count(sim.FactionA), arena.Count(sim.FactionB), s.Arena.A.AttackPower, s.Arena.B.AttackPower)
		out, err := simulator.Run()
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		report := struct {
			Outcome sim.Outcome         `json:"outcome"`
			Trace   *trace.TraceSummary `json:"trace,omitempty"`
		}{Outcome: out}
		if simulator.Trace != nil {
			report.Trace = trace.Summarize(simulator.Trace)
		}
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// resolveSettings layers built-in defaults, defaults.yaml and explicitly set flags.
// A missing defaults file is only an error when --defaults was given.
func resolveSettings(cmd *cobra.Command) (settings, error) {
	s := builtinSettings()
	flags := cmd.Flags()

	if _, err := os.Stat(defaultsFilePath); err == nil || flags.Changed("defaults") {
		cfg, err := loadDefaultsConfig(defaultsFilePath)
		if err != nil {
			return settings{}, err
		}
		if err := cfg.apply(&s); err != nil {
			return settings{}, fmt.Errorf("%s: %w", defaultsFilePath, err)
		}
	}

	// Flags override file values only when the user set them
	if flags.Changed("hp") {
		s.Arena.A.HitPoints, s.Arena.B.HitPoints = hitPoints, hitPoints
	}
	if flags.Changed("power-a") {
		s.Arena.A.AttackPower = powerA
	}
	if flags.Changed("power-b") {
		s.Arena.B.AttackPower = powerB
	}
	for _, m := range []struct {
		flag, value string
		out         *byte
	}{{"marker-a", markerA, &s.Arena.A.Marker}, {"marker-b", markerB, &s.Arena.B.Marker}} {
		if !flags.Changed(m.flag) {
			continue
		}
		if len(m.value) != 1 {
			return settings{}, fmt.Errorf("--%s must be a single character, got %q", m.flag, m.value)
		}
		*m.out = m.value[0]
	}
	if flags.Changed("max-rounds") {
		s.Engine.MaxRounds = maxRounds
	}
	s.Calibration.Engine = s.Engine
	if err := s.Arena.Validate(); err != nil {
		return settings{}, err
	}
	return s, nil
}

func setTraceLevel(cfg *sim.EngineConfig, level string) error {
	if !trace.IsValidTraceLevel(level) {
		return fmt.Errorf("unknown trace level %q (none, rounds, decisions)", level)
	}
	cfg.TraceLevel = trace.TraceLevel(level)
	return nil
}

// loadArena parses the map at path, or standard input when path is "-".
func loadArena(path string, cfg sim.ArenaConfig) (*sim.Arena, error) {
	if path == "-" {
		return sim.ParseArena(os.Stdin, cfg)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	arena, err := sim.ParseArena(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return arena, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerScenarioFlags attaches the flags every command shares.
func registerScenarioFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	flags.StringVar(&defaultsFilePath, "defaults", "defaults.yaml", "Path to the scenario defaults file")
	flags.IntVar(&hitPoints, "hp", sim.DefaultHitPoints, "Starting hit points for every combatant")
	flags.IntVar(&powerA, "power-a", sim.DefaultAttackPower, "Attack power of faction A")
	flags.IntVar(&powerB, "power-b", sim.DefaultAttackPower, "Attack power of faction B")
	flags.StringVar(&markerA, "marker-a", string(sim.DefaultMarkerA), "Map character for faction A")
	flags.StringVar(&markerB, "marker-b", string(sim.DefaultMarkerB), "Map character for faction B")
	flags.IntVar(&maxRounds, "max-rounds", sim.DefaultMaxRounds, "Fail when combat runs past this many rounds (0 = unbounded)")
}

// init sets up CLI flags and subcommands
func init() {
	registerScenarioFlags(rootCmd)

	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, rounds, decisions)")

	rootCmd.AddCommand(runCmd)
}
