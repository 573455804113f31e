package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/vmsim/sim"
	"github.com/inference-sim/vmsim/sim/trace"
	"github.com/inference-sim/vmsim/sim/workload"
)

var (
	// CLI flags for the pager run
	algo       string // Pager name or one-letter code
	frames     int    // Number of physical frames
	options    string // Output option letters (OPFSxf)
	seed       int64  // Seed for the pager RNG when no random file is given
	configPath string // Optional YAML run config
	traceDB    string // SQLite file receiving the fault trace
	logLevel   string // Log verbosity level
)

// runParams is the resolved configuration of one run, after flags and run config are merged.
type runParams struct {
	InputPath string
	RandPath  string
	Algo      string
	Frames    int
	Options   string
	Seed      int64
	TraceDB   string
}

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "vmsim",
	Short: "Virtual memory manager simulator",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run <inputfile> [randfile]",
	Short: "Run the pager simulation over an input file",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		params := runParams{
			InputPath: args[0],
			Algo:      algo,
			Frames:    frames,
			Options:   options,
			Seed:      seed,
			TraceDB:   traceDB,
		}
		if len(args) == 2 {
			params.RandPath = args[1]
		}
		if configPath != "" {
			cfg, err := loadRunConfig(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			applyRunConfig(cmd, cfg, &params)
		}

		if !sim.IsValidPager(params.Algo) {
			logrus.Fatalf("Unknown pager %q. Valid codes: f, s, r, n, c, a", params.Algo)
		}
		if params.Frames < 1 || params.Frames > sim.MaxFrames {
			logrus.Fatalf("Frames must be in [1, %d], got %d", sim.MaxFrames, params.Frames)
		}

		if err := runSimulation(os.Stdout, params); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// runSimulation loads the input, runs it to completion and writes the selected output to w.
// The fault trace is persisted when params.TraceDB is set.
func runSimulation(w io.Writer, params runParams) error {
	opts, err := sim.ParseOutputOptions(params.Options)
	if err != nil {
		return err
	}

	in, err := workload.OpenInput(params.InputPath)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	var src sim.NumberSource
	if params.RandPath != "" {
		rf, err := workload.LoadRandomFile(params.RandPath)
		if err != nil {
			return err
		}
		logrus.Infof("Loaded %d random numbers from %s", rf.Len(), params.RandPath)
		src = rf
	} else {
		src = sim.NewSeededSource(sim.NewSimulationKey(params.Seed))
	}

	cfg := sim.SimConfig{Frames: params.Frames, Pager: params.Algo, TraceLevel: trace.TraceLevelNone}
	if params.TraceDB != "" {
		cfg.TraceLevel = trace.TraceLevelEvents
	}
	s, err := sim.NewSimulator(cfg, in.Processes, src)
	if err != nil {
		return err
	}
	printer := sim.NewPrinter(w, s, opts)
	s.AddObserver(printer)

	logrus.Infof("Starting simulation with %d frames, pager=%s, %d processes",
		params.Frames, sim.CanonicalPagerName(params.Algo), len(in.Processes))

	if err := s.Run(in.Script); err != nil {
		_ = printer.Flush()
		return err
	}
	if err := printer.Finish(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if params.TraceDB != "" {
		return saveTrace(s, params)
	}
	return nil
}

func saveTrace(s *sim.Simulator, params runParams) error {
	run := trace.RunInfo{
		ID:           xid.New().String(),
		Pager:        sim.CanonicalPagerName(params.Algo),
		Frames:       params.Frames,
		Instructions: s.Stats.Instructions,
		TotalCost:    s.TotalCost(),
	}
	if err := trace.SaveSQLite(params.TraceDB, run, s.Trace); err != nil {
		return err
	}
	summary := trace.Summarize(s.Trace)
	logrus.Infof("Saved trace %s to %s: %d events over %d faulting accesses",
		run.ID, params.TraceDB, summary.TotalEvents, summary.FaultingAccesses)
	for owner, n := range summary.EvictionsByOwner {
		logrus.Debugf("process %d lost %d pages", owner, n)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {

	runCmd.Flags().StringVar(&algo, "algo", "n", "Pager: f(ifo), s(econd-chance), r(andom), n(ru), c(lock), a(ging)")
	runCmd.Flags().IntVar(&frames, "frames", 16, "Number of physical frames (1-128)")
	runCmd.Flags().StringVar(&options, "options", "", "Output options: O trace, P page tables, F frame table, S summary, x/f per-instruction tables")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the pager RNG when no random file is given")
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML run config")
	runCmd.Flags().StringVar(&traceDB, "trace-db", "", "SQLite file to store the fault trace in")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
