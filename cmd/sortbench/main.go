// Package main provides the entry point for SortBench.
// SortBench resets the DLSorter, drives it with a fixed boundary pattern and
// with random vectors, and records a VCD waveform of the run.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/sortbench/bench"
	"github.com/sarchlab/sortbench/dut"
	"github.com/sarchlab/sortbench/trace"
)

type options struct {
	configPath string
	seed       uint64
	logE       uint
	logP       uint
	outDir     string
	traceFile  string
	noTrace    bool
	randReset  string
	verbose    int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "sortbench",
		Short: "Cycle-level testbench for the DLSorter",
		Long: `SortBench resets the sorter, writes 8 stream batches of a fixed
boundary pattern and 8 stream batches of random values into it, and dumps
every evaluation into a VCD waveform (logs/wave.vcd by default).
`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.config(cmd)
			if err != nil {
				return err
			}
			return run(config, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Path to a JSON configuration file")
	f.Uint64Var(&opts.seed, "seed", 0, "Seed of the random phase (default: wall clock)")
	f.UintVar(&opts.logE, "log-e", 6, "log2 of the number of elements per stream")
	f.UintVar(&opts.logP, "log-p", 2, "log2 of the number of lanes written per cycle")
	f.StringVar(&opts.outDir, "out-dir", "logs", "Directory receiving the waveform")
	f.StringVar(&opts.traceFile, "trace", "wave.vcd", "Waveform file name")
	f.BoolVar(&opts.noTrace, "no-trace", false, "Do not record a waveform")
	f.StringVar(&opts.randReset, "rand-reset", "zeros",
		"Initial register values of the device: zeros, ones or random")
	f.CountVarP(&opts.verbose, "verbose", "v", "Verbose output (repeat for more)")

	return cmd
}

// config builds the run configuration. Flags set on the command line
// override the configuration file.
func (o *options) config(cmd *cobra.Command) (*bench.Config, error) {
	config := bench.DefaultConfig()
	if o.configPath != "" {
		var err error
		config, err = bench.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	if f.Changed("log-e") {
		config.TotalExponent = o.logE
	}
	if f.Changed("log-p") {
		config.ParallelExponent = o.logP
	}
	if f.Changed("out-dir") {
		config.OutputDir = o.outDir
	}
	if f.Changed("trace") {
		config.TraceFile = o.traceFile
	}
	if f.Changed("seed") {
		config = config.WithSeed(o.seed)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return config, nil
}

func newLogger(w io.Writer, verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}

// run executes one test sequence. Failing to set up the output directory,
// the device or the trace aborts the run before anything is simulated.
func run(config *bench.Config, opts *options, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, opts.verbose).WithName("sortbench")

	config = config.WithSeed(config.ResolveSeed(time.Now()))

	policy, err := dut.ParseResetPolicy(opts.randReset)
	if err != nil {
		logger.Error(err, "failed to create device")
		return err
	}
	dev := dut.NewLatch(
		dut.WithResetPolicy(policy),
		dut.WithResetSeed(*config.Seed),
	)

	driverOpts := []bench.DriverOption{bench.WithLogger(logger)}
	if !opts.noTrace {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			err = errors.Wrapf(err, "failed to create %s", config.OutputDir)
			logger.Error(err, "failed to prepare output directory")
			return err
		}

		w, err := trace.Create(config.TracePath(),
			trace.WithTimescale(config.Timescale),
			trace.WithDate(time.Now()))
		if err != nil {
			logger.Error(err, "failed to open trace")
			return err
		}
		driverOpts = append(driverOpts, bench.WithSink(w))
	}

	fmt.Fprintln(stdout, "================================")
	fmt.Fprintln(stdout, "======= Start Simulation =======")
	fmt.Fprintln(stdout, "================================")

	driver := bench.NewDriver(config, dev, driverOpts...)
	stats, err := driver.Run()

	fmt.Fprintln(stdout, "================================")
	fmt.Fprintln(stdout, "======= Simulation Ended =======")
	fmt.Fprintln(stdout, "================================")
	printReport(stdout, config, stats, opts.noTrace)

	if err != nil {
		logger.Error(err, "simulation finished with errors")
		return err
	}
	return nil
}

func printReport(w io.Writer, config *bench.Config, stats bench.Stats, noTrace bool) {
	fmt.Fprintf(w, "Elapsed time: %s\n", stats.Elapsed)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Seed: %d\n", stats.Seed)
	fmt.Fprintf(w, "Stream count: %d\n", stats.StreamCount)
	fmt.Fprintf(w, "Vectors:\n")
	fmt.Fprintf(w, "  Fixed pattern:  %d\n", stats.Vectors(bench.PhaseFixedPattern))
	fmt.Fprintf(w, "  Random pattern: %d\n", stats.Vectors(bench.PhaseRandomPattern))
	fmt.Fprintf(w, "Clock periods: %d\n", stats.Periods)
	fmt.Fprintf(w, "Evaluations: %d\n", stats.Steps)
	fmt.Fprintf(w, "Simulation time: %d\n", stats.SimTime)
	if !noTrace {
		fmt.Fprintf(w, "Waveform: %s\n", config.TracePath())
	}
}
