// Package main provides the entry point for fwftgen.
// fwftgen writes golden stimulus and expected-output vectors for a
// synchronous first-word-fall-through FIFO test bench.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/pkg/errors"
	"github.com/rs/xid"

	"github.com/sarchlab/fwftsim/config"
	"github.com/sarchlab/fwftsim/sweep"
	"github.com/sarchlab/fwftsim/trace"
	"github.com/sarchlab/fwftsim/vecfile"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	capacity   int
	width      int
	length     int
	resetHold  int
	seed       uint64
	policy     string
	seeds      string
	capacities string
	jobs       int
	outDir     string
	inputName  string
	outputName string
	checkPath  string
	verbosity  int
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	o := &options{}
	fs := flag.NewFlagSet("fwftgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.configPath, "config", "", "Path to JSON or YAML run configuration")
	fs.IntVar(&o.capacity, "capacity", 0, "FIFO depth in words")
	fs.IntVar(&o.width, "width", 0, "Data word width in bits")
	fs.IntVar(&o.length, "length", 0, "Number of stimulus cycles")
	fs.IntVar(&o.resetHold, "reset-hold", 0, "Number of leading reset cycles")
	fs.Uint64Var(&o.seed, "seed", 0, "Stimulus seed")
	fs.StringVar(&o.policy, "policy", "", "Read policy: pre-write-empty or same-cycle-fall-through")
	fs.StringVar(&o.seeds, "seeds", "", "Comma-separated seeds to sweep")
	fs.StringVar(&o.capacities, "capacities", "", "Comma-separated capacities to sweep")
	fs.IntVar(&o.jobs, "j", 0, "Maximum parallel runs in a sweep (0 = unlimited)")
	fs.StringVar(&o.outDir, "out-dir", ".", "Directory for vector files")
	fs.StringVar(&o.inputName, "input", "input.txt", "Stimulus file name")
	fs.StringVar(&o.outputName, "output", "output.txt", "Expected-output file name")
	fs.StringVar(&o.checkPath, "check", "", "DUT output file to compare against the expected outputs")
	fs.IntVar(&o.verbosity, "v", 0, "Log verbosity")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return o, fs, nil
}

// buildConfig loads the configuration file, if any, and applies the flags
// that were set explicitly.
func buildConfig(o *options, fs *flag.FlagSet) (*config.Config, error) {
	c := config.DefaultConfig()
	if o.configPath != "" {
		var err error
		c, err = config.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "capacity":
			c.Capacity = o.capacity
		case "width":
			c.WordWidthBits = o.width
		case "length":
			c.RunLength = o.length
		case "reset-hold":
			c.ResetHoldCycles = o.resetHold
		case "seed":
			c.Seed = o.seed
		case "policy":
			c.Policy = o.policy
		}
	})

	return c, c.Validate()
}

func parseList[T any](s string, parse func(string) (T, error)) ([]T, error) {
	if s == "" {
		return nil, nil
	}
	var out []T
	for _, field := range strings.Split(s, ",") {
		v, err := parse(strings.TrimSpace(field))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid list element %q", field)
		}
		out = append(out, v)
	}
	return out, nil
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

func run(args []string, stdout, stderr io.Writer) int {
	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	logger := newLogger(stderr, o.verbosity).WithValues("run", xid.New().String())

	c, err := buildConfig(o, fs)
	if err != nil {
		logger.Error(err, "invalid configuration")
		return 1
	}

	seeds, err := parseList(o.seeds, func(s string) (uint64, error) {
		return strconv.ParseUint(s, 10, 64)
	})
	if err != nil {
		logger.Error(err, "invalid -seeds")
		return 1
	}
	capacities, err := parseList(o.capacities, strconv.Atoi)
	if err != nil {
		logger.Error(err, "invalid -capacities")
		return 1
	}

	plan := sweep.Plan(c, seeds, capacities)
	if len(plan) > 1 && o.checkPath != "" {
		logger.Error(nil, "-check needs a single run")
		return 1
	}

	ctx := logr.NewContext(context.Background(), logger)
	results, err := sweep.Run(ctx, plan, o.jobs,
		trace.WithLogger(logger), trace.WithScoreboard())
	if err != nil {
		logger.Error(err, "run failed")
		return 1
	}

	for _, r := range results {
		in, out := o.inputName, o.outputName
		if len(results) > 1 {
			in = suffixed(in, r.Config)
			out = suffixed(out, r.Config)
		}
		if err := writeVectors(o.outDir, in, out, r); err != nil {
			logger.Error(err, "failed to write vectors")
			return 1
		}
		report(stdout, r, filepath.Join(o.outDir, in), filepath.Join(o.outDir, out))
	}

	if o.checkPath != "" {
		return check(stdout, logger, o.checkPath, results[0])
	}

	return 0
}

func suffixed(name string, c *config.Config) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_c%d_s%d%s", strings.TrimSuffix(name, ext), c.Capacity, c.Seed, ext)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create vector file")
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrap(err, path)
	}
	return errors.Wrap(f.Close(), path)
}

func writeVectors(dir, inName, outName string, r sweep.Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	width := r.Config.WordWidthBits
	err := writeFile(filepath.Join(dir, inName), func(w io.Writer) error {
		return vecfile.WriteStimulus(w, width, r.Trace.Stimulus)
	})
	if err != nil {
		return err
	}

	return writeFile(filepath.Join(dir, outName), func(w io.Writer) error {
		return vecfile.WriteExpected(w, width, r.Trace.Expected)
	})
}

func report(w io.Writer, r sweep.Result, inPath, outPath string) {
	s := r.Trace.Stats
	fmt.Fprintf(w, "Capacity: %d  Width: %d  Seed: %d  Policy: %s\n",
		r.Config.Capacity, r.Config.WordWidthBits, r.Config.Seed, r.Config.FifoPolicy())
	fmt.Fprintf(w, "  Cycles:         %d (%d reset)\n", s.Cycles, s.ResetCycles)
	fmt.Fprintf(w, "  Writes:         %d (%d dropped, %.1f%%)\n",
		s.Writes, s.DroppedWrites, 100.0*s.DropRate())
	fmt.Fprintf(w, "  Reads:          %d (%d blocked)\n", s.Reads, s.BlockedReads)
	fmt.Fprintf(w, "  Max occupancy:  %d\n", s.MaxOccupancy)
	fmt.Fprintf(w, "  Stimulus:       %s\n", inPath)
	fmt.Fprintf(w, "  Expected:       %s\n", outPath)
}

func check(w io.Writer, logger logr.Logger, path string, r sweep.Result) int {
	f, err := os.Open(path)
	if err != nil {
		logger.Error(err, "failed to open DUT output")
		return 1
	}
	defer f.Close()

	actual, err := vecfile.ReadExpected(f, r.Config.WordWidthBits)
	if err != nil {
		logger.Error(err, "failed to parse DUT output", "path", path)
		return 1
	}

	mismatches := trace.Compare(r.Trace.Expected, actual)
	if len(mismatches) == 0 {
		fmt.Fprintf(w, "PASS: %d records match\n", len(actual))
		return 0
	}

	fmt.Fprintf(w, "FAIL: %d mismatching records\n", len(mismatches))
	for _, m := range mismatches {
		fmt.Fprintf(w, "  %s\n", m)
	}
	return 1
}
