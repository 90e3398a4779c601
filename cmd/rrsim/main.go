package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"rrsched"
)

type options struct {
	configPath string
	numProcs   int
	quantum    int
	seed       int64
	verbose    bool
	sweep      string
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "path to a YAML config file")
	fs.IntVar(&o.numProcs, "n", rrsched.DEFAULT_NUM_PROCS, "number of processes to generate (overrides config)")
	fs.IntVar(&o.quantum, "q", rrsched.DEFAULT_QUANTUM, "time quantum (overrides config)")
	fs.Int64Var(&o.seed, "seed", 0, "random seed, 0 for time based (overrides config)")
	fs.BoolVar(&o.verbose, "v", false, "print every dispatch")
	fs.StringVar(&o.sweep, "sweep", "", "comma separated quanta to compare, e.g. 1,2,4,8")
}

// configure parses args, loads the config file if one was named, and
// overrides it with the flags that were actually given. The result is validated.
func configure(fs *flag.FlagSet, args []string) (*rrsched.Config, error) {
	var o options
	o.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := rrsched.DefaultConfig()
	if o.configPath != "" {
		var err error
		cfg, err = rrsched.LoadConfig(o.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if err := applyFlags(cfg, &o, set); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cfg *rrsched.Config, o *options, set map[string]bool) error {
	if set["n"] {
		cfg.NumProcs = o.numProcs
	}
	if set["q"] {
		cfg.Quantum = o.quantum
	}
	if set["seed"] {
		cfg.Seed = o.seed
	}
	if set["v"] {
		cfg.Verbose = o.verbose
	}
	if set["sweep"] {
		qs, err := parseQuanta(o.sweep)
		if err != nil {
			return fmt.Errorf("invalid -sweep %q: %w", o.sweep, err)
		}
		cfg.Sweep = qs
	}
	return nil
}

func main() {
	log.SetPrefix("[rrsim] ")
	log.SetFlags(0)

	cfg, err := configure(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	w, err := rrsched.NewWorld(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	res, err := w.Run()
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
	log.Printf("run %s: %v", res.RunId, res.Summary)

	if len(cfg.Sweep) == 0 {
		return
	}
	results, err := w.Sweep(cfg.Quanta())
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	if _, err := fmt.Fprint(os.Stdout, "\n=== Quantum Sweep ===\n"); err != nil {
		log.Fatalf("Writing sweep: %v", err)
	}
	if err := rrsched.WriteSweep(os.Stdout, results); err != nil {
		log.Fatalf("Writing sweep: %v", err)
	}
}

func parseQuanta(s string) ([]int, error) {
	var qs []int
	for _, f := range strings.Split(s, ",") {
		q, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	return qs, nil
}
