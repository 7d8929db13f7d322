package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/integrii/flaggy"
	"github.com/logrusorgru/aurora"

	"torlife/src/config"
	"torlife/src/engine"
	"torlife/src/seed"
	"torlife/src/sweep"
	"torlife/src/universe"
	"torlife/src/view"
)

var (
	testSample = seed.Template{
		Name:  "testSample1",
		Descr: "the test sample with 3 stable patterns",
		Coordinates: [][]int{
			{1, 1}, {1, 2},
			{2, 1}, {2, 2},
			{3, 3},
			{4, 2},
			{4, 3},
			{5, 3},
		},
	}
)

type EnvOptions struct {
	interactive bool
	window      bool
	showField   bool
	configFile  string
	pattern     string
	runs        int
	parallel    int
	sweep       *flaggy.Subcommand
}

func main() {
	eo, cfg := initOptions()

	if eo.sweep.Used {
		runSweep(eo, cfg)
		return
	}

	u, err := settle(cfg)
	if err != nil {
		log.Fatalf("%+v", err)
	}

	if eo.window {
		runWindow(u, cfg)
		return
	}

	var stateCh chan engine.Status
	if !eo.interactive {
		stateCh = make(chan engine.Status, 10) //the buffered channel to getting the engine status
	}

	e, err := engine.New(u, cfg.Options(), stateCh)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if cfg.Noise {
		e.SetSeeder(seed.NoiseSeeder(cfg.NoiseScale))
	}

	if eo.interactive {
		v := view.NewViewTerminal()
		e.RegisterViewer(v)
		v.Start()
		e.Close()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := view.NewConsoleOut(os.Stdout, true, eo.showField)
	e.RegisterViewer(out)
	fmt.Printf("\"The Life\" game simulation started...\n")
	out.Start()
	st, err := e.RunUntil(ctx)
	if err != nil {
		fmt.Printf("Interrupted at iteration %v, live cells: %v\n", st.IterationNum, st.LiveCells)
	}
	e.Close()
}

func initOptions() (eo *EnvOptions, cfg config.Config) {
	flags := config.DefaultConfig()
	interval := time.Duration(flags.Interval)
	eo = &EnvOptions{runs: 8}

	flaggy.SetName("torlife")
	flaggy.SetDescription("\"The Life\" game on the toroidal field")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&flags.Width, "x", "width", "Width of a simulation field")
	flaggy.Int(&flags.Height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&flags.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps, 0 means no limit")
	flaggy.Int(&flags.StagnationWindow, "", "stagnation", "Finish when a generation repeats one of the last N")
	flaggy.Int64(&flags.Seed, "", "seed", "Seed of the random data")
	flaggy.Bool(&flags.Random, "r", "random", "Settle with random data")
	flaggy.Bool(&flags.Noise, "", "noise", "Settle with perlin noise blobs")
	flaggy.Float64(&flags.NoiseScale, "", "noiseScale", "Cells per noise unit")
	flaggy.String(&eo.pattern, "p", "pattern", "Settle with the comma separated rows, for example 010,010,010")
	flaggy.String(&eo.configFile, "c", "config", "JSON configuration file")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.window, "w", "window", "Open the graphical window (needs the 'ebiten' build tag)")
	flaggy.Bool(&eo.showField, "f", "field", "Print the field when the simulation is finished")

	eo.sweep = flaggy.NewSubcommand("sweep")
	eo.sweep.Description = "Run many random universes to the end and print how they finished"
	eo.sweep.Int(&eo.runs, "", "runs", "Number of universes")
	eo.sweep.Int(&eo.parallel, "", "parallel", "Universes simulated at once, 0 means the number of CPUs")
	flaggy.AttachSubcommand(eo.sweep, 1)

	flaggy.Parse()

	flags.Interval = config.Duration(interval)
	if eo.pattern != "" {
		flags.Pattern = strings.Split(eo.pattern, ",")
	}

	cfg = flags
	if eo.configFile != "" {
		base, err := config.LoadConfig(eo.configFile)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		cfg = config.Merge(base, flags)
	}
	if err := cfg.Validate(); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	return
}

//settle creates the initial universe from the configuration
func settle(cfg config.Config) (*universe.Universe, error) {
	switch {
	case len(cfg.Pattern) > 0:
		p, err := seed.Pattern(strings.Join(cfg.Pattern, ","))
		if err != nil {
			return nil, err
		}
		return seed.Center(cfg.Height, cfg.Width, p)
	case cfg.Random:
		return universe.NewRandom(cfg.Height, cfg.Width, universe.NewRNG(cfg.Seed))
	case cfg.Noise:
		return seed.Noise(cfg.Height, cfg.Width, cfg.NoiseScale, cfg.Seed)
	}
	return testSample.Universe(cfg.Height, cfg.Width)
}

func runWindow(u *universe.Universe, cfg config.Config) {
	rng := universe.NewRNG(cfg.Seed + 1)
	reseed := func() (*universe.Universe, error) {
		if cfg.Noise {
			return seed.NoiseSeeder(cfg.NoiseScale)(cfg.Height, cfg.Width, rng)
		}
		return universe.NewRandom(cfg.Height, cfg.Width, rng)
	}
	tps := 10
	if cfg.Interval > 0 {
		tps = max(1, int(time.Second/time.Duration(cfg.Interval)))
	}
	err := view.ShowWindow(u, view.WindowOptions{Title: "The Life", TPS: tps, Reseed: reseed})
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func runSweep(eo *EnvOptions, cfg config.Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	maxSteps := cfg.MaxSteps
	if maxSteps == 0 {
		maxSteps = engine.DefMaxSteps
	}
	startTime := time.Now()
	results, err := sweep.Run(ctx, sweep.Options{
		Height:           cfg.Height,
		Width:            cfg.Width,
		Runs:             eo.runs,
		Parallel:         eo.parallel,
		Seed:             cfg.Seed,
		MaxSteps:         maxSteps,
		StagnationWindow: cfg.StagnationWindow,
	})
	if err != nil {
		log.Fatalf("%+v", err)
	}

	reasons := map[engine.FinishReason]int{}
	for _, r := range results {
		reasons[r.Reason]++
		fmt.Printf("seed %v: %v -> %v live cells after %v iterations (%v)\n",
			aurora.Cyan(r.Seed), r.InitialLive, r.LiveCells, r.Iterations, r.Reason)
	}
	fmt.Printf("%v runs in %v: ", len(results), time.Since(startTime).Round(time.Millisecond))
	for _, reason := range []engine.FinishReason{engine.FinishedExtinct, engine.FinishedStagnant, engine.FinishedMaxSteps} {
		fmt.Printf("%v %v ", aurora.Green(reasons[reason]), reason)
	}
	fmt.Println()
}
