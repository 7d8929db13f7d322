package sweep

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"torlife/src/engine"
	"torlife/src/universe"
)

var ErrInvalidOptions = errors.New("invalid sweep options")

//Options describes the batch of independent random universes
type Options struct {
	Height           int
	Width            int
	Runs             int
	Parallel         int   //maximum universes simulated at once, 0 means the number of CPUs
	Seed             int64 //seed of the first run, the run i uses Seed+i
	MaxSteps         int
	StagnationWindow int
}

//Result is the outcome of one run
type Result struct {
	Seed        int64
	InitialLive int
	Iterations  int
	LiveCells   int
	Reason      engine.FinishReason
}

func (o Options) validate() error {
	switch {
	case o.Height < 1 || o.Width < 1:
		return errors.Wrapf(ErrInvalidOptions, "field size %dx%d", o.Width, o.Height)
	case o.Runs < 1:
		return errors.Wrapf(ErrInvalidOptions, "runs %d", o.Runs)
	case o.MaxSteps < 1:
		return errors.Wrapf(ErrInvalidOptions, "max steps %d, the sweep needs the limit", o.MaxSteps)
	case o.Parallel < 0:
		return errors.Wrapf(ErrInvalidOptions, "parallel %d", o.Parallel)
	}
	return nil
}

//Run simulates every universe of the batch until it finishes
//each universe is owned by a single goroutine, the results are ordered by the run number
func Run(ctx context.Context, o Options) ([]Result, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	parallel := o.Parallel
	if parallel == 0 {
		parallel = runtime.NumCPU()
	}

	results := make([]Result, o.Runs)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)
	for i := range o.Runs {
		eg.Go(func() error {
			r, err := runOne(ctx, o, o.Seed+int64(i))
			if err != nil {
				return errors.Wrapf(err, "[sweep.Run] run %d", i)
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, o Options, seed int64) (Result, error) {
	u, err := universe.NewRandom(o.Height, o.Width, universe.NewRNG(seed))
	if err != nil {
		return Result{}, err
	}
	r := Result{Seed: seed, InitialLive: u.LiveCells()}
	cycles := engine.NewCycleDetector(o.StagnationWindow)
	cycles.Reset(u.Hash())
	for r.Reason == "" {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		u.Tick()
		r.Iterations = u.Iteration()
		r.LiveCells = u.LiveCells()
		r.Reason = engine.CheckFinish(r.LiveCells, cycles.Repeats(u.Hash()), r.Iterations, o.MaxSteps)
	}
	return r, nil
}
