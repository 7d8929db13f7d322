package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"torlife/src/universe"
)

//Simulation is the interface viewers use to look at the simulation and to control it
type Simulation interface {
	Status() Status
	Options() Options
	Frame() Frame
	StateCh() chan Status
	Settle(u *universe.Universe)
	SettleWithRandomData()
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(s Simulation)
	Start()
}

//Seeder creates the universe used by SettleWithRandomData
type Seeder func(height int, width int, src universe.BoolSource) (*universe.Universe, error)

//ErrNoStateChannel is returned by RunUntil when the engine was created without the status channel
var ErrNoStateChannel = errors.New("engine has no status channel")

//ErrClosed is returned by RunUntil when the engine is closed before the simulation finishes
var ErrClosed = errors.New("engine is closed")

/*
	Engine owns one universe and runs the main loop over it
	every mutation of the universe is a command executed on the main loop goroutine,
	so ticks never overlap and viewers only see the snapshots taken between them
*/
type Engine struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	world struct {
		u *universe.Universe
		sync.Mutex
	}
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
	quit      chan struct{} //closed when the main loop has returned
	rng       *universe.RNG
	seeder    Seeder
	cycles    *CycleDetector
}

//New creates the Engine around the universe and starts its main loop
//nil universe means the empty one of the options dimensions
//stateCh can be nil, otherwise every running state change is written to it
func New(u *universe.Universe, o *Options, stateCh chan Status) (*Engine, error) {
	if o == nil {
		d := DefaultOptions
		o = &d
	}
	if u == nil {
		var err error
		if u, err = universe.NewEmpty(o.Height, o.Width); err != nil {
			return nil, errors.Wrap(err, "[engine.New] failed to create the universe")
		}
	}

	e := Engine{
		options:   *o,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		quit:      make(chan struct{}),
		stateCh:   stateCh,
		rng:       universe.NewRNG(o.Seed),
		seeder:    universe.NewRandom,
		cycles:    NewCycleDetector(o.StagnationWindow),
	}
	e.options.Advanced = make(map[string]interface{})
	for k, v := range o.Advanced {
		e.options.Advanced[k] = v
	}
	e.options.Advanced["seed"] = o.Seed
	e.settle(u)

	go e.mainLoop()
	return &e, nil
}

//SetSeeder replaces the generator used by SettleWithRandomData, call it before Run
func (e *Engine) SetSeeder(s Seeder) {
	if s != nil {
		e.seeder = s
	}
}

//Settle replaces the universe with the provided one and stops the simulation, returns immediately
func (e *Engine) Settle(u *universe.Universe) {
	if u == nil {
		return
	}
	e.send(func() {
		e.settle(u)
		e.switchRunningState(RunningStateManual)
		e.refreshView()
	})
}

//SettleWithRandomData populates the universe with random data, returns immediately
func (e *Engine) SettleWithRandomData() {
	mode := e.Status().RunningMode
	if mode != RunningStateManual && mode != RunningStateFinished {
		return
	}
	e.send(func() {
		o := e.Options()
		u, err := e.seeder(o.Height, o.Width, e.rng)
		if err != nil {
			log.Printf("engine: random settle failed: %+v", err)
			return
		}
		e.settle(u)
		e.switchRunningState(RunningStateManual)
		e.refreshView()
	})
}

//RegisterViewer registers the viewer - the engine will call the viewer when the state is changed
func (e *Engine) RegisterViewer(v Viewer) {
	e.views = append(e.views, v)
	v.Register(e)
}

//StateCh returns the channel with the engine's status updates
func (e *Engine) StateCh() chan Status {
	return e.stateCh
}

//Status returns current engine status represented by Status struct
func (e *Engine) Status() Status {
	e.state.Lock()
	defer e.state.Unlock()
	return e.state.Status
}

//Options returns current engine configuration represented by Options struct
func (e *Engine) Options() Options {
	e.world.Lock()
	defer e.world.Unlock()
	return e.options
}

//Frame returns the snapshot of the universe
func (e *Engine) Frame() Frame {
	e.world.Lock()
	defer e.world.Unlock()
	u := e.world.u
	return Frame{Height: u.Height(), Width: u.Width(), Iteration: u.Iteration(), Cells: u.Cells()}
}

//Run starts the simulation, returns immediately
func (e *Engine) Run() {
	e.send(e.run)
}

//Stop stops the simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (e *Engine) Stop() {
	e.send(e.stop)
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (e *Engine) Step() {
	e.send(e.step)
}

//Clear kills all cells and resets all counters, returns immediately
//the Status struct will be written to the stateCh on finish
func (e *Engine) Clear() {
	e.send(e.clear)
}

//Close stops the main loop and the running cycle, returns immediately
//commands sent to the closed engine are dropped
func (e *Engine) Close() {
	e.closeOnce.Do(func() { close(e.closeCh) })
}

//send queues the command for the main loop, reports false when the loop is gone
func (e *Engine) send(cmd func()) bool {
	select {
	case <-e.quit:
		return false
	default:
	}
	select {
	case e.controlCh <- cmd:
		return true
	case <-e.quit:
		return false
	}
}

//exec sends the command and waits until the main loop has executed it
func (e *Engine) exec(cmd func()) bool {
	done := make(chan struct{}, 1)
	if !e.send(func() {
		cmd()
		done <- struct{}{}
	}) {
		return false
	}
	select {
	case <-done:
		return true
	case <-e.quit:
		return false
	}
}

//RunUntil runs the simulation until it finishes or ctx is done
//it consumes the status channel, so it can't be combined with other readers of it
func (e *Engine) RunUntil(ctx context.Context) (Status, error) {
	if e.stateCh == nil {
		return e.Status(), ErrNoStateChannel
	}
	if st := e.Status(); st.RunningMode == RunningStateFinished {
		return st, nil
	}
	e.Run()
	for {
		select {
		case <-ctx.Done():
			e.Stop()
			//wait for the run cycle to leave, the last step is never interrupted
			for {
				select {
				case st := <-e.stateCh:
					if st.RunningMode == RunningStateManual || st.RunningMode == RunningStateFinished {
						return st, ctx.Err()
					}
				case <-e.quit:
					return e.Status(), ctx.Err()
				}
			}
		case st := <-e.stateCh:
			if st.RunningMode == RunningStateFinished {
				return st, nil
			}
		case <-e.quit:
			return e.Status(), ErrClosed
		}
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (e *Engine) mainLoop() {
	defer close(e.quit)
	for {
		select {
		case cmd := <-e.controlCh:
			cmd()
		case <-e.closeCh:
			return
		}
	}
}

//settle installs the universe and restarts the counters from it
func (e *Engine) settle(u *universe.Universe) {
	e.world.Lock()
	e.world.u = u
	e.options.Height = u.Height()
	e.options.Width = u.Width()
	e.cycles.Reset(u.Hash())
	live := u.LiveCells()
	iteration := u.Iteration()
	e.world.Unlock()

	e.state.Lock()
	e.state.IterationNum = iteration
	e.state.LiveCells = live
	e.state.IterationTime = 0
	e.state.Reason = ""
	e.state.Unlock()
}

//switchRunningState switch the state of the engine to RunningState
//also writes the new state to the stateCh to signal upper control software
func (e *Engine) switchRunningState(to RunningState) {
	e.state.Lock()
	e.state.RunningMode = to
	if to != RunningStateFinished {
		e.state.Reason = ""
	}
	st := e.state.Status
	e.state.Unlock()
	if e.stateCh != nil {
		e.stateCh <- st
	}
}

func (e *Engine) finish(reason FinishReason) {
	e.state.Lock()
	e.state.Reason = reason
	e.state.Unlock()
	e.switchRunningState(RunningStateFinished)
}

//run starts the simulation cycle
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (e *Engine) run() {
	if e.Status().RunningMode != RunningStateManual {
		return
	}
	e.switchRunningState(RunningStateRun)
	go func() {
		skipped := 0
		for {
			mode := e.Status().RunningMode
			if mode != RunningStateRun && mode != RunningStateStep {
				return
			}
			if skipped > e.options.MaxSkippedTicks {
				e.exec(func() { e.finish(FinishedSkipped) })
				return
			}
			//skip the tick if the engine is still in the calculation mode
			if mode != RunningStateStep {
				skipped = 0
				ok := e.exec(func() {
					//the command could be queued behind Stop
					if e.Status().RunningMode == RunningStateRun {
						e.step()
					}
				})
				if !ok {
					return
				}
			} else {
				skipped++
			}
			if e.options.Interval > 0 {
				select {
				case <-time.After(e.options.Interval):
				case <-e.quit:
					return
				}
			}
		}
	}()
}

//stop stops the running cycle
func (e *Engine) stop() {
	if e.Status().RunningMode == RunningStateRun {
		e.switchRunningState(RunningStateManual)
	}
}

//step does the new one state calculation for entire universe
func (e *Engine) step() {
	rm := e.Status().RunningMode
	if rm == RunningStateFinished {
		return
	}
	e.switchRunningState(RunningStateStep)
	reason := e.nextIteration()
	if reason != "" {
		e.finish(reason)
	} else {
		e.switchRunningState(rm)
	}
	e.refreshView()
}

//clear replaces the universe with the empty one, resets all counters
func (e *Engine) clear() {
	o := e.Options()
	u, err := universe.NewEmpty(o.Height, o.Width)
	if err != nil {
		log.Printf("engine: clear failed: %+v", err)
		return
	}
	e.settle(u)
	e.switchRunningState(RunningStateManual)
	e.refreshView()
}

//nextIteration ticks the universe and reports why the simulation should finish, if it should
func (e *Engine) nextIteration() FinishReason {
	e.world.Lock()
	start := time.Now()
	e.world.u.Tick()
	iteration := e.world.u.Iteration()
	live := e.world.u.LiveCells()
	repeats := e.cycles.Repeats(e.world.u.Hash())
	e.world.Unlock()

	e.state.Lock()
	e.state.IterationNum = iteration
	e.state.LiveCells = live
	e.state.IterationTime = time.Since(start)
	e.state.Unlock()

	return CheckFinish(live, repeats, iteration, e.options.MaxSteps)
}

//CheckFinish returns the reason to finish the simulation after the tick, empty if it should go on
//zero maxSteps means no limit
func CheckFinish(live int, repeats bool, iteration int, maxSteps int) FinishReason {
	switch {
	case live == 0:
		return FinishedExtinct
	case repeats:
		return FinishedStagnant
	case maxSteps != 0 && iteration >= maxSteps:
		return FinishedMaxSteps
	}
	return ""
}

//refreshView calls Refresh event for all registered views
func (e *Engine) refreshView() {
	for _, v := range e.views {
		v.Refresh()
	}
}
