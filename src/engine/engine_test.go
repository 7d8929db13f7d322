package engine

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"torlife/src/universe"
)

func newStateCh() chan Status {
	return make(chan Status, 10)
}

func testOptions() *Options {
	o := DefaultOptions
	o.Interval = 0
	return &o
}

func parse(t testing.TB, rows ...string) *universe.Universe {
	t.Helper()
	u, err := universe.Parse(rows...)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

//waitFor reads the statuses until the mode appears
func waitFor(t *testing.T, ch chan Status, mode RunningState) Status {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-ch:
			if st.RunningMode == mode {
				return st
			}
		case <-timeout:
			t.Fatalf("timeout waiting for %v", mode)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	e, err := New(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	f := e.Frame()
	if f.Height != DefHeight || f.Width != DefWidth || len(f.Cells) != DefHeight*DefWidth {
		t.Fatalf("unexpected frame %dx%d", f.Height, f.Width)
	}
	if st := e.Status(); st.RunningMode != RunningStateManual || st.LiveCells != 0 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestNewInvalidDimensions(t *testing.T) {
	o := testOptions()
	o.Width = 0
	if _, err := New(nil, o, nil); !errors.Is(err, universe.ErrInvalidDimensions) {
		t.Fatalf("got %v", err)
	}
}

func TestStep(t *testing.T) {
	ch := newStateCh()
	u := parse(t,
		".....",
		"..#..",
		"..#..",
		"..#..",
		".....",
	)
	e, err := New(u, testOptions(), ch)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	e.Step()
	if st := <-ch; st.RunningMode != RunningStateStep {
		t.Fatalf("first status %v, want step", st.RunningMode)
	}
	st := <-ch
	if st.RunningMode != RunningStateManual || st.IterationNum != 1 {
		t.Fatalf("after step: %+v", st)
	}
	if st.LiveCells != 3 || liveCells(e.Frame()) != 3 {
		t.Fatalf("live cells %d, want 3", st.LiveCells)
	}
	if f := e.Frame(); f.Iteration != 1 {
		t.Fatalf("frame iteration %d", f.Iteration)
	}
}

func liveCells(f Frame) (n int) {
	for _, c := range f.Cells {
		if c == universe.Alive {
			n++
		}
	}
	return
}

func TestFrameIsSnapshot(t *testing.T) {
	e, err := New(parse(t, "#.", ".#"), testOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	f := e.Frame()
	f.Cells[0] = universe.Dead
	if e.Frame().Cell(0, 0) != universe.Alive {
		t.Fatal("frame aliases the universe")
	}
	if r := e.Frame().Row(1); len(r) != 2 || r[1] != universe.Alive {
		t.Fatalf("unexpected row %v", r)
	}
}

func TestRunFinishesOnExtinction(t *testing.T) {
	ch := newStateCh()
	e, err := New(parse(t, "...", ".#.", "..."), testOptions(), ch)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.Run()
	st := waitFor(t, ch, RunningStateFinished)
	if st.Reason != FinishedExtinct || st.IterationNum != 1 || st.LiveCells != 0 {
		t.Fatalf("unexpected finish %+v", st)
	}
}

func TestRunFinishesOnStagnation(t *testing.T) {
	ch := newStateCh()
	e, err := New(parse(t, "#.#.", ".#.#", "#.#.", ".#.#"), testOptions(), ch)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.Run()
	st := waitFor(t, ch, RunningStateFinished)
	if st.Reason != FinishedStagnant || st.IterationNum != 1 {
		t.Fatalf("unexpected finish %+v", st)
	}
}

func TestRunFinishesOnMaxSteps(t *testing.T) {
	ch := newStateCh()
	o := testOptions()
	o.MaxSteps = 1
	u := parse(t,
		".....",
		"..#..",
		"..#..",
		"..#..",
		".....",
	)
	e, err := New(u, o, ch)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	st, err := e.RunUntil(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.RunningMode != RunningStateFinished || st.Reason != FinishedMaxSteps {
		t.Fatalf("unexpected finish %+v", st)
	}
	if st.IterationNum != 1 || st.LiveCells != 3 {
		t.Fatalf("finished on max steps %+v", st)
	}
	//finished engine ignores further runs
	again, err := e.RunUntil(context.Background())
	if err != nil || again.IterationNum != st.IterationNum {
		t.Fatalf("second run: %+v %v", again, err)
	}
}

//next reads one status or fails the test
func next(t *testing.T, ch chan Status) Status {
	t.Helper()
	select {
	case st := <-ch:
		return st
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for the status")
	}
	return Status{}
}

func TestRunFinishesOnSkippedTicks(t *testing.T) {
	//unbuffered, so the engine stays in the step mode until the status is read
	ch := make(chan Status)
	o := testOptions()
	o.Interval = 50 * time.Millisecond
	o.MaxSteps = 0
	o.MaxSkippedTicks = 1
	o.StagnationWindow = 1
	u := parse(t,
		".....",
		"..#..",
		"..#..",
		"..#..",
		".....",
	)
	e, err := New(u, o, ch)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	e.Run()
	for _, want := range []RunningState{RunningStateRun, RunningStateStep, RunningStateRun} {
		if st := next(t, ch); st.RunningMode != want {
			t.Fatalf("got %v, want %v", st.RunningMode, want)
		}
	}
	//the manual step holds the engine in the step mode while the run cycle ticks
	e.Step()
	time.Sleep(400 * time.Millisecond)

	for _, want := range []RunningState{RunningStateStep, RunningStateRun} {
		if st := next(t, ch); st.RunningMode != want {
			t.Fatalf("got %v, want %v", st.RunningMode, want)
		}
	}
	st := next(t, ch)
	if st.RunningMode != RunningStateFinished || st.Reason != FinishedSkipped {
		t.Fatalf("unexpected finish %+v", st)
	}
	if st.IterationNum != 2 {
		t.Fatalf("finished at %d", st.IterationNum)
	}
}

func TestCloseWhileRunning(t *testing.T) {
	before := runtime.NumGoroutine()
	o := testOptions()
	o.Interval = time.Millisecond
	o.MaxSteps = 0
	u, err := universe.NewRandom(40, 40, universe.NewRNG(3))
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(u, o, nil)
	if err != nil {
		t.Fatal(err)
	}
	e.Run()
	deadline := time.Now().Add(5 * time.Second)
	for st := e.Status(); st.IterationNum < 3 && st.RunningMode != RunningStateFinished; st = e.Status() {
		if time.Now().After(deadline) {
			t.Fatal("the simulation did not start")
		}
		time.Sleep(time.Millisecond)
	}
	e.Close()
	e.Close()

	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines before %d after %d", before, runtime.NumGoroutine())
		}
		time.Sleep(5 * time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		for range 5 {
			e.Step()
			e.Run()
			e.Stop()
			e.Clear()
			e.SettleWithRandomData()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("commands block on the closed engine")
	}
}

func TestRunUntilClosed(t *testing.T) {
	o := testOptions()
	o.Interval = time.Millisecond
	o.MaxSteps = 0
	u, err := universe.NewRandom(40, 40, universe.NewRNG(3))
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(u, o, newStateCh())
	if err != nil {
		t.Fatal(err)
	}
	e.Close()
	st, err := e.RunUntil(context.Background())
	if st.RunningMode == RunningStateFinished {
		return
	}
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("got %v", err)
	}
}

func TestRunUntilCancel(t *testing.T) {
	ch := newStateCh()
	o := testOptions()
	o.Interval = 10 * time.Millisecond
	o.MaxSteps = 0
	u, err := universe.NewRandom(60, 60, universe.NewRNG(3))
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(u, o, ch)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	st, err := e.RunUntil(ctx)
	if st.RunningMode == RunningStateFinished {
		//the field died out before the deadline, nothing to check
		return
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v", err)
	}
	if st.RunningMode != RunningStateManual {
		t.Fatalf("unexpected mode %v", st.RunningMode)
	}
}

func TestRunUntilWithoutStateCh(t *testing.T) {
	e, err := New(nil, testOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if _, err := e.RunUntil(context.Background()); !errors.Is(err, ErrNoStateChannel) {
		t.Fatalf("got %v", err)
	}
}

func TestClear(t *testing.T) {
	ch := newStateCh()
	e, err := New(parse(t, "##", "##"), testOptions(), ch)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.Step()
	waitFor(t, ch, RunningStateFinished)
	e.Clear()
	st := waitFor(t, ch, RunningStateManual)
	if st.IterationNum != 0 || st.LiveCells != 0 || st.Reason != "" {
		t.Fatalf("unexpected status after clear %+v", st)
	}
	if liveCells(e.Frame()) != 0 {
		t.Fatal("cells survived clear")
	}
}

func TestSettleWithRandomData(t *testing.T) {
	ch := newStateCh()
	o := testOptions()
	o.Seed = 11
	e, err := New(nil, o, ch)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.SettleWithRandomData()
	st := waitFor(t, ch, RunningStateManual)

	want, _ := universe.NewRandom(o.Height, o.Width, universe.NewRNG(11))
	f := e.Frame()
	if st.LiveCells != want.LiveCells() || liveCells(f) != want.LiveCells() {
		t.Fatalf("live cells %d, want %d", st.LiveCells, want.LiveCells())
	}
	for i, c := range want.Cells() {
		if f.Cells[i] != c {
			t.Fatalf("cell %d differs", i)
		}
	}
}

func TestSetSeeder(t *testing.T) {
	ch := newStateCh()
	e, err := New(nil, testOptions(), ch)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.SetSeeder(func(height, width int, _ universe.BoolSource) (*universe.Universe, error) {
		return universe.Parse("#")
	})
	e.SettleWithRandomData()
	waitFor(t, ch, RunningStateManual)
	if f := e.Frame(); f.Height != 1 || f.Width != 1 || f.Cells[0] != universe.Alive {
		t.Fatalf("seeder was not used: %+v", f)
	}
	if o := e.Options(); o.Height != 1 || o.Width != 1 {
		t.Fatalf("options keep the old dimensions %dx%d", o.Height, o.Width)
	}
}

type countingViewer struct {
	s       Simulation
	refresh chan Frame
}

func (v *countingViewer) Refresh()              { v.refresh <- v.s.Frame() }
func (v *countingViewer) Register(s Simulation) { v.s = s }
func (v *countingViewer) Start()                {}

func TestViewerRefresh(t *testing.T) {
	e, err := New(parse(t, "...", "###", "..."), testOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	v := &countingViewer{refresh: make(chan Frame, 4)}
	e.RegisterViewer(v)
	if v.s == nil {
		t.Fatal("viewer was not registered")
	}
	e.Step()
	select {
	case f := <-v.refresh:
		if f.Iteration != 1 {
			t.Fatalf("refresh saw iteration %d", f.Iteration)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("viewer was not refreshed")
	}
}

func TestSettle(t *testing.T) {
	ch := newStateCh()
	e, err := New(nil, testOptions(), ch)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	e.Settle(parse(t, "#.#", "..."))
	st := waitFor(t, ch, RunningStateManual)
	if st.LiveCells != 2 {
		t.Fatalf("live cells %d", st.LiveCells)
	}
	if f := e.Frame(); f.Height != 2 || f.Width != 3 {
		t.Fatalf("frame %dx%d", f.Height, f.Width)
	}
}

func TestRunningStateString(t *testing.T) {
	for s, want := range map[RunningState]string{
		RunningStateManual:   "waiting",
		RunningStateStep:     "do the step",
		RunningStateRun:      "running",
		RunningStateFinished: "finished",
		RunningState(42):     "unknown",
	} {
		if s.String() != want {
			t.Errorf("%d: %q", s, s.String())
		}
	}
}

func TestCheckFinish(t *testing.T) {
	cases := []struct {
		live      int
		repeats   bool
		iteration int
		maxSteps  int
		want      FinishReason
	}{
		{0, true, 5, 5, FinishedExtinct},
		{3, true, 5, 5, FinishedStagnant},
		{3, false, 5, 5, FinishedMaxSteps},
		{3, false, 4, 5, ""},
		{3, false, 500, 0, ""},
	}
	for _, c := range cases {
		if got := CheckFinish(c.live, c.repeats, c.iteration, c.maxSteps); got != c.want {
			t.Errorf("%+v: got %q", c, got)
		}
	}
}
