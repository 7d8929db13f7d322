package engine

import (
	"time"

	"torlife/src/universe"
)

//Options represents the Engine's configurable options
type Options struct {
	Width            int
	Height           int
	Interval         time.Duration
	MaxSteps         int
	MaxSkippedTicks  int
	StagnationWindow int   //how many previous generations are compared to detect cycles, at least 1
	Seed             int64 //seed of the random settling
	Advanced         map[string]interface{}
}

//Status represents the status of the Engine at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	Reason        FinishReason //set when RunningMode is RunningStateFinished
}

//Frame is the read-only snapshot of the universe handed to viewers between ticks
type Frame struct {
	Height    int
	Width     int
	Iteration int
	Cells     []universe.Cell
}

//Cell returns the state at row, col
func (f Frame) Cell(row int, col int) universe.Cell {
	return f.Cells[row*f.Width+col]
}

//Row returns the cells of one row
func (f Frame) Row(row int) []universe.Cell {
	return f.Cells[row*f.Width : (row+1)*f.Width]
}

//RunningState is the engine running status at the concrete moment
type RunningState int

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

func (s RunningState) String() string {
	switch s {
	case RunningStateManual:
		return "waiting"
	case RunningStateStep:
		return "do the step"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

//FinishReason explains why the simulation has been finished
type FinishReason string

const (
	FinishedMaxSteps FinishReason = "max steps reached"
	FinishedExtinct  FinishReason = "extinction"
	FinishedStagnant FinishReason = "stagnation detected"
	FinishedSkipped  FinishReason = "too many skipped ticks"
)

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 40
	DefHeight             = 15
	DefMaxSkippedTicks    = 5
	DefStagnationWindow   = 3
)

var DefaultOptions = Options{
	Width:            DefWidth,
	Height:           DefHeight,
	Interval:         DefSimulationInterval,
	MaxSteps:         DefMaxSteps,
	MaxSkippedTicks:  DefMaxSkippedTicks,
	StagnationWindow: DefStagnationWindow,
}
