package view

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"torlife/src/engine"
)

//ConsoleOut is the non-interactive viewer printing the progress of the simulation
type ConsoleOut struct {
	s         engine.Simulation
	w         io.Writer
	au        aurora.Aurora
	startTime time.Time
	showField bool
	every     int
}

//NewConsoleOut creates the viewer writing to w
//colors enables ANSI colors, showField prints the field when the simulation is finished
func NewConsoleOut(w io.Writer, colors bool, showField bool) *ConsoleOut {
	return &ConsoleOut{w: w, au: aurora.NewAurora(colors), showField: showField, every: 10}
}

func (c *ConsoleOut) Refresh() {
	st := c.s.Status()
	if st.RunningMode == engine.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Live cells":     st.LiveCells,
			"Reason":         st.Reason,
		}
		fmt.Fprintln(c.w, c.au.Red("\nFinished:"))
		c.printHashData(resultData)
		if c.showField {
			fmt.Fprintln(c.w, Symbols(c.s.Frame()))
		}
	} else if st.RunningMode == engine.RunningStateRun {
		if st.IterationNum%c.every == 0 {
			fmt.Fprintf(c.w, "  Iterations done: %v, live cells: %v\n", c.au.Cyan(st.IterationNum), st.LiveCells)
		}
	}
}

func (c *ConsoleOut) Register(s engine.Simulation) {
	c.s = s
	o := c.s.Options()
	fmt.Fprintln(c.w, c.au.Green("Running configuration:"))
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
