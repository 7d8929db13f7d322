package engine

//CycleDetector remembers fingerprints of recent generations
//and reports when a generation repeats one of them (a still life or a short period oscillator)
type CycleDetector struct {
	window  int
	history []string
}

//NewCycleDetector creates the detector comparing against the last window generations
func NewCycleDetector(window int) *CycleDetector {
	if window < 1 {
		window = 1
	}
	return &CycleDetector{window: window, history: make([]string, 0, window)}
}

//Reset forgets the history and starts it from the initial generation
func (d *CycleDetector) Reset(hash string) {
	d.history = append(d.history[:0], hash)
}

//Repeats adds the generation to the history, returns true if it was seen in the window
func (d *CycleDetector) Repeats(hash string) bool {
	seen := false
	for _, h := range d.history {
		if h == hash {
			seen = true
			break
		}
	}
	d.history = append(d.history, hash)
	// Keep only last window states
	if len(d.history) > d.window {
		d.history = d.history[len(d.history)-d.window:]
	}
	return seen
}
