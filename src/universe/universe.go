package universe

import (
	"crypto/md5"
	"fmt"
	"iter"
	"strings"

	"github.com/pkg/errors"
)

/*
	Universe is the toroidal grid of cells
	cells are stored in the row-major order, the cell (row, col) lives at row*width+col
	every edge wraps to the opposite one, so each cell has exactly 8 neighbours
	Universe isn't safe for concurrent use, the owner has to serialize Tick calls
*/
type Universe struct {
	height    int
	width     int
	iteration int
	cells     []Cell
}

//New creates the universe from an explicit cells buffer
//the buffer must hold exactly height*width cells, it is copied
func New(height int, width int, iteration int, cells []Cell) (*Universe, error) {
	if err := checkDimensions(height, width); err != nil {
		return nil, err
	}
	if len(cells) != height*width {
		return nil, errors.Wrapf(ErrDimensionMismatch, "got %d cells for %dx%d", len(cells), height, width)
	}
	buf := make([]Cell, len(cells))
	copy(buf, cells)
	return &Universe{height: height, width: width, iteration: iteration, cells: buf}, nil
}

//NewEmpty creates the universe with all cells dead
func NewEmpty(height int, width int) (*Universe, error) {
	if err := checkDimensions(height, width); err != nil {
		return nil, err
	}
	return &Universe{height: height, width: width, cells: make([]Cell, height*width)}, nil
}

//NewRandom creates the universe where every cell is alive with probability 0.5
//src nil means the process-global generator
func NewRandom(height int, width int, src BoolSource) (*Universe, error) {
	u, err := NewEmpty(height, width)
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = globalSource{}
	}
	for i := range u.cells {
		if src.Bool() {
			u.cells[i] = Alive
		}
	}
	return u, nil
}

func (u *Universe) Height() int {
	return u.height
}

func (u *Universe) Width() int {
	return u.width
}

//Iteration returns the number of ticks applied since the construction (plus the initial value)
func (u *Universe) Iteration() int {
	return u.iteration
}

//Index maps row and col to the position in the cells buffer
func (u *Universe) Index(row int, col int) int {
	return row*u.width + col
}

//Cell returns the state at row, col
func (u *Universe) Cell(row int, col int) Cell {
	return u.cells[u.Index(row, col)]
}

//Cells returns the copy of the cells buffer
func (u *Universe) Cells() []Cell {
	c := make([]Cell, len(u.cells))
	copy(c, u.cells)
	return c
}

//LiveCells calculates the count of live cells
func (u *Universe) LiveCells() (n int) {
	for _, c := range u.cells {
		if c == Alive {
			n++
		}
	}
	return
}

//LiveNeighborCount counts live cells around row, col with the wraparound
//the offsets height-1 and width-1 are the same as -1 modulo the dimension
func (u *Universe) LiveNeighborCount(row int, col int) int {
	count := 0
	for _, dr := range [3]int{u.height - 1, 0, 1} {
		for _, dc := range [3]int{u.width - 1, 0, 1} {
			//skip my position
			if dr == 0 && dc == 0 {
				continue
			}
			nr := (row + dr) % u.height
			nc := (col + dc) % u.width
			count += u.cells[u.Index(nr, nc)].weight()
		}
	}
	return count
}

//Tick advances the universe by one generation
//all counts are taken from the current buffer, the results are written to the copy which then replaces it
func (u *Universe) Tick() {
	u.iteration++
	next := u.Cells()
	for row := 0; row < u.height; row++ {
		for col := 0; col < u.width; col++ {
			idx := u.Index(row, col)
			n := u.LiveNeighborCount(row, col)
			if n < 2 {
				next[idx] = Dead
			} else if n == 3 {
				next[idx] = Alive
			} else if n > 4 {
				next[idx] = Dead
			}
			//2 and 4 keep the current state
		}
	}
	u.cells = next
}

//Display yields the rows top to bottom, one symbol per cell
func (u *Universe) Display() iter.Seq[string] {
	return func(yield func(string) bool) {
		var b strings.Builder
		for row := 0; row < u.height; row++ {
			b.Reset()
			for _, c := range u.cells[row*u.width : (row+1)*u.width] {
				b.WriteRune(c.Symbol())
			}
			if !yield(b.String()) {
				return
			}
		}
	}
}

func (u *Universe) String() string {
	lines := make([]string, 0, u.height)
	for l := range u.Display() {
		lines = append(lines, l)
	}
	return strings.Join(lines, "\n")
}

//Hash returns the md5 fingerprint of the cells, the iteration isn't included
func (u *Universe) Hash() string {
	h := md5.New()
	b := make([]byte, len(u.cells))
	for i, c := range u.cells {
		b[i] = byte(c)
	}
	h.Write(b)
	return fmt.Sprintf("%x", h.Sum(nil))
}
