package universe

import "github.com/pkg/errors"

//Parse creates the universe from text rows, one rune per cell
//alive: ◼ # * O 1, dead: ◻ . _ 0
func Parse(lines ...string) (*Universe, error) {
	if len(lines) == 0 {
		return nil, errors.Wrap(ErrInvalidDimensions, "no rows")
	}
	width := -1
	cells := make([]Cell, 0, len(lines)*len(lines[0]))
	for i, l := range lines {
		n := 0
		for _, r := range l {
			c, ok := parseSymbol(r)
			if !ok {
				return nil, errors.Wrapf(ErrUnknownSymbol, "%q at row %d", r, i)
			}
			cells = append(cells, c)
			n++
		}
		if width == -1 {
			width = n
		} else if n != width {
			return nil, errors.Wrapf(ErrRaggedRows, "row %d has %d cells, expected %d", i, n, width)
		}
	}
	return New(len(lines), width, 0, cells)
}

func parseSymbol(r rune) (Cell, bool) {
	switch r {
	case AliveSymbol, '#', '*', 'O', '1':
		return Alive, true
	case DeadSymbol, '.', '_', '0':
		return Dead, true
	}
	return Dead, false
}
