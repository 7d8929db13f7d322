package seed

import (
	"strings"

	"github.com/pkg/errors"

	"torlife/src/universe"
)

//Pattern parses the comma separated rows, for example "010,010,010"
func Pattern(rows string) (*universe.Universe, error) {
	u, err := universe.Parse(strings.Split(strings.TrimSpace(rows), ",")...)
	if err != nil {
		return nil, errors.Wrapf(err, "[Pattern] failed to parse %q", rows)
	}
	return u, nil
}

//Place copies the pattern into the empty universe of the given size with its top left corner at row, col
//the pattern wraps around the edges of the field
func Place(height int, width int, p *universe.Universe, row int, col int) (*universe.Universe, error) {
	if height < 1 || width < 1 {
		return nil, errors.Wrapf(universe.ErrInvalidDimensions, "place: height %d, width %d", height, width)
	}
	cells := make([]universe.Cell, height*width)
	for r := 0; r < p.Height(); r++ {
		for c := 0; c < p.Width(); c++ {
			if p.Cell(r, c) != universe.Alive {
				continue
			}
			y := ((row+r)%height + height) % height
			x := ((col+c)%width + width) % width
			cells[y*width+x] = universe.Alive
		}
	}
	return universe.New(height, width, 0, cells)
}

//Center is Place with the pattern in the middle of the field
func Center(height int, width int, p *universe.Universe) (*universe.Universe, error) {
	return Place(height, width, p, (height-p.Height())/2, (width-p.Width())/2)
}
