package seed

import (
	"github.com/pkg/errors"

	"torlife/src/universe"
)

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

//Universe creates the universe of the given size with the template cells alive
//coordinates outside the field are skipped
func (t Template) Universe(height int, width int) (*universe.Universe, error) {
	if height < 1 || width < 1 {
		return nil, errors.Wrapf(universe.ErrInvalidDimensions, "template %q: height %d, width %d", t.Name, height, width)
	}
	cells := make([]universe.Cell, height*width)
	for _, v := range t.Coordinates {
		if len(v) != 2 {
			continue
		}
		x, y := v[0], v[1]
		if x < 0 || y < 0 || x >= width || y >= height {
			continue
		}
		cells[y*width+x] = universe.Alive
	}
	return universe.New(height, width, 0, cells)
}
