package universe

//Cell is the state of one grid position, either Dead or Alive
type Cell uint8

const (
	Dead Cell = iota
	Alive
)

const (
	AliveSymbol = '◼'
	DeadSymbol  = '◻'
)

//weight converts the cell to its contribution to a neighbour count: 1 for Alive, 0 for Dead
//it's used only by the neighbour counting
func (c Cell) weight() int {
	if c == Alive {
		return 1
	}
	return 0
}

//Symbol returns the rune used to render the cell
func (c Cell) Symbol() rune {
	if c == Alive {
		return AliveSymbol
	}
	return DeadSymbol
}

func (c Cell) String() string {
	if c == Alive {
		return "Alive"
	}
	return "Dead"
}
