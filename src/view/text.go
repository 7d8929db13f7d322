package view

import (
	"strings"

	"torlife/src/engine"
	"torlife/src/universe"
)

//Text renders the frame, one filler per cell and one line per row
//the data outside maxW x maxH is discarded, zero limit means no limit
func Text(f engine.Frame, live string, dead string, maxW int, maxH int) (s string, cropped bool) {
	var b strings.Builder
	rows := f.Height
	if maxH > 0 && rows > maxH {
		rows = maxH
		cropped = true
	}
	cols := f.Width
	if maxW > 0 && cols > maxW {
		cols = maxW
		cropped = true
	}
	for row := 0; row < rows; row++ {
		//line feed char
		if row != 0 {
			b.WriteByte(10)
		}
		for _, c := range f.Row(row)[:cols] {
			if c == universe.Alive {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
	}
	return b.String(), cropped
}

//Symbols renders the frame with the cell symbols
func Symbols(f engine.Frame) string {
	s, _ := Text(f, string(universe.AliveSymbol), string(universe.DeadSymbol), 0, 0)
	return s
}

//FitText renders the frame into the view of maxW x maxH chars
//when the field doesn't fit, the warning takes the last visible line
func FitText(f engine.Frame, live string, dead string, maxW int, maxH int, warning string) string {
	if maxW < 1 || maxH < 1 {
		return ""
	}
	text, cropped := Text(f, live, dead, maxW, maxH)
	if !cropped {
		return text
	}
	if maxH == 1 {
		return warning
	}
	if f.Height >= maxH {
		text, _ = Text(f, live, dead, maxW, maxH-1)
	}
	return text + "\n" + warning
}
