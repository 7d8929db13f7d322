package view

import (
	"image/color"

	"torlife/src/universe"
)

//fillRGBA converts the cells into RGBA pixels in buf, 4 bytes per cell
func fillRGBA(buf []byte, cells []universe.Cell, on color.RGBA, off color.RGBA) {
	for i, c := range cells {
		col := off
		if c == universe.Alive {
			col = on
		}
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
