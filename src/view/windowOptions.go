package view

import (
	"github.com/pkg/errors"

	"torlife/src/universe"
)

//ErrNoWindow is returned by ShowWindow when the binary is built without the 'ebiten' tag
var ErrNoWindow = errors.New("window support requires building with the 'ebiten' tag")

//WindowOptions configures the graphical window
type WindowOptions struct {
	Title  string
	Scale  int //pixels per cell
	TPS    int //ticks per second while running
	Reseed func() (*universe.Universe, error)
}

func (o WindowOptions) withDefaults() WindowOptions {
	if o.Title == "" {
		o.Title = "The Life"
	}
	if o.Scale <= 0 {
		o.Scale = 8
	}
	if o.TPS <= 0 {
		o.TPS = 10
	}
	return o
}
