//go:build !ebiten

package view

import "torlife/src/universe"

//ShowWindow reports that the binary was built without the window support
func ShowWindow(*universe.Universe, WindowOptions) error {
	return ErrNoWindow
}
