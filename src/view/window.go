//go:build ebiten

package view

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"torlife/src/universe"
)

//Window adapts the universe to the ebiten.Game interface
//ebiten calls Update and Draw from the same goroutine, so the window owns the universe exclusively
type Window struct {
	u      *universe.Universe
	reseed func() (*universe.Universe, error)
	img    *ebiten.Image
	buf    []byte

	onColor  color.RGBA
	offColor color.RGBA

	scale   int
	running bool
}

func newWindow(u *universe.Universe, o WindowOptions) *Window {
	return &Window{
		u:        u,
		reseed:   o.Reseed,
		img:      ebiten.NewImage(u.Width(), u.Height()),
		buf:      make([]byte, 4*u.Width()*u.Height()),
		onColor:  color.RGBA{R: 0x20, G: 0xc0, B: 0x40, A: 0xff},
		offColor: color.RGBA{A: 0xff},
		scale:    o.Scale,
	}
}

//Update handles the input and advances the universe
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		w.running = !w.running
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && w.reseed != nil {
		u, err := w.reseed()
		if err != nil {
			return err
		}
		if u.Width() == w.u.Width() && u.Height() == w.u.Height() {
			w.u = u
		}
	}
	tick := w.running ||
		inpututil.IsKeyJustPressed(ebiten.KeyN) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	if tick {
		w.u.Tick()
	}
	return nil
}

//Draw renders the current generation
func (w *Window) Draw(screen *ebiten.Image) {
	fillRGBA(w.buf, w.u.Cells(), w.onColor, w.offColor)
	w.img.WritePixels(w.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.img, op)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("iteration %d, live %d", w.u.Iteration(), w.u.LiveCells()))
}

//Layout returns the logical screen size
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.u.Width() * w.scale, w.u.Height() * w.scale
}

//ShowWindow opens the window and blocks until it's closed
func ShowWindow(u *universe.Universe, o WindowOptions) error {
	o = o.withDefaults()
	w := newWindow(u, o)
	ebiten.SetWindowTitle(o.Title)
	ebiten.SetTPS(o.TPS)
	ebiten.SetWindowSize(u.Width()*o.Scale, u.Height()*o.Scale)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
