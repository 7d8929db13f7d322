package seed

import (
	"github.com/aquilax/go-perlin"
	"github.com/pkg/errors"

	"torlife/src/universe"
)

const (
	noiseAlpha  = 2.
	noiseBeta   = 2.
	noiseOctave = 3
	//DefNoiseScale is the number of cells per noise unit
	DefNoiseScale = 8.
)

//Noise creates the universe with blobs of live cells where the perlin noise is positive
//the same seed and scale give the same universe
func Noise(height int, width int, scale float64, seed int64) (*universe.Universe, error) {
	if height < 1 || width < 1 {
		return nil, errors.Wrapf(universe.ErrInvalidDimensions, "noise: height %d, width %d", height, width)
	}
	if scale <= 0 {
		scale = DefNoiseScale
	}
	p := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed)
	cells := make([]universe.Cell, height*width)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if p.Noise2D(float64(col)/scale, float64(row)/scale) > 0 {
				cells[row*width+col] = universe.Alive
			}
		}
	}
	return universe.New(height, width, 0, cells)
}

//NoiseSeeder returns the random settling function drawing the noise seed from src
func NoiseSeeder(scale float64) func(height int, width int, src universe.BoolSource) (*universe.Universe, error) {
	return func(height int, width int, src universe.BoolSource) (*universe.Universe, error) {
		return Noise(height, width, scale, seedFrom(src))
	}
}

func seedFrom(src universe.BoolSource) (seed int64) {
	if src == nil {
		return 0
	}
	for i := 0; i < 63; i++ {
		seed <<= 1
		if src.Bool() {
			seed |= 1
		}
	}
	return
}
