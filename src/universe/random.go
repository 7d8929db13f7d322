package universe

import "math/rand/v2"

//BoolSource is any uniform boolean generator used to seed the universe
type BoolSource interface {
	Bool() bool
}

//RNG is a deterministic BoolSource backed by the PCG generator
type RNG struct {
	r *rand.Rand
}

//NewRNG creates a deterministic RNG using the provided seed
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

//Bool returns Alive and Dead decisions with equal probability
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

type globalSource struct{}

func (globalSource) Bool() bool {
	return rand.IntN(2) == 1
}
