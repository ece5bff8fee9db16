package systems

import (
	"math"
	"math/rand"
)

// HeightField supplies terrain heights. It is consulted only to set
// Y-coordinates and never gates economy decisions.
type HeightField interface {
	HeightAt(x, z float64) float64
}

// Terrain is a value-noise height field with a few fbm octaves. Enough
// relief to make positions three-dimensional without a real terrain
// system behind it.
type Terrain struct {
	perm      [512]int
	Amplitude float64
	Scale     float64
	Octaves   int
}

// NewTerrain creates a height field from a seed.
func NewTerrain(seed int64, amplitude, scale float64) *Terrain {
	t := &Terrain{Amplitude: amplitude, Scale: scale, Octaves: 4}
	rng := rand.New(rand.NewSource(seed))

	var perm [256]int
	for i := range perm {
		perm[i] = i
	}
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	for i := 0; i < 256; i++ {
		t.perm[i] = perm[i]
		t.perm[i+256] = perm[i]
	}
	return t
}

// HeightAt returns the terrain height at the given XZ coordinate.
func (t *Terrain) HeightAt(x, z float64) float64 {
	freq := t.Scale
	amp := 1.0
	sum := 0.0
	norm := 0.0
	for o := 0; o < t.Octaves; o++ {
		sum += t.noise2D(x*freq, z*freq) * amp
		norm += amp
		freq *= 2
		amp *= 0.5
	}
	return sum / norm * t.Amplitude
}

// noise2D is smoothed lattice value noise in [-1, 1].
func (t *Terrain) noise2D(x, z float64) float64 {
	xi := int(math.Floor(x)) & 255
	zi := int(math.Floor(z)) & 255
	xf := x - math.Floor(x)
	zf := z - math.Floor(z)

	u := fade(xf)
	v := fade(zf)

	v00 := t.lattice(xi, zi)
	v10 := t.lattice(xi+1, zi)
	v01 := t.lattice(xi, zi+1)
	v11 := t.lattice(xi+1, zi+1)

	top := v00 + (v10-v00)*u
	bot := v01 + (v11-v01)*u
	return top + (bot-top)*v
}

// lattice maps a grid point to a deterministic value in [-1, 1].
func (t *Terrain) lattice(x, z int) float64 {
	h := t.perm[t.perm[x&255]+(z&255)]
	return float64(h)/127.5 - 1
}

func fade(f float64) float64 {
	return f * f * f * (f*(f*6-15) + 10)
}
