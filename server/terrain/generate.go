// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

var (
	ErrInvalidRoughness = errors.New("invalid roughness")
	ErrNoRandom         = errors.New("nil random source")
)

// DiamondSquare generates a heightmap by midpoint displacement.
type DiamondSquare struct {
	roughness float32
	random    Random
}

// NewDiamondSquare creates a generator. Roughness must be a finite number >= 0.
func NewDiamondSquare(roughness float32, random Random) (*DiamondSquare, error) {
	if roughness < 0 || math32.IsNaN(roughness) || math32.IsInf(roughness, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoughness, roughness)
	}
	if random == nil {
		return nil, ErrNoRandom
	}
	return &DiamondSquare{roughness: roughness, random: random}, nil
}

// Generate builds a DiamondSquare and runs it on g.
func Generate(g *Grid, roughness float32, random Random) error {
	d, err := NewDiamondSquare(roughness, random)
	if err != nil {
		return err
	}
	d.Generate(g)
	return nil
}

func (d *DiamondSquare) Roughness() float32 {
	return d.roughness
}

// Amplitude is the largest perturbation applied in the round with the given step.
func Amplitude(roughness float32, step int) float32 {
	return roughness * float32(step)
}

// Generate implements Source.Generate.
func (d *DiamondSquare) Generate(g *Grid) {
	// Corners start halfway up
	seed := float32(g.max) / 2
	g.Set(0, 0, seed)
	g.Set(g.max, 0, seed)
	g.Set(g.max, g.max, seed)
	g.Set(0, g.max, seed)

	for step := g.max; step/2 >= 1; step /= 2 {
		d.divide(g, step)
	}
}

// divide runs one square pass and one diamond pass.
func (d *DiamondSquare) divide(g *Grid, step int) {
	half := step / 2
	amplitude := Amplitude(d.roughness, step)

	for y := half; y < g.max; y += step {
		for x := half; x < g.max; x += step {
			d.square(g, x, y, half, d.offset(amplitude))
		}
	}

	for y := 0; y <= g.max; y += half {
		for x := (y + half) % step; x <= g.max; x += step {
			d.diamond(g, x, y, half, d.offset(amplitude))
		}
	}
}

// offset is uniform in [-amplitude, amplitude).
func (d *DiamondSquare) offset(amplitude float32) float32 {
	return float32(d.random.Float64())*amplitude*2 - amplitude
}

func (d *DiamondSquare) square(g *Grid, x, y, half int, offset float32) {
	var s samples
	s.add(g.At(x-half, y-half)) // upper left
	s.add(g.At(x+half, y-half)) // upper right
	s.add(g.At(x+half, y+half)) // lower right
	s.add(g.At(x-half, y+half)) // lower left
	g.Set(x, y, s.average()+offset)
}

func (d *DiamondSquare) diamond(g *Grid, x, y, half int, offset float32) {
	var s samples
	s.add(g.At(x, y-half)) // top
	s.add(g.At(x+half, y)) // right
	s.add(g.At(x, y+half)) // bottom
	s.add(g.At(x-half, y)) // left
	g.Set(x, y, s.average()+offset)
}

// samples accumulates the in-grid neighbors of a cell.
type samples struct {
	total float32
	count int
}

func (s *samples) add(h float32, ok bool) {
	if ok {
		s.total += h
		s.count++
	}
}

func (s *samples) average() float32 {
	if s.count == 0 {
		return 0
	}
	return s.total / float32(s.count)
}
