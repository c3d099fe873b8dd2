// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package noise

import (
	"github.com/SoftbearStudios/fractal/server/terrain"
	opensimplex "github.com/ojrac/opensimplex-go"
)

const (
	octaves     = 6
	persistence = 0.5
)

// Simplex generates a heightmap from fractal (octave) simplex noise.
type Simplex struct {
	noise     opensimplex.Noise
	roughness float32
}

// NewSimplex creates a Simplex with a seed. Heights stay within
// roughness * size of the middle of the grid.
func NewSimplex(seed int64, roughness float32) *Simplex {
	return &Simplex{
		noise:     opensimplex.NewNormalized(seed),
		roughness: roughness,
	}
}

// Generate implements terrain.Source.Generate.
func (s *Simplex) Generate(grid *terrain.Grid) {
	size := float64(grid.Size())
	amplitude := float64(s.roughness) * size
	base := size / 2

	for j := 0; j < grid.Size(); j++ {
		for i := 0; i < grid.Size(); i++ {
			n := s.octave(float64(i)/size, float64(j)/size)
			grid.Set(i, j, float32(base+(n*2-1)*amplitude))
		}
	}
}

// octave layers noise of doubling frequency, normalized to [0, 1].
func (s *Simplex) octave(x, y float64) float64 {
	total := 0.0
	amplitude := 1.0
	sum := 0.0
	f := frequency

	for i := 0; i < octaves; i++ {
		total += s.noise.Eval2(x*f, y*f) * amplitude
		sum += amplitude
		amplitude *= persistence
		f *= 2
	}

	return clamp(total/sum, 0, 1)
}
