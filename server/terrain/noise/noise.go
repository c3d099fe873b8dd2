// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package noise fills grids with layered perlin or simplex noise.
package noise

import (
	"github.com/SoftbearStudios/fractal/server/terrain"
	"github.com/aquilax/go-perlin"
)

const (
	// Features per grid side.
	frequency     = 4.0
	zoneFrequency = 0.75
)

// Generator generates a heightmap using perlin noise.
type Generator struct {
	// Land heightmap noise
	landHi *perlin.Perlin // for smaller/higher frequency details
	landLo *perlin.Perlin // for larger/lower frequency details

	// Sea floor noise
	waterLo *perlin.Perlin

	roughness float32
}

func NewDefault() *Generator {
	return New(terrain.Seed, 0.5)
}

// New creates a new Generator with a seed. Roughness scales the height of features
// relative to the grid size, like terrain.DiamondSquare.
func New(seed int64, roughness float32) *Generator {
	return &Generator{
		landHi:    perlin.NewPerlin(1.5, 2.0, 4, seed),
		landLo:    perlin.NewPerlin(2.5, 3.0, 4, seed+1),
		waterLo:   perlin.NewPerlin(2, 3.0, 3, seed+2),
		roughness: roughness,
	}
}

// Generate implements terrain.Source.Generate.
func (g *Generator) Generate(grid *terrain.Grid) {
	size := float64(grid.Size())
	amplitude := float64(g.roughness) * size
	base := size / 2
	floor := size * terrain.OceanLevel * 0.5

	for j := 0; j < grid.Size(); j++ {
		for i := 0; i < grid.Size(); i++ {
			x := float64(i) / size
			y := float64(j) / size

			h := g.landHi.Noise2D(x*frequency, y*frequency)*amplitude + base

			// Zone is very low frequency
			zone := g.landLo.Noise2D(x*zoneFrequency, y*zoneFrequency)*2.0 + 0.6
			if zone > 1 {
				zone = 1
			}
			h *= zone

			depthFloor := clamp((g.waterLo.Noise2D(x*zoneFrequency, y*zoneFrequency)+0.3)*4, 0, 1) * floor

			grid.Set(i, j, float32(max(h, depthFloor)))
		}
	}
}
