// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

const (
	// MaxDetail is the largest accepted detail level (4097x4097 cells).
	MaxDetail = 12

	// NoData is returned by Get for coordinates outside the grid.
	NoData = float32(-1)
)

var ErrInvalidDetail = errors.New("invalid detail")

// Grid is a square heightmap with 2^detail + 1 cells per side.
// It is written by a single Source and read-only afterwards.
type Grid struct {
	detail int
	size   int
	max    int
	values []float32 // row major, y*size + x
}

// NewGrid allocates a zeroed grid. Negative detail, or detail above MaxDetail, is rejected.
func NewGrid(detail int) (*Grid, error) {
	if detail < 0 || detail > MaxDetail {
		return nil, fmt.Errorf("%w: %d (must be in [0, %d])", ErrInvalidDetail, detail, MaxDetail)
	}

	size := 1<<uint(detail) + 1
	return &Grid{
		detail: detail,
		size:   size,
		max:    size - 1,
		values: make([]float32, size*size),
	}, nil
}

func (g *Grid) Detail() int {
	return g.detail
}

// Size is the number of cells per side.
func (g *Grid) Size() int {
	return g.size
}

// Max is the highest valid coordinate on either axis.
func (g *Grid) Max() int {
	return g.max
}

// Contains reports whether x and y are both in [0, Max].
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && x <= g.max && y >= 0 && y <= g.max
}

// At returns the height at x, y and whether the coordinate is inside the grid.
func (g *Grid) At(x, y int) (float32, bool) {
	if !g.Contains(x, y) {
		return 0, false
	}
	return g.values[y*g.size+x], true
}

// Get returns the height at x, y, or NoData outside the grid.
func (g *Grid) Get(x, y int) float32 {
	if h, ok := g.At(x, y); ok {
		return h
	}
	return NoData
}

// Set overwrites the height at x, y. It panics if the coordinate is outside the grid.
func (g *Grid) Set(x, y int, height float32) {
	if !g.Contains(x, y) {
		panic(fmt.Sprintf("terrain: Set(%d, %d) outside grid of size %d", x, y, g.size))
	}
	g.values[y*g.size+x] = height
}

// Values exposes the backing slice. Callers must not modify it.
func (g *Grid) Values() []float32 {
	return g.values
}

// Range returns the lowest and highest heights in the grid.
func (g *Grid) Range() (low, high float32) {
	low, high = math32.Inf(1), math32.Inf(-1)
	for _, h := range g.values {
		low = math32.Min(low, h)
		high = math32.Max(high, h)
	}
	return
}

// WaterHeight is the height of the water plane for this grid.
func (g *Grid) WaterHeight() float32 {
	return float32(g.size) * OceanLevel
}
