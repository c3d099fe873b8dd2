// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terrain synthesizes square heightmaps.
package terrain

import "math/rand"

// Seed default seed.
const Seed = int64(56)

// Source fills a Grid with heightmap data.
// The grid must not be read until Generate returns.
type Source interface {
	Generate(g *Grid)
}

// Random produces independent uniform samples in [0, 1).
// *rand.Rand implements it.
type Random interface {
	Float64() float64
}

// NewRandom returns a deterministic Random for seed.
func NewRandom(seed int64) Random {
	return rand.New(rand.NewSource(seed))
}
