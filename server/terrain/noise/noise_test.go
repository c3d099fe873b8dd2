// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package noise

import (
	"testing"

	"github.com/SoftbearStudios/fractal/server/terrain"
)

func TestGenerator_Deterministic(t *testing.T) {
	a, _ := terrain.NewGrid(5)
	b, _ := terrain.NewGrid(5)

	New(12345, 0.5).Generate(a)
	New(12345, 0.5).Generate(b)

	for i := range a.Values() {
		if a.Values()[i] != b.Values()[i] {
			t.Fatalf("value %d not deterministic: %v != %v", i, a.Values()[i], b.Values()[i])
		}
	}
}

func TestGenerator_Range(t *testing.T) {
	const roughness = 0.5
	g, _ := terrain.NewGrid(6)
	New(42, roughness).Generate(g)

	// Noise2D of a few octaves stays well inside [-3, 3]
	size := float32(g.Size())
	low, high := g.Range()
	if low < 0 || high > size/2+3*roughness*size {
		t.Errorf("range [%v, %v] outside [0, %v]", low, high, size/2+3*roughness*size)
	}
	if low == high {
		t.Error("expected varied terrain")
	}
}

func TestGenerator_Source(t *testing.T) {
	var _ terrain.Source = NewDefault()
}

func TestSimplex_Deterministic(t *testing.T) {
	a, _ := terrain.NewGrid(5)
	b, _ := terrain.NewGrid(5)

	NewSimplex(7, 0.3).Generate(a)
	NewSimplex(7, 0.3).Generate(b)

	for i := range a.Values() {
		if a.Values()[i] != b.Values()[i] {
			t.Fatalf("value %d not deterministic: %v != %v", i, a.Values()[i], b.Values()[i])
		}
	}
}

func TestSimplex_Range(t *testing.T) {
	const roughness = 0.25
	g, _ := terrain.NewGrid(6)
	NewSimplex(3, roughness).Generate(g)

	size := float32(g.Size())
	low, high := g.Range()
	if low < size/2-roughness*size || high > size/2+roughness*size {
		t.Errorf("range [%v, %v] outside %v ± %v", low, high, size/2, roughness*size)
	}
	if low == high {
		t.Error("expected varied terrain")
	}

	flat, _ := terrain.NewGrid(3)
	NewSimplex(3, 0).Generate(flat)
	if low, high := flat.Range(); low != high || low != float32(flat.Size())/2 {
		t.Errorf("expected flat terrain at %v got [%v, %v]", float32(flat.Size())/2, low, high)
	}
}

func TestSimplex_Source(t *testing.T) {
	var _ terrain.Source = NewSimplex(0, 0)
}
