// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

// constRandom always returns the same sample.
type constRandom float64

func (r constRandom) Float64() float64 {
	return float64(r)
}

// countingRandom counts draws.
type countingRandom struct {
	draws int
}

func (r *countingRandom) Float64() float64 {
	r.draws++
	return 0.5
}

func approx(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func newGrid(t testing.TB, detail int) *Grid {
	g, err := NewGrid(detail)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewDiamondSquare_Invalid(t *testing.T) {
	for _, roughness := range []float32{-0.1, math32.NaN(), math32.Inf(1)} {
		if _, err := NewDiamondSquare(roughness, constRandom(0)); !errors.Is(err, ErrInvalidRoughness) {
			t.Errorf("roughness %v expected ErrInvalidRoughness got %v", roughness, err)
		}
	}
	if _, err := NewDiamondSquare(1, nil); !errors.Is(err, ErrNoRandom) {
		t.Errorf("expected ErrNoRandom got %v", err)
	}
}

func TestDiamondSquare_Flat(t *testing.T) {
	g := newGrid(t, 1)
	if err := Generate(g, 0, rand.New(rand.NewSource(1))); err != nil {
		t.Fatal(err)
	}

	for y := 0; y < g.Size(); y++ {
		for x := 0; x < g.Size(); x++ {
			if h := g.Get(x, y); h != 1 {
				t.Errorf("(%d, %d) expected 1 got %v", x, y, h)
			}
		}
	}
}

func TestDiamondSquare_FlatAnyDetail(t *testing.T) {
	for detail := 0; detail <= 6; detail++ {
		g := newGrid(t, detail)
		if err := Generate(g, 0, NewRandom(Seed)); err != nil {
			t.Fatal(err)
		}

		expected := float32(g.Max()) / 2
		for i, h := range g.Values() {
			if !approx(h, expected) {
				t.Fatalf("detail %d value %d expected %v got %v", detail, i, expected, h)
			}
		}
	}
}

func TestDiamondSquare_KnownOffsets(t *testing.T) {
	const roughness = 0.3
	g := newGrid(t, 1)

	// A sample of 0 gives an offset of -amplitude.
	if err := Generate(g, roughness, constRandom(0)); err != nil {
		t.Fatal(err)
	}

	amplitude := Amplitude(roughness, g.Max())
	center := 1 - amplitude
	edge := (1+1+center)/3 - amplitude

	if h := g.Get(1, 1); !approx(h, center) {
		t.Errorf("center expected %v got %v", center, h)
	}
	for _, c := range [][2]int{{1, 0}, {2, 1}, {1, 2}, {0, 1}} {
		if h := g.Get(c[0], c[1]); !approx(h, edge) {
			t.Errorf("edge (%d, %d) expected %v got %v", c[0], c[1], edge, h)
		}
	}
}

func TestDiamondSquare_CornersInvariant(t *testing.T) {
	for _, roughness := range []float32{0, 0.5, 3} {
		g := newGrid(t, 5)
		if err := Generate(g, roughness, NewRandom(7)); err != nil {
			t.Fatal(err)
		}

		seed := float32(g.Max()) / 2
		for _, c := range [][2]int{{0, 0}, {g.Max(), 0}, {g.Max(), g.Max()}, {0, g.Max()}} {
			if h := g.Get(c[0], c[1]); h != seed {
				t.Errorf("roughness %v corner %v expected %v got %v", roughness, c, seed, h)
			}
		}
	}
}

func TestDiamondSquare_SentinelAfterGenerate(t *testing.T) {
	g := newGrid(t, 4)
	if err := Generate(g, 1, NewRandom(3)); err != nil {
		t.Fatal(err)
	}

	for i := -2; i < g.Size()+2; i++ {
		for _, c := range [][2]int{{i, -1}, {i, g.Size()}, {-1, i}, {g.Size(), i}} {
			if h := g.Get(c[0], c[1]); h != NoData {
				t.Errorf("Get(%d, %d) expected %v got %v", c[0], c[1], NoData, h)
			}
		}
	}
}

func TestDiamondSquare_Draws(t *testing.T) {
	for detail := 0; detail <= 7; detail++ {
		g := newGrid(t, detail)
		var random countingRandom
		if err := Generate(g, 1, &random); err != nil {
			t.Fatal(err)
		}

		// Every non-corner cell is written exactly once.
		expected := 0
		if detail > 0 {
			expected = g.Size()*g.Size() - 4
		}
		if random.draws != expected {
			t.Errorf("detail %d expected %d draws got %d", detail, expected, random.draws)
		}
	}
}

func TestDiamondSquare_Deterministic(t *testing.T) {
	a, b := newGrid(t, 6), newGrid(t, 6)
	if err := Generate(a, 0.7, NewRandom(42)); err != nil {
		t.Fatal(err)
	}
	if err := Generate(b, 0.7, NewRandom(42)); err != nil {
		t.Fatal(err)
	}

	for i := range a.Values() {
		if a.Values()[i] != b.Values()[i] {
			t.Fatalf("value %d differs: %v != %v", i, a.Values()[i], b.Values()[i])
		}
	}
}

func TestDiamondSquare_Bounded(t *testing.T) {
	const roughness = 0.5
	g := newGrid(t, 6)
	if err := Generate(g, roughness, NewRandom(9)); err != nil {
		t.Fatal(err)
	}

	// An average never leaves the range of its inputs. Diamonds average
	// squares from the same round, so each round can add two offsets.
	var bound float32
	for step := g.Max(); step > 1; step /= 2 {
		bound += 2 * Amplitude(roughness, step)
	}

	seed := float32(g.Max()) / 2
	for i, h := range g.Values() {
		if math32.Abs(h-seed) > bound {
			t.Errorf("value %d = %v outside %v ± %v", i, h, seed, bound)
		}
	}
}

func TestDiamondSquare_NegativeHeightsAveraged(t *testing.T) {
	g := newGrid(t, 1)
	g.Set(0, 0, NoData)
	g.Set(2, 0, 3)
	g.Set(2, 2, 3)
	g.Set(0, 2, 3)

	d, err := NewDiamondSquare(0, constRandom(0))
	if err != nil {
		t.Fatal(err)
	}
	d.square(g, 1, 1, 1, 0)

	// A stored -1 is a real height, not a missing neighbor.
	if h := g.Get(1, 1); !approx(h, 2) {
		t.Errorf("expected 2 got %v", h)
	}
}

func TestDiamondSquare_EdgeAveragesThree(t *testing.T) {
	g := newGrid(t, 1)
	g.Set(0, 0, 3)
	g.Set(2, 0, 6)
	g.Set(1, 1, 9)

	d, err := NewDiamondSquare(0, constRandom(0))
	if err != nil {
		t.Fatal(err)
	}
	d.diamond(g, 1, 0, 1, 0)

	if h := g.Get(1, 0); !approx(h, 6) {
		t.Errorf("expected 6 got %v", h)
	}
}

func TestAmplitude(t *testing.T) {
	const roughness = 0.8
	g := newGrid(t, 8)

	previous := math32.Inf(1)
	rounds := 0
	for k, step := 0, g.Max(); step/2 >= 1; k, step = k+1, step/2 {
		a := Amplitude(roughness, step)
		expected := roughness * float32(g.Max()) / float32(int(1)<<uint(k))
		if !approx(a, expected) {
			t.Errorf("round %d expected %v got %v", k, expected, a)
		}
		if a >= previous {
			t.Errorf("round %d amplitude %v not below %v", k, a, previous)
		}
		previous = a
		rounds++
	}

	if rounds != g.Detail() {
		t.Errorf("expected %d rounds got %d", g.Detail(), rounds)
	}
}

func BenchmarkDiamondSquare_Generate(b *testing.B) {
	g := newGrid(b, 9)
	d, err := NewDiamondSquare(0.7, NewRandom(Seed))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.Generate(g)
	}
}
