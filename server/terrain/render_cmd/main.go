// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/SoftbearStudios/fractal/server/terrain"
	"github.com/SoftbearStudios/fractal/server/terrain/compressed"
	"github.com/SoftbearStudios/fractal/server/terrain/noise"
	"github.com/SoftbearStudios/fractal/server/terrain/render"
)

func main() {
	var (
		cpuProfile string
		detail     int
		roughness  float64
		seed       int64
		source     string
		mode       string
		width      int
		height     int
		out        string
	)

	flag.StringVar(&cpuProfile, "cpuprofile", "", "write cpu profile to `file`")
	flag.IntVar(&detail, "detail", 9, "grid detail (size is 2^detail + 1)")
	flag.Float64Var(&roughness, "roughness", 0.7, "perturbation relative to subdivision size")
	flag.Int64Var(&seed, "seed", terrain.Seed, "random seed")
	flag.StringVar(&source, "source", "diamondSquare", "diamondSquare, perlin or simplex")
	flag.StringVar(&mode, "mode", "shaded", "shaded or map")
	flag.IntVar(&width, "width", 1024, "shaded image width")
	flag.IntVar(&height, "height", 768, "shaded image height")
	flag.StringVar(&out, "out", "out.png", "output `file`")
	flag.Parse()

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close() // error handling omitted for example
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := run(detail, float32(roughness), seed, source, mode, width, height, out); err != nil {
		log.Fatal(err)
	}
}

func run(detail int, roughness float32, seed int64, source, mode string, width, height int, out string) error {
	g, err := terrain.NewGrid(detail)
	if err != nil {
		return err
	}

	var s terrain.Source
	switch source {
	case "diamondSquare":
		if s, err = terrain.NewDiamondSquare(roughness, terrain.NewRandom(seed)); err != nil {
			return err
		}
	case "perlin":
		s = noise.New(seed, roughness)
	case "simplex":
		s = noise.NewSimplex(seed, roughness)
	default:
		return fmt.Errorf("unknown source %q", source)
	}

	start := time.Now()
	s.Generate(g)
	low, high := g.Range()
	fmt.Printf("generated %dx%d in %s, heights [%.2f, %.2f]\n", g.Size(), g.Size(), time.Since(start), low, high)

	underwater := 0
	for _, h := range g.Values() {
		if h < g.WaterHeight() {
			underwater++
		}
	}
	fmt.Printf("%d%% under water at %.2f\n", 100*underwater/len(g.Values()), g.WaterHeight())

	data := compressed.Encode(g)
	fmt.Printf("compressed to %d%% (%dkb)\n", 100*len(data.Data)/data.Length, len(data.Data)/1024)
	data.Pool()

	var img image.Image
	switch mode {
	case "shaded":
		img = render.Shaded(g, width, height)
	case "map":
		img = render.Map(g)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	file, err := os.Create(out)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
