// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render draws heightmaps onto images.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/SoftbearStudios/fractal/server/terrain"
)

// Heightmap is what the renderers read. Get must return terrain.NoData
// (or any value) outside [0, Size), never panic.
type Heightmap interface {
	Get(x, y int) float32
	Size() int
}

var (
	sky   = RGB(24, 28, 40)
	water = color.NRGBA{R: 50, G: 150, B: 200, A: 38} // 15% opacity
)

// Shaded draws h as a shaded pseudo-3D heightfield with a translucent water plane.
func Shaded(h Heightmap, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(sky.Color()), image.Point{}, draw.Src)

	size := h.Size()
	p := projection{
		size:   float32(size),
		width:  float32(width),
		height: float32(height),
	}
	waterHeight := float32(size) * terrain.OceanLevel
	ground := &image.Uniform{}
	overlay := image.NewUniform(water)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			val := h.Get(x, y)
			top := p.project(x, y, val)
			bottom := p.project(x+1, y, 0)
			surface := p.project(x, y, waterHeight)

			// Get(x+1, y) is off the grid on the last column, which is drawn black anyway.
			ground.C = brightness(x, y, size-1, h.Get(x+1, y)-val)

			fill(img, top, bottom, ground, draw.Src)
			fill(img, surface, bottom, overlay, draw.Over)
		}
	}

	return img
}

// brightness shades a cell by its slope towards +x.
func brightness(x, y, max int, slope float32) color.RGBA {
	if x == max || y == max {
		return color.RGBA{A: 255}
	}

	b := int(slope*50) + 128
	if b < 0 {
		b = 0
	} else if b > 255 {
		b = 255
	}
	return color.RGBA{R: uint8(b), G: uint8(b), B: uint8(b), A: 255}
}

// fill draws the rectangle from a (top left) to b (bottom right), if it isn't inverted.
func fill(img draw.Image, a, b Vec2f, src image.Image, op draw.Op) {
	if b.Y < a.Y {
		return
	}
	r := image.Rectangle{Min: a.Floor(), Max: b.Ceil()}
	draw.Draw(img, r, src, image.Point{}, op)
}

// projection maps grid space to the drawing surface with an isometric
// view and a mild perspective divide.
type projection struct {
	size   float32
	width  float32
	height float32
}

func (p projection) iso(x, y float32) Vec2f {
	return Vec2f{X: 0.5 * (p.size + x - y), Y: 0.5 * (x + y)}
}

func (p projection) project(flatX, flatY int, flatZ float32) Vec2f {
	point := p.iso(float32(flatX), float32(flatY))
	x0 := p.width * 0.5
	y0 := p.height * 0.2
	unitX := p.width / p.size
	unitZ := p.height / p.size * 0.75

	z := (p.size*0.5 - flatZ + point.Y*0.75) * unitZ
	x := (point.X - p.size*0.5) * unitX
	depth := (p.size-point.Y)/p.size*0.5 + 1

	return Vec2f{X: x0 + x/depth, Y: y0 + z/depth}
}
