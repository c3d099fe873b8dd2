// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"image"

	"github.com/SoftbearStudios/fractal/server/terrain"
)

var colors = [...]ColorVec{
	RGB(0, 50, 115),
	RGB(0, 75, 130),
	RGB(194, 178, 128),
	RGB(90, 180, 30),
	RGB(105, 110, 115),
	Gray(220),
}

// Map draws h top down, one pixel per cell, colored by height band.
func Map(h Heightmap) *image.RGBA {
	size := h.Size()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scale := 1 / float32(size)

	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			img.SetRGBA(i, j, band(h.Get(i, j)*scale).Color())
		}
	}

	return img
}

// band colors a height given as a fraction of the grid size.
func band(level float32) ColorVec {
	switch {
	case level <= terrain.OceanLevel:
		return colors[0].Lerp(colors[1], clamp(level/terrain.OceanLevel))
	case level <= terrain.SandLevel:
		return colors[2]
	case level <= terrain.GrassLevel:
		return colors[2].Lerp(colors[3], clamp((level-terrain.SandLevel)*20))
	case level <= terrain.RockLevel:
		return colors[3].Lerp(colors[4], clamp((level-terrain.GrassLevel)*10))
	default:
		return colors[4].Lerp(colors[5], clamp((level-terrain.RockLevel)*7))
	}
}
