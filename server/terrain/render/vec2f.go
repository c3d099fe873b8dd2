// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"image"

	"github.com/chewxy/math32"
)

// Vec2f is a point on the drawing surface.
type Vec2f struct {
	X float32
	Y float32
}

func (vec Vec2f) Floor() image.Point {
	return image.Point{X: int(math32.Floor(vec.X)), Y: int(math32.Floor(vec.Y))}
}

func (vec Vec2f) Ceil() image.Point {
	return image.Point{X: int(math32.Ceil(vec.X)), Y: int(math32.Ceil(vec.Y))}
}

func lerp(a, b, factor float32) float32 {
	return a + (b-a)*factor
}

func clamp(f float32) float32 {
	return math32.Max(0, math32.Min(f, 1))
}
