// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package compressed packs heightmaps for transport.
package compressed

import (
	"errors"
	"fmt"
	"io"

	"github.com/SoftbearStudios/fractal/server/terrain"
)

var ErrCorrupt = errors.New("compressed: corrupt data")

// Encode quantizes g relative to its own range and packs it into a pooled Data.
func Encode(g *terrain.Grid) *terrain.Data {
	low, high := g.Range()
	values := g.Values()

	data := terrain.NewData()
	var buffer Buffer
	buffer.Reset(data.Data)
	buffer.Grow(len(values))

	for _, h := range values {
		_ = buffer.WriteByte(terrain.Quantize(h, low, high))
	}

	data.Detail = g.Detail()
	data.Low = low
	data.High = high
	data.Data = buffer.Bytes()
	data.Stride = g.Size()
	data.Length = len(values)

	return data
}

// Decode returns the quantized heightmap, rounded to 4 bits, row major.
func Decode(data *terrain.Data) ([]byte, error) {
	var buffer Buffer
	buffer.Reset(data.Data)

	raw := make([]byte, data.Length)
	if n, err := io.ReadFull(&buffer, raw); err != nil {
		return nil, fmt.Errorf("%w: read %d of %d values: %v", ErrCorrupt, n, data.Length, err)
	}
	return raw, nil
}

// Unpack rebuilds an approximate Grid from data.
func Unpack(data *terrain.Data) (*terrain.Grid, error) {
	g, err := terrain.NewGrid(data.Detail)
	if err != nil {
		return nil, err
	}
	if data.Stride != g.Size() || data.Length != g.Size()*g.Size() {
		return nil, fmt.Errorf("%w: stride %d length %d for detail %d", ErrCorrupt, data.Stride, data.Length, data.Detail)
	}

	raw, err := Decode(data)
	if err != nil {
		return nil, err
	}

	for i, b := range raw {
		g.Set(i%data.Stride, i/data.Stride, terrain.Dequantize(b, data.Low, data.High))
	}
	return g, nil
}
