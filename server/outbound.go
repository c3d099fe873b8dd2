// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"sync"

	"github.com/SoftbearStudios/fractal/server/terrain"
)

type (
	// Heightmap is a generated terrain, compressed, along with the request that made it.
	Heightmap struct {
		*terrain.Data
		Name      string  `json:"name,omitempty"`
		Source    string  `json:"source"`
		Seed      int64   `json:"seed"`
		Roughness float32 `json:"roughness"`
		Millis    int64   `json:"millis"`
	}

	// Failure explains why a request produced no heightmap.
	Failure struct {
		Reason string `json:"reason"`
	}
)

func init() {
	registerOutbound(
		&Heightmap{},
		Failure{},
	)
}

var heightmapPool = sync.Pool{
	New: func() interface{} {
		return &Heightmap{}
	},
}

func NewHeightmap() *Heightmap {
	return heightmapPool.Get().(*Heightmap)
}

// Pool Uses pointers for reuse in pool
func (heightmap *Heightmap) Pool() {
	if heightmap.Data != nil {
		heightmap.Data.Pool()
	}
	*heightmap = Heightmap{}
	heightmapPool.Put(heightmap)
}

func (failure Failure) Pool() {}
