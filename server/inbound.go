// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SoftbearStudios/fractal/server/terrain"
	"github.com/SoftbearStudios/fractal/server/terrain/noise"
	"github.com/chewxy/math32"
	"github.com/finnbear/moderation"
)

const (
	SourceDiamondSquare = "diamondSquare"
	SourcePerlin        = "perlin"
	SourceSimplex       = "simplex"

	// MaxRoughness bounds requested roughness.
	MaxRoughness = 8

	maxNameLength = 32
)

var (
	ErrUnknownSource = errors.New("unknown source")
	ErrBusy          = errors.New("server busy")
)

// Make sure to register in init function
type (
	// Generate requests a heightmap.
	Generate struct {
		Source    string  `json:"source"`
		Detail    int     `json:"detail"`
		Roughness float32 `json:"roughness"`
		Seed      int64   `json:"seed"`
		Name      string  `json:"name,omitempty"`
	}

	// InvalidInbound means invalid message type from client (possibly out of date).
	// NOTE: Do not register, otherwise client could send type "invalidInbound"
	InvalidInbound struct {
		messageType messageType
	}
)

func init() {
	registerInbound(
		Generate{},
	)
}

func (generate Generate) Inbound(h *Hub, client Client) {
	generate, err := generate.validate(h.maxDetail)
	if err != nil {
		client.Send(Failure{Reason: err.Error()})
		return
	}

	if h.clients[client] >= maxPending {
		client.Send(Failure{Reason: ErrBusy.Error()})
		return
	}

	j := job{Generate: generate, reply: func(out outbound) {
		h.results <- result{client: client, outbound: out}
	}}
	if !h.enqueue(j) {
		client.Send(Failure{Reason: ErrBusy.Error()})
		return
	}
	h.clients[client]++
}

// validate returns a normalized copy of the request.
func (generate Generate) validate(maxDetail int) (Generate, error) {
	if generate.Source == "" {
		generate.Source = SourceDiamondSquare
	}
	switch generate.Source {
	case SourceDiamondSquare, SourcePerlin, SourceSimplex:
	default:
		return generate, fmt.Errorf("%w: %q", ErrUnknownSource, generate.Source)
	}
	if generate.Detail < 0 || generate.Detail > maxDetail {
		return generate, fmt.Errorf("%w: %d (must be in [0, %d])", terrain.ErrInvalidDetail, generate.Detail, maxDetail)
	}
	if math32.IsNaN(generate.Roughness) || generate.Roughness < 0 || generate.Roughness > MaxRoughness {
		return generate, fmt.Errorf("%w: %v (must be in [0, %d])", terrain.ErrInvalidRoughness, generate.Roughness, MaxRoughness)
	}
	generate.Name = sanitizeName(generate.Name)
	return generate, nil
}

// run builds and fills a grid. The grid is private to the caller.
func (generate Generate) run() (*terrain.Grid, error) {
	g, err := terrain.NewGrid(generate.Detail)
	if err != nil {
		return nil, err
	}

	var source terrain.Source
	switch generate.Source {
	case SourcePerlin:
		source = noise.New(generate.Seed, generate.Roughness)
	case SourceSimplex:
		source = noise.NewSimplex(generate.Seed, generate.Roughness)
	default:
		if source, err = terrain.NewDiamondSquare(generate.Roughness, terrain.NewRandom(generate.Seed)); err != nil {
			return nil, err
		}
	}

	source.Generate(g)
	return g, nil
}

// sanitizeName trims, shortens and censors a user supplied label.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) > maxNameLength {
		runes := []rune(name)
		name = strings.TrimSpace(string(runes[:maxNameLength]))
	}

	if moderation.Scan(name).Is(moderation.Inappropriate) {
		name, _ = moderation.Censor(name, moderation.Inappropriate)
	}

	return name
}
