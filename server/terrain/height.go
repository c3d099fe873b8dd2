// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

// Levels as fractions of the grid size.
const (
	OceanLevel = 0.3
	SandLevel  = OceanLevel + 0.04
	GrassLevel = SandLevel + 0.2
	RockLevel  = GrassLevel + 0.16
)
