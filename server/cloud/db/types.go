// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"net"
)

// Statistic counts generations of one kind, e.g. "diamondSquare/9", on one day.
type Statistic struct {
	Name  string `dynamo:"name"`
	Day   int64  `dynamo:"day"` // Unix day
	Count int    `dynamo:"count"`
	TTL   int64  `dynamo:"ttl,omitempty"`
}

type Server struct {
	Region  string `dynamo:"region"`
	Slot    int    `dynamo:"slot"`
	IP      net.IP `dynamo:"ip"`
	Clients int    `dynamo:"clients"`
	TTL     int64  `dynamo:"ttl,omitempty"`
}
