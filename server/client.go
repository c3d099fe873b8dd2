// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

// Client is a connection registered with the Hub.
type Client interface {
	// Init is called once by the hub goroutine when the client is registered.
	Init()

	// Close is called by (only) the hub goroutine when the client is unregistered.
	Close()

	// Send is how the server sends a message to the client.
	// It is only called by the hub goroutine.
	Send(out outbound)

	// Destroy marks the client for destruction. It must unregister from the hub only once (no matter how many
	// times it is called; use a sync.Once if necessary). It may be called anywhere.
	Destroy()
}
