// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// Cloud is where the server registers itself and reports what it generated.
// IncrementGenerationStatistic is called from worker goroutines; the other
// methods from one goroutine at a time.
type Cloud interface {
	fmt.Stringer
	UpdateServer(clients int) error
	IncrementGenerationStatistic(source string, detail int)
	FlushStatistics() error
	UpdatePeriod() time.Duration
}

// Offline is the Cloud of a server without AWS.
type Offline struct{}

func (Offline) String() string                           { return "offline" }
func (Offline) UpdateServer(int) error                   { return nil }
func (Offline) IncrementGenerationStatistic(string, int) {}
func (Offline) FlushStatistics() error                   { return nil }
func (Offline) UpdatePeriod() time.Duration              { return time.Hour }

// Cloud reports to h.cloud without blocking the hub. A report is skipped
// if the previous one is still in progress.
func (h *Hub) Cloud() {
	h.updateStatus()

	if !atomic.CompareAndSwapInt32(&h.cloudBusy, 0, 1) {
		log.Println("cloud update still in progress")
		return
	}

	clients := len(h.clients)
	go func() {
		defer atomic.StoreInt32(&h.cloudBusy, 0)

		if err := h.cloud.FlushStatistics(); err != nil {
			log.Println("error flushing statistics:", err)
		}
		if err := h.cloud.UpdateServer(clients); err != nil {
			log.Println("error updating server:", err)
		}
	}()
}
