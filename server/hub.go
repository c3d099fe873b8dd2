// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SoftbearStudios/fractal/server/terrain"
	"github.com/SoftbearStudios/fractal/server/terrain/compressed"
)

const (
	debugPeriod  = time.Second * 30
	statusPeriod = time.Second * 5

	// DefaultMaxDetail is the largest detail served unless HubOptions says otherwise.
	DefaultMaxDetail = 10

	// maxPending is how many generations a socket client may have queued or running.
	maxPending = 2
)

type (
	// HubOptions configures a Hub. Zero values are replaced with defaults.
	HubOptions struct {
		Cloud     Cloud
		Workers   int    // Workers is the number of concurrent generations.
		QueueSize int    // QueueSize is how many requests may wait for a worker.
		MaxDetail int    // MaxDetail bounds requested detail, at most terrain.MaxDetail.
		LogFile   string // LogFile receives a CSV row per generation if set.
	}

	// Hub maintains the set of active clients and a pool of generation workers.
	Hub struct {
		generated int64 // accessed atomically
		cloudBusy int32 // accessed atomically

		clients   map[Client]int // pending generations
		cloud     Cloud
		maxDetail int
		workers   int
		logFile   string
		logMutex  sync.Mutex

		// Served atomically by HTTP
		statusJSON atomic.Value

		// Inbound channels
		inbound    chan SignedInbound
		register   chan Client
		unregister chan Client

		// Generation
		jobs    chan job
		results chan result

		// Timer based events
		cloudTicker  *time.Ticker
		statusTicker *time.Ticker
		debugTicker  *time.Ticker
	}

	// job is a validated request waiting for a worker.
	job struct {
		Generate
		reply func(out outbound)
	}

	// result is a finished job for a socket client.
	result struct {
		client Client
		outbound
	}
)

func NewHub(options HubOptions) *Hub {
	if options.Cloud == nil {
		options.Cloud = Offline{}
	}
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	if options.QueueSize <= 0 {
		options.QueueSize = options.Workers * 4
	}
	if options.MaxDetail <= 0 {
		options.MaxDetail = DefaultMaxDetail
	}
	if options.MaxDetail > terrain.MaxDetail {
		options.MaxDetail = terrain.MaxDetail
	}

	h := &Hub{
		clients:      make(map[Client]int),
		cloud:        options.Cloud,
		maxDetail:    options.MaxDetail,
		workers:      options.Workers,
		logFile:      options.LogFile,
		inbound:      make(chan SignedInbound, 16),
		register:     make(chan Client, 8),
		unregister:   make(chan Client, 16),
		jobs:         make(chan job, options.QueueSize),
		results:      make(chan result, options.QueueSize+options.Workers),
		cloudTicker:  time.NewTicker(options.Cloud.UpdatePeriod()),
		statusTicker: time.NewTicker(statusPeriod),
		debugTicker:  time.NewTicker(debugPeriod),
	}
	h.updateStatus()
	return h
}

func (h *Hub) Run() {
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		}
		println("That's it, I'm out -hub") // Don't waste time debugging hub exists
		os.Exit(1)
	}()

	for i := 0; i < h.workers; i++ {
		go h.work()
	}

	h.Cloud()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = 0
			client.Init()
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
		case in := <-h.inbound:
			// If not registered the message is old
			if _, ok := h.clients[in.Client]; ok {
				in.Inbound(h, in.Client)
			}
		case r := <-h.results:
			if pending, ok := h.clients[r.client]; ok {
				h.clients[r.client] = pending - 1
				r.client.Send(r.outbound)
			} else {
				r.Pool()
			}
		case <-h.statusTicker.C:
			h.updateStatus()
		case <-h.debugTicker.C:
			h.Debug()
		case <-h.cloudTicker.C:
			h.Cloud()
		}
	}
}

// enqueue offers j to the workers without blocking.
func (h *Hub) enqueue(j job) bool {
	select {
	case h.jobs <- j:
		return true
	default:
		return false
	}
}

func (h *Hub) work() {
	for j := range h.jobs {
		j.reply(h.generate(j.Generate))
	}
}

// generate runs a validated request. The grid never leaves this goroutine;
// only its encoded copy is returned.
func (h *Hub) generate(request Generate) outbound {
	start := time.Now()
	g, err := request.run()
	if err != nil {
		return Failure{Reason: err.Error()}
	}
	elapsed := time.Since(start)

	atomic.AddInt64(&h.generated, 1)
	h.cloud.IncrementGenerationStatistic(request.Source, request.Detail)
	h.logGeneration(request, g, elapsed)

	out := NewHeightmap()
	out.Data = compressed.Encode(g)
	out.Name = request.Name
	out.Source = request.Source
	out.Seed = request.Seed
	out.Roughness = request.Roughness
	out.Millis = elapsed.Milliseconds()
	return out
}

func (h *Hub) logGeneration(request Generate, g *terrain.Grid, elapsed time.Duration) {
	if h.logFile == "" {
		return
	}

	low, high := g.Range()
	fields := []interface{}{time.Now().Unix(), request.Source, request.Detail, request.Roughness, request.Seed, elapsed.Milliseconds(), low, high}

	h.logMutex.Lock()
	defer h.logMutex.Unlock()
	if err := AppendLog(h.logFile, fields); err != nil {
		log.Println("error logging generation:", err)
	}
}

func (h *Hub) updateStatus() {
	statusJSON, err := json.Marshal(struct {
		Clients   int   `json:"clients"`
		Generated int64 `json:"generated"`
		Queued    int   `json:"queued"`
	}{
		Clients:   len(h.clients),
		Generated: atomic.LoadInt64(&h.generated),
		Queued:    len(h.jobs),
	})

	if err == nil {
		h.statusJSON.Store(statusJSON)
	} else {
		fmt.Println("error marshaling status:", err)
	}
}

// Debug prints debugging info to console.
func (h *Hub) Debug() {
	fmt.Printf("Debug [%v] %s\n", time.Now().Format(time.UnixDate), h.cloud)
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	fmt.Printf(" - memstats: %dM/%dM\n", stats.HeapInuse/1e6, stats.NextGC/1e6)
	fmt.Printf(" - clients: %d, generated: %d, queued: %d/%d\n", len(h.clients), atomic.LoadInt64(&h.generated), len(h.jobs), cap(h.jobs))
}
