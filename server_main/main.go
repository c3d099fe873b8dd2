// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	_ "net/http/pprof"

	"github.com/SoftbearStudios/fractal/server"
	"github.com/SoftbearStudios/fractal/server/cloud"
	"golang.org/x/net/netutil"
)

func main() {
	var (
		port           int
		maxConnections int
		workers        int
		queue          int
		maxDetail      int
		logFile        string
		offline        bool
	)

	flag.IntVar(&port, "port", 8192, "http service port")
	flag.IntVar(&maxConnections, "max-connections", 256, "maximum number of inbound TCP connections")
	flag.IntVar(&workers, "workers", 0, "concurrent generations (default number of CPUs)")
	flag.IntVar(&queue, "queue", 0, "generation requests that may wait for a worker (default 4 per worker)")
	flag.IntVar(&maxDetail, "max-detail", server.DefaultMaxDetail, "largest detail a client may request")
	flag.StringVar(&logFile, "log", "", "append a CSV row per generation to this file")
	flag.BoolVar(&offline, "offline", false, "don't connect to AWS")
	flag.Parse()

	if workers < 0 {
		log.Fatal("invalid argument workers: ", workers)
	}
	if maxDetail < 0 {
		log.Fatal("invalid argument max-detail: ", maxDetail)
	}

	var c server.Cloud = server.Offline{}
	if !offline {
		awsCloud, err := cloud.New()
		if err != nil {
			// Cloud is not required for server to function, just log an error
			log.Printf("Cloud error: %v\n", err)
		} else {
			c = awsCloud
		}
	}

	hub := server.NewHub(server.HubOptions{
		Cloud:     c,
		Workers:   workers,
		QueueSize: queue,
		MaxDetail: maxDetail,
		LogFile:   logFile,
	})

	go hub.Run()

	log.Printf("fractal server started on :%d %s\n", port, c)

	http.HandleFunc("/", hub.ServeIndex)
	http.HandleFunc("/ws", hub.ServeSocket)
	http.HandleFunc("/terrain", hub.ServeTerrain)

	l, err := net.Listen("tcp", fmt.Sprint(":", port))

	if err != nil {
		log.Fatalf("Listen: %v", err)
	}
	defer l.Close()

	l = netutil.LimitListener(l, maxConnections)

	log.Fatal("ListenAndServe: ", http.Serve(l, nil))
}
