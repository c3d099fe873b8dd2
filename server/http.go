// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"log"
	"net/http"
	"net/url"
	"strconv"
)

func (h *Hub) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	buf, ok := h.statusJSON.Load().([]byte)
	if ok {
		_, _ = w.Write(buf)
	}
}

func (h *Hub) ServeSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade error", err)
		return
	}

	h.register <- NewSocketClient(h, conn)
}

// ServeTerrain generates a heightmap described by the query string,
// e.g. /terrain?detail=7&roughness=0.7&seed=3&source=perlin.
func (h *Hub) ServeTerrain(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	request, err := parseGenerate(r.URL.Query())
	if err == nil {
		request, err = request.validate(h.maxDetail)
	}
	if err != nil {
		writeMessage(w, http.StatusBadRequest, Failure{Reason: err.Error()})
		return
	}

	reply := make(chan outbound, 1)
	if !h.enqueue(job{Generate: request, reply: func(out outbound) { reply <- out }}) {
		writeMessage(w, http.StatusServiceUnavailable, Failure{Reason: ErrBusy.Error()})
		return
	}

	select {
	case out := <-reply:
		status := http.StatusOK
		if _, failed := out.(Failure); failed {
			status = http.StatusInternalServerError
		}
		writeMessage(w, status, out)
		out.Pool()
	case <-r.Context().Done():
		// The worker's reply is buffered and dropped with the channel
	}
}

func writeMessage(w http.ResponseWriter, status int, out outbound) {
	buf, err := json.Marshal(Message{Data: out})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

func parseGenerate(query url.Values) (request Generate, err error) {
	request.Source = query.Get("source")
	request.Name = query.Get("name")

	if s := query.Get("detail"); s != "" {
		if request.Detail, err = strconv.Atoi(s); err != nil {
			return
		}
	}
	if s := query.Get("roughness"); s != "" {
		var roughness float64
		if roughness, err = strconv.ParseFloat(s, 32); err != nil {
			return
		}
		request.Roughness = float32(roughness)
	}
	if s := query.Get("seed"); s != "" {
		if request.Seed, err = strconv.ParseInt(s, 10, 64); err != nil {
			return
		}
	}
	return
}
