// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SoftbearStudios/fractal/server/terrain/compressed"
	"github.com/gorilla/websocket"
)

type heightmapMessage struct {
	Type string    `json:"type"`
	Data Heightmap `json:"data"`
}

func newTestHub() *Hub {
	h := NewHub(HubOptions{Workers: 2, MaxDetail: 6})
	go h.Run()
	return h
}

func TestParseGenerate(t *testing.T) {
	r := httptest.NewRequest("GET", "/terrain?detail=5&roughness=0.25&seed=-4&source=perlin&name=hills", nil)
	generate, err := parseGenerate(r.URL.Query())
	if err != nil {
		t.Fatal(err)
	}

	expected := Generate{Source: SourcePerlin, Detail: 5, Roughness: 0.25, Seed: -4, Name: "hills"}
	if generate != expected {
		t.Errorf("expected %+v got %+v", expected, generate)
	}

	r = httptest.NewRequest("GET", "/terrain?detail=five", nil)
	if _, err = parseGenerate(r.URL.Query()); err == nil {
		t.Error("expected error for detail=five")
	}
}

func TestHub_ServeTerrain(t *testing.T) {
	h := newTestHub()

	w := httptest.NewRecorder()
	h.ServeTerrain(w, httptest.NewRequest("GET", "/terrain?detail=4&roughness=0.5&seed=2", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	var message heightmapMessage
	if err := json.Unmarshal(w.Body.Bytes(), &message); err != nil {
		t.Fatal(err)
	}
	if message.Type != "heightmap" || message.Data.Source != SourceDiamondSquare {
		t.Fatalf("unexpected response %s", w.Body.String())
	}

	g, err := compressed.Unpack(message.Data.Data)
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 17 {
		t.Errorf("expected size 17 got %d", g.Size())
	}
}

func TestHub_ServeTerrainInvalid(t *testing.T) {
	h := newTestHub()

	for _, query := range []string{"detail=7", "detail=3&roughness=-1", "detail=3&source=voronoi", "seed=x"} {
		w := httptest.NewRecorder()
		h.ServeTerrain(w, httptest.NewRequest("GET", "/terrain?"+query, nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400 got %d", query, w.Code)
		}
		if !strings.Contains(w.Body.String(), `"type":"failure"`) {
			t.Errorf("%s: expected failure got %s", query, w.Body.String())
		}
	}
}

func TestHub_ServeIndex(t *testing.T) {
	h := newTestHub()

	w := httptest.NewRecorder()
	h.ServeIndex(w, httptest.NewRequest("GET", "/", nil))

	var status struct {
		Clients   *int   `json:"clients"`
		Generated *int64 `json:"generated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Clients == nil || status.Generated == nil {
		t.Errorf("unexpected status %s", w.Body.String())
	}
}

func TestHub_ServeSocket(t *testing.T) {
	h := newTestHub()

	s := httptest.NewServer(http.HandlerFunc(h.ServeSocket))
	defer s.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	request := `{"type":"generate","data":{"source":"perlin","detail":3,"roughness":0.5,"seed":1,"name":" crater "}}`
	if err = conn.WriteMessage(websocket.TextMessage, []byte(request)); err != nil {
		t.Fatal(err)
	}

	var message heightmapMessage
	if err = conn.ReadJSON(&message); err != nil {
		t.Fatal(err)
	}
	if message.Type != "heightmap" || message.Data.Name != "crater" || message.Data.Source != SourcePerlin {
		t.Fatalf("unexpected response %+v", message)
	}
	if message.Data.Data == nil || message.Data.Stride != 9 {
		t.Errorf("unexpected data %+v", message.Data.Data)
	}

	// Invalid requests get a failure, not a disconnect
	if err = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"generate","data":{"detail":9}}`)); err != nil {
		t.Fatal(err)
	}

	var failure struct {
		Type string  `json:"type"`
		Data Failure `json:"data"`
	}
	if err = conn.ReadJSON(&failure); err != nil {
		t.Fatal(err)
	}
	if failure.Type != "failure" || !strings.Contains(failure.Data.Reason, "invalid detail") {
		t.Errorf("unexpected response %+v", failure)
	}
}
