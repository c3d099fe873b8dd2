// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestAppendLog(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "generations.csv")

	if err := AppendLog(filename, []interface{}{1, "perlin", float32(0.5)}); err != nil {
		t.Fatal(err)
	}
	if err := AppendLog(filename, []interface{}{2, "diamondSquare, again", 3.14159}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows got %d", len(rows))
	}
	if rows[0][2] != "0.50" {
		t.Errorf("expected 0.50 got %s", rows[0][2])
	}
	if rows[1][1] != "diamondSquare, again" || rows[1][2] != "3.14" {
		t.Errorf("unexpected row %v", rows[1])
	}
}
