// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package compressed

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
)

func TestCompressedBuffer_Write(t *testing.T) {
	const n = 1024
	var buffer Buffer

	_, _ = buffer.Write(make([]byte, n))

	if buf := buffer.Bytes(); len(buf) != n/16 {
		t.Error("Buffer.Write(make([]byte, 1024) expected", n/16, "got", len(buf))
		t.Error(buf)
	}
}

func TestCompressedBuffer_Read(t *testing.T) {
	const n = 1024
	var buffer Buffer

	input := make([]byte, n)
	for i := range input {
		input[i] = byte(rand.Intn(16)) << 4
	}

	_, _ = buffer.Write(input)

	output := make([]byte, n*2)
	r, _ := buffer.Read(output)
	output = output[:r]

	if !bytes.Equal(input, output) {
		t.Error("Buffer.Read expected", len(input), "got", len(output), "\ninput:", input, "\noutput:", output)
	}

	if _, err := buffer.Read(output); err != io.EOF {
		t.Error("Buffer.Read after end expected io.EOF got", err)
	}
}

func TestCompressedBuffer_ReadTwice(t *testing.T) {
	var buffer Buffer
	input := []byte{0x10, 0x10, 0x10, 0xf0, 0x20, 0x20}
	_, _ = buffer.Write(input)
	encoded := append([]byte(nil), buffer.Bytes()...)

	for i := 0; i < 2; i++ {
		buffer.Reset(buffer.Bytes())
		output, err := io.ReadAll(&buffer)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(input, output) {
			t.Errorf("read %d expected %v got %v", i, input, output)
		}
	}

	if !bytes.Equal(encoded, buffer.Bytes()) {
		t.Errorf("reading modified buffer: %v != %v", encoded, buffer.Bytes())
	}
}
