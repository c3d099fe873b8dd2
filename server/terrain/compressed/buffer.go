// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package compressed

import "io"

// maxCount is the largest count - 1 a tuple can hold.
const maxCount = 0b1111

// Buffer stores the 4 most significant bits of each byte with run length encoding.
// Each tuple is 4 bits of data followed by 4 bits of count - 1.
// Reading does not modify the encoded bytes.
type Buffer struct {
	buf []byte
	off int  // tuple being read
	run byte // values already read from buf[off]
}

func (buffer *Buffer) Reset(buf []byte) {
	buffer.buf = buf
	buffer.off = 0
	buffer.run = 0
}

// WriteByte encodes b as its 4 most significant bits.
func (buffer *Buffer) WriteByte(b byte) error {
	buf := buffer.buf
	nibble := b >> 4

	if end := len(buf) - 1; end >= 0 {
		tuple := buf[end]
		if tuple>>4 == nibble && tuple&maxCount < maxCount {
			buf[end] = tuple + 1
			return nil
		}
	}

	buffer.buf = append(buf, nibble<<4)
	return nil
}

func (buffer *Buffer) Write(p []byte) (int, error) {
	for _, b := range p {
		_ = buffer.WriteByte(b)
	}
	return len(p), nil
}

// ReadByte returns the next value rounded to 4 bits.
func (buffer *Buffer) ReadByte() (byte, error) {
	if buffer.off >= len(buffer.buf) {
		return 0, io.EOF
	}

	tuple := buffer.buf[buffer.off]
	if buffer.run < tuple&maxCount {
		buffer.run++
	} else {
		buffer.off++
		buffer.run = 0
	}

	// Low bits are the count
	return tuple &^ maxCount, nil
}

func (buffer *Buffer) Read(p []byte) (int, error) {
	i := 0
	for ; i < len(p); i++ {
		b, err := buffer.ReadByte()
		if err != nil {
			break
		}
		p[i] = b
	}

	if i == 0 && len(p) > 0 {
		return 0, io.EOF
	}

	return i, nil
}

// Grow makes space for about n more values.
func (buffer *Buffer) Grow(n int) {
	compressed := n / 2
	if free := cap(buffer.buf) - len(buffer.buf); free < compressed {
		buf := make([]byte, len(buffer.buf), len(buffer.buf)+compressed)
		copy(buf, buffer.buf)
		buffer.buf = buf
	}
}

// Bytes returns the encoded tuples.
func (buffer *Buffer) Bytes() []byte {
	return buffer.buf
}
