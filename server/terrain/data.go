// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import "sync"

// Data describes a quantized heightmap.
// It may be in a compressed format.
type Data struct {
	Detail int     `json:"detail"`
	Low    float32 `json:"low"`    // Low is the height that byte 0 maps to.
	High   float32 `json:"high"`   // High is the height that byte 255 maps to.
	Data   []byte  `json:"data"`   // Data is a possibly compressed heightmap.
	Stride int     `json:"stride"` // Stride is width of Data.
	Length int     `json:"length"` // Length is uncompressed length of Data for faster reading.
}

var dataPool = sync.Pool{
	New: func() interface{} {
		return &Data{
			Data: make([]byte, 0, 2048),
		}
	},
}

func NewData() *Data {
	return dataPool.Get().(*Data)
}

func (data *Data) Pool() {
	*data = Data{
		Data: data.Data[:0],
	}
	dataPool.Put(data)
}

// Quantize maps h into a byte relative to [low, high].
func Quantize(h, low, high float32) byte {
	if high <= low {
		return 0
	}
	f := (h - low) / (high - low) * 255
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return byte(f)
}

// Dequantize is the approximate inverse of Quantize.
func Dequantize(b byte, low, high float32) float32 {
	return low + float32(b)*(high-low)/255
}
