// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

import (
	"math"
)

// EncodeBC4Block encodes 16 samples, in raster order, as one BC4 block. The
// samples are in the range [0, 1], or [-1, +1] when signed. Values outside of
// that range are clamped.
//
// The block is two endpoint bytes followed by sixteen 3 bit indices, packed
// least significant bit first.
func EncodeBC4Block(dst *[8]byte, src *[16]float32, signed bool) {
	minValue, maxValue := gradientRange(signed)
	var samples [16]float32
	for i, s := range src {
		samples[i] = max(minValue, min(maxValue, s))
	}

	e0, e1 := bc4Endpoints(&samples, signed)
	palette := bc4Palette(e0, e1, signed)

	var b BitBlock
	c := b.SetBits(0, 8, e0)
	c = b.SetBits(c, 8, e1)
	for _, s := range samples {
		bestIndex, bestDelta := 0, float32(math.MaxFloat32)
		for i, p := range palette {
			if delta := float32(math.Abs(float64(p - s))); bestDelta > delta {
				bestIndex, bestDelta = i, delta
			}
		}
		c = b.SetBits(c, 3, uint8(bestIndex))
	}
	copy(dst[:], b[:8])
}

// EncodeBC5Block encodes two channels of 16 samples each as one BC5 block:
// the BC4 block for u followed by the BC4 block for v.
func EncodeBC5Block(dst *[16]byte, u *[16]float32, v *[16]float32, signed bool) {
	EncodeBC4Block((*[8]byte)(dst[0:8]), u, signed)
	EncodeBC4Block((*[8]byte)(dst[8:16]), v, signed)
}

// bc4Endpoints returns the two endpoint bytes of a BC4 block. Unsigned
// endpoints are 0 to 255. Signed ones are int8 values, -127 to +127, stored
// as their two's complement byte.
//
// The order of the two endpoints selects the ramp. When e0 > e1, the ramp has
// eight interpolated values. Otherwise it has six, plus the two range
// extremes. The six value ramp is used whenever a sample is at an extreme, so
// that it is reproduced exactly.
func bc4Endpoints(samples *[16]float32, signed bool) (e0 uint8, e1 uint8) {
	minValue, maxValue := gradientRange(signed)
	blockMin, blockMax := samples[0], samples[0]
	for _, s := range samples {
		blockMin = min(blockMin, s)
		blockMax = max(blockMax, s)
	}

	if (blockMin != minValue) && (blockMax != maxValue) {
		lo, hi := fitGradient(samples, 8, signed)
		return bc4Quantize(hi, signed), bc4Quantize(lo, signed)
	}
	lo, hi := fitGradient(samples, 6, signed)
	return bc4Quantize(lo, signed), bc4Quantize(hi, signed)
}

// bc4Quantize truncates a sample to an endpoint byte.
func bc4Quantize(f float32, signed bool) uint8 {
	if signed {
		return uint8(int8(f * 127))
	}
	return uint8(f * 255)
}

// bc4Dequantize is the inverse of bc4Quantize. The signed byte -128 decodes
// as -1, the same as -127.
func bc4Dequantize(e uint8, signed bool) float32 {
	if signed {
		if int8(e) == -128 {
			return -1
		}
		return float32(int8(e)) / 127
	}
	return float32(e) / 255
}

// bc4Less compares two endpoint bytes as a decoder does, as int8 values for
// signed blocks.
func bc4Less(e0 uint8, e1 uint8, signed bool) bool {
	if signed {
		return int8(e0) < int8(e1)
	}
	return e0 < e1
}

// bc4Palette returns the eight values that a BC4 block's indices select.
func bc4Palette(e0 uint8, e1 uint8, signed bool) (palette [8]float32) {
	f0, f1 := bc4Dequantize(e0, signed), bc4Dequantize(e1, signed)
	palette[0], palette[1] = f0, f1

	if bc4Less(e1, e0, signed) {
		for i := 1; i < 7; i++ {
			palette[i+1] = ((f0 * float32(7-i)) + (f1 * float32(i))) / 7
		}
		return palette
	}

	for i := 1; i < 5; i++ {
		palette[i+1] = ((f0 * float32(5-i)) + (f1 * float32(i))) / 5
	}
	palette[6], palette[7] = gradientRange(signed)
	return palette
}
