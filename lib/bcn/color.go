// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

// LDRColor is a low dynamic range color: 8 bits per channel, indexed as R, G,
// B and A for 0, 1, 2 and 3.
//
// During BC7 encoding, the same type also holds endpoint values that have been
// quantized to fewer than 8 bits.
type LDRColor [4]uint8

// HDRColor is a color with float32 channels, indexed as R, G, B and A for 0, 1,
// 2 and 3. Normalized values are in the range [0, 1].
type HDRColor [4]float32

func (c HDRColor) Add(d HDRColor) HDRColor {
	return HDRColor{c[0] + d[0], c[1] + d[1], c[2] + d[2], c[3] + d[3]}
}

func (c HDRColor) Sub(d HDRColor) HDRColor {
	return HDRColor{c[0] - d[0], c[1] - d[1], c[2] - d[2], c[3] - d[3]}
}

func (c HDRColor) Scale(f float32) HDRColor {
	return HDRColor{c[0] * f, c[1] * f, c[2] * f, c[3] * f}
}

// Dot returns the four channel dot product of c and d.
func (c HDRColor) Dot(d HDRColor) float32 {
	return (c[0] * d[0]) + (c[1] * d[1]) + (c[2] * d[2]) + (c[3] * d[3])
}

// Clamp returns c with each channel clamped to [lo, hi].
func (c HDRColor) Clamp(lo float32, hi float32) HDRColor {
	for i := range c {
		c[i] = max(lo, min(hi, c[i]))
	}
	return c
}

// LDR converts c, whose channels must already be in the range [0, 255], to an
// LDRColor, rounding half up.
func (c HDRColor) LDR() LDRColor {
	return LDRColor{
		uint8(c[0] + 0.5),
		uint8(c[1] + 0.5),
		uint8(c[2] + 0.5),
		uint8(c[3] + 0.5),
	}
}

// hdr converts an LDRColor to an HDRColor without rescaling: the channels are
// in the range [0, 255].
func (c LDRColor) hdr() HDRColor {
	return HDRColor{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
}

// Interpolation weights are fixed point, out of 64.
const (
	weightMax   = 64
	weightShift = 6
	weightRound = 32
)

var (
	weights2 = [4]uint32{0, 21, 43, 64}
	weights3 = [8]uint32{0, 9, 18, 27, 37, 46, 55, 64}
	weights4 = [16]uint32{0, 4, 9, 13, 17, 21, 26, 30, 34, 38, 43, 47, 51, 55, 60, 64}
)

// weightsFor returns the interpolation weights for an index precision of 2, 3
// or 4 bits.
func weightsFor(prec int) []uint32 {
	switch prec {
	case 2:
		return weights2[:]
	case 3:
		return weights3[:]
	case 4:
		return weights4[:]
	}
	panic("bcn: invalid index precision")
}

func lerp8(c0 uint8, c1 uint8, w uint32) uint8 {
	return uint8(((uint32(c0) * (weightMax - w)) + (uint32(c1) * w) + weightRound) >> weightShift)
}

// InterpolateRGB returns the RGB channels of the color at index wc of the ramp
// from c0 to c1, where the ramp has 1<<cPrec entries. The alpha channel of the
// result is zero.
func InterpolateRGB(c0 LDRColor, c1 LDRColor, wc int, cPrec int) (ret LDRColor) {
	w := weightsFor(cPrec)[wc]
	ret[0] = lerp8(c0[0], c1[0], w)
	ret[1] = lerp8(c0[1], c1[1], w)
	ret[2] = lerp8(c0[2], c1[2], w)
	return ret
}

// InterpolateA returns the alpha channel of the color at index wa of the ramp
// from c0 to c1, where the ramp has 1<<aPrec entries.
func InterpolateA(c0 LDRColor, c1 LDRColor, wa int, aPrec int) uint8 {
	return lerp8(c0[3], c1[3], weightsFor(aPrec)[wa])
}

// Interpolate combines InterpolateRGB and InterpolateA. The RGB and alpha
// channels can use different indexes and different ramp lengths.
func Interpolate(c0 LDRColor, c1 LDRColor, wc int, wa int, cPrec int, aPrec int) LDRColor {
	ret := InterpolateRGB(c0, c1, wc, cPrec)
	ret[3] = InterpolateA(c0, c1, wa, aPrec)
	return ret
}

// Quantize reduces an 8 bit component to prec bits, rounding half up. prec
// must be in [1, 8].
func Quantize(comp uint8, prec int) uint8 {
	if (prec < 1) || (prec > 8) {
		panic("bcn: invalid color precision")
	} else if prec == 8 {
		return comp
	}
	rnd := min(255, uint32(comp)+(1<<uint(7-prec)))
	return uint8(rnd >> uint(8-prec))
}

// Unquantize expands a prec bit component back to 8 bits, replicating its
// high bits into the low bits. prec must be in [1, 8].
func Unquantize(comp uint8, prec int) uint8 {
	if (prec < 1) || (prec > 8) {
		panic("bcn: invalid color precision")
	}
	comp <<= uint(8 - prec)
	return comp | (comp >> uint(prec))
}

// QuantizeColor quantizes each channel of c to the matching precision in prec.
// A zero precision means that the channel is absent, and it becomes 255.
func QuantizeColor(c LDRColor, prec LDRColor) (ret LDRColor) {
	for i := range ret {
		if prec[i] == 0 {
			ret[i] = 255
		} else {
			ret[i] = Quantize(c[i], int(prec[i]))
		}
	}
	return ret
}

// UnquantizeColor is the inverse of QuantizeColor.
func UnquantizeColor(c LDRColor, prec LDRColor) (ret LDRColor) {
	for i := range ret {
		if prec[i] == 0 {
			ret[i] = 255
		} else {
			ret[i] = Unquantize(c[i], int(prec[i]))
		}
	}
	return ret
}
