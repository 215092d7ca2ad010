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
	"testing"
)

// bc7Fields are the decoded fields of a BC7 block.
type bc7Fields struct {
	mode      int
	rotation  int
	indexMode int
	shape     int
	endpoints [3]endpointPair
	indices   [16]uint8
	indices2  [16]uint8
}

// parseBC7 splits a BC7 block into its fields. Endpoints are unquantized.
func parseBC7(tt *testing.T, blk *[16]byte) (f bc7Fields) {
	b := BitBlock(*blk)
	c := 0
	for {
		var bit uint8
		bit, c = b.GetBit(c)
		if bit != 0 {
			break
		}
		f.mode++
		if f.mode == 8 {
			tt.Fatalf("block %X: no mode bit", blk[:])
		}
	}
	m := &bc7Modes[f.mode]

	var v uint8
	v, c = b.GetBits(c, m.rotationBits)
	f.rotation = int(v)
	v, c = b.GetBits(c, m.indexModeBits)
	f.indexMode = int(v)
	v, c = b.GetBits(c, m.partitionBits)
	f.shape = int(v)

	var raw [3]endpointPair
	for ch := range 4 {
		for r := 0; r <= m.partitions; r++ {
			raw[r][0][ch], c = b.GetBits(c, int(m.rgbaPrec[ch]))
			raw[r][1][ch], c = b.GetBits(c, int(m.rgbaPrec[ch]))
		}
	}
	var pbits [6]uint8
	for i := range m.pBits {
		pbits[i], c = b.GetBit(c)
	}

	for r := 0; r <= m.partitions; r++ {
		for e := range 2 {
			for ch := range 4 {
				x := raw[r][e][ch]
				if m.rgbaPrec[ch] != m.rgbaPrecWithP[ch] {
					p := pbits[(2*r)+e]
					if m.sharedParity() {
						p = pbits[r]
					}
					x = (x << 1) | p
				}
				raw[r][e][ch] = x
			}
			f.endpoints[r][e] = UnquantizeColor(raw[r][e], m.rgbaPrecWithP)
		}
	}

	for i := range 16 {
		n := m.indexPrec
		if isFixup(m.partitions, f.shape, i) {
			n--
		}
		f.indices[i], c = b.GetBits(c, n)
	}
	if m.indexPrec2 > 0 {
		for i := range 16 {
			n := m.indexPrec2
			if i == 0 {
				n--
			}
			f.indices2[i], c = b.GetBits(c, n)
		}
	}
	if c != bitBlockNumBits {
		tt.Fatalf("block %X: parsed %d bits", blk[:], c)
	}
	return f
}

// decodeBC7 reconstructs the 16 pixels of a BC7 block.
func decodeBC7(tt *testing.T, blk *[16]byte) (f bc7Fields, pixels [16]LDRColor) {
	f = parseBC7(tt, blk)
	m := &bc7Modes[f.mode]

	for i := range 16 {
		ep := f.endpoints[partitionTable[m.partitions][f.shape][i]]
		if m.indexPrec2 == 0 {
			pixels[i] = Interpolate(ep[0], ep[1], int(f.indices[i]), int(f.indices[i]), m.indexPrec, m.indexPrec)
		} else if f.indexMode == 0 {
			pixels[i] = Interpolate(ep[0], ep[1], int(f.indices[i]), int(f.indices2[i]), m.indexPrec, m.indexPrec2)
		} else {
			pixels[i] = Interpolate(ep[0], ep[1], int(f.indices2[i]), int(f.indices[i]), m.indexPrec2, m.indexPrec)
		}
		if f.rotation > 0 {
			c := f.rotation - 1
			pixels[i][c], pixels[i][3] = pixels[i][3], pixels[i][c]
		}
	}
	return f, pixels
}

func squaredError(a *[16]LDRColor, b *[16]LDRColor) (ret float32) {
	for i := range a {
		d := a[i].hdr().Sub(b[i].hdr())
		ret += d.Dot(d)
	}
	return ret
}

// makeBC7Source returns HDR pixels that convert exactly to ldr.
func makeBC7Source(ldr *[16]LDRColor) (src [16]HDRColor) {
	for i, c := range ldr {
		for ch := range 4 {
			src[i][ch] = float32(c[ch]) / 255
		}
	}
	return src
}

// pseudoRandomBlock returns a reproducible, noisy block.
func pseudoRandomBlock(seed uint32, opaque bool) (ldr [16]LDRColor) {
	for i := range ldr {
		for ch := range 4 {
			seed = (seed * 1664525) + 1013904223
			ldr[i][ch] = uint8(seed >> 24)
		}
		if opaque {
			ldr[i][3] = 0xFF
		}
	}
	return ldr
}

func TestEncodeBC7BlockUniform(tt *testing.T) {
	testCases := []struct {
		name  string
		color LDRColor
	}{
		{"red", LDRColor{0xFF, 0x00, 0x00, 0xFF}},
		{"green", LDRColor{0x00, 0xFF, 0x00, 0xFF}},
		{"white", LDRColor{0xFF, 0xFF, 0xFF, 0xFF}},
		{"black", LDRColor{0x00, 0x00, 0x00, 0xFF}},
		{"transparent", LDRColor{0x00, 0x00, 0x00, 0x00}},
	}

	for _, tc := range testCases {
		var ldr [16]LDRColor
		for i := range ldr {
			ldr[i] = tc.color
		}
		src := makeBC7Source(&ldr)

		var dst [16]byte
		EncodeBC7Block(&dst, &src, 0)

		f, got := decodeBC7(tt, &dst)
		if m := &bc7Modes[f.mode]; m.partitions != 0 {
			tt.Errorf("tc=%q: mode %d has %d regions, want 1", tc.name, f.mode, m.numRegions())
		}
		if e := squaredError(&got, &ldr); e != 0 {
			tt.Errorf("tc=%q: squared error: got %v, want 0", tc.name, e)
		}
	}
}

func TestEncodeBC7BlockRoundsHalfUp(tt *testing.T) {
	// Each want has channels of one parity, so that mode 6 can represent it
	// exactly and the best encoding has zero error.
	testCases := []struct {
		name  string
		color HDRColor
		want  LDRColor
	}{
		{"half", HDRColor{0.5, 0.5, 0.5, 0.5}, LDRColor{128, 128, 128, 128}},
		{"fractions", HDRColor{100.6 / 255, 200.7 / 255, 30.6 / 255, 1}, LDRColor{101, 201, 31, 255}},
		{"translucent", HDRColor{62.8 / 255, 0.75, 1, 0.6}, LDRColor{63, 191, 255, 153}},
	}

	for _, tc := range testCases {
		var src [16]HDRColor
		for i := range src {
			src[i] = tc.color
		}

		var dst [16]byte
		EncodeBC7Block(&dst, &src, 0)

		_, got := decodeBC7(tt, &dst)
		for i := range got {
			if got[i] != tc.want {
				tt.Errorf("tc=%q: pixel %d: got %v, want %v", tc.name, i, got[i], tc.want)
				break
			}
		}
	}
}

// TestEncodeBC7BlockGolden checks whole blocks whose bit fields were worked
// out by hand, independently of the mode and partition tables.
func TestEncodeBC7BlockGolden(tt *testing.T) {
	testCases := []struct {
		name  string
		color HDRColor
		flags BC7Flags
		want  [16]byte
	}{{
		// Mode 4: the mode bits 0b10000, rotation 0, index mode 0, then
		// R0=R1=31, G and B zero, A0=A1=63 and all-zero indices.
		name:  "red-mode4",
		color: HDRColor{1, 0, 0, 1},
		want:  [16]byte{0x10, 0xFF, 0x03, 0x00, 0xC0, 0xFF, 0x03},
	}, {
		// Mode 4: every endpoint field, bits 8 to 49, is all ones.
		name:  "white-mode4",
		color: HDRColor{1, 1, 1, 1},
		want:  [16]byte{0x10, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x03},
	}, {
		// Mode 6: the mode bits 0b1000000, eight 7-bit endpoint fields of
		// 127 and two parity bits of 1, so bits 6 to 64 are all ones. The
		// 4-bit indices are all zero.
		name:  "white-mode6",
		color: HDRColor{1, 1, 1, 1},
		flags: BC7ForceMode6,
		want:  [16]byte{0xC0, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01},
	}}

	for _, tc := range testCases {
		var src [16]HDRColor
		for i := range src {
			src[i] = tc.color
		}

		var got [16]byte
		EncodeBC7Block(&got, &src, tc.flags)
		if got != tc.want {
			tt.Errorf("tc=%q:\ngot  % 02X\nwant % 02X", tc.name, got[:], tc.want[:])
		}
	}
}

func TestEncodeBC7BlockOpaqueRed(tt *testing.T) {
	var src [16]HDRColor
	for i := range src {
		src[i] = HDRColor{1, 0, 0, 1}
	}

	var dst [16]byte
	EncodeBC7Block(&dst, &src, 0)

	// Mode 4 is four zero bits and then a one. The rotation and index mode
	// bits that follow are zero.
	if got, want := dst[0], uint8(0x10); got != want {
		tt.Fatalf("byte 0: got 0x%02X, want 0x%02X", got, want)
	}

	// The 16 primary indices start after the 8 header bits and 42 endpoint
	// bits. The first is one bit shorter than the rest.
	b := BitBlock(dst)
	first, c := b.GetBits(50, 1)
	for i := 1; i < 16; i++ {
		var index uint8
		index, c = b.GetBits(c, 2)
		if index != first {
			tt.Errorf("index %d: got %d, want %d", i, index, first)
		}
	}
	if c != 81 {
		tt.Errorf("cursor after primary indices: got %d, want 81", c)
	}
}

func TestEncodeBC7BlockForceMode6(tt *testing.T) {
	ldr := pseudoRandomBlock(1, false)
	src := makeBC7Source(&ldr)

	var dst [16]byte
	EncodeBC7Block(&dst, &src, BC7ForceMode6)
	if got, want := dst[0]&0x7F, uint8(0x40); got != want {
		tt.Fatalf("byte 0 low bits: got 0x%02X, want 0x%02X", got, want)
	}
	if f := parseBC7(tt, &dst); f.mode != 6 {
		tt.Fatalf("mode: got %d, want 6", f.mode)
	}
}

func TestEncodeBC7BlockErrorMatchesDecode(tt *testing.T) {
	testCases := []struct {
		name  string
		ldr   [16]LDRColor
		flags BC7Flags
	}{
		{"noise", pseudoRandomBlock(2, false), 0},
		{"opaque-noise", pseudoRandomBlock(3, true), 0},
		{"three-subsets", pseudoRandomBlock(4, true), BC7UseThreeSubsets},
		{"mode6", pseudoRandomBlock(5, false), BC7ForceMode6},
	}

	var gradient [16]LDRColor
	for i := range gradient {
		x, y := uint8(i%4), uint8(i/4)
		gradient[i] = LDRColor{40 + (50 * x), 200 - (30 * y), 90, 255 - (20 * x) - (10 * y)}
	}
	testCases = append(testCases, struct {
		name  string
		ldr   [16]LDRColor
		flags BC7Flags
	}{"gradient", gradient, 0})

	for _, tc := range testCases {
		src := makeBC7Source(&tc.ldr)

		var dst [16]byte
		EncodeBC7Block(&dst, &src, tc.flags)
		f, got := decodeBC7(tt, &dst)

		bestErr := float32(math.MaxFloat32)
		for c := range newBC7Encoder(&src).candidates(tc.flags) {
			bestErr = min(bestErr, c.err)
			if bestErr <= 0 {
				break
			}
		}

		if e := squaredError(&got, &tc.ldr); e != bestErr {
			tt.Errorf("tc=%q: mode %d: decoded squared error %v, encoder reported %v",
				tc.name, f.mode, e, bestErr)
		}
		if ((tc.flags & BC7UseThreeSubsets) == 0) && ((f.mode == 0) || (f.mode == 2)) {
			tt.Errorf("tc=%q: chose three subset mode %d", tc.name, f.mode)
		}
	}
}

func TestEncodeBC7BlockOpaqueSkipsMode7(tt *testing.T) {
	for seed := uint32(10); seed < 20; seed++ {
		ldr := pseudoRandomBlock(seed, true)
		src := makeBC7Source(&ldr)

		var dst [16]byte
		EncodeBC7Block(&dst, &src, 0)
		if f := parseBC7(tt, &dst); f.mode == 7 {
			tt.Errorf("seed=%d: chose mode 7 for an opaque block", seed)
		}
	}
}

func TestEncodeBC7BlockDeterministic(tt *testing.T) {
	ldr := pseudoRandomBlock(6, false)
	src := makeBC7Source(&ldr)

	var a, b [16]byte
	EncodeBC7Block(&a, &src, 0)
	EncodeBC7Block(&b, &src, 0)
	if a != b {
		tt.Fatalf("got %X and %X, want equal", a, b)
	}
}

func TestBC7PixelsRotated(tt *testing.T) {
	var p bc7Pixels
	for i := range 16 {
		p.ldr[i] = LDRColor{1, 2, 3, 4}
		p.hdr[i] = HDRColor{0.1, 0.2, 0.3, 0.4}
	}

	q := p.rotated(2)
	if got, want := q.ldr[5], (LDRColor{1, 4, 3, 2}); got != want {
		tt.Errorf("ldr: got %v, want %v", got, want)
	}
	if got, want := q.hdr[5], (HDRColor{0.1, 0.4, 0.3, 0.2}); got != want {
		tt.Errorf("hdr: got %v, want %v", got, want)
	}
	if p.ldr[5] != (LDRColor{1, 2, 3, 4}) {
		tt.Errorf("the original was modified")
	}
}
