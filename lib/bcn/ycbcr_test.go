// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

import (
	"image"
	"image/color"
	"testing"
)

func TestYCbCr(tt *testing.T) {
	testCases := []struct {
		name        string
		r, g, b     uint8
		lum, cb, cr uint8
	}{
		{"black", 0x00, 0x00, 0x00, 0, 127, 127},
		{"white", 0xFF, 0xFF, 0xFF, 255, 127, 127},
		{"gray", 0x60, 0x60, 0x60, 96, 127, 127},
		{"red", 0xFF, 0x00, 0x00, 54, 98, 255},
		{"blue", 0x00, 0x00, 0xFF, 18, 255, 116},
	}

	// Results are truncated, so allow for a floating point error that lands
	// just below an integer.
	within1 := func(a uint8, b uint8) bool {
		return (int(a)-int(b) <= 1) && (int(b)-int(a) <= 1)
	}

	for _, tc := range testCases {
		lum, cb, cr := ycbcr(tc.r, tc.g, tc.b)
		if !within1(lum, tc.lum) || !within1(cb, tc.cb) || !within1(cr, tc.cr) {
			tt.Errorf("tc=%q: got (%d, %d, %d), want (%d, %d, %d)",
				tc.name, lum, cb, cr, tc.lum, tc.cb, tc.cr)
		}
	}
}

func TestSplitYCbCrA(tt *testing.T) {
	r := image.Rect(2, 1, 5, 3)
	src := image.NewRGBA(r)
	src.Set(2, 1, color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF})
	src.Set(4, 2, color.NRGBA{0x00, 0x00, 0x00, 0x80})

	ya, cbcr := SplitYCbCrA(src)
	if ya.Bounds() != r {
		tt.Fatalf("ya bounds: got %v, want %v", ya.Bounds(), r)
	}
	if got, want := cbcr.Bounds(), image.Rect(0, 0, 2, 1); got != want {
		tt.Fatalf("cbcr bounds: got %v, want %v", got, want)
	}

	if got := ya.NRGBAAt(2, 1); (got.R < 254) || (got.G != 0xFF) || (got.B != 0) || (got.A != 0xFF) {
		tt.Errorf("ya white: got %v, want {255 255 0 255}", got)
	}
	// Every source pixel is neutral, so every average is too.
	for x := range 2 {
		if got, want := cbcr.NRGBAAt(x, 0), (color.NRGBA{127, 127, 0, 0xFF}); got != want {
			tt.Errorf("cbcr(%d, 0): got %v, want %v", x, got, want)
		}
	}
	if got, want := ya.NRGBAAt(4, 2), (color.NRGBA{0, 0x80, 0, 0xFF}); got != want {
		tt.Errorf("ya translucent black: got %v, want %v", got, want)
	}
	if got, want := ya.NRGBAAt(3, 1), (color.NRGBA{0, 0x00, 0, 0xFF}); got != want {
		tt.Errorf("ya transparent: got %v, want %v", got, want)
	}
}

func TestSplitYCbCrAAveragesChroma(tt *testing.T) {
	colors := [3][3]color.NRGBA{
		{{0xFF, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0xFF, 0xFF}, {0x00, 0xFF, 0x00, 0xFF}},
		{{0x00, 0x00, 0xFF, 0xFF}, {0xFF, 0xFF, 0x00, 0xFF}, {0xFF, 0x00, 0xFF, 0xFF}},
		{{0x20, 0x40, 0x60, 0xFF}, {0x80, 0x80, 0x80, 0xFF}, {0xC0, 0x10, 0x30, 0xFF}},
	}
	r := image.Rect(7, 5, 10, 8)
	src := image.NewNRGBA(r)
	for y := range 3 {
		for x := range 3 {
			src.SetNRGBA(r.Min.X+x, r.Min.Y+y, colors[y][x])
		}
	}

	chroma := func(x int, y int) (cb int, cr int) {
		c := colors[y][x]
		_, cbv, crv := ycbcr(c.R, c.G, c.B)
		return int(cbv), int(crv)
	}

	// Each output pixel averages a 2×2 group, replicating the last row and
	// column of the 3×3 source.
	testCases := []struct {
		x, y   int
		groupX [2]int
		groupY [2]int
	}{
		{0, 0, [2]int{0, 1}, [2]int{0, 1}},
		{1, 0, [2]int{2, 2}, [2]int{0, 1}},
		{0, 1, [2]int{0, 1}, [2]int{2, 2}},
		{1, 1, [2]int{2, 2}, [2]int{2, 2}},
	}

	_, cbcr := SplitYCbCrA(src)
	if got, want := cbcr.Bounds(), image.Rect(0, 0, 2, 2); got != want {
		tt.Fatalf("bounds: got %v, want %v", got, want)
	}

	for _, tc := range testCases {
		sumCb, sumCr := 0, 0
		for _, gy := range tc.groupY {
			for _, gx := range tc.groupX {
				cb, cr := chroma(gx, gy)
				sumCb += cb
				sumCr += cr
			}
		}
		want := color.NRGBA{uint8((sumCb + 2) / 4), uint8((sumCr + 2) / 4), 0x00, 0xFF}
		if got := cbcr.NRGBAAt(tc.x, tc.y); got != want {
			tt.Errorf("(%d, %d): got %v, want %v", tc.x, tc.y, got, want)
		}
	}

	// Red and blue pull Cr and Cb in opposite directions, so the top-left
	// average is far from either extreme.
	if got := cbcr.NRGBAAt(0, 0); (got.R == 0xFF) || (got.G == 0xFF) {
		tt.Errorf("top-left: got %v, want averaged chroma", got)
	}
}
