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

	"golang.org/x/image/draw"
)

// SplitYCbCrA converts src to two images suited to FormatBC5Unsigned: ya holds
// luma in its red channel and alpha in its green channel, and cbcr holds the
// two chroma values in its red and green channels.
//
// ya has src's bounds. cbcr has half the width and height, rounded up, with a
// zero origin: each of its pixels is the average of a 2×2 group of src pixels,
// with the right and bottom edges of src replicated for odd sizes.
//
// Luma uses the ITU-R BT.709 weights. Chroma is offset so that neutral colors
// sit near the middle of the [0, 255] range.
//
// Encoding both images as BC5 costs 20 bytes per 4×4 block of src: 16 for
// luma and alpha, at full resolution, and 4 for the quarter-sized chroma.
func SplitYCbCrA(src image.Image) (ya *image.NRGBA, cbcr *image.NRGBA) {
	b := src.Bounds()
	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(b)
		draw.Draw(nrgba, b, src, b.Min, draw.Src)
	}

	ya = image.NewNRGBA(b)
	full := make([][2]uint8, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgba.NRGBAAt(x, y)
			lum, cb, cr := ycbcr(c.R, c.G, c.B)
			ya.SetNRGBA(x, y, color.NRGBA{lum, c.A, 0x00, 0xFF})
			full[((y-b.Min.Y)*b.Dx())+(x-b.Min.X)] = [2]uint8{cb, cr}
		}
	}

	w, h := b.Dx(), b.Dy()
	cbcr = image.NewNRGBA(image.Rect(0, 0, (w+1)/2, (h+1)/2))
	for y := range (h + 1) / 2 {
		y0, y1 := 2*y, min((2*y)+1, h-1)
		for x := range (w + 1) / 2 {
			x0, x1 := 2*x, min((2*x)+1, w-1)
			var sum [2]uint32
			for _, i := range [4]int{(y0 * w) + x0, (y0 * w) + x1, (y1 * w) + x0, (y1 * w) + x1} {
				sum[0] += uint32(full[i][0])
				sum[1] += uint32(full[i][1])
			}
			cbcr.SetNRGBA(x, y, color.NRGBA{uint8((sum[0] + 2) / 4), uint8((sum[1] + 2) / 4), 0x00, 0xFF})
		}
	}
	return ya, cbcr
}

// ycbcr converts one RGB color. Results are truncated, after clamping, to
// 8 bits.
func ycbcr(r8 uint8, g8 uint8, b8 uint8) (lum uint8, cb uint8, cr uint8) {
	r, g, b := float32(r8), float32(g8), float32(b8)
	y := (r * 0.212593317) + (g * 0.715214610) + (b * 0.0721921176)
	u := ((r * -0.114568502) + (g * -0.385435730) + (b * 0.5000042320) + 128.5) / 1.003922
	v := ((r * 0.500004232) + (g * -0.454162151) + (b * -0.0458420813) + 128.5) / 1.003922
	return clampU8(y), clampU8(u), clampU8(v)
}

func clampU8(f float32) uint8 {
	return uint8(max(0, min(255, f)))
}
