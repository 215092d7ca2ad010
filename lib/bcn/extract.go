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
)

// makeExtract returns a closure that extracts the 4×4 block from src with the
// given top-left corner, relative to src's bounds, writing the data to pixels.
// Channels are normalized to [0, 1] and alpha is not premultiplied.
//
// For single channel formats, the gray value of each pixel is written to the
// R channel.
//
// Out-of-bound pixels right of and below the image are substituted with the
// nearest in-bound pixel from the right and bottom edges.
func (f Format) makeExtract(pixels *[16]HDRColor, src image.Image) func(blockX int, blockY int) {
	// We use the ITU-R BT.709 constants for conversion from color to gray,
	// which matches the ImageMagick "convert" program.
	//
	// These RGB-to-gray constants are different from that used by the Go
	// standard library's image/color package (which follows ITU-R BT.601, the
	// same as JFIF): 0.299 0.587 0.114
	const grayR, grayG, grayB, graySum = 212656, 715158, 72186, 1000000

	gray := (f == FormatBC4Unsigned) || (f == FormatBC4Signed)

	put := func(i int, r uint32, g uint32, b uint32, a uint32) {
		if gray {
			y := ((graySum / 2) +
				(uint64(r) * grayR) +
				(uint64(g) * grayG) +
				(uint64(b) * grayB)) / graySum
			r = uint32(y)
		}
		pixels[i] = HDRColor{
			float32(r) / 0xFFFF,
			float32(g) / 0xFFFF,
			float32(b) / 0xFFFF,
			float32(a) / 0xFFFF,
		}
	}

	bounds := src.Bounds()
	mX0, mY0 := bounds.Min.X, bounds.Min.Y
	mX1, mY1 := bounds.Max.X-1, bounds.Max.Y-1

	if srcNRGBA, ok := src.(*image.NRGBA); ok {
		return func(blockX int, blockY int) {
			for y := range 4 {
				for x := range 4 {
					c := srcNRGBA.NRGBAAt(min(mX1, mX0+blockX+x), min(mY1, mY0+blockY+y))
					put((4*y)+x,
						uint32(c.R)*0x101, uint32(c.G)*0x101,
						uint32(c.B)*0x101, uint32(c.A)*0x101)
				}
			}
		}

	} else if srcNRGBA64, ok := src.(*image.NRGBA64); ok {
		return func(blockX int, blockY int) {
			for y := range 4 {
				for x := range 4 {
					c := srcNRGBA64.NRGBA64At(min(mX1, mX0+blockX+x), min(mY1, mY0+blockY+y))
					put((4*y)+x, uint32(c.R), uint32(c.G), uint32(c.B), uint32(c.A))
				}
			}
		}

	} else if srcRGBA64, ok := src.(image.RGBA64Image); ok {
		return func(blockX int, blockY int) {
			for y := range 4 {
				for x := range 4 {
					c := srcRGBA64.RGBA64At(min(mX1, mX0+blockX+x), min(mY1, mY0+blockY+y))
					if (c.A != 0x0000) && (c.A != 0xFFFF) {
						c.R = uint16((uint32(c.R) * 0xFFFF) / uint32(c.A))
						c.G = uint16((uint32(c.G) * 0xFFFF) / uint32(c.A))
						c.B = uint16((uint32(c.B) * 0xFFFF) / uint32(c.A))
					}
					put((4*y)+x, uint32(c.R), uint32(c.G), uint32(c.B), uint32(c.A))
				}
			}
		}
	}

	return func(blockX int, blockY int) {
		for y := range 4 {
			for x := range 4 {
				r, g, b, a := src.At(min(mX1, mX0+blockX+x), min(mY1, mY0+blockY+y)).RGBA()
				if (a != 0x0000) && (a != 0xFFFF) {
					r = (r * 0xFFFF) / a
					g = (g * 0xFFFF) / a
					b = (b * 0xFFFF) / a
				}
				put((4*y)+x, r, g, b, a)
			}
		}
	}
}

// channelSamples copies channel c of pixels into dst. For signed formats, the
// range [0, 1] is mapped to [-1, +1].
func channelSamples(dst *[16]float32, pixels *[16]HDRColor, c int, signed bool) {
	for i := range pixels {
		v := pixels[i][c]
		if signed {
			v = (2 * v) - 1
		}
		dst[i] = v
	}
}
