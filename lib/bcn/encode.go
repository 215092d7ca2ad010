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
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// EncodeOptions are optional arguments to Encode. The zero value is valid and
// means to use the default configuration.
type EncodeOptions struct {
	// BC7Flags tunes the BC7 mode search. It is ignored by other formats.
	BC7Flags BC7Flags

	// Workers is the number of goroutines that encode blocks concurrently.
	// Zero (or negative) means runtime.GOMAXPROCS(0). The output does not
	// depend on it.
	Workers int
}

// maxDimension is the largest supported image width or height.
const maxDimension = 65532

// EncodedLen returns the number of bytes that Encode writes for an image with
// the given width and height, or 0 if either is out of range.
func (f Format) EncodedLen(width int, height int) int {
	if (width < 0) || (width > maxDimension) ||
		(height < 0) || (height > maxDimension) {
		return 0
	}
	return ((width + 3) / 4) * ((height + 3) / 4) * f.BytesPerBlock()
}

// Encode writes src to dst in the BCn format f.
//
// Blocks are written in raster order, without any container header. For BC4,
// each pixel's gray value is encoded. For BC5, the red and green channels are
// encoded. Signed formats map the [0, 1] range of the image to [-1, +1].
//
// options may be nil, which means to use the default configuration.
func Encode(dst io.Writer, src image.Image, f Format, options *EncodeOptions) error {
	if (dst == nil) || (src == nil) || (f.BytesPerBlock() == 0) {
		return ErrBadArgument
	}
	if options == nil {
		options = &EncodeOptions{}
	}

	b := src.Bounds()
	bW, bH := b.Dx(), b.Dy()
	if (bW > maxDimension) || (bH > maxDimension) {
		return ErrImageIsTooLarge
	} else if (bW <= 0) || (bH <= 0) {
		return nil
	}

	blocksX, blocksY := (bW+3)/4, (bH+3)/4
	bpb := f.BytesPerBlock()
	bandRows := max(1, encoderBandBlocks/blocksX)
	buf := make([]byte, bandRows*blocksX*bpb)

	workers := options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	enc := &bandEncoder{
		f:        f,
		src:      src,
		flags:    options.BC7Flags,
		blocksX:  blocksX,
		workers:  workers,
		bytesPer: bpb,
	}
	for blockY := 0; blockY < blocksY; blockY += bandRows {
		n := min(bandRows, blocksY-blockY)
		band := buf[:n*blocksX*bpb]
		enc.encode(band, blockY, n)
		if _, err := dst.Write(band); err != nil {
			return err
		}
	}
	return nil
}

// encoderBandBlocks is roughly how many blocks are encoded between writes.
const encoderBandBlocks = 4096

// bandEncoder encodes horizontal bands of blocks, possibly concurrently.
type bandEncoder struct {
	f        Format
	src      image.Image
	flags    BC7Flags
	blocksX  int
	workers  int
	bytesPer int
}

// encode encodes numRows rows of blocks, starting at row firstRow, into dst.
func (e *bandEncoder) encode(dst []byte, firstRow int, numRows int) {
	totalBlocks := numRows * e.blocksX
	procs := min(e.workers, totalBlocks)

	// Small bands are faster to encode sequentially.
	if (procs <= 1) || (totalBlocks < 32) {
		var pixels [16]HDRColor
		extract := e.f.makeExtract(&pixels, e.src)
		for idx := range totalBlocks {
			e.encodeOne(dst, idx, firstRow, &pixels, extract)
		}
		return
	}

	var next uint32
	var wg sync.WaitGroup
	wg.Add(procs)
	for range procs {
		go func() {
			defer wg.Done()
			var pixels [16]HDRColor
			extract := e.f.makeExtract(&pixels, e.src)
			for {
				idx := int(atomic.AddUint32(&next, 1) - 1)
				if idx >= totalBlocks {
					return
				}
				e.encodeOne(dst, idx, firstRow, &pixels, extract)
			}
		}()
	}
	wg.Wait()
}

// encodeOne encodes the idx'th block of the band. Each block writes only to
// its own slice of dst.
func (e *bandEncoder) encodeOne(dst []byte, idx int, firstRow int, pixels *[16]HDRColor, extract func(int, int)) {
	bx := idx % e.blocksX
	by := firstRow + (idx / e.blocksX)
	extract(4*bx, 4*by)
	e.f.encodeBlock(dst[idx*e.bytesPer:(idx+1)*e.bytesPer], pixels, e.flags)
}

// encodeBlock encodes one block of extracted pixels into dst, which must be
// BytesPerBlock long.
func (f Format) encodeBlock(dst []byte, pixels *[16]HDRColor, flags BC7Flags) {
	switch f {
	case FormatBC4Unsigned, FormatBC4Signed:
		var s [16]float32
		channelSamples(&s, pixels, 0, f.Signed())
		EncodeBC4Block((*[8]byte)(dst), &s, f.Signed())

	case FormatBC5Unsigned, FormatBC5Signed:
		var u, v [16]float32
		channelSamples(&u, pixels, 0, f.Signed())
		channelSamples(&v, pixels, 1, f.Signed())
		EncodeBC5Block((*[16]byte)(dst), &u, &v, f.Signed())

	case FormatBC7:
		EncodeBC7Block((*[16]byte)(dst), pixels, flags)

	default:
		panic("bcn: invalid format")
	}
}
