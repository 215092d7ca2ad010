// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package dds implements the DDS (DirectDraw Surface) container format for
// BCn textures.
//
// Only single-level 2D textures are written, always with the DX10 extended
// header so that the BCn format is given as a DXGI_FORMAT value.
package dds

import (
	"encoding/binary"
	"errors"
	"image"
	"io"

	"github.com/nigeltao/bcn/lib/bcn"
)

// Magic is the byte string prefix of every DDS image file.
const Magic = "DDS "

// HeaderLen is the number of bytes before the first block: the magic, the
// 124 byte DDS_HEADER and the 20 byte DDS_HEADER_DXT10.
const HeaderLen = 4 + 124 + 20

var (
	ErrBadArgument     = errors.New("dds: bad argument")
	ErrNotADDSFile     = errors.New("dds: not a DDS file")
	ErrImageIsTooLarge = errors.New("dds: image is too large")
)

const (
	ddsdCaps        = 0x00000001
	ddsdHeight      = 0x00000002
	ddsdWidth       = 0x00000004
	ddsdPixelFormat = 0x00001000
	ddsdMipMapCount = 0x00020000
	ddsdLinearSize  = 0x00080000

	ddpfFourCC = 0x00000004

	ddsCapsTexture = 0x00001000

	fourCCDX10 = 0x30315844 // "DX10"

	d3d10ResourceDimensionTexture2D = 3

	ddsAlphaModeUnknown  = 0
	ddsAlphaModeStraight = 1
)

var formats = [...]bcn.Format{
	bcn.FormatBC4Unsigned,
	bcn.FormatBC4Signed,
	bcn.FormatBC5Unsigned,
	bcn.FormatBC5Signed,
	bcn.FormatBC7,
}

// Config is the information in a DDS header.
type Config struct {
	Format bcn.Format
	Width  int
	Height int
}

// DecodeConfig reads and validates a DDS header from r. It does not read any
// of the block data that follows.
func DecodeConfig(r io.Reader) (Config, error) {
	buf := [HeaderLen]byte{}
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Config{}, err
	} else if string(buf[:4]) != Magic {
		return Config{}, ErrNotADDSFile
	}
	h := buf[4:]
	u32 := func(i int) uint32 { return binary.LittleEndian.Uint32(h[i:]) }

	if (u32(0x00) != 124) ||
		(u32(0x48) != 32) ||
		((u32(0x4C) & ddpfFourCC) == 0) ||
		(u32(0x50) != fourCCDX10) ||
		(u32(0x80) != d3d10ResourceDimensionTexture2D) {
		return Config{}, ErrNotADDSFile
	}

	c := Config{
		Width:  int(u32(0x0C)),
		Height: int(u32(0x08)),
	}
	for _, f := range formats {
		if f.DXGIFormat() == u32(0x7C) {
			c.Format = f
			break
		}
	}
	if (c.Format == bcn.FormatInvalid) || (c.Width > 65532) || (c.Height > 65532) {
		return Config{}, ErrNotADDSFile
	}
	return c, nil
}

// EncodeOptions are optional arguments to Encode. The zero value is valid and
// means to use the default configuration.
type EncodeOptions struct {
	// If zero, the default is to use bcn.FormatBC7.
	Format bcn.Format

	// BCnOptions may be nil, which means to use the default configuration.
	BCnOptions *bcn.EncodeOptions
}

// Encode writes src to w in the DDS format.
//
// options may be nil, which means to use the default configuration.
func Encode(w io.Writer, src image.Image, options *EncodeOptions) error {
	if (w == nil) || (src == nil) {
		return ErrBadArgument
	}
	b := src.Bounds()
	bW, bH := b.Dx(), b.Dy()
	if (bW > 65532) || (bH > 65532) {
		return ErrImageIsTooLarge
	}

	f := bcn.FormatBC7
	var bcnOptions *bcn.EncodeOptions
	if options != nil {
		if options.Format != 0 {
			f = options.Format
		}
		bcnOptions = options.BCnOptions
	}
	if f.DXGIFormat() == 0 {
		return ErrBadArgument
	}

	buf := [HeaderLen]byte{}
	copy(buf[:4], Magic)
	h := buf[4:]
	put := func(i int, v uint32) { binary.LittleEndian.PutUint32(h[i:], v) }

	put(0x00, 124)
	put(0x04, ddsdCaps|ddsdHeight|ddsdWidth|ddsdPixelFormat|ddsdMipMapCount|ddsdLinearSize)
	put(0x08, uint32(bH))
	put(0x0C, uint32(bW))
	put(0x10, uint32(f.EncodedLen(bW, bH)))
	put(0x18, 1) // dwMipMapCount

	// DDS_PIXELFORMAT.
	put(0x48, 32)
	put(0x4C, ddpfFourCC)
	put(0x50, fourCCDX10)

	put(0x68, ddsCapsTexture)

	// DDS_HEADER_DXT10.
	put(0x7C, f.DXGIFormat())
	put(0x80, d3d10ResourceDimensionTexture2D)
	put(0x88, 1) // arraySize
	if f == bcn.FormatBC7 {
		put(0x8C, ddsAlphaModeStraight)
	} else {
		put(0x8C, ddsAlphaModeUnknown)
	}

	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	return bcn.Encode(w, src, f, bcnOptions)
}
