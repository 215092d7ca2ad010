// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package ktx implements the KTX (Khronos Texture) version 1.1 container
// format for BCn textures.
//
// Only single-level 2D textures, without key/value data, are written.
package ktx

import (
	"encoding/binary"
	"errors"
	"image"
	"io"

	"github.com/nigeltao/bcn/lib/bcn"
)

// Magic is the byte string prefix of every KTX 1.1 image file.
const Magic = "\xABKTX 11\xBB\r\n\x1A\n"

// HeaderLen is the number of bytes before the first block: the 64 byte header
// and the 4 byte imageSize of the only mipmap level.
const HeaderLen = 64 + 4

const endianness = 0x04030201

var (
	ErrBadArgument     = errors.New("ktx: bad argument")
	ErrNotAKTXFile     = errors.New("ktx: not a KTX file")
	ErrImageIsTooLarge = errors.New("ktx: image is too large")
)

var formats = [...]bcn.Format{
	bcn.FormatBC4Unsigned,
	bcn.FormatBC4Signed,
	bcn.FormatBC5Unsigned,
	bcn.FormatBC5Signed,
	bcn.FormatBC7,
}

// Config is the information in a KTX header.
type Config struct {
	Format bcn.Format
	Width  int
	Height int
}

// DecodeConfig reads and validates a KTX header, including the first level's
// imageSize, from r. It does not read any of the block data that follows.
//
// Only little-endian files holding a single BCn level are recognized.
func DecodeConfig(r io.Reader) (Config, error) {
	buf := [HeaderLen]byte{}
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Config{}, err
	} else if string(buf[:12]) != Magic {
		return Config{}, ErrNotAKTXFile
	}
	u32 := func(i int) uint32 { return binary.LittleEndian.Uint32(buf[i:]) }

	if (u32(0x0C) != endianness) ||
		(u32(0x10) != 0) || // glType
		(u32(0x18) != 0) || // glFormat
		(u32(0x2C) != 0) || // pixelDepth
		(u32(0x34) > 1) || // numberOfFaces
		(u32(0x38) > 1) { // numberOfMipmapLevels
		return Config{}, ErrNotAKTXFile
	}

	c := Config{
		Width:  int(u32(0x24)),
		Height: int(u32(0x28)),
	}
	for _, f := range formats {
		if f.OpenGLInternalFormat() == u32(0x1C) {
			c.Format = f
			break
		}
	}
	if (c.Format == bcn.FormatInvalid) || (c.Width > 65532) || (c.Height > 65532) ||
		(int(u32(0x40)) != c.Format.EncodedLen(c.Width, c.Height)) {
		return Config{}, ErrNotAKTXFile
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

// Encode writes src to w in the KTX format.
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
	if f.OpenGLInternalFormat() == 0 {
		return ErrBadArgument
	}

	buf := [HeaderLen]byte{}
	copy(buf[:12], Magic)
	put := func(i int, v uint32) { binary.LittleEndian.PutUint32(buf[i:], v) }

	put(0x0C, endianness)
	put(0x10, 0) // glType is 0 for compressed textures.
	put(0x14, 1) // glTypeSize
	put(0x18, 0) // glFormat is 0 for compressed textures.
	put(0x1C, f.OpenGLInternalFormat())
	put(0x20, f.OpenGLBaseInternalFormat())
	put(0x24, uint32(bW))
	put(0x28, uint32(bH))
	put(0x2C, 0) // pixelDepth
	put(0x30, 0) // numberOfArrayElements
	put(0x34, 1) // numberOfFaces
	put(0x38, 1) // numberOfMipmapLevels
	put(0x3C, 0) // bytesOfKeyValueData

	// Every level is a whole number of 8 or 16 byte blocks, so no mipPadding
	// is needed after it.
	put(0x40, uint32(f.EncodedLen(bW, bH)))

	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	return bcn.Encode(w, src, f, bcnOptions)
}
