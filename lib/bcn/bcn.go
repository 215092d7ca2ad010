// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package bcn implements encoders for the BCn (Block Compression) GPU texture
// formats BC4, BC5 and BC7.
//
// Every format works on 4×4 pixel blocks. BC4 compresses one channel into 8
// bytes per block. BC5 compresses two channels, as two BC4 blocks, into 16
// bytes. BC7 compresses RGBA into 16 bytes, choosing per block between eight
// modes that differ in partitioning, endpoint precision and index precision.
//
// BCn data is often wrapped in .dds (DirectDraw Surface) or .ktx (Khronos
// Texture) container files. See the sibling dds and ktx packages.
//
// BC4 and BC5 are specified at
// https://registry.khronos.org/DataFormat/specs/1.3/dataformat.1.3.html#RGTC
// and BC7 at
// https://registry.khronos.org/DataFormat/specs/1.3/dataformat.1.3.html#BPTC
//
// Only encoding is implemented. Each block encoding is a pure function of its
// 16 input pixels, so blocks can be encoded concurrently.
package bcn

import (
	"errors"
)

var (
	ErrBadArgument       = errors.New("bcn: bad argument")
	ErrImageIsTooLarge   = errors.New("bcn: image is too large")
	ErrUnsupportedFormat = errors.New("bcn: unsupported format")
)

// Format gives the specialization of the BCn family.
//
// The "RGBA" in BC7 uses non-premultiplied alpha. The corresponding image and
// color types from Go's standard library are called NRGBA, not RGBA.
type Format uint8

const (
	FormatInvalid = Format(0)

	FormatBC4Unsigned = Format(1)
	FormatBC4Signed   = Format(2)
	FormatBC5Unsigned = Format(3)
	FormatBC5Signed   = Format(4)

	FormatBC7 = Format(5)
)

// ParseFormat returns the Format named by s, such as "bc4", "bc5s" or "bc7".
// The "u" suffix for unsigned formats is optional.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "bc4", "bc4u":
		return FormatBC4Unsigned, nil
	case "bc4s":
		return FormatBC4Signed, nil
	case "bc5", "bc5u", "ati2":
		return FormatBC5Unsigned, nil
	case "bc5s":
		return FormatBC5Signed, nil
	case "bc7":
		return FormatBC7, nil
	}
	return FormatInvalid, ErrUnsupportedFormat
}

// String returns the canonical lower-case name of f, as accepted by
// ParseFormat.
func (f Format) String() string {
	switch f {
	case FormatBC4Unsigned:
		return "bc4u"
	case FormatBC4Signed:
		return "bc4s"
	case FormatBC5Unsigned:
		return "bc5u"
	case FormatBC5Signed:
		return "bc5s"
	case FormatBC7:
		return "bc7"
	}
	return "invalid"
}

// BytesPerBlock returns the Format-dependent number of bytes used to encode
// each 4×4 pixel block.
func (f Format) BytesPerBlock() int {
	switch f {
	case FormatBC4Unsigned,
		FormatBC4Signed:
		return 8

	case FormatBC5Unsigned,
		FormatBC5Signed,
		FormatBC7:
		return 16
	}

	return 0
}

// Signed returns whether the Format stores signed normalized values, in the
// range [-1, +1], instead of unsigned normalized ones, in the range [0, 1].
func (f Format) Signed() bool {
	return (f == FormatBC4Signed) || (f == FormatBC5Signed)
}

// DXGIFormat returns the DXGI_FORMAT enum value for f, as used by the DX10
// extension of the DDS file format.
func (f Format) DXGIFormat() uint32 {
	switch f {
	case FormatBC4Unsigned:
		return 80 // DXGI_FORMAT_BC4_UNORM
	case FormatBC4Signed:
		return 81 // DXGI_FORMAT_BC4_SNORM
	case FormatBC5Unsigned:
		return 83 // DXGI_FORMAT_BC5_UNORM
	case FormatBC5Signed:
		return 84 // DXGI_FORMAT_BC5_SNORM
	case FormatBC7:
		return 98 // DXGI_FORMAT_BC7_UNORM
	}

	return 0
}

// OpenGLInternalFormat returns the OpenGL internalFormat enum value for f,
// suitable for passing to the glCompressedTexImage2D function.
func (f Format) OpenGLInternalFormat() uint32 {
	switch f {
	case FormatBC4Unsigned:
		return 0x8DBB // GL_COMPRESSED_RED_RGTC1
	case FormatBC4Signed:
		return 0x8DBC // GL_COMPRESSED_SIGNED_RED_RGTC1
	case FormatBC5Unsigned:
		return 0x8DBD // GL_COMPRESSED_RG_RGTC2
	case FormatBC5Signed:
		return 0x8DBE // GL_COMPRESSED_SIGNED_RG_RGTC2
	case FormatBC7:
		return 0x8E8C // GL_COMPRESSED_RGBA_BPTC_UNORM
	}

	return 0
}

// OpenGLBaseInternalFormat returns the OpenGL base internal format (the
// uncompressed channel layout) for f.
func (f Format) OpenGLBaseInternalFormat() uint32 {
	switch f {
	case FormatBC4Unsigned,
		FormatBC4Signed:
		return 0x1903 // GL_RED
	case FormatBC5Unsigned,
		FormatBC5Signed:
		return 0x8227 // GL_RG
	case FormatBC7:
		return 0x1908 // GL_RGBA
	}

	return 0
}
