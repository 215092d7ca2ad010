// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

// bc7Mode holds the fixed parameters of one BC7 mode.
type bc7Mode struct {
	// partitions is the number of regions minus one.
	partitions int
	// partitionBits is the width of the shape selector.
	partitionBits int
	// pBits is the number of parity bits. It equals the number of regions
	// when each region shares one parity bit between its two endpoints, and
	// twice that when each endpoint has its own.
	pBits int
	// rotationBits is the width of the channel rotation selector.
	rotationBits int
	// indexModeBits is the width of the selector that swaps the roles of
	// the primary and secondary indices.
	indexModeBits int
	// indexPrec and indexPrec2 are the primary and secondary index
	// precisions. indexPrec2 is zero for single index modes.
	indexPrec  int
	indexPrec2 int
	// rgbaPrec is the per channel endpoint precision as stored, and
	// rgbaPrecWithP is that precision plus any parity bit. A zero alpha
	// precision means that alpha is implicitly 255.
	rgbaPrec      LDRColor
	rgbaPrecWithP LDRColor
}

func (m *bc7Mode) numRegions() int { return m.partitions + 1 }

func (m *bc7Mode) numShapes() int { return 1 << uint(m.partitionBits) }

func (m *bc7Mode) numRotations() int { return 1 << uint(m.rotationBits) }

func (m *bc7Mode) numIndexModes() int { return 1 << uint(m.indexModeBits) }

// hasParity returns whether the endpoints carry parity bits.
func (m *bc7Mode) hasParity() bool { return m.rgbaPrec != m.rgbaPrecWithP }

// sharedParity returns whether the two endpoints of each region share one
// parity bit.
func (m *bc7Mode) sharedParity() bool { return m.pBits == m.numRegions() }

var bc7Modes = [8]bc7Mode{{
	partitions:    2,
	partitionBits: 4,
	pBits:         6,
	indexPrec:     3,
	rgbaPrec:      LDRColor{4, 4, 4, 0},
	rgbaPrecWithP: LDRColor{5, 5, 5, 0},
}, {
	partitions:    1,
	partitionBits: 6,
	pBits:         2,
	indexPrec:     3,
	rgbaPrec:      LDRColor{6, 6, 6, 0},
	rgbaPrecWithP: LDRColor{7, 7, 7, 0},
}, {
	partitions:    2,
	partitionBits: 6,
	indexPrec:     2,
	rgbaPrec:      LDRColor{5, 5, 5, 0},
	rgbaPrecWithP: LDRColor{5, 5, 5, 0},
}, {
	partitions:    1,
	partitionBits: 6,
	pBits:         4,
	indexPrec:     2,
	rgbaPrec:      LDRColor{7, 7, 7, 0},
	rgbaPrecWithP: LDRColor{8, 8, 8, 0},
}, {
	rotationBits:  2,
	indexModeBits: 1,
	indexPrec:     2,
	indexPrec2:    3,
	rgbaPrec:      LDRColor{5, 5, 5, 6},
	rgbaPrecWithP: LDRColor{5, 5, 5, 6},
}, {
	rotationBits:  2,
	indexPrec:     2,
	indexPrec2:    2,
	rgbaPrec:      LDRColor{7, 7, 7, 8},
	rgbaPrecWithP: LDRColor{7, 7, 7, 8},
}, {
	pBits:         2,
	indexPrec:     4,
	rgbaPrec:      LDRColor{7, 7, 7, 7},
	rgbaPrecWithP: LDRColor{8, 8, 8, 8},
}, {
	partitions:    1,
	partitionBits: 6,
	pBits:         4,
	indexPrec:     2,
	rgbaPrec:      LDRColor{5, 5, 5, 5},
	rgbaPrecWithP: LDRColor{6, 6, 6, 6},
}}
