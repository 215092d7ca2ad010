// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

// BitBlock is a 128 bit buffer addressed by a bit cursor. Bit 0 is the least
// significant bit of byte 0, bit 8 is the least significant bit of byte 1, and
// so on. Multi-bit fields are stored least significant bit first and may
// straddle a byte boundary.
//
// The cursor is not stored in the BitBlock. Each method takes the cursor and
// returns the cursor just past the bits it read or wrote.
//
// A cursor or width out of range is a programming error and panics.
type BitBlock [16]byte

const bitBlockNumBits = 8 * len(BitBlock{})

// GetBit returns the bit at cursor.
func (b *BitBlock) GetBit(cursor int) (bit uint8, next int) {
	if (cursor < 0) || (cursor >= bitBlockNumBits) {
		panic("bcn: BitBlock cursor out of range")
	}
	i := cursor >> 3
	return (b[i] >> uint(cursor&7)) & 1, cursor + 1
}

// GetBits returns the n bits starting at cursor. n must be in [0, 8].
func (b *BitBlock) GetBits(cursor int, n int) (bits uint8, next int) {
	checkBitRange(cursor, n)
	if n == 0 {
		return 0, cursor
	}
	i := cursor >> 3
	base := uint(cursor & 7)
	v := uint32(b[i]) >> base
	if (int(base) + n) > 8 {
		v |= uint32(b[i+1]) << (8 - base)
	}
	return uint8(v & ((1 << uint(n)) - 1)), cursor + n
}

// SetBit sets the bit at cursor to the low bit of v.
func (b *BitBlock) SetBit(cursor int, v uint8) (next int) {
	if (cursor < 0) || (cursor >= bitBlockNumBits) {
		panic("bcn: BitBlock cursor out of range")
	}
	i := cursor >> 3
	base := uint(cursor & 7)
	b[i] = (b[i] &^ (1 << base)) | ((v & 1) << base)
	return cursor + 1
}

// SetBits sets the n bits starting at cursor to the low n bits of v. n must be
// in [0, 8]. Bits outside of that range are left unchanged.
func (b *BitBlock) SetBits(cursor int, n int, v uint8) (next int) {
	checkBitRange(cursor, n)
	if n == 0 {
		return cursor
	}
	mask := uint32(1<<uint(n)) - 1
	val := uint32(v) & mask
	i := cursor >> 3
	base := uint(cursor & 7)

	b[i] = uint8((uint32(b[i]) &^ (mask << base)) | (val << base))
	if (int(base) + n) > 8 {
		rest := 8 - base
		b[i+1] = uint8((uint32(b[i+1]) &^ (mask >> rest)) | (val >> rest))
	}
	return cursor + n
}

func checkBitRange(cursor int, n int) {
	if (n < 0) || (n > 8) {
		panic("bcn: BitBlock width out of range")
	} else if (cursor < 0) || ((cursor + n) > bitBlockNumBits) {
		panic("bcn: BitBlock cursor out of range")
	}
}
