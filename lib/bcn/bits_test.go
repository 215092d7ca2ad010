// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

import (
	"testing"
)

func TestBitBlockRoundTrip(tt *testing.T) {
	backgrounds := []byte{0x00, 0xFF, 0xA5}
	values := []uint8{0x00, 0x01, 0x5A, 0xA5, 0xFF}

	for _, bg := range backgrounds {
		for n := 0; n <= 8; n++ {
			for cursor := 0; (cursor + n) <= bitBlockNumBits; cursor++ {
				for _, v := range values {
					var b BitBlock
					for i := range b {
						b[i] = bg
					}
					before := b

					if next := b.SetBits(cursor, n, v); next != (cursor + n) {
						tt.Fatalf("bg=0x%02X n=%d cursor=%d: SetBits next: got %d, want %d",
							bg, n, cursor, next, cursor+n)
					}
					got, next := b.GetBits(cursor, n)
					if want := v & uint8((1<<uint(n))-1); got != want {
						tt.Fatalf("bg=0x%02X n=%d cursor=%d v=0x%02X: GetBits: got 0x%02X, want 0x%02X",
							bg, n, cursor, v, got, want)
					} else if next != (cursor + n) {
						tt.Fatalf("bg=0x%02X n=%d cursor=%d: GetBits next: got %d, want %d",
							bg, n, cursor, next, cursor+n)
					}

					for i := range bitBlockNumBits {
						if (cursor <= i) && (i < (cursor + n)) {
							continue
						}
						g, _ := b.GetBit(i)
						w, _ := before.GetBit(i)
						if g != w {
							tt.Fatalf("bg=0x%02X n=%d cursor=%d v=0x%02X: bit %d was modified",
								bg, n, cursor, v, i)
						}
					}
				}
			}
		}
	}
}

func TestBitBlockLayout(tt *testing.T) {
	var b BitBlock
	c := b.SetBits(0, 5, 0x10)
	c = b.SetBits(c, 6, 0x3F)
	c = b.SetBit(c, 1)
	if c != 12 {
		tt.Fatalf("cursor: got %d, want %d", c, 12)
	}
	// Bits 0-4 hold 0b10000, bits 5-10 hold 0b111111 and bit 11 is set.
	if got, want := b[0], uint8(0xF0); got != want {
		tt.Errorf("b[0]: got 0x%02X, want 0x%02X", got, want)
	}
	if got, want := b[1], uint8(0x0F); got != want {
		tt.Errorf("b[1]: got 0x%02X, want 0x%02X", got, want)
	}
}

func TestBitBlockPanics(tt *testing.T) {
	testCases := []struct {
		name string
		f    func(b *BitBlock)
	}{
		{"GetBit(-1)", func(b *BitBlock) { b.GetBit(-1) }},
		{"GetBit(128)", func(b *BitBlock) { b.GetBit(128) }},
		{"GetBits(121, 8)", func(b *BitBlock) { b.GetBits(121, 8) }},
		{"GetBits(0, 9)", func(b *BitBlock) { b.GetBits(0, 9) }},
		{"SetBit(128, 1)", func(b *BitBlock) { b.SetBit(128, 1) }},
		{"SetBits(125, 4, 0)", func(b *BitBlock) { b.SetBits(125, 4, 0) }},
		{"SetBits(0, -1, 0)", func(b *BitBlock) { b.SetBits(0, -1, 0) }},
	}

	for _, tc := range testCases {
		func() {
			defer func() {
				if recover() == nil {
					tt.Errorf("tc=%q: did not panic", tc.name)
				}
			}()
			tc.f(&BitBlock{})
		}()
	}
}
