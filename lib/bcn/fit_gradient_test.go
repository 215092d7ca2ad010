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

func TestFitGradientLinearRamp(tt *testing.T) {
	var src [16]float32
	for i := range src {
		src[i] = float32(i) / 15
	}

	lo, hi := fitGradient(&src, 8, false)
	if (lo < 0) || (lo > (1.0 / 255)) {
		tt.Errorf("lo: got %v, want within 1/255 of 0", lo)
	}
	if (hi > 1) || (hi < (1 - (1.0 / 255))) {
		tt.Errorf("hi: got %v, want within 1/255 of 1", hi)
	}
}

func TestFitGradientConstant(tt *testing.T) {
	var src [16]float32
	for i := range src {
		src[i] = 0.5
	}
	lo, hi := fitGradient(&src, 8, false)
	if (lo != 0.5) || (hi != 0.5) {
		tt.Errorf("got (%v, %v), want (0.5, 0.5)", lo, hi)
	}
}

func TestFitGradientSixLevelsIgnoresExtremes(tt *testing.T) {
	var src [16]float32
	for i := range src {
		switch i % 4 {
		case 0:
			src[i] = 0
		case 1:
			src[i] = 0.25
		case 2:
			src[i] = 0.75
		case 3:
			src[i] = 1
		}
	}

	lo, hi := fitGradient(&src, 6, false)
	if lo > hi {
		tt.Fatalf("got (%v, %v), want lo <= hi", lo, hi)
	}
	// The 0 and 1 samples map to the implicit extremes, so the fit is
	// driven by the interior samples only.
	if (lo < 0.2) || (hi > 0.8) {
		tt.Errorf("got (%v, %v), want within [0.2, 0.8]", lo, hi)
	}
}

func TestFitGradientSignedRange(tt *testing.T) {
	var src [16]float32
	for i := range src {
		src[i] = (float32(i) / 7.5) - 1
	}
	lo, hi := fitGradient(&src, 8, true)
	if (lo < -1) || (hi > 1) || (lo > hi) {
		tt.Fatalf("got (%v, %v), want -1 <= lo <= hi <= 1", lo, hi)
	}
	if (lo > -0.9) || (hi < 0.9) {
		tt.Errorf("got (%v, %v), want close to (-1, 1)", lo, hi)
	}
}
