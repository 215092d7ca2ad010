// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

var (
	gradientC6 = [6]float32{5.0 / 5, 4.0 / 5, 3.0 / 5, 2.0 / 5, 1.0 / 5, 0.0 / 5}
	gradientD6 = [6]float32{0.0 / 5, 1.0 / 5, 2.0 / 5, 3.0 / 5, 4.0 / 5, 5.0 / 5}
	gradientC8 = [8]float32{7.0 / 7, 6.0 / 7, 5.0 / 7, 4.0 / 7, 3.0 / 7, 2.0 / 7, 1.0 / 7, 0.0 / 7}
	gradientD8 = [8]float32{0.0 / 7, 1.0 / 7, 2.0 / 7, 3.0 / 7, 4.0 / 7, 5.0 / 7, 6.0 / 7, 7.0 / 7}
)

// gradientRange returns the range of valid sample values: [0, 1] for unsigned
// and [-1, 1] for signed.
func gradientRange(signed bool) (lo float32, hi float32) {
	if signed {
		return -1, 1
	}
	return 0, 1
}

// fitGradient finds two scalar endpoints, lo <= hi, that minimize the squared
// error of the 16 samples against a ramp with the given number of levels.
//
// levels is either 8 (eight interpolated values) or 6 (six interpolated
// values plus the two range extremes, which are implicit). In the 6 level
// case, samples at the range extremes do not influence the initial estimate,
// since the implicit values reproduce them exactly.
func fitGradient(src *[16]float32, levels int, signed bool) (lo float32, hi float32) {
	var pC, pD []float32
	switch levels {
	case 6:
		pC, pD = gradientC6[:], gradientD6[:]
	case 8:
		pC, pD = gradientC8[:], gradientD8[:]
	default:
		panic("bcn: invalid gradient level count")
	}
	minValue, maxValue := gradientRange(signed)

	x, y := maxValue, minValue
	if levels == 8 {
		for _, p := range src {
			x = min(x, p)
			y = max(y, p)
		}
	} else {
		for _, p := range src {
			if (p < x) && (p > minValue) {
				x = p
			}
			if (p > y) && (p < maxValue) {
				y = p
			}
		}
		if x == y {
			y = maxValue
		}
	}

	fSteps := float32(levels - 1)
	for iteration := 0; iteration < 8; iteration++ {
		if (y - x) < (1.0 / 256) {
			break
		}
		scale := fSteps / (y - x)

		var steps [8]float32
		for i := 0; i < levels; i++ {
			steps[i] = (pC[i] * x) + (pD[i] * y)
		}
		if levels == 6 {
			steps[6] = minValue
			steps[7] = maxValue
		}

		dX, dY, d2X, d2Y := float32(0), float32(0), float32(0), float32(0)
		for _, p := range src {
			dot := (p - x) * scale
			step := 0
			if dot <= 0 {
				if (levels == 6) && (p <= ((x + minValue) * 0.5)) {
					step = 6
				}
			} else if dot >= fSteps {
				step = levels - 1
				if (levels == 6) && (p >= ((y + maxValue) * 0.5)) {
					step = 7
				}
			} else {
				step = int(dot + 0.5)
			}

			// Samples that snap to an implicit extreme do not depend on x or y.
			if step >= levels {
				continue
			}
			diff := steps[step] - p
			dX += pC[step] * diff
			d2X += pC[step] * pC[step]
			dY += pD[step] * diff
			d2Y += pD[step] * pD[step]
		}

		if ((dX * dX) < (1.0 / 64)) && ((dY * dY) < (1.0 / 64)) {
			break
		}

		if d2X > 0 {
			x -= dX / d2X
		}
		if d2Y > 0 {
			y -= dY / d2Y
		}
		if x > y {
			x, y = y, x
		}
	}

	return max(minValue, min(maxValue, x)), max(minValue, min(maxValue, y))
}
