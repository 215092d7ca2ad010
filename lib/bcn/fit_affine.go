// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

import (
	"math"
)

const affineEpsilon = (0.25 / 64) * (0.25 / 64)

var (
	affineC3 = [3]float32{2.0 / 2, 1.0 / 2, 0.0 / 2}
	affineD3 = [3]float32{0.0 / 2, 1.0 / 2, 2.0 / 2}
	affineC4 = [4]float32{3.0 / 3, 2.0 / 3, 1.0 / 3, 0.0 / 3}
	affineD4 = [4]float32{0.0 / 3, 1.0 / 3, 2.0 / 3, 3.0 / 3}
)

// fitAffine finds two endpoint colors x and y that minimize the squared error
// of points against a ramp with the given number of levels (3 or 4), over the
// first channels channels (3 for RGB or 4 for RGBA). Any other channel of x
// and y is zero.
//
// The result is not clamped. The caller clamps it before quantizing.
func fitAffine(points []HDRColor, channels int, levels int) (x HDRColor, y HDRColor) {
	var pC, pD []float32
	switch levels {
	case 3:
		pC, pD = affineC3[:], affineD3[:]
	case 4:
		pC, pD = affineC4[:], affineD4[:]
	default:
		panic("bcn: invalid affine level count")
	}
	if (channels != 3) && (channels != 4) {
		panic("bcn: invalid affine channel count")
	}

	// Start with the bounding box.
	for c := 0; c < channels; c++ {
		x[c], y[c] = math.MaxFloat32, -math.MaxFloat32
	}
	for _, p := range points {
		for c := 0; c < channels; c++ {
			x[c] = min(x[c], p[c])
			y[c] = max(y[c], p[c])
		}
	}

	ab := y.Sub(x)
	fAB := ab.Dot(ab)
	if fAB < math.SmallestNonzeroFloat32 {
		return x, y
	}

	// Of the box's diagonals, pick the one along which the points vary most.
	// Diagonal d flips channel c when bit (channels-1-c) of d is set. Channel 0
	// is never flipped, so there are 1<<(channels-1) diagonals.
	dir := ab.Scale(1 / fAB)
	mid := x.Add(y).Scale(0.5)
	numDiagonals := 1 << uint(channels-1)
	var variance [8]float32
	for _, p := range points {
		pt := p.Sub(mid)
		for c := 0; c < channels; c++ {
			pt[c] *= dir[c]
		}
		for d := 0; d < numDiagonals; d++ {
			f := pt[0]
			for c := 1; c < channels; c++ {
				if (d>>uint(channels-1-c))&1 != 0 {
					f -= pt[c]
				} else {
					f += pt[c]
				}
			}
			variance[d] += f * f
		}
	}
	best := 0
	for d := 1; d < numDiagonals; d++ {
		if variance[d] > variance[best] {
			best = d
		}
	}
	for c := 1; c < channels; c++ {
		if (best>>uint(channels-1-c))&1 != 0 {
			x[c], y[c] = y[c], x[c]
		}
	}

	if fAB < (1.0 / 4096) {
		return x, y
	}

	// Newton's method, on the sum of squared errors.
	fSteps := float32(levels - 1)
	for iteration := 0; iteration < 8; iteration++ {
		var steps [4]HDRColor
		for i := 0; i < levels; i++ {
			steps[i] = x.Scale(pC[i]).Add(y.Scale(pD[i]))
		}

		dir = y.Sub(x)
		fLen := dir.Dot(dir)
		if fLen < (1.0 / 4096) {
			break
		}
		dir = dir.Scale(fSteps / fLen)

		d2X, d2Y := float32(0), float32(0)
		dX, dY := HDRColor{}, HDRColor{}
		for _, p := range points {
			dot := p.Sub(x).Dot(dir)
			step := 0
			if dot >= fSteps {
				step = levels - 1
			} else if dot > 0 {
				step = int(dot + 0.5)
			}

			diff := steps[step].Sub(p)
			for c := channels; c < 4; c++ {
				diff[c] = 0
			}
			fC := pC[step] * (1.0 / 8)
			fD := pD[step] * (1.0 / 8)
			d2X += fC * pC[step]
			dX = dX.Add(diff.Scale(fC))
			d2Y += fD * pD[step]
			dY = dY.Add(diff.Scale(fD))
		}

		converged := true
		for c := 0; c < channels; c++ {
			if ((dX[c] * dX[c]) >= affineEpsilon) || ((dY[c] * dY[c]) >= affineEpsilon) {
				converged = false
				break
			}
		}
		if converged {
			break
		}

		if d2X > 0 {
			x = x.Add(dX.Scale(-1 / d2X))
		}
		if d2Y > 0 {
			y = y.Add(dY.Scale(-1 / d2Y))
		}
	}

	return x, y
}
