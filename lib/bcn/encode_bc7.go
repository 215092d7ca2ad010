// Copyright 2026 The BCn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package bcn

import (
	"iter"
	"math"
)

// BC7Flags tunes the BC7 mode search. The zero value is the default.
type BC7Flags uint32

const (
	// BC7UseThreeSubsets also considers modes 0 and 2, which split a block
	// into three regions. They are rarely chosen and are slow to search.
	BC7UseThreeSubsets = BC7Flags(1 << 0)

	// BC7ForceMode6 considers only mode 6.
	BC7ForceMode6 = BC7Flags(1 << 1)
)

// EncodeBC7Block encodes 16 pixels, in raster order, as one BC7 block. The
// channels of src are normalized to [0, 1]. Values outside of that range are
// clamped.
//
// The result depends only on src and flags.
func EncodeBC7Block(dst *[16]byte, src *[16]HDRColor, flags BC7Flags) {
	e := newBC7Encoder(src)

	found, best := false, bc7Candidate{}
	for c := range e.candidates(flags) {
		if !found || (best.err > c.err) {
			found, best = true, c
		}
		if best.err <= 0 {
			break
		}
	}
	if !found {
		panic("bcn: no BC7 mode was considered")
	}
	*dst = best.block
}

// endpointPair holds the two endpoints, A and B, of one region.
type endpointPair [2]LDRColor

// bc7Pixels are the pixels of one block, in both LDR and HDR form.
type bc7Pixels struct {
	ldr [16]LDRColor
	hdr [16]HDRColor
}

// rotated returns a copy of p with alpha swapped with channel rotation-1. A
// zero rotation means no swap.
func (p *bc7Pixels) rotated(rotation int) *bc7Pixels {
	q := *p
	if rotation == 0 {
		return &q
	}
	c := rotation - 1
	for i := range 16 {
		q.ldr[i][c], q.ldr[i][3] = q.ldr[i][3], q.ldr[i][c]
		q.hdr[i][c], q.hdr[i][3] = q.hdr[i][3], q.hdr[i][c]
	}
	return &q
}

type bc7Encoder struct {
	pixels   bc7Pixels
	hasAlpha bool
	uniform  bool
}

func newBC7Encoder(src *[16]HDRColor) *bc7Encoder {
	e := &bc7Encoder{}
	for i, s := range src {
		h := s.Clamp(0, 1)
		e.pixels.hdr[i] = h
		for c := range 4 {
			e.pixels.ldr[i][c] = uint8(max(0, min(255, (h[c]*255)+0.5)))
		}
		if e.pixels.ldr[i][3] != 0xFF {
			e.hasAlpha = true
		}
	}
	e.uniform = true
	for i := 1; i < 16; i++ {
		if e.pixels.ldr[i] != e.pixels.ldr[0] {
			e.uniform = false
			break
		}
	}
	return e
}

// bc7Candidate is a fully encoded block and its squared error.
type bc7Candidate struct {
	err   float32
	block BitBlock
}

// candidates yields the best refined encoding for each of the most promising
// (mode, rotation, index mode, shape) combinations.
func (e *bc7Encoder) candidates(flags BC7Flags) iter.Seq[bc7Candidate] {
	return func(yield func(bc7Candidate) bool) {
		var roughErrs [64]float32
		var shapes [64]int
		var roughEndpoints [64][3]endpointPair

		for modeID := range bc7Modes {
			if ((flags & BC7UseThreeSubsets) == 0) && ((modeID == 0) || (modeID == 2)) {
				continue
			} else if ((flags & BC7ForceMode6) != 0) && (modeID != 6) {
				continue
			} else if !e.hasAlpha && (modeID == 7) {
				continue
			}
			m := &bc7Modes[modeID]
			// A single color needs only a single region.
			if e.uniform && (m.partitions > 0) {
				continue
			}

			numShapes := m.numShapes()
			numItems := max(1, numShapes>>2)

			for rotation := range m.numRotations() {
				s := &bc7Search{
					modeID:   modeID,
					m:        m,
					pixels:   e.pixels.rotated(rotation),
					rotation: rotation,
				}

				for indexMode := range m.numIndexModes() {
					s.indexMode = indexMode

					for shape := range numShapes {
						roughErrs[shape] = s.roughMSE(shape, &roughEndpoints[shape])
						shapes[shape] = shape
					}

					// Move the numItems smallest rough errors to the front.
					for i := range numItems {
						for j := i + 1; j < numShapes; j++ {
							if roughErrs[i] > roughErrs[j] {
								roughErrs[i], roughErrs[j] = roughErrs[j], roughErrs[i]
								shapes[i], shapes[j] = shapes[j], shapes[i]
							}
						}
					}

					for i := range numItems {
						shape := shapes[i]
						if !yield(s.refine(shape, &roughEndpoints[shape])) {
							return
						}
					}
				}
			}
		}
	}
}

// bc7Search evaluates the shapes of one (mode, rotation, index mode).
type bc7Search struct {
	modeID    int
	m         *bc7Mode
	pixels    *bc7Pixels
	rotation  int
	indexMode int
}

// indexPrecs returns the index precisions for the RGB and alpha channels.
// The index mode swaps the primary and secondary precisions.
func (s *bc7Search) indexPrecs() (prec int, prec2 int) {
	if s.indexMode != 0 {
		return s.m.indexPrec2, s.m.indexPrec
	}
	return s.m.indexPrec, s.m.indexPrec2
}

// regionPixels returns the indexes of the pixels in region r of shape.
func (s *bc7Search) regionPixels(shape int, r int, buf *[16]int) []int {
	n := 0
	for i := range 16 {
		if int(partitionTable[s.m.partitions][shape][i]) == r {
			buf[n] = i
			n++
		}
	}
	return buf[:n]
}

// makePalette returns the ramp between the endpoints a and b. With separate
// alpha indices, the first 1<<prec entries hold the RGB ramp and the first
// 1<<prec2 entries hold the alpha ramp.
func makePalette(a LDRColor, b LDRColor, prec int, prec2 int) (palette [16]LDRColor) {
	if prec2 == 0 {
		for i := range 1 << uint(prec) {
			palette[i] = Interpolate(a, b, i, i, prec, prec)
		}
		return palette
	}
	for i := range 1 << uint(prec) {
		palette[i] = InterpolateRGB(a, b, i, prec)
	}
	for i := range 1 << uint(prec2) {
		palette[i][3] = InterpolateA(a, b, i, prec2)
	}
	return palette
}

// computeError returns the squared error of pixel against its nearest
// palette entry, and the index of that entry. With separate alpha indices,
// the RGB and alpha channels are matched independently.
//
// The palette is a ramp, so the scan stops once the error starts rising.
func computeError(pixel LDRColor, palette *[16]LDRColor, prec int, prec2 int) (err float32, index int, index2 int) {
	px := pixel.hdr()

	if prec2 == 0 {
		bestErr := float32(math.MaxFloat32)
		for i := 0; (i < (1 << uint(prec))) && (bestErr > 0); i++ {
			d := px.Sub(palette[i].hdr())
			e := d.Dot(d)
			if e > bestErr {
				break
			} else if e < bestErr {
				bestErr, index = e, i
			}
		}
		return bestErr, index, 0
	}

	bestErr := float32(math.MaxFloat32)
	for i := 0; (i < (1 << uint(prec))) && (bestErr > 0); i++ {
		d := px.Sub(palette[i].hdr())
		e := (d[0] * d[0]) + (d[1] * d[1]) + (d[2] * d[2])
		if e > bestErr {
			break
		} else if e < bestErr {
			bestErr, index = e, i
		}
	}
	err = bestErr

	bestErr = float32(math.MaxFloat32)
	for i := 0; (i < (1 << uint(prec2))) && (bestErr > 0); i++ {
		d := px[3] - float32(palette[i][3])
		e := d * d
		if e > bestErr {
			break
		} else if e < bestErr {
			bestErr, index2 = e, i
		}
	}
	return err + bestErr, index, index2
}

// roughMSE estimates the error of shape, without quantizing, and stores the
// estimated endpoints of each region in ends.
func (s *bc7Search) roughMSE(shape int, ends *[3]endpointPair) float32 {
	prec, prec2 := s.indexPrecs()
	var idxBuf [16]int
	var points [16]HDRColor

	for r := 0; r <= s.m.partitions; r++ {
		idx := s.regionPixels(shape, r, &idxBuf)
		switch len(idx) {
		case 0:
			panic("bcn: empty region")
		case 1:
			ends[r] = endpointPair{s.pixels.ldr[idx[0]], s.pixels.ldr[idx[0]]}
			continue
		case 2:
			ends[r] = endpointPair{s.pixels.ldr[idx[0]], s.pixels.ldr[idx[1]]}
			continue
		}

		pts := points[:len(idx)]
		for i, j := range idx {
			pts[i] = s.pixels.hdr[j]
		}

		if prec2 == 0 {
			x, y := fitAffine(pts, 4, 4)
			ends[r] = endpointPair{
				x.Clamp(0, 1).Scale(255).LDR(),
				y.Clamp(0, 1).Scale(255).LDR(),
			}
			continue
		}

		minAlpha, maxAlpha := uint8(0xFF), uint8(0x00)
		for _, j := range idx {
			minAlpha = min(minAlpha, s.pixels.ldr[j][3])
			maxAlpha = max(maxAlpha, s.pixels.ldr[j][3])
		}
		x, y := fitAffine(pts, 3, 4)
		ends[r] = endpointPair{
			x.Clamp(0, 1).Scale(255).LDR(),
			y.Clamp(0, 1).Scale(255).LDR(),
		}
		ends[r][0][3] = minAlpha
		ends[r][1][3] = maxAlpha
	}

	var palettes [3][16]LDRColor
	for r := 0; r <= s.m.partitions; r++ {
		palettes[r] = makePalette(ends[r][0], ends[r][1], prec, prec2)
	}

	total := float32(0)
	for i := range 16 {
		r := partitionTable[s.m.partitions][shape][i]
		err, _, _ := computeError(s.pixels.ldr[i], &palettes[r], prec, prec2)
		total += err
	}
	return total
}

// quantizedPalette returns the palette of the quantized endpoints ep.
func (s *bc7Search) quantizedPalette(ep endpointPair) [16]LDRColor {
	prec, prec2 := s.indexPrecs()
	a := UnquantizeColor(ep[0], s.m.rgbaPrecWithP)
	b := UnquantizeColor(ep[1], s.m.rgbaPrecWithP)
	return makePalette(a, b, prec, prec2)
}

// mapColors returns the total error of colors against the quantized
// endpoints ep. It gives up, returning math.MaxFloat32, once the total
// exceeds minErr.
func (s *bc7Search) mapColors(colors []LDRColor, ep endpointPair, minErr float32) float32 {
	prec, prec2 := s.indexPrecs()
	palette := s.quantizedPalette(ep)
	total := float32(0)
	for _, c := range colors {
		err, _, _ := computeError(c, &palette, prec, prec2)
		total += err
		if total > minErr {
			return math.MaxFloat32
		}
	}
	return total
}

// perturbOne moves channel ch of one endpoint (B if doB, else A) by
// logarithmically decreasing steps, keeping each step that lowers the error.
// It returns the moved endpoints and their error.
func (s *bc7Search) perturbOne(colors []LDRColor, ch int, old endpointPair, oldErr float32, doB bool) (endpointPair, float32) {
	which := 0
	if doB {
		which = 1
	}
	prec := int(s.m.rgbaPrecWithP[ch])
	cur, minErr := old, oldErr

	for step := 1 << uint(prec-1); step > 0; step >>= 1 {
		improved, bestStep := false, 0
		for _, sign := range [2]int{-1, +1} {
			v := int(cur[which][ch]) + (sign * step)
			if (v < 0) || (v >= (1 << uint(prec))) {
				continue
			}
			tmp := cur
			tmp[which][ch] = uint8(v)
			if err := s.mapColors(colors, tmp, minErr); minErr > err {
				improved, minErr, bestStep = true, err, sign*step
			}
		}
		if improved {
			cur[which][ch] = uint8(int(cur[which][ch]) + bestStep)
		}
	}
	return cur, minErr
}

// exhaustive tries every value within a small distance of channel ch of both
// endpoints, keeping their order.
func (s *bc7Search) exhaustive(colors []LDRColor, ch int, opt endpointPair, optErr float32) (endpointPair, float32) {
	const delta = 5

	prec := int(s.m.rgbaPrecWithP[ch])
	if (prec == 0) || (optErr <= 0) {
		return opt, optErr
	}
	hiLimit := (1 << uint(prec)) - 1
	aLo, aHi := max(0, int(opt[0][ch])-delta), min(hiLimit, int(opt[0][ch])+delta)
	bLo, bHi := max(0, int(opt[1][ch])-delta), min(hiLimit, int(opt[1][ch])+delta)

	tmp, bestErr, bestA, bestB := opt, optErr, 0, 0
	try := func(a int, b int) {
		tmp[0][ch], tmp[1][ch] = uint8(a), uint8(b)
		if err := s.mapColors(colors, tmp, bestErr); bestErr > err {
			bestErr, bestA, bestB = err, a, b
		}
	}

	if opt[0][ch] <= opt[1][ch] {
		for a := aLo; a <= aHi; a++ {
			for b := max(a, bLo); b <= bHi; b++ {
				try(a, b)
			}
		}
	} else {
		for b := bLo; b <= bHi; b++ {
			for a := max(b, aLo); a <= aHi; a++ {
				try(a, b)
			}
		}
	}

	if optErr > bestErr {
		opt[0][ch], opt[1][ch] = uint8(bestA), uint8(bestB)
		return opt, bestErr
	}
	return opt, optErr
}

// optimizeOne refines the quantized endpoints of one region, whose pixels are
// colors, channel by channel.
func (s *bc7Search) optimizeOne(colors []LDRColor, origErr float32, orig endpointPair) endpointPair {
	opt, optErr := orig, origErr

	for ch := range 4 {
		if s.m.rgbaPrecWithP[ch] == 0 {
			continue
		}

		// Start with whichever endpoint gains the most. Plain alternation
		// easily gets stuck in a local minimum.
		newA, errA := s.perturbOne(colors, ch, opt, optErr, false)
		newB, errB := s.perturbOne(colors, ch, opt, optErr, true)
		doB := false
		if errB > errA {
			if errA >= optErr {
				continue
			}
			opt[0][ch], optErr, doB = newA[0][ch], errA, true
		} else {
			if errB >= optErr {
				continue
			}
			opt[1][ch], optErr, doB = newB[1][ch], errB, false
		}

		for {
			moved, err := s.perturbOne(colors, ch, opt, optErr, doB)
			if err >= optErr {
				break
			}
			opt, optErr, doB = moved, err, !doB
		}
	}

	for ch := range 4 {
		opt, optErr = s.exhaustive(colors, ch, opt, optErr)
	}
	return opt
}

// fixParity resolves the parity bits of quantized endpoints. Each parity bit
// takes the majority of the low bits that share it, and the endpoints are
// rebuilt with the chosen parity bits.
func (s *bc7Search) fixParity(orig *[3]endpointPair) (fixed [3]endpointPair) {
	fixed = *orig
	if !s.m.hasParity() {
		return fixed
	}

	pbits := s.voteParity(orig)
	for ch := range 4 {
		if s.m.rgbaPrec[ch] == s.m.rgbaPrecWithP[ch] {
			continue
		}
		for r := 0; r <= s.m.partitions; r++ {
			pa, pb := pbits[(2*r)+0], pbits[(2*r)+1]
			if s.m.sharedParity() {
				pa, pb = pbits[r], pbits[r]
			}
			fixed[r][0][ch] = ((orig[r][0][ch] >> 1) << 1) | pa
			fixed[r][1][ch] = ((orig[r][1][ch] >> 1) << 1) | pb
		}
	}
	return fixed
}

// voteParity returns the parity bits of the endpoints ends. Endpoint channel
// values are spread evenly over the parity bits, in (channel, region,
// endpoint) order, and each bit is set when most of its values are odd.
func (s *bc7Search) voteParity(ends *[3]endpointPair) (pbits [6]uint8) {
	var votes, counts [6]int
	numEndpoints := 2 * s.m.numRegions()
	for ch := range 4 {
		if s.m.rgbaPrec[ch] == s.m.rgbaPrecWithP[ch] {
			continue
		}
		ep := 0
		for r := 0; r <= s.m.partitions; r++ {
			for _, c := range ends[r] {
				slot := (ep * s.m.pBits) / numEndpoints
				votes[slot] += int(c[ch] & 1)
				counts[slot]++
				ep++
			}
		}
	}
	for i := range s.m.pBits {
		if votes[i] > (counts[i] >> 1) {
			pbits[i] = 1
		}
	}
	return pbits
}

// assignIndices matches every pixel to its nearest palette entry and returns
// the per region error. It swaps endpoints, and inverts the indices to match,
// so that every fixup pixel has a zero most significant index bit.
func (s *bc7Search) assignIndices(shape int, ends *[3]endpointPair, indices *[16]uint8, indices2 *[16]uint8) (errs [3]float32) {
	prec, prec2 := s.indexPrecs()
	numIndices, numIndices2 := 1<<uint(prec), 1<<uint(prec2)
	highBit, highBit2 := uint8(numIndices>>1), uint8(numIndices2>>1)
	regions := &partitionTable[s.m.partitions][shape]

	var palettes [3][16]LDRColor
	for r := 0; r <= s.m.partitions; r++ {
		palettes[r] = s.quantizedPalette(ends[r])
	}
	for i := range 16 {
		r := regions[i]
		err, index, index2 := computeError(s.pixels.ldr[i], &palettes[r], prec, prec2)
		errs[r] += err
		indices[i], indices2[i] = uint8(index), uint8(index2)
	}

	for r := 0; r <= s.m.partitions; r++ {
		if (indices[fixupTable[s.m.partitions][shape][r]] & highBit) != 0 {
			if prec2 == 0 {
				ends[r][0], ends[r][1] = ends[r][1], ends[r][0]
			} else {
				for ch := range 3 {
					ends[r][0][ch], ends[r][1][ch] = ends[r][1][ch], ends[r][0][ch]
				}
			}
			for i := range 16 {
				if int(regions[i]) == r {
					indices[i] = uint8(numIndices-1) - indices[i]
				}
			}
		}

		if (prec2 != 0) && ((indices2[0] & highBit2) != 0) {
			ends[r][0][3], ends[r][1][3] = ends[r][1][3], ends[r][0][3]
			for i := range 16 {
				indices2[i] = uint8(numIndices2-1) - indices2[i]
			}
		}
	}
	return errs
}

// refine quantizes and optimizes the rough endpoints of shape, then encodes
// the better of the before and after endpoints.
func (s *bc7Search) refine(shape int, rough *[3]endpointPair) bc7Candidate {
	var orig [3]endpointPair
	for r := 0; r <= s.m.partitions; r++ {
		orig[r][0] = QuantizeColor(rough[r][0], s.m.rgbaPrecWithP)
		orig[r][1] = QuantizeColor(rough[r][1], s.m.rgbaPrecWithP)
	}

	ends1 := s.fixParity(&orig)
	var idx1, idx1b [16]uint8
	errs1 := s.assignIndices(shape, &ends1, &idx1, &idx1b)

	var opt [3]endpointPair
	var idxBuf [16]int
	var colors [16]LDRColor
	for r := 0; r <= s.m.partitions; r++ {
		idx := s.regionPixels(shape, r, &idxBuf)
		for i, j := range idx {
			colors[i] = s.pixels.ldr[j]
		}
		opt[r] = s.optimizeOne(colors[:len(idx)], errs1[r], ends1[r])
	}

	ends2 := s.fixParity(&opt)
	var idx2, idx2b [16]uint8
	errs2 := s.assignIndices(shape, &ends2, &idx2, &idx2b)

	total1, total2 := float32(0), float32(0)
	for r := 0; r <= s.m.partitions; r++ {
		total1 += errs1[r]
		total2 += errs2[r]
	}
	if total1 > total2 {
		return bc7Candidate{err: total2, block: s.emit(shape, &ends2, &idx2, &idx2b)}
	}
	return bc7Candidate{err: total1, block: s.emit(shape, &ends1, &idx1, &idx1b)}
}

// emit serializes one block. Endpoints are quantized, including any parity
// bits, and indices are as produced by assignIndices.
func (s *bc7Search) emit(shape int, ends *[3]endpointPair, indices *[16]uint8, indices2 *[16]uint8) (b BitBlock) {
	m := s.m
	c := b.SetBits(0, s.modeID, 0)
	c = b.SetBit(c, 1)
	c = b.SetBits(c, m.rotationBits, uint8(s.rotation))
	c = b.SetBits(c, m.indexModeBits, uint8(s.indexMode))
	c = b.SetBits(c, m.partitionBits, uint8(shape))

	for ch := range 4 {
		n := int(m.rgbaPrec[ch])
		shift := uint(0)
		if m.rgbaPrec[ch] != m.rgbaPrecWithP[ch] {
			shift = 1
		}
		for r := 0; r <= m.partitions; r++ {
			c = b.SetBits(c, n, ends[r][0][ch]>>shift)
			c = b.SetBits(c, n, ends[r][1][ch]>>shift)
		}
	}
	if m.hasParity() {
		pbits := s.voteParity(ends)
		for i := range m.pBits {
			c = b.SetBit(c, pbits[i])
		}
	}

	primary, secondary := indices, indices2
	if s.indexMode != 0 {
		primary, secondary = indices2, indices
	}
	for i := range 16 {
		n := m.indexPrec
		if isFixup(m.partitions, shape, i) {
			n--
		}
		c = b.SetBits(c, n, primary[i])
	}
	if m.indexPrec2 > 0 {
		for i := range 16 {
			n := m.indexPrec2
			if i == 0 {
				n--
			}
			c = b.SetBits(c, n, secondary[i])
		}
	}

	if c != bitBlockNumBits {
		panic("bcn: BC7 block has the wrong number of bits")
	}
	return b
}
