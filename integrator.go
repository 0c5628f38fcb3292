// seehuhn.de/go/tracer - a spectral ray tracing core
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tracer

import "sort"

// litRegion is one sub-range of [0,dist] produced by merging every
// active light's illumination-volume interval, alternating lit/unlit,
// per spec.md 4.I step 2.
type litRegion struct {
	t0, t1 float64
	lit    bool
}

// buildLitRegions intersects ray's supporting line with every light's
// illumination volume, clamps to [0,dist], and merges the boundaries
// into an alternating lit/unlit partition of [0,dist].
func buildLitRegions(lights []Light, origin, dir Vector3, dist float64) []litRegion {
	type interval struct{ t0, t1 float64 }
	var active []interval
	for _, l := range lights {
		if !l.MediaInteraction() {
			continue
		}
		t0, t1, ok := l.IlluminationInterval(origin, dir, dist)
		if !ok {
			continue
		}
		if t0 < 0 {
			t0 = 0
		}
		if t1 > dist {
			t1 = dist
		}
		if t0 < t1 {
			active = append(active, interval{t0, t1})
		}
	}
	if len(active) == 0 {
		return []litRegion{{t0: 0, t1: dist, lit: false}}
	}

	bounds := make([]float64, 0, 2*len(active)+2)
	bounds = append(bounds, 0, dist)
	for _, iv := range active {
		bounds = append(bounds, iv.t0, iv.t1)
	}
	sort.Float64s(bounds)

	var regions []litRegion
	for i := 0; i+1 < len(bounds); i++ {
		a, b := bounds[i], bounds[i+1]
		if b-a <= 1e-12 {
			continue
		}
		mid := (a + b) / 2
		lit := false
		for _, iv := range active {
			if mid >= iv.t0 && mid < iv.t1 {
				lit = true
				break
			}
		}
		if n := len(regions); n > 0 && regions[n-1].lit == lit && regions[n-1].t1 == a {
			regions[n-1].t1 = b
			continue
		}
		regions = append(regions, litRegion{t0: a, t1: b, lit: lit})
	}
	return regions
}

// subInterval is one sampling sub-range produced by layoutSubIntervals.
type subInterval struct {
	t0, t1 float64
	lit    bool
}

// layoutSubIntervals splits regions into about total sub-intervals,
// weighting lit vs. unlit regions by (ratio, 1-ratio); a single region
// of either kind is split uniformly into total pieces, per spec.md 4.I
// step 3. Every region receives at least one sub-interval, so the
// result can exceed total when there are more regions than total.
func layoutSubIntervals(regions []litRegion, total int, ratio float64) []subInterval {
	if total < 1 {
		total = 1
	}
	if len(regions) == 1 {
		return splitUniform(regions[0], total)
	}

	litLen, unlitLen := 0.0, 0.0
	for _, r := range regions {
		if r.lit {
			litLen += r.t1 - r.t0
		} else {
			unlitLen += r.t1 - r.t0
		}
	}

	litBudget := int(float64(total) * ratio)
	if litLen == 0 {
		litBudget = 0
	}
	if unlitLen == 0 {
		litBudget = total
	}
	unlitBudget := total - litBudget

	out := make([]subInterval, 0, total)
	assign := func(group []litRegion, budget int, groupLen float64) {
		if len(group) == 0 {
			return
		}
		if budget < len(group) {
			budget = len(group)
		}
		remainder := 0.0
		for _, r := range group {
			share := 1
			if groupLen > 0 {
				want := float64(budget-len(group))*(r.t1-r.t0)/groupLen + remainder
				extra := int(want)
				remainder = want - float64(extra)
				share += extra
			}
			out = append(out, splitUniform(r, share)...)
		}
	}

	var litGroup, unlitGroup []litRegion
	for _, r := range regions {
		if r.lit {
			litGroup = append(litGroup, r)
		} else {
			unlitGroup = append(unlitGroup, r)
		}
	}
	assign(litGroup, litBudget, litLen)
	assign(unlitGroup, unlitBudget, unlitLen)

	sort.Slice(out, func(i, j int) bool { return out[i].t0 < out[j].t0 })
	return out
}

func splitUniform(r litRegion, n int) []subInterval {
	if n < 1 {
		n = 1
	}
	out := make([]subInterval, n)
	step := (r.t1 - r.t0) / float64(n)
	for i := 0; i < n; i++ {
		out[i] = subInterval{t0: r.t0 + float64(i)*step, t1: r.t0 + float64(i+1)*step, lit: r.lit}
	}
	return out
}

// subAccum holds the running Monte-Carlo accumulators for one
// sub-interval: optical depth, attenuated emission+in-scatter total,
// and the sum of squared per-sample emission used for the variance
// estimate gating adaptive refinement.
type subAccum struct {
	opticalDepth Colour3
	emission     Colour3
	sumSq        Colour3
	n            int
}

// sampleOne draws one stratified sample at stratum i of n within sub,
// evaluates every active media node's density there, and folds its
// contribution into acc.
func sampleOne(ctx *RenderContext, media []MediaNode, lights []Light, ray *Ray, shadow ShadowTester, lightRay bool, sub subInterval, acc *subAccum, sStart, sPrev float64, i, n int) float64 {
	lo := sub.t0 + float64(i)*(sub.t1-sub.t0)/float64(n)
	hi := sub.t0 + float64(i+1)*(sub.t1-sub.t0)/float64(n)
	s := lo + ctx.Rng.Float64()*(hi-lo)

	point := ray.At(s)

	var localExt, localEm, localSc Colour3
	activeScattering := 0
	for i := range media {
		m := &media[i]
		d := m.SampleDensity(point)
		if m.UseExtinction {
			localExt = localExt.Add(d.Mul(m.Extinction))
		}
		if m.UseEmission {
			localEm = localEm.Add(d.Mul(m.Emission))
		}
		if m.UseScattering {
			localSc = localSc.Add(d.Mul(m.Scattering))
			activeScattering++
		}
	}

	var inscatter Colour3
	if !lightRay && sub.lit && activeScattering > 0 {
		for _, l := range lights {
			if !l.MediaInteraction() {
				continue
			}
			lightDir := l.DirectionFrom(point)
			_, shadowColour := shadow.Test(l, point, lightDir)
			if shadowColour.IsBlack() {
				continue
			}
			phaseSum := 0.0
			count := 0
			cosAlpha := ray.Direction.Neg().Dot(lightDir)
			for i := range media {
				m := &media[i]
				if !m.UseScattering {
					continue
				}
				phaseSum += m.Phase(cosAlpha)
				count++
			}
			if count == 0 {
				continue
			}
			inscatter = inscatter.Add(l.Colour().Mul(shadowColour).Scale(phaseSum / float64(count)))
		}
	}

	delta := s - sPrev
	if delta < 0 {
		delta = 0
	}
	atten := ExpNeg(acc.opticalDepth)
	sampleEm := localEm.Add(localSc.Mul(inscatter))
	acc.emission = acc.emission.Add(sampleEm.Scale(delta).Mul(atten))
	acc.opticalDepth = acc.opticalDepth.Add(localExt.Scale(delta))
	acc.sumSq = acc.sumSq.Add(sampleEm.Mul(sampleEm))
	acc.n++
	return s
}

// variance returns the per-channel sample variance of the emission
// accumulator's running sum-of-squares, against which Threshold is
// compared for adaptive refinement.
func variance(acc subAccum) Colour3 {
	if acc.n == 0 {
		return Colour3{}
	}
	n := float64(acc.n)
	mean := acc.emission.Scale(1 / n)
	v := acc.sumSq.Scale(1 / n).Sub(mean.Mul(mean))
	if v.R < 0 {
		v.R = 0
	}
	if v.G < 0 {
		v.G = 0
	}
	if v.B < 0 {
		v.B = 0
	}
	return v
}

// driverNode picks the media node with the largest Intervals setting,
// whose MinSamples/MaxSamples/threshold table govern the sampling
// layout for the whole interval set, per spec.md 4.I step 3.
func driverNode(media []MediaNode) *MediaNode {
	best := &media[0]
	for i := range media {
		if media[i].Intervals > best.Intervals {
			best = &media[i]
		}
	}
	return best
}

func anyExtinction(media []MediaNode) bool {
	for i := range media {
		if media[i].UseExtinction {
			return true
		}
	}
	return false
}

// Integrate folds the contribution of media along ray over [0,dist]
// into in, implementing the six-step algorithm of spec.md 4.I: fast
// exit on shadow rays through non-extincting media, lit-interval
// construction from the scene's lights, weighted sub-interval layout,
// stratified initial sampling of the five phase functions, adaptive
// refinement gated by the chi-squared threshold table, and Beer-law
// composition from the near end outward.
func Integrate(ctx *RenderContext, media []MediaNode, lights []Light, ray Ray, dist float64, in Colour3, lightRay bool, shadow ShadowTester) Colour3 {
	if len(media) == 0 {
		return in
	}
	if lightRay && !anyExtinction(media) {
		return in
	}

	var regions []litRegion
	if lightRay {
		regions = []litRegion{{t0: 0, t1: dist, lit: false}}
	} else {
		regions = buildLitRegions(lights, ray.Origin, ray.Direction, dist)
	}

	driver := driverNode(media)
	subs := layoutSubIntervals(regions, driver.Intervals, driver.Ratio)

	accums := make([]subAccum, len(subs))
	for i, sub := range subs {
		var acc subAccum
		sPrev := sub.t0
		for k := 0; k < driver.MinSamples; k++ {
			sPrev = sampleOne(ctx, media, lights, &ray, shadow, lightRay, sub, &acc, sub.t0, sPrev, k, driver.MinSamples)
		}
		if !lightRay {
			for acc.n < driver.MaxSamples {
				v := variance(acc)
				if v.MaxChannel() <= driver.Threshold(acc.n) {
					break
				}
				sPrev = sampleOne(ctx, media, lights, &ray, shadow, lightRay, sub, &acc, sub.t0, sPrev, acc.n, acc.n+1)
			}
		}
		accums[i] = acc
	}

	result := Colour3{}
	cum := Colour3{}
	for _, acc := range accums {
		result = result.Add(acc.emission.Mul(ExpNeg(cum)))
		cum = cum.Add(acc.opticalDepth)
	}
	result = result.Add(in.Mul(ExpNeg(cum)))
	return result
}
