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

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func solveAndSort(t *testing.T, coeffs []float64, useSturm bool) []float64 {
	t.Helper()
	var scratch PolyScratch
	var roots [MaxPolyDegree]float64
	n := SolvePoly(&scratch, coeffs, &roots, useSturm, 1e-9)
	got := append([]float64(nil), roots[:n]...)
	sort.Float64s(got)
	return got
}

func TestSolvePolyLinear(t *testing.T) {
	// 2x - 4 = 0 => x = 2
	got := solveAndSort(t, []float64{-4, 2}, false)
	assert.Len(t, got, 1)
	assert.InDelta(t, 2.0, got[0], 1e-9)
}

func TestSolvePolyQuadratic(t *testing.T) {
	cases := []struct {
		name   string
		coeffs []float64
		want   []float64
	}{
		{"two roots", []float64{-6, -1, 1}, []float64{-2, 3}},       // x^2-x-6
		{"repeated root", []float64{1, -2, 1}, []float64{1}},        // (x-1)^2
		{"no real roots", []float64{5, 0, 1}, nil},                  // x^2+5
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := solveAndSort(t, c.coeffs, false)
			assert.Len(t, got, len(c.want))
			for i, w := range c.want {
				assert.InDelta(t, w, got[i], 1e-9)
			}
		})
	}
}

func TestSolvePolyCubic(t *testing.T) {
	// (x-1)(x-2)(x-3) = x^3 -6x^2 +11x -6
	got := solveAndSort(t, []float64{-6, 11, -6, 1}, false)
	want := []float64{1, 2, 3}
	assert.Len(t, got, 3)
	for i, w := range want {
		assert.InDelta(t, w, got[i], 1e-9)
	}
}

func TestSolvePolyQuartic(t *testing.T) {
	// (x^2-1)(x^2-4) = x^4 -5x^2 +4, roots -2,-1,1,2
	got := solveAndSort(t, []float64{4, 0, -5, 0, 1}, false)
	want := []float64{-2, -1, 1, 2}
	assert.Len(t, got, 4)
	for i, w := range want {
		assert.InDelta(t, w, got[i], 1e-6)
	}
}

func TestSolvePolyDegree5Laguerre(t *testing.T) {
	// x(x-1)(x-2)(x-3)(x-4), roots 0,1,2,3,4 (0 is filtered by tolerance)
	// build coefficients via repeated multiplication by (x-r)
	coeffs := []float64{1}
	for _, r := range []float64{0, 1, 2, 3, 4} {
		coeffs = polyMulLinear(coeffs, r)
	}
	got := solveAndSort(t, coeffs, false)
	want := []float64{1, 2, 3, 4} // root at 0 is below the tolerance filter
	assert.Len(t, got, len(want))
	for i, w := range want {
		assert.InDelta(t, w, got[i], 1e-5)
	}
}

func TestSolvePolyDegree5Sturm(t *testing.T) {
	coeffs := []float64{1}
	for _, r := range []float64{-2, -1, 1, 2, 5} {
		coeffs = polyMulLinear(coeffs, r)
	}
	got := solveAndSort(t, coeffs, true)
	want := []float64{-2, -1, 1, 2, 5}
	assert.Len(t, got, len(want))
	for i, w := range want {
		assert.InDelta(t, w, got[i], 1e-4)
	}
}

func TestSolvePolyToleranceFiltersSmallRoots(t *testing.T) {
	// x^2 - 1e-12, root magnitude below tolerance must be dropped
	var scratch PolyScratch
	var roots [MaxPolyDegree]float64
	n := SolvePoly(&scratch, []float64{-1e-12, 0, 1}, &roots, false, 1e-6)
	assert.Equal(t, 0, n)
}

func TestSolvePolyAllZeroCoefficients(t *testing.T) {
	var scratch PolyScratch
	var roots [MaxPolyDegree]float64
	n := SolvePoly(&scratch, []float64{0, 0, 0}, &roots, false, 1e-9)
	assert.Equal(t, 0, n)
}

// polyMulLinear multiplies a constant-term-first polynomial by (x-r).
func polyMulLinear(c []float64, r float64) []float64 {
	out := make([]float64, len(c)+1)
	for i, v := range c {
		out[i] -= v * r
		out[i+1] += v
	}
	return out
}

func TestPolyEvalMatchesDerivative(t *testing.T) {
	// x^3 - 2x + 1, derivative 3x^2 - 2, second derivative 6x
	c := []float64{1, -2, 0, 1}
	val, d1, d2 := polyEval(c, 2)
	assert.InDelta(t, math.Pow(2, 3)-2*2+1, val, 1e-9)
	assert.InDelta(t, 3*2*2-2, d1, 1e-9)
	assert.InDelta(t, 6*2, d2, 1e-9)
}
