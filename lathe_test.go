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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitLatheCylinder builds a linear-profile lathe tracing out a unit
// cylinder (radius 1, from y=0 to y=1) with flat top and bottom.
func unitLatheCylinder(t *testing.T, mode SplineMode) *Lathe {
	t.Helper()
	profile := []Vector2{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}}
	l, err := NewLathe(profile, mode)
	require.NoError(t, err)
	return l
}

func TestNewLatheRejectsTooFewPoints(t *testing.T) {
	_, err := NewLathe([]Vector2{{X: 1}}, SplineLinear)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateProfile))
}

func TestNewLatheRejectsEqualHeightNeighbours(t *testing.T) {
	_, err := NewLathe([]Vector2{{X: 1, Y: 0}, {X: 0, Y: 0}}, SplineLinear)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateProfile))
}

func TestLatheIntersectsSideWall(t *testing.T) {
	l := unitLatheCylinder(t, SplineLinear)
	ctx := NewRenderContext(1)

	ray := NewRay(Vector3{X: -5, Y: 0.5, Z: 0}, Vector3{X: 1, Y: 0, Z: 0})
	s := ctx.Open()
	defer ctx.Close(s)
	l.AllIntersections(ctx, &ray, s)

	require.GreaterOrEqual(t, s.Len(), 1)
	min, ok := s.Min()
	require.True(t, ok)
	assert.InDelta(t, 4.0, min.Depth, 1e-3) // from x=-5 to the wall at x=-1
}

func TestLatheMissesBeyondRadius(t *testing.T) {
	l := unitLatheCylinder(t, SplineLinear)
	ctx := NewRenderContext(1)

	ray := NewRay(Vector3{X: -5, Y: 0.5, Z: 5}, Vector3{X: 1, Y: 0, Z: 0})
	s := ctx.Open()
	defer ctx.Close(s)
	l.AllIntersections(ctx, &ray, s)
	assert.Equal(t, 0, s.Len())
}

func TestLatheInsideMatchesRadius(t *testing.T) {
	l := unitLatheCylinder(t, SplineLinear)
	ctx := NewRenderContext(1)

	assert.True(t, l.Inside(ctx, Vector3{X: 0, Y: 0.5, Z: 0}))
	assert.False(t, l.Inside(ctx, Vector3{X: 2, Y: 0.5, Z: 0}))
	assert.False(t, l.Inside(ctx, Vector3{X: 0, Y: 2, Z: 0})) // above the cylinder
}

func TestLatheNormalPointsOutwardOnSideWall(t *testing.T) {
	l := unitLatheCylinder(t, SplineLinear)
	ctx := NewRenderContext(1)

	ray := NewRay(Vector3{X: -5, Y: 0.5, Z: 0}, Vector3{X: 1, Y: 0, Z: 0})
	s := ctx.Open()
	defer ctx.Close(s)
	l.AllIntersections(ctx, &ray, s)
	require.GreaterOrEqual(t, s.Len(), 1)
	min, _ := s.Min()

	n := l.Normal(min)
	// the hit point sits on the cylinder wall at x=-1: the outward
	// radial direction there is -X, so normal.dot(radial) must be positive
	radial := Vector3{X: min.Point.X, Z: min.Point.Z}.Normalize()
	assert.Greater(t, n.Dot(radial), 0.0)
}

func TestLatheTransformMovesHits(t *testing.T) {
	l := unitLatheCylinder(t, SplineLinear)
	l.Transform(Translate(Vector3{X: 10}))
	ctx := NewRenderContext(1)

	ray := NewRay(Vector3{X: 5, Y: 0.5, Z: 0}, Vector3{X: 1, Y: 0, Z: 0})
	s := ctx.Open()
	defer ctx.Close(s)
	l.AllIntersections(ctx, &ray, s)
	require.GreaterOrEqual(t, s.Len(), 1)
	min, _ := s.Min()
	assert.InDelta(t, 4.0, min.Depth, 1e-3)
}

func TestLatheCopyIsIndependent(t *testing.T) {
	l := unitLatheCylinder(t, SplineLinear)
	cpAny := l.Copy()
	cp, ok := cpAny.(*Lathe)
	require.True(t, ok)
	cp.Transform(Translate(Vector3{X: 1}))
	assert.NotEqual(t, l.m, cp.m)
}

func TestEvalCubicDerivMatchesFiniteDifference(t *testing.T) {
	c := [4]float64{2, -3, 1, 5}
	h := 1e-6
	s := 0.4
	approx := (evalCubic(c, s+h) - evalCubic(c, s-h)) / (2 * h)
	assert.InDelta(t, approx, evalCubicDeriv(c, s), 1e-4)
}

func TestLatheSplineModesAllProduceClosedSegments(t *testing.T) {
	profile := []Vector2{{X: 1, Y: 0}, {X: 1.2, Y: 0.5}, {X: 0.8, Y: 1}, {X: 0, Y: 1.5}}
	for _, mode := range []SplineMode{SplineLinear, SplineQuadratic, SplineCubicCatmull, SplineCubicBezier} {
		l, err := NewLathe(profile, mode)
		require.NoError(t, err, "mode %v", mode)
		assert.Len(t, l.Segments, len(profile)-1, "mode %v", mode)
	}
}

func TestPolyHelpersRoundTripLatheSegment(t *testing.T) {
	// (s-1)(s-2)(s-3), power-basis coefficients
	abcd := [4]float64{1, -6, 11, -6} // A,B,C,D leading-first, D is constant
	got := polyScaleAdd(abcd, 1, 0)
	want := []float64{abcd[3], abcd[2], abcd[1], abcd[0]}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9)
	}

	// check the squared cubic evaluates consistently with evalCubic^2
	sq := polySquareCubic(abcd)
	for _, s := range []float64{0, 0.3, 0.7, 1} {
		want := math.Pow(evalCubic(abcd, s), 2)
		got := evalPoly(sq, s)
		assert.InDelta(t, want, got, 1e-6)
	}
}

func evalPoly(c []float64, x float64) float64 {
	v := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}
