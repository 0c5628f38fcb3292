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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRayNormalizesDirection(t *testing.T) {
	r := NewRay(Vector3{}, Vector3{X: 0, Y: 0, Z: 5})
	assert.InDelta(t, 1.0, r.Direction.Length(), 1e-12)
}

func TestRayEnterExitNesting(t *testing.T) {
	r := NewRay(Vector3{}, Vector3{Z: 1})
	outer := NewInterior(1.0)
	inner := NewInterior(1.5)

	require.NoError(t, r.Enter(outer))
	require.NoError(t, r.Enter(inner))
	assert.Equal(t, 2, r.Depth())

	top, ok := r.Innermost()
	require.True(t, ok)
	assert.Same(t, inner, top)

	require.NoError(t, r.Exit(1))
	assert.Equal(t, 1, r.Depth())
	top, ok = r.Innermost()
	require.True(t, ok)
	assert.Same(t, outer, top)
}

func TestRayEnterTooMany(t *testing.T) {
	r := NewRay(Vector3{}, Vector3{Z: 1})
	for i := 0; i < MaxContainingObjects; i++ {
		require.NoError(t, r.Enter(NewInterior(1.0)))
	}
	err := r.Enter(NewInterior(1.0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyContainingObjects))
}

func TestRayExitEmptyAndOutOfRange(t *testing.T) {
	r := NewRay(Vector3{}, Vector3{Z: 1})
	err := r.Exit(0)
	assert.True(t, errors.Is(err, ErrEmptyInteriorList))

	require.NoError(t, r.Enter(NewInterior(1.0)))
	err = r.Exit(5)
	assert.True(t, errors.Is(err, ErrInteriorNotFound))
}

func TestRayHollowIsConjunction(t *testing.T) {
	r := NewRay(Vector3{}, Vector3{Z: 1})
	hollow := &Interior{Hollow: true}
	solid := &Interior{Hollow: false}

	require.NoError(t, r.Enter(hollow))
	assert.True(t, r.Hollow())

	require.NoError(t, r.Enter(solid))
	assert.False(t, r.Hollow())
}

func TestRayCloneIsIndependent(t *testing.T) {
	r := NewRay(Vector3{}, Vector3{Z: 1})
	i := NewInterior(1.0)
	require.NoError(t, r.Enter(i))

	c := r.Clone()
	require.NoError(t, c.Enter(NewInterior(2.0)))

	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, 2, c.Depth())
}

func TestRayAt(t *testing.T) {
	r := NewRay(Vector3{X: 1, Y: 2, Z: 3}, Vector3{X: 0, Y: 0, Z: 1})
	got := r.At(5)
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 8}, got)
}

func TestRayTransformRenormalizes(t *testing.T) {
	r := NewRay(Vector3{}, Vector3{Z: 1})
	stretched := r.Transform(Scale3(Vector3{X: 1, Y: 1, Z: 2}))
	assert.InDelta(t, 1.0, stretched.Direction.Length(), 1e-12)
}

func TestRayTransformRawPreservesParameter(t *testing.T) {
	// a world-space hit at t=3 must land at the same t in object
	// space, which is the entire point of TransformRaw
	m := Scale3(Vector3{X: 2, Y: 2, Z: 2})
	inv, ok := m.Inverse()
	require.True(t, ok)

	world := NewRay(Vector3{X: 1, Y: 0, Z: 0}, Vector3{X: 0, Y: 0, Z: 1})
	obj := world.TransformRaw(inv)

	worldHit := world.At(3)
	objHit := obj.At(3)
	backToWorld := m.Apply(objHit)
	assert.InDelta(t, worldHit.X, backToWorld.X, 1e-9)
	assert.InDelta(t, worldHit.Y, backToWorld.Y, 1e-9)
	assert.InDelta(t, worldHit.Z, backToWorld.Z, 1e-9)
}
