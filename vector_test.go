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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector3Basics(t *testing.T) {
	a := Vector3{X: 1, Y: 2, Z: 3}
	b := Vector3{X: 4, Y: -1, Z: 2}

	assert.Equal(t, Vector3{X: 5, Y: 1, Z: 5}, a.Add(b))
	assert.Equal(t, Vector3{X: -3, Y: 3, Z: 1}, a.Sub(b))
	assert.Equal(t, Vector3{X: -1, Y: -2, Z: -3}, a.Neg())
	assert.Equal(t, 8.0, a.Dot(b))
	assert.Equal(t, Vector3{X: 7, Y: 10, Z: -9}, a.Cross(b))
}

func TestVector3Normalize(t *testing.T) {
	v := Vector3{X: 3, Y: 0, Z: 4}
	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-12)
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Z, 1e-12)

	// the zero vector is left unchanged rather than producing NaN
	assert.Equal(t, Vector3{}, Vector3{}.Normalize())
}

func TestColour3ExpNeg(t *testing.T) {
	c := ExpNeg(Colour3{})
	assert.Equal(t, Colour3{R: 1, G: 1, B: 1}, c)

	od := Colour3{R: math.Log(2), G: 0, B: math.Log(4)}
	got := ExpNeg(od)
	assert.InDelta(t, 0.5, got.R, 1e-12)
	assert.InDelta(t, 1.0, got.G, 1e-12)
	assert.InDelta(t, 0.25, got.B, 1e-12)
}

func TestColour3MaxChannelAndIsBlack(t *testing.T) {
	assert.True(t, Colour3{}.IsBlack())
	assert.False(t, Colour3{R: 0.01}.IsBlack())
	assert.Equal(t, 0.7, Colour3{R: 0.2, G: 0.7, B: 0.5}.MaxChannel())
}

func TestMatrixIdentity(t *testing.T) {
	p := Vector3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, p, Identity.Apply(p))
	assert.Equal(t, p, Identity.ApplyVector(p))
}

func TestMatrixTranslateAndScale(t *testing.T) {
	m := Translate(Vector3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, Vector3{X: 2, Y: 4, Z: 6}, m.Apply(Vector3{X: 1, Y: 2, Z: 3}))
	// a translation leaves direction vectors unaffected
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, m.ApplyVector(Vector3{X: 1, Y: 2, Z: 3}))

	s := Scale3(Vector3{X: 2, Y: 3, Z: 4})
	assert.Equal(t, Vector3{X: 2, Y: 6, Z: 12}, s.Apply(Vector3{X: 1, Y: 2, Z: 3}))
}

func TestMatrixInverseRoundTrips(t *testing.T) {
	m := Compose(Scale3(Vector3{X: 2, Y: 0.5, Z: 3}), Translate(Vector3{X: 1, Y: -2, Z: 5}))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatalf("expected an invertible matrix")
	}

	for _, p := range []Vector3{{X: 1, Y: 2, Z: 3}, {X: -4, Y: 0, Z: 7}, {}} {
		got := inv.Apply(m.Apply(p))
		assert.InDelta(t, p.X, got.X, 1e-9)
		assert.InDelta(t, p.Y, got.Y, 1e-9)
		assert.InDelta(t, p.Z, got.Z, 1e-9)
	}
}

func TestMatrixInverseSingular(t *testing.T) {
	singular := Matrix{Row: [3]Vector3{{X: 1, Y: 1}, {X: 1, Y: 1}, {Z: 1}}}
	_, ok := singular.Inverse()
	assert.False(t, ok)
}

func TestComposeOrdering(t *testing.T) {
	// Compose(m, n).Apply(p) == n.Apply(m.Apply(p))
	m := Translate(Vector3{X: 1})
	n := Scale3(Vector3{X: 2, Y: 2, Z: 2})
	composed := Compose(m, n)

	p := Vector3{X: 3, Y: 4, Z: 5}
	want := n.Apply(m.Apply(p))
	assert.Equal(t, want, composed.Apply(p))
}
