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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersectionStackPushAndMin(t *testing.T) {
	ctx := NewRenderContext(1)
	s := ctx.Open()
	defer ctx.Close(s)

	s.Push(Intersection{Depth: 3})
	s.Push(Intersection{Depth: 1})
	s.Push(Intersection{Depth: 2})

	require.Equal(t, 3, s.Len())
	min, ok := s.Min()
	require.True(t, ok)
	assert.Equal(t, 1.0, min.Depth)
}

func TestIntersectionStackPopMin(t *testing.T) {
	ctx := NewRenderContext(1)
	s := ctx.Open()
	defer ctx.Close(s)

	s.Push(Intersection{Depth: 3})
	s.Push(Intersection{Depth: 1})
	s.Push(Intersection{Depth: 2})

	e, ok := s.PopMin()
	require.True(t, ok)
	assert.Equal(t, 1.0, e.Depth)
	assert.Equal(t, 2, s.Len())

	// the smallest remaining depth is now 2
	e, ok = s.PopMin()
	require.True(t, ok)
	assert.Equal(t, 2.0, e.Depth)
}

func TestIntersectionStackPopIsUnordered(t *testing.T) {
	ctx := NewRenderContext(1)
	s := ctx.Open()
	defer ctx.Close(s)

	s.Push(Intersection{Depth: 5})
	e, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, 5.0, e.Depth)
	assert.Equal(t, 0, s.Len())

	_, ok = s.Pop()
	assert.False(t, ok)
}

func TestIntersectionStackOverflow(t *testing.T) {
	ctx := NewRenderContext(1)
	s := ctx.Open()
	defer ctx.Close(s)

	for i := 0; i < MaxIntersections+10; i++ {
		s.Push(Intersection{Depth: float64(i)})
	}
	assert.Equal(t, MaxIntersections, s.Len())
	assert.EqualValues(t, 10, ctx.Stats.StackOverflows)
}

func TestIntersectionStackReset(t *testing.T) {
	ctx := NewRenderContext(1)
	s := ctx.Open()
	defer ctx.Close(s)

	s.Push(Intersection{Depth: 1})
	s.Push(Intersection{Depth: 2})
	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestRenderContextStackPoolReuse(t *testing.T) {
	ctx := NewRenderContext(1)

	s1 := ctx.Open()
	s1.Push(Intersection{Depth: 1})
	ctx.Close(s1)

	// a freshly opened stack must start empty even though the
	// underlying buffer may have been reused from the pool
	s2 := ctx.Open()
	assert.Equal(t, 0, s2.Len())
	ctx.Close(s2)
}
