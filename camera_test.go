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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCameraOrthographicRayIsParallelToLookDirection(t *testing.T) {
	c := Camera{
		Kind:   CameraOrthographic,
		Origin: Vector3{Z: -5},
		Look:   Vector3{},
		Up:     Vector3{Y: 1},
		Scale:  1,
	}
	r1 := c.Ray(0, 0)
	r2 := c.Ray(0.5, -0.3)
	assert.Equal(t, r1.Direction, r2.Direction)
	assert.InDelta(t, 1.0, r1.Direction.Length(), 1e-12)
}

func TestCameraOrthographicCentreRayPassesThroughOrigin(t *testing.T) {
	c := Camera{Kind: CameraOrthographic, Origin: Vector3{Z: -5}, Look: Vector3{}, Up: Vector3{Y: 1}, Scale: 2}
	r := c.Ray(0, 0)
	assert.InDelta(t, 0, r.Origin.X, 1e-9)
	assert.InDelta(t, 0, r.Origin.Y, 1e-9)
}

func TestCameraPerspectiveRaysDiverge(t *testing.T) {
	c := Camera{Kind: CameraPerspective, Origin: Vector3{}, Look: Vector3{Z: 1}, Up: Vector3{Y: 1}, FOV: 1.0}
	centre := c.Ray(0, 0)
	corner := c.Ray(1, 1)
	assert.NotEqual(t, centre.Direction, corner.Direction)
	assert.InDelta(t, 1.0, corner.Direction.Length(), 1e-12)
}

func TestPixelUVCentresAndAspect(t *testing.T) {
	u, v := PixelUV(0, 0, 4, 2)
	// top-left pixel centre maps to negative u, positive v
	assert.Less(t, u, 0.0)
	assert.Greater(t, v, 0.0)

	uc, vc := PixelUV(1, 0, 2, 2)
	_ = uc
	_ = vc
}

// TestCameraIsRaceFreeAcrossGoroutines exercises the concurrency
// requirement driving Camera's value-receiver design: many goroutines
// calling Ray concurrently on a shared Camera value must never
// observe a partially-written cache, because there is none.
func TestCameraIsRaceFreeAcrossGoroutines(t *testing.T) {
	c := Camera{Kind: CameraPerspective, Origin: Vector3{}, Look: Vector3{Z: 1}, Up: Vector3{Y: 1}, FOV: 1.0}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := float64(i%10) / 10
			_ = c.Ray(u, u)
		}(i)
	}
	wg.Wait()
}
