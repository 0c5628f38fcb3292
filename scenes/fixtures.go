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

package scenes

import (
	"fmt"
	"math"

	"seehuhn.de/go/tracer"
)

// unitSphereCase builds spec.md 8 scenario 1: a unit sphere at the
// origin (expressed as an SOR with profile r^2=1-y^2, since the
// component set covers patches/lathes/SORs and not a dedicated sphere
// primitive), one white point light, orthographic camera.
func unitSphereCase() Case {
	sphere, err := tracer.NewSOR([]tracer.SORSegment{
		{A: 0, B: -1, C: 0, D: 1, Y0: -1, Y1: 1},
	}, false, 0, 0)
	if err != nil {
		panic(err)
	}

	scene := &tracer.Scene{
		Objects: []tracer.Object{
			{Primitive: sphere, Colour: tracer.Colour3{R: 1, G: 1, B: 1}, Ambient: 0.1, Diffuse: 0.9},
		},
		Lights: []tracer.Light{
			&tracer.PointLight{Position: tracer.Vector3{X: 10, Y: 10, Z: -10}, Emission: tracer.Colour3{R: 1, G: 1, B: 1}},
		},
		Camera: tracer.Camera{
			Kind:  tracer.CameraOrthographic,
			Origin: tracer.Vector3{X: 0, Y: 0, Z: -5},
			Look:   tracer.Vector3{X: 0, Y: 0, Z: 0},
			Up:     tracer.Vector3{X: 0, Y: 1, Z: 0},
			Scale:  1.5,
		},
	}

	return Case{
		Name:   "unit_sphere_point_light",
		Scene:  scene,
		Width:  32,
		Height: 32,
		CheckX: 15, CheckY: 16,
		Check: func(c tracer.Colour3) error {
			return withinAll(c, tracer.Colour3{R: 0.7, G: 0.7, B: 0.7}, 0.05)
		},
	}
}

// latheCylinderCase builds spec.md 8 scenario 2: a linear-profile
// lathe tracing out a unit cylinder with flat caps.
func latheCylinderCase() Case {
	profile := []tracer.Vector2{
		{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0},
	}
	cyl, err := tracer.NewLathe(profile, tracer.SplineLinear)
	if err != nil {
		panic(err)
	}

	scene := &tracer.Scene{
		Objects: []tracer.Object{
			{Primitive: cyl, Colour: tracer.Colour3{R: 1, G: 1, B: 1}, Ambient: 0.2, Diffuse: 0.8},
		},
		Lights: []tracer.Light{
			&tracer.PointLight{Position: tracer.Vector3{X: 0, Y: 5, Z: -5}, Emission: tracer.Colour3{R: 1, G: 1, B: 1}},
		},
		Camera: tracer.Camera{
			Kind:   tracer.CameraOrthographic,
			Origin: tracer.Vector3{X: 0, Y: 0.5, Z: -5},
			Look:   tracer.Vector3{X: 0, Y: 0.5, Z: 0},
			Up:     tracer.Vector3{X: 0, Y: 1, Z: 0},
			Scale:  1.5,
		},
	}

	return Case{
		Name:   "lathe_linear_cylinder",
		Scene:  scene,
		Width:  32,
		Height: 32,
		CheckX: 16, CheckY: 16,
		Check: func(c tracer.Colour3) error {
			if c.MaxChannel() <= 0 {
				return fmt.Errorf("expected the cylinder disk to be lit, got black")
			}
			return nil
		},
	}
}

// sorHemisphereCase builds spec.md 8 scenario 3: an SOR profile
// r^2=1-y^2 over [0,1], capped at its base, approximating a
// hemisphere.
func sorHemisphereCase() Case {
	hemi, err := tracer.NewSOR([]tracer.SORSegment{
		{A: 0, B: -1, C: 0, D: 1, Y0: 0, Y1: 1},
	}, true, 1, 0)
	if err != nil {
		panic(err)
	}

	scene := &tracer.Scene{
		Objects: []tracer.Object{
			{Primitive: hemi, Colour: tracer.Colour3{R: 1, G: 1, B: 1}, Ambient: 0.2, Diffuse: 0.8},
		},
		Lights: []tracer.Light{
			&tracer.PointLight{Position: tracer.Vector3{X: 3, Y: 3, Z: -3}, Emission: tracer.Colour3{R: 1, G: 1, B: 1}},
		},
		Camera: tracer.Camera{
			Kind:   tracer.CameraOrthographic,
			Origin: tracer.Vector3{X: 0, Y: 0.5, Z: -5},
			Look:   tracer.Vector3{X: 0, Y: 0.5, Z: 0},
			Up:     tracer.Vector3{X: 0, Y: 1, Z: 0},
			Scale:  1.5,
		},
	}

	return Case{
		Name:   "sor_hemisphere",
		Scene:  scene,
		Width:  32,
		Height: 32,
		CheckX: 16, CheckY: 16,
		Check: func(c tracer.Colour3) error {
			if c.MaxChannel() <= 0 {
				return fmt.Errorf("expected the hemisphere centre to be lit, got black")
			}
			return nil
		},
	}
}

// flatPatchCase builds spec.md 8 scenario 4: a bicubic patch that is
// a flat unit square on the plane z=0, hit head-on at uv=(0.5,0.5).
func flatPatchCase() Case {
	var control [4][4]tracer.Vector3
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			control[i][j] = tracer.Vector3{
				X: float64(j) / 3,
				Y: float64(i) / 3,
				Z: 0,
			}
		}
	}
	uv := [4]tracer.Vector2{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	patch, err := tracer.NewPatch(control, uv, 4, 4, 1e-3, tracer.StrategyRecursive)
	if err != nil {
		panic(err)
	}

	scene := &tracer.Scene{
		Objects: []tracer.Object{
			{Primitive: patch, Colour: tracer.Colour3{R: 1, G: 1, B: 1}, Ambient: 0.2, Diffuse: 0.8},
		},
		Lights: []tracer.Light{
			&tracer.PointLight{Position: tracer.Vector3{X: 0.5, Y: 0.5, Z: -3}, Emission: tracer.Colour3{R: 1, G: 1, B: 1}},
		},
		Camera: tracer.Camera{
			Kind:   tracer.CameraOrthographic,
			Origin: tracer.Vector3{X: 0.5, Y: 0.5, Z: -1},
			Look:   tracer.Vector3{X: 0.5, Y: 0.5, Z: 0},
			Up:     tracer.Vector3{X: 0, Y: 1, Z: 0},
			Scale:  0.6,
		},
	}

	return Case{
		Name:   "flat_bicubic_patch",
		Scene:  scene,
		Width:  32,
		Height: 32,
		CheckX: 16, CheckY: 16,
		Check: func(c tracer.Colour3) error {
			if c.MaxChannel() <= 0 {
				return fmt.Errorf("expected the patch centre to be lit, got black")
			}
			return nil
		},
	}
}

func withinAll(got, want tracer.Colour3, tol float64) error {
	diffs := []float64{got.R - want.R, got.G - want.G, got.B - want.B}
	for _, d := range diffs {
		if math.Abs(d) > tol {
			return fmt.Errorf("colour %v outside tolerance %v of %v", got, tol, want)
		}
	}
	return nil
}
