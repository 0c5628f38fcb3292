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

import "math"

// Light is the narrow contract the media integrator needs from a
// scene light: its illumination-volume intersection (for lit-interval
// construction, spec.md 4.I step 2), whether it participates in media
// scattering at all, its colour, and its direction from a point (for
// shadow probing and phase-function evaluation).
type Light interface {
	// IlluminationInterval intersects the light's illumination volume
	// with the line through origin+t*dir, clamped to [0, maxT].
	// ok is false when the interval is empty.
	IlluminationInterval(origin, dir Vector3, maxT float64) (t0, t1 float64, ok bool)

	MediaInteraction() bool
	Colour() Colour3

	// DirectionFrom returns the unit vector from p toward the light,
	// used for phase-function cosines.
	DirectionFrom(p Vector3) Vector3
}

// PointLight illuminates its whole supporting line within [0,maxT].
type PointLight struct {
	Position   Vector3
	Emission   Colour3
	MediaInter bool
}

func (l *PointLight) IlluminationInterval(origin, dir Vector3, maxT float64) (float64, float64, bool) {
	if maxT <= 0 {
		return 0, 0, false
	}
	return 0, maxT, true
}
func (l *PointLight) MediaInteraction() bool    { return l.MediaInter }
func (l *PointLight) Colour() Colour3           { return l.Emission }
func (l *PointLight) DirectionFrom(p Vector3) Vector3 {
	return l.Position.Sub(p).Normalize()
}

// SpotLight restricts its illumination volume to a cone with apex
// Position, axis Direction (unit), and half-angle whose cosine is
// Falloff.
type SpotLight struct {
	Position   Vector3
	Direction  Vector3 // unit, pointing away from the apex
	Falloff    float64 // cos(halfangle)
	Emission   Colour3
	MediaInter bool
}

// IlluminationInterval intersects the ray with the light's cone,
// handling the viewpoint-inside-cone case by clamping t0 to 0, per
// spec.md 4.I.
func (l *SpotLight) IlluminationInterval(origin, dir Vector3, maxT float64) (float64, float64, bool) {
	apex := l.Position
	axis := l.Direction
	cosTheta := l.Falloff
	cos2 := cosTheta * cosTheta

	co := origin.Sub(apex)
	dv := dir.Dot(axis)
	cv := co.Dot(axis)

	a := dv*dv - cos2
	b := 2 * (dv*cv - dir.Dot(co)*cos2)
	c := cv*cv - co.Dot(co)*cos2

	var t0, t1 float64
	var ok bool
	if math.Abs(a) < 1e-12 {
		if b == 0 {
			return 0, 0, false
		}
		t := -c / b
		t0, t1, ok = 0, t, true
	} else {
		disc := b*b - 4*a*c
		if disc < 0 {
			return 0, 0, false
		}
		sq := math.Sqrt(disc)
		r0 := (-b - sq) / (2 * a)
		r1 := (-b + sq) / (2 * a)
		if r0 > r1 {
			r0, r1 = r1, r0
		}
		t0, t1, ok = r0, r1, true
	}
	if !ok {
		return 0, 0, false
	}

	// Reject the far (mirror) nappe of the double cone: valid points
	// must have (p-apex) . axis > 0.
	forward := func(t float64) bool {
		p := origin.Add(dir.Scale(t))
		return p.Sub(apex).Dot(axis) > 0
	}
	if !forward(t0) && !forward(t1) {
		return 0, 0, false
	}
	if !forward(t0) {
		t0 = 0 // viewpoint-inside-cone special case: clamp t0 to 0
	}

	if t0 < 0 {
		t0 = 0
	}
	if t1 > maxT {
		t1 = maxT
	}
	if t0 >= t1 {
		return 0, 0, false
	}
	return t0, t1, true
}

func (l *SpotLight) MediaInteraction() bool    { return l.MediaInter }
func (l *SpotLight) Colour() Colour3           { return l.Emission }
func (l *SpotLight) DirectionFrom(p Vector3) Vector3 {
	return l.Position.Sub(p).Normalize()
}

// CylinderLight restricts its illumination volume to an infinite
// cylinder of radius Falloff around the axis through Position in
// direction Direction.
type CylinderLight struct {
	Position   Vector3
	Direction  Vector3 // unit axis
	Falloff    float64 // cylinder radius
	Emission   Colour3
	MediaInter bool
}

func (l *CylinderLight) IlluminationInterval(origin, dir Vector3, maxT float64) (float64, float64, bool) {
	axis := l.Direction
	co := origin.Sub(l.Position)

	// project out the axial component: work in the plane perpendicular to axis
	dPerp := dir.Sub(axis.Scale(dir.Dot(axis)))
	coPerp := co.Sub(axis.Scale(co.Dot(axis)))

	a := dPerp.Dot(dPerp)
	b := 2 * dPerp.Dot(coPerp)
	c := coPerp.Dot(coPerp) - l.Falloff*l.Falloff

	if a < 1e-12 {
		if c > 0 {
			return 0, 0, false // parallel to axis and outside radius
		}
		return 0, maxT, true
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	if t0 < 0 {
		t0 = 0
	}
	if t1 > maxT {
		t1 = maxT
	}
	if t0 >= t1 {
		return 0, 0, false
	}
	return t0, t1, true
}

func (l *CylinderLight) MediaInteraction() bool    { return l.MediaInter }
func (l *CylinderLight) Colour() Colour3           { return l.Emission }
func (l *CylinderLight) DirectionFrom(p Vector3) Vector3 {
	return l.Position.Sub(p).Normalize()
}

// ShadowTester is the trace-callback contract from spec.md 6:
// implementations must be re-entrant since the integrator may call it
// recursively while evaluating media along a shadow ray.
type ShadowTester interface {
	Test(light Light, origin, direction Vector3) (distance float64, colour Colour3)
}
