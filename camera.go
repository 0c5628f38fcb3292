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

// CameraKind selects a camera's projection model.
type CameraKind int

const (
	CameraOrthographic CameraKind = iota
	CameraPerspective
)

// Camera generates primary rays for an image plane. Scene assembly
// (lens distortion, depth of field, motion blur) belongs to the
// parser frontend; this is the minimal projection math the core needs
// to exercise the end-to-end scenarios in spec.md 8.
type Camera struct {
	Kind CameraKind

	Origin Vector3
	Look   Vector3 // point the camera faces
	Up     Vector3 // approximate up direction

	// Scale is the orthographic camera's view-plane half-width in
	// world units; FOV is the perspective camera's vertical field of
	// view in radians. Only the field matching Kind is used.
	Scale float64
	FOV   float64
}

// basis derives the camera's forward/right/up triad from Origin, Look
// and Up. It is recomputed on every call rather than cached, since a
// Camera is embedded in a Scene that spec.md 5 requires to stay safe
// to read from multiple render workers without synchronisation.
func (c Camera) basis() (forward, right, up Vector3) {
	f := c.Look.Sub(c.Origin).Normalize()
	upHint := c.Up
	if upHint.LengthSqr() == 0 {
		upHint = Vector3{Y: 1}
	}
	r := f.Cross(upHint).Normalize()
	if r.LengthSqr() == 0 {
		r = Vector3{X: 1}
	}
	u := r.Cross(f).Normalize()
	return f, r, u
}

// Ray returns the primary ray through normalized image-plane
// coordinates u,v, each in [-1,1], with aspect folded into u already.
func (c Camera) Ray(u, v float64) Ray {
	forward, right, up := c.basis()
	switch c.Kind {
	case CameraOrthographic:
		scale := c.Scale
		if scale == 0 {
			scale = 1
		}
		origin := c.Origin.Add(right.Scale(u * scale)).Add(up.Scale(v * scale))
		return NewRay(origin, forward)
	default: // CameraPerspective
		fov := c.FOV
		if fov == 0 {
			fov = math.Pi / 3
		}
		h := math.Tan(fov / 2)
		dir := forward.Add(right.Scale(u * h)).Add(up.Scale(v * h))
		return NewRay(c.Origin, dir)
	}
}

// PixelUV maps a pixel index within a width x height image to
// image-plane coordinates, sampling at the pixel centre: v lies in
// [-1,1] and u in [-aspect,aspect], where aspect is width/height.
func PixelUV(px, py, width, height int) (float64, float64) {
	aspect := float64(width) / float64(height)
	u := (float64(px)+0.5)/float64(width)*2 - 1
	v := 1 - (float64(py)+0.5)/float64(height)*2
	return u * aspect, v
}
