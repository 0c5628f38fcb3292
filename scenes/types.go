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

// Package scenes collects the one-primitive fixture scenes used to
// check the core against the end-to-end scenarios of spec.md 8.
package scenes

import "seehuhn.de/go/tracer"

// Case is a single fixture: a scene plus a check of one pixel's
// expected colour, against which a renderer can be validated without
// a reference-image corpus.
type Case struct {
	Name   string
	Scene  *tracer.Scene
	Width  int
	Height int

	// CheckX, CheckY name the pixel Check is evaluated against.
	CheckX, CheckY int
	Check          func(c tracer.Colour3) error
}

// All contains every fixture case, in the order they appear in
// spec.md 8.
var All = []Case{
	unitSphereCase(),
	latheCylinderCase(),
	sorHemisphereCase(),
	flatPatchCase(),
}
