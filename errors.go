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
	"fmt"
)

// Construction-time errors (spec.md 7). Callers should use errors.Is
// to branch on these; they are never restated as plain strings.
var (
	// ErrTooManyContainingObjects is returned by Ray.Enter when the
	// nested-interior list would exceed MaxContainingObjects.
	ErrTooManyContainingObjects = errors.New("tracer: too many nested interiors")

	// ErrEmptyInteriorList is returned by Ray.Exit when called on a
	// ray whose nested-interior list is already empty.
	ErrEmptyInteriorList = errors.New("tracer: exit from empty interior list")

	// ErrInteriorNotFound is returned by Ray.Exit when the requested
	// index does not name a live entry.
	ErrInteriorNotFound = errors.New("tracer: interior index out of range")

	// ErrDegenerateProfile is returned by NewLathe when a profile has
	// fewer than two points or all its points share one y, and by
	// NewSOR when it has no segments or a segment with Y1 <= Y0.
	ErrDegenerateProfile = errors.New("tracer: degenerate profile")

	// ErrInsufficientSamples is returned by NewMediaNode when
	// min_samples/max_samples/intervals are non-positive or
	// min_samples > max_samples.
	ErrInsufficientSamples = errors.New("tracer: insufficient sampling intervals")

	// ErrBadControlNet is returned by NewPatch when uSteps or vSteps
	// is not positive.
	ErrBadControlNet = errors.New("tracer: bicubic patch needs positive subdivision steps")
)

// wrapf prefixes err with a method name, in the style lvlath's
// builderErrorf uses (method context + %w so errors.Is still matches
// the sentinel after wrapping).
func wrapf(method string, err error) error {
	return fmt.Errorf("%s: %w", method, err)
}
