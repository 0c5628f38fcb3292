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

// Stats accumulates per-thread render statistics. Instances are
// aggregated by the caller at tile boundaries (spec.md 5); nothing
// here takes a lock, since each RenderContext belongs to exactly one
// worker for its whole lifetime.
type Stats struct {
	Rays              int64
	StackOverflows    int64 // IntersectionStack.Push beyond MaxIntersections
	RefractionAborted int64 // Ray.Enter rejected: MaxContainingObjects exceeded
	TraceDepthCapped  int64 // Scene.Trace recursion stopped at max_trace_level
	BCylOddFallback   int64 // BCyl segment saw an odd crossing count
}

// Add merges other into s, for aggregating per-thread stats at tile
// boundaries.
func (s *Stats) Add(other *Stats) {
	s.Rays += other.Rays
	s.StackOverflows += other.StackOverflows
	s.RefractionAborted += other.RefractionAborted
	s.TraceDepthCapped += other.TraceDepthCapped
	s.BCylOddFallback += other.BCylOddFallback
}
