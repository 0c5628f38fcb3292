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
	"context"
	"runtime"
	"sync"
)

// Rect is a half-open rectangular pixel range [X0,X1) x [Y0,Y1)
// within the full image.
type Rect struct {
	X0, Y0, X1, Y1 int
	Width, Height  int // dimensions of the full image the tile belongs to
}

// RenderTile traces every pixel of tile and reports its colour via
// plot, checking ctx for cancellation once per ray as spec.md 5
// requires. rc must not be shared with any other concurrently
// running tile.
func RenderTile(ctx context.Context, rc *RenderContext, scene *Scene, tile Rect, plot func(x, y int, c Colour3)) error {
	for y := tile.Y0; y < tile.Y1; y++ {
		for x := tile.X0; x < tile.X1; x++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			u, v := PixelUV(x, y, tile.Width, tile.Height)
			ray := scene.Camera.Ray(u, v)
			colour := scene.Trace(rc, ray, 0)
			plot(x, y, colour)
		}
	}
	return nil
}

// splitTiles partitions a width x height image into row bands, one
// per worker, mirroring the row-per-worker split of a reference
// ray-tracing example rather than smaller rectangular tiles: the
// per-thread RenderContext already amortizes scratch allocation, so a
// coarse split minimizes scheduling overhead.
func splitTiles(width, height, workers int) []Rect {
	if workers < 1 {
		workers = 1
	}
	if workers > height {
		workers = height
	}
	rows := height / workers
	extra := height % workers
	tiles := make([]Rect, 0, workers)
	y := 0
	for i := 0; i < workers; i++ {
		h := rows
		if i < extra {
			h++
		}
		if h == 0 {
			continue
		}
		tiles = append(tiles, Rect{X0: 0, Y0: y, X1: width, Y1: y + h, Width: width, Height: height})
		y += h
	}
	return tiles
}

// RenderImage renders scene into a width x height image using one
// worker goroutine per available processor, each owning its own
// RenderContext seeded from seed+workerIndex. plot is called for
// every pixel from whichever worker goroutine rendered its tile;
// implementations writing into a shared buffer must index by (x,y)
// rather than assume a particular call order, matching the "no
// ordering guarantee other than each pixel plotted at least once"
// contract of spec.md 6.
func RenderImage(ctx context.Context, scene *Scene, width, height int, seed int64, plot func(x, y int, c Colour3)) (Stats, error) {
	workers := runtime.GOMAXPROCS(0)
	tiles := splitTiles(width, height, workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var total Stats
	errs := make(chan error, len(tiles))

	work := make(chan Rect, len(tiles))
	for _, t := range tiles {
		work <- t
	}
	close(work)

	wg.Add(len(tiles))
	for i := 0; i < len(tiles); i++ {
		go func(workerID int) {
			defer wg.Done()
			rc := NewRenderContext(seed + int64(workerID))
			for tile := range work {
				if err := RenderTile(ctx, rc, scene, tile, plot); err != nil {
					errs <- err
					return
				}
			}
			mu.Lock()
			total.Add(&rc.Stats)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
