// Command tracetest renders every fixture in the scenes package at its
// declared resolution and checks the one pixel each fixture names
// against spec.md 8's expected value, printing a pass/fail line per
// fixture and exiting non-zero if any check fails.
package main

import (
	"context"
	"fmt"
	"os"

	"seehuhn.de/go/tracer"
	"seehuhn.de/go/tracer/scenes"
)

func main() {
	failed := false
	for _, c := range scenes.All {
		img := make([]tracer.Colour3, c.Width*c.Height)
		plot := func(x, y int, col tracer.Colour3) {
			img[y*c.Width+x] = col
		}

		stats, err := tracer.RenderImage(context.Background(), c.Scene, c.Width, c.Height, 1, plot)
		if err != nil {
			fmt.Printf("FAIL %-28s render error: %v\n", c.Name, err)
			failed = true
			continue
		}

		got := img[c.CheckY*c.Width+c.CheckX]
		if err := c.Check(got); err != nil {
			fmt.Printf("FAIL %-28s %v\n", c.Name, err)
			failed = true
			continue
		}
		fmt.Printf("ok   %-28s rays=%d stack_overflows=%d\n", c.Name, stats.Rays, stats.StackOverflows)
	}
	if failed {
		os.Exit(1)
	}
}
