package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sitecraft.dev/internal/editor"
	"sitecraft.dev/internal/protocol"
	"sitecraft.dev/internal/terrain"
)

// scan fetches every heightmap layer of the build area and reports the
// flattest window per layer, plus the surveyed site candidates.
func main() {
	var (
		url  = flag.String("url", "ws://localhost:9000/v1/ws", "world server ws url")
		name = flag.String("name", "scan", "client name")
		size = flag.Int("size", 10, "window size")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[scan] ", log.LstdFlags|log.Lmicroseconds)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	ed, err := editor.Open(ctx, editor.Options{URL: *url, Name: *name, Logger: logger})
	if err != nil {
		logger.Fatalf("connect: %v", err)
	}
	defer ed.Close()

	slice, err := ed.LoadSlice(ctx)
	if err != nil {
		logger.Fatalf("load slice: %v", err)
	}
	water, err := slice.WaterMask()
	if err != nil {
		logger.Fatalf("water mask: %v", err)
	}

	rect := slice.Rect()
	fmt.Printf("build area %dx%d at (%d,%d), biome %s\n",
		rect.SizeX, rect.SizeZ, rect.X, rect.Z, slice.CenterBiome())

	for _, layer := range protocol.Layers {
		g, err := slice.Heightmap(layer)
		if err != nil {
			fmt.Printf("%-28s missing\n", layer)
			continue
		}
		fmt.Printf("%-28s min=%d max=%d mean=%.1f\n", layer, g.Min(), g.Max(), g.Mean())

		res, err := terrain.FlattestWindow(g, water, *size, terrain.SearchOptions{})
		switch {
		case errors.Is(err, terrain.ErrNoValidSite):
			fmt.Printf("%-28s   no dry window of size %d\n", layer, *size)
		case err != nil:
			logger.Fatalf("search %s: %v", layer, err)
		default:
			fmt.Printf("%-28s   flattest %dx%d window at (%d,%d) score=%.3f maxY=%d\n",
				layer, *size, *size,
				slice.WorldX(res.Window.X), slice.WorldZ(res.Window.Z),
				res.Score, res.MaxY)
		}
	}

	ground, err := slice.Ground()
	if err != nil {
		logger.Fatalf("ground layer: %v", err)
	}
	sites := terrain.Survey(ground, water, terrain.SurveyOptions{})
	fmt.Printf("surveyed %d candidate sites:\n", len(sites))
	for i, s := range sites {
		if i == 10 {
			fmt.Printf("  ... %d more\n", len(sites)-10)
			break
		}
		fmt.Printf("  %-13s at (%d,%d) y=%d quality=%.1f\n",
			s.Kind, slice.WorldX(s.X), slice.WorldZ(s.Z), s.Y, s.Quality)
	}
}
