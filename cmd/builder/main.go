package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"sitecraft.dev/internal/build"
	"sitecraft.dev/internal/editor"
	"sitecraft.dev/internal/journal"
	"sitecraft.dev/internal/palette"
	"sitecraft.dev/internal/terrain"
)

func main() {
	var (
		url       = flag.String("url", "ws://localhost:9000/v1/ws", "world server ws url")
		name      = flag.String("name", "builder", "client name")
		structure = flag.String("structure", "cottage", "hut|cottage|castle|mansion|procedural")
		themeFlag = flag.String("theme", "auto", "palette theme, or auto to follow the biome")
		seed      = flag.Int64("seed", 0, "rng seed (0 = time-based)")
		size      = flag.Int("size", 10, "site search window size")
		configDir = flag.String("configs", "./configs", "config directory")
		dataDir   = flag.String("data", "./data", "journal directory ('' disables journaling)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[builder] ", log.LstdFlags|log.Lmicroseconds)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(*seed))

	cat, err := palette.Load(*configDir)
	if err != nil {
		logger.Fatalf("load palettes: %v", err)
	}
	logger.Printf("palettes loaded digest=%s", cat.Digest())

	// Journal setup.
	var (
		jw *journal.Writer
		ix *journal.Index
	)
	runID := uuid.NewString()
	if *dataDir != "" {
		jw, err = journal.NewWriter(filepath.Join(*dataDir, "journal"), runID)
		if err != nil {
			logger.Fatalf("open journal: %v", err)
		}
		ix, err = journal.OpenIndex(filepath.Join(*dataDir, "runs.db"))
		if err != nil {
			logger.Fatalf("open runs index: %v", err)
		}
		defer ix.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	opts := editor.Options{URL: *url, Name: *name, Logger: logger}
	if jw != nil {
		opts.Observer = jw.Observe
	}
	ed, err := editor.Open(ctx, opts)
	if err != nil {
		logger.Fatalf("connect: %v", err)
	}
	defer ed.Close()
	logger.Printf("session=%s area=%v seed=%d", ed.SessionID(), ed.BuildArea(), ed.Seed())

	if ix != nil {
		err = ix.StartRun(ctx, journal.Run{
			ID: runID, Structure: *structure, Seed: *seed, LogPath: jw.Path(),
		})
		if err != nil {
			logger.Fatalf("index run: %v", err)
		}
		_ = jw.Write(journal.Record{
			Kind: journal.KindRunStart, RunID: runID, Structure: *structure, Seed: *seed,
		})
	}

	theme, err := resolveTheme(ctx, ed, *themeFlag)
	if err != nil {
		logger.Fatalf("theme: %v", err)
	}

	var res build.Result
	switch *structure {
	case "hut":
		res, err = build.Hut(ctx, ed)
	case "cottage":
		res, err = build.Cottage(ctx, ed, r, build.CottageOptions{SiteSize: *size})
	case "castle":
		res, err = build.Castle(ctx, ed)
	case "mansion":
		res, err = build.Mansion(ctx, ed, cat.Materials(theme), theme, r)
	case "procedural":
		res, err = build.Procedural(ctx, ed, cat, r)
	default:
		logger.Fatalf("unknown structure %q", *structure)
	}
	if err != nil {
		if errors.Is(err, terrain.ErrNoValidSite) {
			logger.Fatalf("no valid site in the build area: %v", err)
		}
		logger.Fatalf("build %s: %v", *structure, err)
	}

	logger.Printf("built %s style=%s theme=%s at (%d,%d,%d) size=%dx%dx%d placed=%d",
		*structure, res.Style, res.Theme, res.X, res.Y, res.Z,
		res.Width, res.Length, res.Height, ed.Placed())

	if jw != nil {
		_ = jw.Write(journal.Record{
			Kind: journal.KindRunEnd, RunID: runID,
			Style: res.Style, Theme: res.Theme, Placed: ed.Placed(),
		})
		if err := jw.Close(); err != nil {
			logger.Printf("close journal: %v", err)
		}
		err = ix.FinishRun(ctx, journal.Run{
			ID: runID, Theme: res.Theme, Style: res.Style,
			SiteX: res.X, SiteY: res.Y, SiteZ: res.Z,
			Width: res.Width, Length: res.Length, Height: res.Height,
			Placed: ed.Placed(),
		})
		if err != nil {
			logger.Printf("finish run: %v", err)
		}
	}
}

// resolveTheme maps -theme to a palette theme, following the center biome
// on auto.
func resolveTheme(ctx context.Context, ed *editor.Editor, flagVal string) (palette.Theme, error) {
	if flagVal != "auto" {
		return palette.ParseTheme(flagVal)
	}
	slice, err := ed.LoadSlice(ctx)
	if err != nil {
		return 0, err
	}
	return palette.ThemeForBiome(slice.CenterBiome()), nil
}
