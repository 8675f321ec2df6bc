package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"sitecraft.dev/internal/editor"
	"sitecraft.dev/internal/journal"
)

// replay reads a journaled run log and either summarizes it or plays its
// placements back against a world server.
func main() {
	var (
		logPath = flag.String("log", "", "path to run-*.jsonl.zst")
		url     = flag.String("url", "", "world server ws url ('' = dry run, print summary only)")
		name    = flag.String("name", "replay", "client name")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[replay] ", log.LstdFlags|log.Lmicroseconds)

	if *logPath == "" {
		fmt.Fprintln(os.Stderr, "missing -log")
		os.Exit(2)
	}

	recs, err := journal.ReadAll(*logPath)
	if err != nil {
		logger.Fatalf("read log: %v", err)
	}

	var batches, placements int
	for _, rec := range recs {
		switch rec.Kind {
		case journal.KindRunStart:
			fmt.Printf("run %s structure=%s seed=%d started %s\n",
				rec.RunID, rec.Structure, rec.Seed, rec.Time)
		case journal.KindBatch:
			batches++
			placements += len(rec.Blocks)
		case journal.KindRunEnd:
			fmt.Printf("run %s finished style=%s theme=%s placed=%d\n",
				rec.RunID, rec.Style, rec.Theme, rec.Placed)
		}
	}
	fmt.Printf("%d records, %d batches, %d placements\n", len(recs), batches, placements)

	if *url == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ed, err := editor.Open(ctx, editor.Options{URL: *url, Name: *name, Logger: logger})
	if err != nil {
		logger.Fatalf("connect: %v", err)
	}
	defer ed.Close()

	for _, rec := range recs {
		if rec.Kind != journal.KindBatch {
			continue
		}
		for _, p := range rec.Blocks {
			if err := ed.Place(ctx, p.Pos, p.Block); err != nil {
				logger.Fatalf("place %v: %v", p.Pos, err)
			}
		}
	}
	if err := ed.Flush(ctx); err != nil {
		logger.Fatalf("flush: %v", err)
	}
	logger.Printf("replayed %d placements", ed.Placed())
}
