package journal

import (
	"context"
	"path/filepath"
	"testing"

	"sitecraft.dev/internal/protocol"
)

func TestWriter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "abc123")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	if err := w.Write(Record{Kind: KindRunStart, RunID: "abc123", Structure: "cottage", Seed: 42}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	for i := 0; i < 300; i++ {
		w.Observe([3]int{i, 64, 0}, protocol.Block{ID: "stone"})
	}
	if err := w.Write(Record{Kind: KindRunEnd, RunID: "abc123", Placed: w.Placed()}); err != nil {
		t.Fatalf("write end: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	recs, err := ReadAll(w.Path())
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	// start, one full batch of 256, tail batch of 44 flushed on close, end.
	// The run_end record lands before the tail batch because Close flushes
	// the remainder last, so check by kind instead of order.
	var starts, ends, batched int
	for _, rec := range recs {
		switch rec.Kind {
		case KindRunStart:
			starts++
			if rec.Structure != "cottage" || rec.Seed != 42 {
				t.Fatalf("start record: %+v", rec)
			}
		case KindRunEnd:
			ends++
		case KindBatch:
			batched += len(rec.Blocks)
		default:
			t.Fatalf("unknown record kind %q", rec.Kind)
		}
	}
	if starts != 1 || ends != 1 {
		t.Fatalf("start/end records: %d/%d", starts, ends)
	}
	if batched != 300 {
		t.Fatalf("journaled placements: %d", batched)
	}
}

func TestReadAll_MissingFile(t *testing.T) {
	if _, err := ReadAll(filepath.Join(t.TempDir(), "nope.jsonl.zst")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestIndex_StartFinishLatest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ix, err := OpenIndex(path)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer ix.Close()
	ctx := context.Background()

	runs := []Run{
		{ID: "r1", Structure: "hut", Seed: 1, LogPath: "a", StartedAt: "2026-01-01T00:00:00Z"},
		{ID: "r2", Structure: "castle", Seed: 2, LogPath: "b", StartedAt: "2026-01-02T00:00:00Z"},
	}
	for _, r := range runs {
		if err := ix.StartRun(ctx, r); err != nil {
			t.Fatalf("start %s: %v", r.ID, err)
		}
	}

	fin := Run{ID: "r2", Theme: "plains", Style: "castle", SiteX: 48, SiteY: 64, SiteZ: 48,
		Width: 41, Length: 41, Height: 25, Placed: 9001}
	if err := ix.FinishRun(ctx, fin); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := ix.FinishRun(ctx, Run{ID: "missing"}); err == nil {
		t.Fatalf("finishing an unknown run should fail")
	}

	latest, err := ix.LatestRuns(ctx, 10)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) != 2 || latest[0].ID != "r2" {
		t.Fatalf("latest order: %+v", latest)
	}
	if latest[0].Placed != 9001 || latest[0].Theme != "plains" {
		t.Fatalf("finished fields not persisted: %+v", latest[0])
	}

	got, err := ix.Run(ctx, "r1")
	if err != nil || got.Structure != "hut" {
		t.Fatalf("run lookup: %+v err=%v", got, err)
	}
}
