// Package journal records build runs: a zstd-compressed JSONL placement
// log per run, plus a sqlite index of run metadata. The log carries enough
// to replay a run against another world server.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"sitecraft.dev/internal/protocol"
)

// Record kinds in a run log.
const (
	KindRunStart = "run_start"
	KindBatch    = "batch"
	KindRunEnd   = "run_end"
)

// Record is one JSONL line in a run log.
type Record struct {
	Kind string `json:"kind"`
	Time string `json:"time"`

	// run_start / run_end
	RunID     string `json:"run_id,omitempty"`
	Structure string `json:"structure,omitempty"`
	Theme     string `json:"theme,omitempty"`
	Style     string `json:"style,omitempty"`
	Seed      int64  `json:"seed,omitempty"`
	Placed    int    `json:"placed,omitempty"`

	// batch
	Blocks []protocol.Placement `json:"blocks,omitempty"`
}

// Writer appends records to one compressed run log. Safe for use from a
// single goroutine plus Close.
type Writer struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer

	buf    []protocol.Placement
	batch  int
	placed int
}

// batchSize is how many placements are grouped into one batch record.
const batchSize = 256

// NewWriter creates dir/run-<id>.jsonl.zst and returns a writer for it.
func NewWriter(dir, runID string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, fmt.Sprintf("run-%s.jsonl.zst", runID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Path returns the log file path.
func (w *Writer) Path() string { return w.path }

// Placed returns how many placements have been journaled.
func (w *Writer) Placed() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.placed
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeLocked(rec)
}

func (w *Writer) writeLocked(rec Record) error {
	if rec.Time == "" {
		rec.Time = time.Now().UTC().Format(time.RFC3339Nano)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Observe buffers one placement, flushing a batch record when full. It has
// the editor observer hook's shape; journaling must not fail the build, so
// write errors are swallowed here and resurface on Close.
func (w *Writer) Observe(pos [3]int, b protocol.Block) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, protocol.Placement{Pos: pos, Block: b})
	w.placed++
	if len(w.buf) >= batchSize {
		_ = w.flushBatchLocked()
	}
}

func (w *Writer) flushBatchLocked() error {
	if len(w.buf) == 0 {
		return nil
	}
	blocks := make([]protocol.Placement, len(w.buf))
	copy(blocks, w.buf)
	w.buf = w.buf[:0]
	w.batch++
	return w.writeLocked(Record{Kind: KindBatch, Blocks: blocks})
}

// Close flushes the pending batch and closes the compressed stream.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	flushErr := w.flushBatchLocked()
	if w.w != nil {
		_ = w.w.Flush()
	}
	var encErr error
	if w.enc != nil {
		encErr = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	if flushErr != nil {
		return flushErr
	}
	return encErr
}

// ReadAll decodes every record from a run log.
func ReadAll(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Record
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("journal: %s: bad record: %w", path, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
