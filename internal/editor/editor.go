// Package editor is the client side of the world-editing protocol: one
// websocket session carrying the build area, a placement buffer and a cached
// world slice. It replaces the module-level editor/worldslice globals of the
// original tooling with an explicitly constructed object (open, use, close).
package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sitecraft.dev/internal/protocol"
)

const (
	defaultFlushAt = 512
	defaultTimeout = 30 * time.Second
)

// Options configures Open. URL and Name are required.
type Options struct {
	URL  string
	Name string

	// FlushAt is the placement buffer size that triggers an automatic
	// flush. Defaults to 512.
	FlushAt int
	// Timeout bounds each request/response exchange. Defaults to 30s.
	Timeout time.Duration

	// Observer, when set, sees every placement as it is buffered. The
	// journal hooks in here.
	Observer func(pos [3]int, b protocol.Block)

	Logger *log.Logger
}

// Editor is an open world-editing session. It is not safe for concurrent
// use; the build pipeline is single-threaded by design.
type Editor struct {
	conn     *websocket.Conn
	log      *log.Logger
	flushAt  int
	timeout  time.Duration
	observer func(pos [3]int, b protocol.Block)

	sessionID string
	area      protocol.BuildArea
	seed      int64

	buf    []protocol.Placement
	placed int

	slice *WorldSlice
}

// Open dials the world server and performs the HELLO/WELCOME handshake.
func Open(ctx context.Context, opts Options) (*Editor, error) {
	if opts.URL == "" {
		return nil, errors.New("editor: missing url")
	}
	if opts.Name == "" {
		opts.Name = "builder"
	}
	if opts.FlushAt <= 0 {
		opts.FlushAt = defaultFlushAt
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("editor: dial %s: %w", opts.URL, err)
	}

	e := &Editor{
		conn:     conn,
		log:      logger,
		flushAt:  opts.FlushAt,
		timeout:  opts.Timeout,
		observer: opts.Observer,
	}

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      opts.Name,
		Capabilities: protocol.HelloCapabilities{
			Buffering: true,
			MaxBatch:  opts.FlushAt,
		},
	}
	_ = conn.SetWriteDeadline(deadline(ctx, opts.Timeout))
	if err := conn.WriteJSON(hello); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("editor: send HELLO: %w", err)
	}

	var welcome protocol.WelcomeMsg
	if err := e.readInto(ctx, protocol.TypeWelcome, "", &welcome); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("editor: handshake: %w", err)
	}
	if welcome.ProtocolVersion != protocol.Version {
		_ = conn.Close()
		return nil, fmt.Errorf("editor: protocol version mismatch: server %s, client %s",
			welcome.ProtocolVersion, protocol.Version)
	}

	e.sessionID = welcome.SessionID
	e.area = welcome.BuildArea
	e.seed = welcome.Seed
	return e, nil
}

// BuildArea returns the inclusive editable box.
func (e *Editor) BuildArea() protocol.BuildArea { return e.area }

// Seed returns the world seed announced in WELCOME.
func (e *Editor) Seed() int64 { return e.seed }

// SessionID returns the server-assigned session id.
func (e *Editor) SessionID() string { return e.sessionID }

// Placed returns the total number of placements flushed so far.
func (e *Editor) Placed() int { return e.placed }

// Place buffers one block placement, flushing when the buffer is full.
func (e *Editor) Place(ctx context.Context, pos [3]int, b protocol.Block) error {
	if e.observer != nil {
		e.observer(pos, b)
	}
	e.buf = append(e.buf, protocol.Placement{Pos: pos, Block: b})
	if len(e.buf) >= e.flushAt {
		return e.Flush(ctx)
	}
	return nil
}

// Flush sends the buffered placements and waits for the ack.
func (e *Editor) Flush(ctx context.Context) error {
	if len(e.buf) == 0 {
		return nil
	}
	reqID := uuid.NewString()
	msg := protocol.SetBlocksMsg{
		Type:            protocol.TypeSetBlocks,
		ProtocolVersion: protocol.Version,
		RequestID:       reqID,
		Blocks:          e.buf,
	}
	_ = e.conn.SetWriteDeadline(deadline(ctx, e.timeout))
	if err := e.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("editor: send SET_BLOCKS: %w", err)
	}
	var res protocol.ResultMsg
	if err := e.readInto(ctx, protocol.TypeResult, reqID, &res); err != nil {
		return fmt.Errorf("editor: SET_BLOCKS ack: %w", err)
	}
	if !res.OK {
		return fmt.Errorf("editor: SET_BLOCKS rejected: %s %s", res.Code, res.Message)
	}
	e.placed += len(e.buf)
	e.buf = e.buf[:0]
	return nil
}

// GetBlock reads one block from the world. Pending placements are flushed
// first so reads observe earlier writes.
func (e *Editor) GetBlock(ctx context.Context, pos [3]int) (protocol.Block, error) {
	if err := e.Flush(ctx); err != nil {
		return protocol.Block{}, err
	}
	reqID := uuid.NewString()
	msg := protocol.GetBlockMsg{
		Type:            protocol.TypeGetBlock,
		ProtocolVersion: protocol.Version,
		RequestID:       reqID,
		Pos:             pos,
	}
	_ = e.conn.SetWriteDeadline(deadline(ctx, e.timeout))
	if err := e.conn.WriteJSON(msg); err != nil {
		return protocol.Block{}, fmt.Errorf("editor: send GET_BLOCK: %w", err)
	}
	var blk protocol.BlockMsg
	if err := e.readInto(ctx, protocol.TypeBlock, reqID, &blk); err != nil {
		return protocol.Block{}, fmt.Errorf("editor: GET_BLOCK: %w", err)
	}
	return blk.Block, nil
}

// Close flushes pending placements and closes the connection.
func (e *Editor) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	flushErr := e.Flush(ctx)
	closeErr := e.conn.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// readInto reads frames until one matches wantType (and reqID when non-empty),
// then unmarshals it. A RESULT frame for the same request with ok=false is
// surfaced as an error.
func (e *Editor) readInto(ctx context.Context, wantType, reqID string, into any) error {
	for {
		_ = e.conn.SetReadDeadline(deadline(ctx, e.timeout))
		_, raw, err := e.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		base, err := protocol.DecodeBase(raw)
		if err != nil {
			continue
		}
		if base.Type == protocol.TypeResult && wantType != protocol.TypeResult {
			var res protocol.ResultMsg
			if err := json.Unmarshal(raw, &res); err != nil {
				continue
			}
			if res.RequestID == reqID && !res.OK {
				return fmt.Errorf("server error %s: %s", res.Code, res.Message)
			}
			continue
		}
		if base.Type != wantType {
			continue
		}
		if err := json.Unmarshal(raw, into); err != nil {
			return fmt.Errorf("decode %s: %w", wantType, err)
		}
		if reqID != "" {
			if got := requestIDOf(into); got != reqID {
				continue
			}
		}
		return nil
	}
}

func requestIDOf(msg any) string {
	switch m := msg.(type) {
	case *protocol.SliceMsg:
		return m.RequestID
	case *protocol.BlockMsg:
		return m.RequestID
	case *protocol.ResultMsg:
		return m.RequestID
	default:
		return ""
	}
}

func deadline(ctx context.Context, fallback time.Duration) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(fallback)
}
