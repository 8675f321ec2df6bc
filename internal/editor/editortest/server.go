// Package editortest runs an in-process world server over real websockets
// so editor and builder tests exercise the full wire path.
package editortest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"sitecraft.dev/internal/protocol"
)

// World is a fake world-editing server: synthetic heightmaps plus a record
// of every placement it accepted.
type World struct {
	mu sync.Mutex

	Area       protocol.BuildArea
	Seed       int64
	Heightmaps map[string][][]int
	Biomes     [][]string

	blocks map[[3]int]protocol.Block
}

// NewFlatWorld builds a world whose build area is sizeX x sizeZ with every
// surface at groundY and plains biome throughout.
func NewFlatWorld(sizeX, sizeZ, groundY int) *World {
	w := &World{
		Area: protocol.BuildArea{
			Begin: [3]int{0, -64, 0},
			Last:  [3]int{sizeX - 1, 319, sizeZ - 1},
		},
		Seed:       1337,
		Heightmaps: make(map[string][][]int, len(protocol.Layers)),
		blocks:     make(map[[3]int]protocol.Block),
	}
	for _, layer := range protocol.Layers {
		rows := make([][]int, sizeZ)
		for z := range rows {
			rows[z] = make([]int, sizeX)
			for x := range rows[z] {
				rows[z][x] = groundY
			}
		}
		w.Heightmaps[layer] = rows
	}
	w.Biomes = make([][]string, sizeZ)
	for z := range w.Biomes {
		w.Biomes[z] = make([]string, sizeX)
		for x := range w.Biomes[z] {
			w.Biomes[z][x] = "plains"
		}
	}
	return w
}

// AddWater floods the local rect [x1,x2) x [z1,z2): the ocean floor drops
// by depth while the motion-blocking surface stays, so the derived water
// mask is positive there.
func (w *World) AddWater(x1, z1, x2, z2, depth int) {
	of := w.Heightmaps[protocol.LayerOceanFloor]
	for z := z1; z < z2; z++ {
		for x := x1; x < x2; x++ {
			of[z][x] -= depth
		}
	}
}

// RaiseGround lifts every layer in the local rect by dy.
func (w *World) RaiseGround(x1, z1, x2, z2, dy int) {
	for _, layer := range protocol.Layers {
		rows := w.Heightmaps[layer]
		for z := z1; z < z2; z++ {
			for x := x1; x < x2; x++ {
				rows[z][x] += dy
			}
		}
	}
}

// BlockAt returns a recorded placement.
func (w *World) BlockAt(pos [3]int) (protocol.Block, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.blocks[pos]
	return b, ok
}

// PlacedCount returns how many distinct positions have been written.
func (w *World) PlacedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.blocks)
}

// CountID returns how many placed blocks have the given id.
func (w *World) CountID(id string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, b := range w.blocks {
		if b.ID == id {
			n++
		}
	}
	return n
}

// Serve starts a websocket server for this world and returns its ws:// URL.
// The server shuts down with the test.
func (w *World) Serve(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(w.handle))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (w *World) handle(rw http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if !w.handshake(conn) {
		return
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(raw)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeGetSlice:
			var msg protocol.GetSliceMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			w.sendSlice(conn, msg)
		case protocol.TypeSetBlocks:
			var msg protocol.SetBlocksMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			w.applyBlocks(conn, msg)
		case protocol.TypeGetBlock:
			var msg protocol.GetBlockMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			w.sendBlock(conn, msg)
		}
	}
}

func (w *World) handshake(conn *websocket.Conn) bool {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return false
	}
	base, err := protocol.DecodeBase(raw)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"),
			time.Now().Add(time.Second))
		return false
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(raw, &hello); err != nil {
		return false
	}
	if hello.ProtocolVersion != protocol.Version {
		return false
	}
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       "S_test",
		BuildArea:       w.Area,
		Seed:            w.Seed,
	}
	return conn.WriteJSON(welcome) == nil
}

func (w *World) sendSlice(conn *websocket.Conn, msg protocol.GetSliceMsg) {
	for _, layer := range msg.Layers {
		if !protocol.IsKnownLayer(layer) {
			_ = conn.WriteJSON(protocol.ResultMsg{
				Type: protocol.TypeResult, RequestID: msg.RequestID,
				OK: false, Code: protocol.ErrBadLayer, Message: layer,
			})
			return
		}
	}
	rect := msg.Rect
	out := protocol.SliceMsg{
		Type:       protocol.TypeSlice,
		RequestID:  msg.RequestID,
		Rect:       rect,
		Heightmaps: make(map[string][][]int, len(msg.Layers)),
	}
	for _, layer := range msg.Layers {
		src := w.Heightmaps[layer]
		rows := make([][]int, rect.SizeZ)
		for z := 0; z < rect.SizeZ; z++ {
			rows[z] = make([]int, rect.SizeX)
			for x := 0; x < rect.SizeX; x++ {
				rows[z][x] = src[rect.Z-w.Area.Begin[2]+z][rect.X-w.Area.Begin[0]+x]
			}
		}
		out.Heightmaps[layer] = rows
	}
	if msg.WithBiomes {
		out.Biomes = w.Biomes
	}
	_ = conn.WriteJSON(out)
}

func (w *World) applyBlocks(conn *websocket.Conn, msg protocol.SetBlocksMsg) {
	for _, p := range msg.Blocks {
		if p.Pos[0] < w.Area.Begin[0] || p.Pos[0] > w.Area.Last[0] ||
			p.Pos[1] < w.Area.Begin[1] || p.Pos[1] > w.Area.Last[1] ||
			p.Pos[2] < w.Area.Begin[2] || p.Pos[2] > w.Area.Last[2] {
			_ = conn.WriteJSON(protocol.ResultMsg{
				Type: protocol.TypeResult, RequestID: msg.RequestID,
				OK: false, Code: protocol.ErrOutOfArea,
			})
			return
		}
	}
	w.mu.Lock()
	for _, p := range msg.Blocks {
		w.blocks[p.Pos] = p.Block
	}
	w.mu.Unlock()
	_ = conn.WriteJSON(protocol.ResultMsg{
		Type: protocol.TypeResult, RequestID: msg.RequestID,
		OK: true, Placed: len(msg.Blocks),
	})
}

func (w *World) sendBlock(conn *websocket.Conn, msg protocol.GetBlockMsg) {
	w.mu.Lock()
	b, ok := w.blocks[msg.Pos]
	w.mu.Unlock()
	if !ok {
		b = protocol.Block{ID: "air"}
	}
	_ = conn.WriteJSON(protocol.BlockMsg{
		Type: protocol.TypeBlock, RequestID: msg.RequestID,
		Pos: msg.Pos, Block: b,
	})
}
