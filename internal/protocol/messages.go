package protocol

// Heightmap layer names, matching the vanilla world-data provider.
const (
	LayerWorldSurface           = "WORLD_SURFACE"
	LayerMotionBlocking         = "MOTION_BLOCKING"
	LayerMotionBlockingNoLeaves = "MOTION_BLOCKING_NO_LEAVES"
	LayerOceanFloor             = "OCEAN_FLOOR"
)

// Layers lists every layer a SLICE response may carry.
var Layers = []string{
	LayerWorldSurface,
	LayerMotionBlocking,
	LayerMotionBlockingNoLeaves,
	LayerOceanFloor,
}

func IsKnownLayer(layer string) bool {
	for _, l := range Layers {
		if l == layer {
			return true
		}
	}
	return false
}

// Block is a block id plus optional state attributes
// ("oak_stairs" with {"facing":"east"}).
type Block struct {
	ID     string            `json:"id"`
	States map[string]string `json:"states,omitempty"`
}

// Placement pairs a world position with the block to put there.
type Placement struct {
	Pos   [3]int `json:"pos"`
	Block Block  `json:"block"`
}

// Rect is a horizontal region: origin (X, Z) and extent, in world coordinates.
type Rect struct {
	X     int `json:"x"`
	Z     int `json:"z"`
	SizeX int `json:"size_x"`
	SizeZ int `json:"size_z"`
}

// BuildArea is the inclusive box the client is allowed to edit.
type BuildArea struct {
	Begin [3]int `json:"begin"`
	Last  [3]int `json:"last"`
}

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ClientName      string            `json:"client_name"`
	Capabilities    HelloCapabilities `json:"capabilities"`
}

type HelloCapabilities struct {
	Buffering bool `json:"buffering,omitempty"`
	MaxBatch  int  `json:"max_batch,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	SessionID       string    `json:"session_id"`
	BuildArea       BuildArea `json:"build_area"`
	Seed            int64     `json:"seed"`
	PaletteDigest   string    `json:"palette_digest,omitempty"`
}

// GET_SLICE (client -> server)
type GetSliceMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	RequestID       string   `json:"request_id"`
	Rect            Rect     `json:"rect"`
	Layers          []string `json:"layers"`
	WithBiomes      bool     `json:"with_biomes,omitempty"`
}

// SLICE (server -> client)
//
// Heightmap grids are row-major [z][x]: Heightmaps[layer][dz][dx] is the
// column at world (Rect.X+dx, Rect.Z+dz).
type SliceMsg struct {
	Type       string             `json:"type"`
	RequestID  string             `json:"request_id"`
	Rect       Rect               `json:"rect"`
	Heightmaps map[string][][]int `json:"heightmaps"`
	Biomes     [][]string         `json:"biomes,omitempty"`
}

// SET_BLOCKS (client -> server)
type SetBlocksMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	RequestID       string      `json:"request_id"`
	Blocks          []Placement `json:"blocks"`
}

// GET_BLOCK (client -> server)
type GetBlockMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id"`
	Pos             [3]int `json:"pos"`
}

// BLOCK (server -> client)
type BlockMsg struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	Pos       [3]int `json:"pos"`
	Block     Block  `json:"block"`
}

// RESULT (server -> client): ack for GET_SLICE/SET_BLOCKS/GET_BLOCK failures
// and SET_BLOCKS successes.
type ResultMsg struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	OK        bool   `json:"ok"`
	Placed    int    `json:"placed,omitempty"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
}
