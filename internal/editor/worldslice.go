package editor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"sitecraft.dev/internal/protocol"
	"sitecraft.dev/internal/terrain"
)

// WorldSlice is the cached terrain snapshot of the build area: one grid per
// heightmap layer plus the biome field, all indexed grid-locally.
type WorldSlice struct {
	rect       protocol.Rect
	heightmaps map[string]terrain.Grid
	biomes     [][]string
}

// LoadSlice fetches heightmaps and biomes for the whole build area. The
// result is cached on the editor; later calls return the same snapshot,
// matching the read-once-then-scan lifecycle of a build run.
func (e *Editor) LoadSlice(ctx context.Context) (*WorldSlice, error) {
	if e.slice != nil {
		return e.slice, nil
	}
	rect := protocol.Rect{
		X:     e.area.Begin[0],
		Z:     e.area.Begin[2],
		SizeX: e.area.Last[0] - e.area.Begin[0] + 1,
		SizeZ: e.area.Last[2] - e.area.Begin[2] + 1,
	}
	reqID := uuid.NewString()
	msg := protocol.GetSliceMsg{
		Type:            protocol.TypeGetSlice,
		ProtocolVersion: protocol.Version,
		RequestID:       reqID,
		Rect:            rect,
		Layers:          protocol.Layers,
		WithBiomes:      true,
	}
	_ = e.conn.SetWriteDeadline(deadline(ctx, e.timeout))
	if err := e.conn.WriteJSON(msg); err != nil {
		return nil, fmt.Errorf("editor: send GET_SLICE: %w", err)
	}
	var slice protocol.SliceMsg
	if err := e.readInto(ctx, protocol.TypeSlice, reqID, &slice); err != nil {
		return nil, fmt.Errorf("editor: GET_SLICE: %w", err)
	}

	ws := &WorldSlice{
		rect:       slice.Rect,
		heightmaps: make(map[string]terrain.Grid, len(slice.Heightmaps)),
		biomes:     slice.Biomes,
	}
	for layer, rows := range slice.Heightmaps {
		g, err := terrain.NewGrid(rows)
		if err != nil {
			return nil, fmt.Errorf("editor: slice layer %s: %w", layer, err)
		}
		if g.Cols() != slice.Rect.SizeX || g.Rows() != slice.Rect.SizeZ {
			return nil, fmt.Errorf("editor: slice layer %s: %dx%d grid for %dx%d rect",
				layer, g.Cols(), g.Rows(), slice.Rect.SizeX, slice.Rect.SizeZ)
		}
		ws.heightmaps[layer] = g
	}
	e.slice = ws
	return ws, nil
}

// Rect returns the sampled region in world coordinates.
func (s *WorldSlice) Rect() protocol.Rect { return s.rect }

// Heightmap returns one named layer.
func (s *WorldSlice) Heightmap(layer string) (terrain.Grid, error) {
	g, ok := s.heightmaps[layer]
	if !ok {
		return terrain.Grid{}, fmt.Errorf("editor: slice has no %s layer", layer)
	}
	return g, nil
}

// WaterMask derives the water-column mask from the motion-blocking and
// ocean-floor layers.
func (s *WorldSlice) WaterMask() (terrain.Grid, error) {
	mb, err := s.Heightmap(protocol.LayerMotionBlocking)
	if err != nil {
		return terrain.Grid{}, err
	}
	of, err := s.Heightmap(protocol.LayerOceanFloor)
	if err != nil {
		return terrain.Grid{}, err
	}
	return terrain.WaterMask(mb, of)
}

// Ground returns the bare-terrain layer used for siting and foundations.
func (s *WorldSlice) Ground() (terrain.Grid, error) {
	return s.Heightmap(protocol.LayerMotionBlockingNoLeaves)
}

// CenterBiome returns the biome at the slice center, or "" when biomes were
// not requested.
func (s *WorldSlice) CenterBiome() string {
	if len(s.biomes) == 0 {
		return ""
	}
	row := s.biomes[len(s.biomes)/2]
	if len(row) == 0 {
		return ""
	}
	return row[len(row)/2]
}

// WorldX converts a grid-local x offset to a world coordinate.
func (s *WorldSlice) WorldX(localX int) int { return s.rect.X + localX }

// WorldZ converts a grid-local z offset to a world coordinate.
func (s *WorldSlice) WorldZ(localZ int) int { return s.rect.Z + localZ }
