// Package mapgrid converts the layered placement arrays of a map into
// internal tile and frame references and finds the player start.
package mapgrid

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/metalmario971/helix/pkg/diag"
	"github.com/metalmario971/helix/pkg/math"
	"github.com/metalmario971/helix/pkg/tiled"
	"github.com/metalmario971/helix/pkg/tiles"
)

var (
	ErrNoPlayerStart = errors.New("no player start tile found")
	ErrUnknownLayer  = errors.New("unknown layer name")
	ErrBadDimensions = errors.New("invalid grid dimensions")
	ErrLayerSize     = errors.New("layer size does not match grid")
)

// Placement is the content of one (x, y, layer) slot.
type Placement struct {
	Tile  tiles.ID
	Frame int
}

// EmptyPlacement is the value of every slot before the map is applied.
var EmptyPlacement = Placement{Tile: tiles.Empty}

// IsEmpty reports whether the slot holds no tile.
func (p Placement) IsEmpty() bool { return p.Tile == tiles.Empty }

// Lookup resolves external ids. *tiles.Registry satisfies it.
type Lookup interface {
	Lookup(ext tiles.ExternalID) (tiles.ID, bool)
	FrameIndex(ext tiles.ExternalID) int
	PlayerID() tiles.ID
}

// RawLayer is one layer of raw gids in row-major order.
type RawLayer struct {
	Layer tiles.LayerID
	GIDs  []tiled.GID
}

// Options customizes Build.
type Options struct {
	// FirstGID is subtracted from every non-zero gid to get the external
	// id. Zero means 1, the offset of a map with a single tileset.
	FirstGID int
}

// Grid holds every layer of a map, row-major within each layer.
type Grid struct {
	width, height int
	layers        [tiles.LayerCount][]Placement
	playerStart   *math.IVec2
}

// New returns a grid of the given size with every slot empty.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	g := &Grid{width: width, height: height}
	for i := range g.layers {
		g.layers[i] = make([]Placement, width*height)
		for j := range g.layers[i] {
			g.layers[i][j] = EmptyPlacement
		}
	}
	return g, nil
}

// Build allocates a grid and fills it from raw. Unresolvable ids are logged
// and left empty. The first placement of the player tile sets the player
// start; without one Build fails with ErrNoPlayerStart.
func Build(raw []RawLayer, width, height int, lookup Lookup, opts Options, log *diag.Log) (*Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}
	log = log.With("grid")

	firstGID := opts.FirstGID
	if firstGID <= 0 {
		firstGID = 1
	}
	player := lookup.PlayerID()
	missing := map[tiles.ExternalID]int{}

	for _, rl := range raw {
		if !rl.Layer.IsGrid() {
			return nil, fmt.Errorf("%w: %v is not a grid layer", ErrUnknownLayer, rl.Layer)
		}
		if len(rl.GIDs) != width*height {
			return nil, fmt.Errorf("%w: layer %v has %d slots, want %d", ErrLayerSize, rl.Layer, len(rl.GIDs), width*height)
		}
		for i, gid := range rl.GIDs {
			ext := tiles.ExternalID(int(gid.ID()) - firstGID)
			if ext < 0 {
				continue
			}
			id, ok := lookup.Lookup(ext)
			if !ok {
				missing[ext]++
				continue
			}
			p := Placement{Tile: id, Frame: lookup.FrameIndex(ext)}
			g.layers[rl.Layer][i] = p

			if id == player && g.playerStart == nil {
				xy := g.LinearToXY(i)
				g.playerStart = &xy
			}
		}
	}

	if len(missing) > 0 {
		ids := make([]int, 0, len(missing))
		for ext := range missing {
			ids = append(ids, int(ext))
		}
		sort.Ints(ids)
		log.Errorf("external tile ids with no definition were left empty: %v", ids)
	}

	if g.playerStart == nil {
		return nil, ErrNoPlayerStart
	}
	return g, nil
}

// FromTiled builds a grid from a parsed map. Every tile layer name must be
// a known grid layer; object groups are skipped. A zero opts.FirstGID uses
// the first gid of the map's first tileset.
func FromTiled(m *tiled.Map, lookup Lookup, opts Options, log *diag.Log) (*Grid, error) {
	var raw []RawLayer
	for i := range m.Layers {
		l := &m.Layers[i]
		if !l.IsTileLayer() {
			continue
		}
		id, err := tiles.ParseLayer(l.Name)
		if err != nil || !id.IsGrid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, l.Name)
		}
		gids, err := l.Tiles()
		if err != nil {
			return nil, err
		}
		raw = append(raw, RawLayer{Layer: id, GIDs: gids})
	}
	if opts.FirstGID <= 0 {
		opts.FirstGID = m.FirstGID()
	}
	return Build(raw, m.Width, m.Height, lookup, opts, log)
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) is on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// XYToLinear returns the row-major index of (x, y).
func (g *Grid) XYToLinear(x, y int) int {
	return y*g.width + x
}

// LinearToXY is the inverse of XYToLinear.
func (g *Grid) LinearToXY(i int) math.IVec2 {
	return math.IVec2{X: i % g.width, Y: i / g.width}
}

// PlayerStart returns the first player placement.
func (g *Grid) PlayerStart() (math.IVec2, bool) {
	if g.playerStart == nil {
		return math.IVec2{}, false
	}
	return *g.playerStart, true
}

// At returns the placement at (x, y, layer). Out-of-range slots are empty.
func (g *Grid) At(x, y int, layer tiles.LayerID) Placement {
	if !g.InBounds(x, y) || !layer.IsGrid() {
		return EmptyPlacement
	}
	return g.layers[layer][g.XYToLinear(x, y)]
}

// TileAt returns the tile id at (x, y, layer), Empty when out of range.
func (g *Grid) TileAt(x, y int, layer tiles.LayerID) tiles.ID {
	return g.At(x, y, layer).Tile
}

// Set replaces one placement. It reports false for out-of-range slots.
func (g *Grid) Set(x, y int, layer tiles.LayerID, p Placement) bool {
	if !g.InBounds(x, y) || !layer.IsGrid() {
		return false
	}
	g.layers[layer][g.XYToLinear(x, y)] = p
	return true
}

// HasTile reports whether any layer at (x, y) holds id.
func (g *Grid) HasTile(x, y int, id tiles.ID) bool {
	if !g.InBounds(x, y) {
		return false
	}
	i := g.XYToLinear(x, y)
	for l := range g.layers {
		if g.layers[l][i].Tile == id {
			return true
		}
	}
	return false
}

// Count returns how many slots across all layers hold id.
func (g *Grid) Count(id tiles.ID) int {
	n := 0
	for l := range g.layers {
		for _, p := range g.layers[l] {
			if p.Tile == id {
				n++
			}
		}
	}
	return n
}

// Summary lists every tile id on the grid with its slot count, ordered by id.
func (g *Grid) Summary() string {
	counts := map[tiles.ID]int{}
	for l := range g.layers {
		for _, p := range g.layers[l] {
			if !p.IsEmpty() {
				counts[p.Tile]++
			}
		}
	}
	ids := make([]tiles.ID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "[%v,%d]", id, counts[id])
	}
	return b.String()
}
