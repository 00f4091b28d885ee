package autotile

import (
	"math/rand/v2"

	"github.com/metalmario971/helix/pkg/bsp"
	"github.com/metalmario971/helix/pkg/diag"
	"github.com/metalmario971/helix/pkg/mapgrid"
	"github.com/metalmario971/helix/pkg/math"
	"github.com/metalmario971/helix/pkg/tiles"
)

// Definitions is the registry view the resolver needs. *tiles.Registry
// satisfies it.
type Definitions interface {
	Get(id tiles.ID) *tiles.Definition
	SpritePool(id tiles.ID) *tiles.RandomSet[tiles.ID]
	FramePool(id tiles.ID) *tiles.RandomSet[int]
	BorderID() tiles.ID
}

// Resolution is the tile and frame drawn for one placement. Random sprite
// tiling may swap the tile for another member of its pool.
type Resolution struct {
	Tile  tiles.ID
	Frame int
}

// Resolver turns grid placements into drawable blocks.
type Resolver struct {
	defs    Definitions
	grid    Grid
	sampler Sampler
	rng     *rand.Rand
	log     *diag.Log
}

// NewResolver returns a resolver whose random choices are reproducible for
// a given seed and resolution order.
func NewResolver(defs Definitions, grid Grid, area Area, seed uint64, log *diag.Log) *Resolver {
	return &Resolver{
		defs:    defs,
		grid:    grid,
		sampler: Sampler{Grid: grid, Area: area},
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		log:     log.With("autotile"),
	}
}

// ResolveCell returns the blocks of every layer at pos, lowest layer first.
// Empty slots and border tiles produce nothing; only cell tiles are drawn.
func (r *Resolver) ResolveCell(pos math.IVec2) []bsp.TileBlock {
	var out []bsp.TileBlock
	border := r.defs.BorderID()
	for layer := tiles.LayerID(0); layer < tiles.LayerCount; layer++ {
		p := r.grid.At(pos.X, pos.Y, layer)
		if p.IsEmpty() || p.Tile == border {
			continue
		}
		def := r.defs.Get(p.Tile)
		if def == nil {
			r.log.Errorf("could not find tile definition for id %v at %v", p.Tile, pos)
			continue
		}
		if def.Kind != tiles.KindCellTile {
			continue
		}
		res, ok := r.Resolve(pos.X, pos.Y, layer, p)
		if !ok {
			continue
		}
		out = append(out, bsp.TileBlock{Tile: res.Tile, Frame: res.Frame, Layer: layer})
	}
	return out
}

// Resolve picks the frame for placement p at (x, y, layer) according to the
// tiling mode of its definition. It reports false when no frame could be
// chosen.
func (r *Resolver) Resolve(x, y int, layer tiles.LayerID, p mapgrid.Placement) (Resolution, bool) {
	def := r.defs.Get(p.Tile)
	if def == nil {
		r.log.Errorf("could not find tile definition for id %v", p.Tile)
		return Resolution{}, false
	}

	res := Resolution{Tile: def.ID, Frame: -1}
	switch def.Tiling {
	case tiles.TilingNone:
		res.Frame = p.Frame
	case tiles.TilingRandomSprite:
		pool := r.defs.SpritePool(def.ID)
		if pool == nil {
			r.log.Errorf("random set for sprite %q was not found", def.Name)
			break
		}
		id, ok := pool.Select(r.rng)
		if !ok {
			r.log.Errorf("could not select random sprite for %q", def.Name)
			break
		}
		if sel := r.defs.Get(id); sel != nil {
			def = sel
			res.Tile = sel.ID
			res.Frame = r.randomFrame(sel)
		}
	case tiles.TilingRandomFrame:
		res.Frame = r.randomFrame(def)
	case tiles.TilingFoliage:
		res.Frame = r.foliage(x, y, layer, def.ID)
	case tiles.TilingFence:
		res.Frame = r.match(Fence, x, y, layer, def.ID)
	case tiles.TilingHardBorder:
		below := layer - 1
		tileBelow := r.grid.TileAt(x, y, below)
		res.Frame = r.match(HardBorder, x, y, below, tileBelow)
	case tiles.TilingDock:
		res.Frame = r.dock(x, y, layer, def.ID)
	default:
		r.log.Errorf("invalid tiling %v for sprite %q", def.Tiling, def.Name)
	}

	if res.Frame >= def.FrameCount() {
		r.log.Errorf("invalid keyframe %d for tile sprite %q (%d frames)", res.Frame, def.Name, def.FrameCount())
		res.Frame = 0
	}
	return res, res.Frame >= 0
}

// Index3x3 matches the neighbourhood against the block or the seamless
// table.
func (r *Resolver) Index3x3(x, y int, layer tiles.LayerID, id tiles.ID, seamless []tiles.ID, continueEmpty, block bool) (int, error) {
	arr, err := r.sampler.Sample(x, y, layer, id, seamless, continueEmpty)
	if err != nil {
		return DefaultResult, err
	}
	lib := Seamless3x3
	if block {
		lib = Block3x3
	}
	return lib.Match(arr, DefaultResult)
}

func (r *Resolver) randomFrame(def *tiles.Definition) int {
	pool := r.defs.FramePool(def.ID)
	if pool == nil {
		r.log.Errorf("random frame set for sprite %q was not found", def.Name)
		return -1
	}
	frame, ok := pool.Select(r.rng)
	if !ok {
		r.log.Errorf("did not select a valid keyframe for sprite %q", def.Name)
		return -1
	}
	return frame
}

func (r *Resolver) sample(x, y int, layer tiles.LayerID, id tiles.ID) []bool {
	arr, err := r.sampler.Sample(x, y, layer, id, []tiles.ID{id}, true)
	if err != nil {
		r.log.Errorf("sampling (%d,%d): %v", x, y, err)
		return nil
	}
	return arr
}

func (r *Resolver) match(lib *Library, x, y int, layer tiles.LayerID, id tiles.ID) int {
	arr := r.sample(x, y, layer, id)
	if arr == nil {
		return -1
	}
	frame, err := lib.Match(arr, DefaultResult)
	if err != nil {
		r.log.Errorf("%s pattern at (%d,%d): %v", lib.Name, x, y, err)
		return -1
	}
	return frame
}

// foliage places two-by-two trees on even/odd tile parity and falls back to
// a bush (frame 2) where the tree does not fit.
func (r *Resolver) foliage(x, y int, layer tiles.LayerID, id tiles.ID) int {
	arr := r.sample(x, y, layer, id)
	if arr == nil {
		return -1
	}
	xEven, yEven := x%2 == 0, y%2 == 0
	switch {
	case xEven && yEven:
		if arr[5] && arr[7] && arr[8] {
			return 0
		}
	case !xEven && yEven:
		if arr[3] && arr[7] && arr[6] {
			return 1
		}
	case xEven && !yEven:
		if arr[1] && arr[5] && arr[2] {
			return 3
		}
	default:
		if arr[1] && arr[3] && arr[0] {
			return 4
		}
	}
	return 2
}

func (r *Resolver) dock(x, y int, layer tiles.LayerID, id tiles.ID) int {
	arr := r.sample(x, y, layer, id)
	if arr == nil {
		return -1
	}
	h := arr[3] && arr[5]
	v := arr[1] && arr[7]
	// TODO: choose frame 1 for vertical docks once the dock sheets carry a
	// vertical frame; every dock currently draws frame 0.
	r.log.Debugf("dock at (%d,%d): horizontal=%v vertical=%v", x, y, h, v)
	return 0
}
