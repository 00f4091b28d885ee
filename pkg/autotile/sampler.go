package autotile

import (
	"errors"
	"slices"

	"github.com/metalmario971/helix/pkg/mapgrid"
	"github.com/metalmario971/helix/pkg/tiles"
)

var ErrEmptySeamless = errors.New("seamless set must contain at least one tile id")

// Grid is the placement store sampled for neighbours. *mapgrid.Grid
// satisfies it.
type Grid interface {
	At(x, y int, layer tiles.LayerID) mapgrid.Placement
	TileAt(x, y int, layer tiles.LayerID) tiles.ID
}

// Area reports whether a tile belongs to the playable region.
// *region.Region satisfies it.
type Area interface {
	Contains(x, y int) bool
}

// Sampler reads 3x3 neighbourhoods.
type Sampler struct {
	Grid Grid
	Area Area
}

// Sample returns the neighbourhood of (x, y) on layer in row-major order.
// Cells outside the area count as present so tiling runs seamlessly into the
// region edge. Inside the area a cell is present when its tile is in
// seamless; with continueEmpty a raw NoTile counts as center.
func (s Sampler) Sample(x, y int, layer tiles.LayerID, center tiles.ID, seamless []tiles.ID, continueEmpty bool) ([]bool, error) {
	if len(seamless) == 0 {
		return nil, ErrEmptySeamless
	}
	arr := make([]bool, PatternSize)
	for j := -1; j <= 1; j++ {
		for i := -1; i <= 1; i++ {
			ind := (j+1)*3 + (i + 1)
			cx, cy := x+i, y+j
			if !s.Area.Contains(cx, cy) {
				arr[ind] = true
				continue
			}
			id := s.Grid.TileAt(cx, cy, layer)
			if id == tiles.NoTile && continueEmpty {
				id = center
			}
			arr[ind] = slices.Contains(seamless, id)
		}
	}
	return arr, nil
}
