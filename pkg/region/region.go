// Package region finds the playable area around a start point by flood
// filling through every tile that is not a border tile.
package region

import (
	"errors"
	"fmt"
	"sort"

	"github.com/metalmario971/helix/pkg/diag"
	"github.com/metalmario971/helix/pkg/math"
	"github.com/metalmario971/helix/pkg/tiles"
)

// DefaultMaxTiles is the interior size above which a region is assumed to
// have leaked through a gap in its border.
const DefaultMaxTiles = 10000

var (
	ErrEmptyRegion      = errors.New("region has no interior tiles")
	ErrRegionTooLarge   = errors.New("region exceeds the interior tile limit")
	ErrDegenerateRegion = errors.New("region bounding box is degenerate")
)

// Source is the grid the fill runs over. *mapgrid.Grid satisfies it.
type Source interface {
	Width() int
	Height() int
	HasTile(x, y int, id tiles.ID) bool
}

// Options customizes Extract.
type Options struct {
	// MaxTiles overrides DefaultMaxTiles when positive.
	MaxTiles int
}

// Region is one flood-filled playable area.
type Region struct {
	// Min and Max bound the interior, both inclusive.
	Min, Max math.IVec2

	interior map[math.IVec2]struct{}
	border   map[math.IVec2]struct{}
}

// Extract fills from start. Border tiles are recorded but not crossed, and
// each one also pulls in its axis neighbours that are border tiles, so
// border corners are captured. A region with no border is only logged.
func Extract(src Source, borderID tiles.ID, start math.IVec2, opts Options, log *diag.Log) (*Region, error) {
	log = log.With("region")
	maxTiles := opts.MaxTiles
	if maxTiles <= 0 {
		maxTiles = DefaultMaxTiles
	}

	r := &Region{
		interior: make(map[math.IVec2]struct{}),
		border:   make(map[math.IVec2]struct{}),
	}
	w, h := src.Width(), src.Height()
	inBounds := func(p math.IVec2) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h
	}
	isBorder := func(p math.IVec2) bool {
		return inBounds(p) && src.HasTile(p.X, p.Y, borderID)
	}

	probed := make(map[math.IVec2]struct{})
	first := true
	stack := []math.IVec2{start}
	for len(stack) > 0 {
		pt := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !inBounds(pt) {
			continue
		}
		if _, seen := r.interior[pt]; seen {
			continue
		}

		if isBorder(pt) {
			// A tile already recorded by a neighbour's probe still runs its own.
			if _, done := probed[pt]; done {
				continue
			}
			probed[pt] = struct{}{}
			r.border[pt] = struct{}{}
			for _, n := range pt.Neighbors4() {
				if isBorder(n) {
					r.border[n] = struct{}{}
				}
			}
			continue
		}

		r.interior[pt] = struct{}{}
		if first {
			r.Min, r.Max = pt, pt
			first = false
		} else {
			r.Min.X, r.Min.Y = min(r.Min.X, pt.X), min(r.Min.Y, pt.Y)
			r.Max.X, r.Max.Y = max(r.Max.X, pt.X), max(r.Max.Y, pt.Y)
		}
		for _, n := range pt.Neighbors4() {
			stack = append(stack, n)
		}
	}

	if len(r.interior) == 0 {
		return nil, fmt.Errorf("%w: start %v", ErrEmptyRegion, start)
	}
	if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y {
		return nil, fmt.Errorf("%w: min %v max %v", ErrDegenerateRegion, r.Min, r.Max)
	}
	if len(r.interior) > maxTiles {
		return nil, fmt.Errorf("%w: %d tiles, limit %d (missing border or portal?)", ErrRegionTooLarge, len(r.interior), maxTiles)
	}
	if len(r.border) == 0 {
		log.Errorf("did not find any region border tiles")
	}

	log.Debugf("region: %d interior, %d border, bounds %v-%v", len(r.interior), len(r.border), r.Min, r.Max)
	return r, nil
}

// Contains reports whether (x, y) is an interior tile.
func (r *Region) Contains(x, y int) bool {
	_, ok := r.interior[math.IVec2{X: x, Y: y}]
	return ok
}

// IsBorder reports whether (x, y) is a recorded border tile.
func (r *Region) IsBorder(x, y int) bool {
	_, ok := r.border[math.IVec2{X: x, Y: y}]
	return ok
}

// WidthTiles returns the bounding box width.
func (r *Region) WidthTiles() int { return r.Max.X - r.Min.X + 1 }

// HeightTiles returns the bounding box height.
func (r *Region) HeightTiles() int { return r.Max.Y - r.Min.Y + 1 }

// Len returns the number of interior tiles.
func (r *Region) Len() int { return len(r.interior) }

// BorderLen returns the number of border tiles.
func (r *Region) BorderLen() int { return len(r.border) }

// Interior returns the interior tiles in row-major order.
func (r *Region) Interior() []math.IVec2 { return sortedPoints(r.interior) }

// Border returns the border tiles in row-major order.
func (r *Region) Border() []math.IVec2 { return sortedPoints(r.border) }

// Bounds returns the bounding box in world units for the given tile size.
func (r *Region) Bounds(tileW, tileH float32) math.Box2 {
	return math.NewBox2(
		r.Min.ToWorld(tileW, tileH),
		r.Max.Add(math.IVec2{X: 1, Y: 1}).ToWorld(tileW, tileH),
	)
}

func sortedPoints(set map[math.IVec2]struct{}) []math.IVec2 {
	out := make([]math.IVec2, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
