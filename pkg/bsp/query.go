package bsp

import (
	stdmath "math"

	"github.com/metalmario971/helix/pkg/math"
)

// Cell returns the cell at tile position pos, or nil.
func (t *Tree) Cell(pos math.IVec2) *Cell {
	id, ok := t.byPos[pos]
	if !ok {
		return nil
	}
	return &t.cells[id]
}

// CellForPoint descends from the root to the leaf containing p. Box edges
// are top/left inclusive and bottom/right exclusive.
func (t *Tree) CellForPoint(p math.Vec2) *Cell {
	n := &t.nodes[t.root]
	if !n.Box.ContainsPoint(p) {
		return nil
	}
	for range maxQuerySteps {
		if n.IsLeaf() {
			return &t.cells[n.Cell]
		}
		next := NoNode
		for _, c := range n.Children {
			if c != NoNode && t.nodes[c].Box.ContainsPoint(p) {
				next = c
				break
			}
		}
		if next == NoNode {
			return nil
		}
		n = &t.nodes[next]
	}
	return nil
}

// CellsForBox returns the cells overlapping b, padded by one tile on the
// far edges. Positions without a cell are skipped.
func (t *Tree) CellsForBox(b math.Box2) []*Cell {
	x := int(stdmath.Floor(float64(b.Min.X / t.tileW)))
	y := int(stdmath.Floor(float64(b.Min.Y / t.tileH)))
	w := int(stdmath.Ceil(float64(b.Width()/t.tileW))) + 1
	h := int(stdmath.Ceil(float64(b.Height()/t.tileH))) + 1

	var out []*Cell
	for iy := y; iy <= y+h; iy++ {
		for ix := x; ix <= x+w; ix++ {
			if c := t.Cell(math.IVec2{X: ix, Y: iy}); c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

// Neighbor returns the cell offset from c by (dx, dy) tiles, found by point
// query from the centre of the offset tile.
func (t *Tree) Neighbor(c *Cell, dx, dy int) *Cell {
	if c == nil {
		return nil
	}
	origin := t.nodes[c.Node].Box.Min
	p := math.Vec2{
		X: origin.X + t.tileW*float32(dx) + t.tileW*0.5,
		Y: origin.Y + t.tileH*float32(dy) + t.tileH*0.5,
	}
	return t.CellForPoint(p)
}

// Surrounding returns the 3x3 neighbourhood of c in row-major order with c
// at index 4. Diagonal slots stay nil unless corners is set.
func (t *Tree) Surrounding(c *Cell, corners bool) [9]*Cell {
	var out [9]*Cell
	out[4] = c
	if c == nil {
		return out
	}
	for j := -1; j <= 1; j++ {
		for i := -1; i <= 1; i++ {
			if i == 0 && j == 0 {
				continue
			}
			if !corners && i != 0 && j != 0 {
				continue
			}
			out[(j+1)*3+(i+1)] = t.Neighbor(c, i, j)
		}
	}
	return out
}

// CellBox returns the world box of c.
func (t *Tree) CellBox(c *Cell) math.Box2 {
	return t.nodes[c.Node].Box
}

// AreaPos returns the position of c relative to the top-left of the tree.
func (t *Tree) AreaPos(c *Cell) math.IVec2 {
	return c.Pos.Sub(t.origin)
}
